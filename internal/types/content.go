package types

import "time"

// Verse is one daily scripture entry (versiculos), one row per calendar date.
type Verse struct {
	Referencia string    `json:"referencia"`
	Texto      string    `json:"texto"`
	Data       time.Time `json:"data"`
}

// Figure is the biographical figure of the day (personagens_biblicos).
type Figure struct {
	Nome                 string    `json:"nome"`
	Descricao            string    `json:"descricao"`
	Historia             string    `json:"historia"`
	VersiculoRelacionado string    `json:"versiculo_relacionado"`
	Data                 time.Time `json:"data"`
}

// Reflection is the generated meditation over the day's verse (reflexoes).
type Reflection struct {
	Texto string    `json:"texto"`
	Data  time.Time `json:"data"`
}

// DailyContent is the verse + figure + reflection triple shared by every user
// on a given calendar date.
type DailyContent struct {
	Verse      Verse      `json:"versiculo"`
	Figure     Figure     `json:"personagem"`
	Reflection Reflection `json:"reflexao"`
}
