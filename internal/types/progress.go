package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProgressAction is a tracked engagement action.
type ProgressAction string

const (
	ActionVerseRead      ProgressAction = "versiculo_lido"
	ActionPrayerDone     ProgressAction = "oracao_feita"
	ActionReflectionRead ProgressAction = "reflexao_lida"
)

// ValidProgressAction reports whether a is one of the tracked actions.
func ValidProgressAction(a ProgressAction) bool {
	switch a {
	case ActionVerseRead, ActionPrayerDone, ActionReflectionRead:
		return true
	}
	return false
}

// ProgressRecord is a row in progresso, one per user, upserted on user_id.
type ProgressRecord struct {
	UserID           uuid.UUID `json:"user_id"`
	VersiculosLidos  int       `json:"versiculos_lidos"`
	OracoesFeitas    int       `json:"oracoes_feitas"`
	ReflexoesLidas   int       `json:"reflexoes_lidas"`
	DiasConsecutivos int       `json:"dias_consecutivos"`
	UltimaAtividade  time.Time `json:"ultima_atividade"`
}

// Score derives the bounded composite progress score written back to
// users_meta.progresso_biblico.
func (p ProgressRecord) Score() int {
	score := p.VersiculosLidos*2 + p.OracoesFeitas*3 + p.ReflexoesLidas*5 + p.DiasConsecutivos
	if score > 100 {
		return 100
	}
	return score
}

func (p ProgressRecord) String() string {
	return fmt.Sprintf("progress{user=%s verses=%d prayers=%d reflections=%d streak=%d}",
		p.UserID, p.VersiculosLidos, p.OracoesFeitas, p.ReflexoesLidas, p.DiasConsecutivos)
}
