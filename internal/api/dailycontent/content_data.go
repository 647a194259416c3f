package dailycontent

import "github.com/luisbelezaPF-sys/encontroDeus/internal/types"

// Local rotation lists. Selection is day-of-month mod len, so the cycle
// repeats every month by design of the product, not as an accident.
var localVerses = []types.Verse{
	{Referencia: "João 3:16", Texto: "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito, para que todo aquele que nele crê não pereça, mas tenha a vida eterna."},
	{Referencia: "Filipenses 4:13", Texto: "Posso todas as coisas em Cristo que me fortalece."},
	{Referencia: "Jeremias 29:11", Texto: "Porque eu bem sei os pensamentos que tenho a vosso respeito, diz o SENHOR; pensamentos de paz e não de mal, para vos dar o fim que esperais."},
	{Referencia: "Salmos 23:1", Texto: "O SENHOR é o meu pastor; nada me faltará."},
	{Referencia: "Romanos 8:28", Texto: "E sabemos que todas as coisas contribuem juntamente para o bem daqueles que amam a Deus."},
	{Referencia: "Isaías 40:31", Texto: "Mas os que esperam no SENHOR renovarão as suas forças; subirão com asas como águias; correrão, e não se cansarão; caminharão, e não se fatigarão."},
	{Referencia: "Mateus 11:28", Texto: "Vinde a mim, todos os que estais cansados e oprimidos, e eu vos aliviarei."},
}

var biblicalFigures = []types.Figure{
	{
		Nome:                 "Abraão",
		Descricao:            "Pai da fé, obediente a Deus em todas as circunstâncias.",
		Historia:             "Abraão deixou sua terra natal por fé, confiando na promessa de Deus. Sua obediência foi testada quando Deus pediu que sacrificasse seu filho Isaque, mas sua fé permaneceu inabalável.",
		VersiculoRelacionado: "Hebreus 11:8 - Pela fé Abraão, sendo chamado, obedeceu, indo para um lugar que havia de receber por herança; e saiu, sem saber para onde ia.",
	},
	{
		Nome:                 "Moisés",
		Descricao:            "Líder que conduziu Israel à liberdade do Egito.",
		Historia:             "Moisés foi escolhido por Deus para libertar o povo de Israel da escravidão no Egito. Através dele, Deus realizou grandes milagres e entregou os Dez Mandamentos.",
		VersiculoRelacionado: "Êxodo 14:13 - Moisés, porém, disse ao povo: Não temais; estai quietos e vede o livramento do SENHOR.",
	},
	{
		Nome:                 "Davi",
		Descricao:            "Rei segundo o coração de Deus, salmista e guerreiro.",
		Historia:             "Davi foi ungido rei ainda jovem, venceu o gigante Golias e se tornou o maior rei de Israel. Apesar de seus erros, sempre buscou o perdão e a presença de Deus.",
		VersiculoRelacionado: "1 Samuel 16:7 - O SENHOR não vê como vê o homem, pois o homem vê o que está diante dos olhos, porém o SENHOR olha para o coração.",
	},
	{
		Nome:                 "Maria",
		Descricao:            "Mãe de Jesus, exemplo de humildade e fé.",
		Historia:             "Maria aceitou com humildade o chamado de Deus para ser a mãe do Salvador. Sua fé e obediência são exemplos para todos os cristãos.",
		VersiculoRelacionado: "Lucas 1:38 - Disse então Maria: Eis aqui a serva do Senhor; cumpra-se em mim segundo a tua palavra.",
	},
	{
		Nome:                 "Paulo",
		Descricao:            "Apóstolo que espalhou o Evangelho pelo mundo.",
		Historia:             "Paulo, antes perseguidor dos cristãos, teve um encontro transformador com Jesus e se tornou o maior missionário da história, escrevendo grande parte do Novo Testamento.",
		VersiculoRelacionado: "Filipenses 4:13 - Posso todas as coisas em Cristo que me fortalece.",
	},
	{
		Nome:                 "José",
		Descricao:            "Exemplo de perdão e fidelidade a Deus.",
		Historia:             "José foi vendido como escravo pelos próprios irmãos, mas manteve sua fé em Deus. Tornou-se governador do Egito e salvou sua família da fome, perdoando aqueles que o traíram.",
		VersiculoRelacionado: "Gênesis 50:20 - Vós bem intentastes mal contra mim, porém Deus o intentou para bem.",
	},
	{
		Nome:                 "Ester",
		Descricao:            "Rainha corajosa que salvou seu povo.",
		Historia:             "Ester arriscou sua vida para salvar o povo judeu da destruição. Sua coragem e fé em Deus mudaram o destino de uma nação inteira.",
		VersiculoRelacionado: "Ester 4:14 - Quem sabe se para tal tempo como este chegaste a este reino?",
	},
}

// verseOfDay picks the local verse for a day of month.
func verseOfDay(dayOfMonth int) types.Verse {
	return localVerses[dayOfMonth%len(localVerses)]
}

// figureOfDay picks the biographical figure for a day of month.
func figureOfDay(dayOfMonth int) types.Figure {
	return biblicalFigures[dayOfMonth%len(biblicalFigures)]
}
