package documento

import "time"

// Tipos de documento aceitos pela plataforma.
const (
	TipoContrato   = "contract"
	TipoProcuracao = "powerOfAttorney"
	TipoPeticao    = "petition"
	TipoAcordo     = "settlement"
	TipoOutro      = "other"
)

// Documento é a referência de catálogo usada para montar um envelope.
// O conteúdo em si fica no serviço de armazenamento; aqui só metadados.
type Documento struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	Titulo   string    `gorm:"not null" json:"titulo"`
	Tipo     string    `gorm:"size:50;not null" json:"tipo"`
	Versao   int       `json:"versao"`
	Hash     string    `json:"hash"`
	CriadoEm time.Time `json:"criadoEm"`
}

// TipoValido informa se o tipo de documento é um dos aceitos.
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoContrato, TipoProcuracao, TipoPeticao, TipoAcordo, TipoOutro:
		return true
	}
	return false
}
