package envelope

import "time"

// Status do envelope. Os valores são os tokens estáveis expostos na API.
const (
	StatusRascunho   = "Draft"
	StatusAguardando = "AwaitingSignatures"
	StatusParcial    = "PartiallySigned"
	StatusConcluido  = "Completed"
	StatusCancelado  = "Cancelled"
	StatusExpirado   = "Expired"
)

// Status individual de cada signatário.
const (
	SignatarioPendente = "Pending"
	SignatarioAssinado = "Signed"
	SignatarioRecusado = "Declined"
	SignatarioExpirado = "Expired"
)

// Papéis aceitos para um signatário.
const (
	PapelCliente    = "client"
	PapelAdvogado   = "lawyer"
	PapelTestemunha = "witness"
	PapelAdmin      = "admin"
)

// Envelope representa um documento aguardando uma ou mais assinaturas.
// Estados terminais (Completed, Cancelled) são mantidos para auditoria;
// envelopes nunca são apagados.
type Envelope struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	DocumentoID     string     `gorm:"size:36;not null;index" json:"documentoId"`
	TituloDocumento string     `json:"tituloDocumento"`
	TipoDocumento   string     `gorm:"size:50;index" json:"tipoDocumento"`
	ProcessoID      string     `gorm:"size:36" json:"processoId,omitempty"`
	Status          string     `gorm:"size:30;index" json:"status"`
	CriadoEm        time.Time  `json:"criadoEm"`
	ConcluidoEm     *time.Time `json:"concluidoEm,omitempty"`
	ValidoAte       *time.Time `json:"validoAte,omitempty"`
	HashDocumento   string     `json:"hashDocumento"`
	VersaoDocumento int        `json:"versaoDocumento"`

	// Ordem de inserção; não impõe assinatura sequencial.
	Signatarios []Signatario `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE" json:"signatarios"`
}

// Signatario é a participação de uma parte dentro de um envelope.
type Signatario struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	EnvelopeID string `gorm:"size:36;index" json:"-"`
	Ordem      int    `json:"ordem"`

	UsuarioID string `gorm:"size:36;index" json:"usuarioId"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Papel     string `gorm:"size:20" json:"papel"`

	Status       string     `gorm:"size:20" json:"status"`
	AssinadoEm   *time.Time `json:"assinadoEm,omitempty"`
	IPAssinatura string     `json:"ipAssinatura,omitempty"`
	Artefato     string     `json:"artefato,omitempty"` // token opaco da assinatura
	MotivoRecusa string     `json:"motivoRecusa,omitempty"`
}

// PapelValido informa se o papel é um dos aceitos.
func PapelValido(papel string) bool {
	switch papel {
	case PapelCliente, PapelAdvogado, PapelTestemunha, PapelAdmin:
		return true
	}
	return false
}

// Terminal informa se o envelope está num estado que não aceita mais
// ações de signatário.
func (e *Envelope) Terminal() bool {
	switch e.Status {
	case StatusConcluido, StatusCancelado, StatusExpirado:
		return true
	}
	return false
}

// Clonar devolve uma cópia profunda do envelope, para que chamadores
// nunca enxerguem (nem alterem) o estado interno dos stores.
func (e *Envelope) Clonar() *Envelope {
	c := *e
	c.ConcluidoEm = clonarTempo(e.ConcluidoEm)
	c.ValidoAte = clonarTempo(e.ValidoAte)
	c.Signatarios = make([]Signatario, len(e.Signatarios))
	for i, s := range e.Signatarios {
		s.AssinadoEm = clonarTempo(s.AssinadoEm)
		c.Signatarios[i] = s
	}
	return &c
}

func clonarTempo(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
