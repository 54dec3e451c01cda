package auditoria

import "time"

// Evento é o registro imutável de uma transição de estado do sistema
// (ação de signatário, aceite/revogação de consentimento, cancelamento).
type Evento struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	EntidadeID   string    `gorm:"size:36;index" json:"entidadeId"`
	AtorID       string    `gorm:"size:36" json:"atorId"`
	Acao         string    `gorm:"size:60;index" json:"acao"`
	Detalhe      string    `json:"detalhe"`
	RegistradoEm time.Time `json:"registradoEm"`
}

// Ações emitidas pelo coordenador de assinaturas e pelo ledger de consentimentos.
const (
	AcaoEnvelopeCriado        = "envelope.criado"
	AcaoEnvelopeAssinado      = "envelope.assinado"
	AcaoEnvelopeRecusado      = "envelope.recusado"
	AcaoEnvelopeCancelado     = "envelope.cancelado"
	AcaoEnvelopeExpirado      = "envelope.expirado"
	AcaoConsentimentoAceito   = "consentimento.aceito"
	AcaoConsentimentoRevogado = "consentimento.item-revogado"
)

// Sink recebe eventos de auditoria de forma síncrona, sempre após o commit
// da mutação correspondente. Falhas de entrega não revertem a mutação.
type Sink interface {
	Registrar(ev Evento)
}
