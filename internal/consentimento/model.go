package consentimento

import "time"

// Status do registro de consentimento. Pending, Rejected e Expired são
// aceitos como entrada (exibição e filtro), mas as operações do ledger só
// produzem Accepted e Revoked.
const (
	StatusPendente  = "Pending"
	StatusAceito    = "Accepted"
	StatusRejeitado = "Rejected"
	StatusRevogado  = "Revoked"
	StatusExpirado  = "Expired"
)

// Finalidades de consentimento reconhecidas pela plataforma.
const (
	FinalidadeTermosDeUso         = "usageTerms"
	FinalidadePoliticaPrivacidade = "privacyPolicy"
	FinalidadeConsentimentoLGPD   = "lgpdConsent"
	FinalidadeCompartilhamento    = "dataSharing"
	FinalidadeComunicacao         = "marketing"
)

// Registro é um evento de aceite imutável: um novo aceite do mesmo usuário
// para a mesma finalidade gera um registro novo, nunca altera o anterior.
type Registro struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UsuarioID  string     `gorm:"size:36;not null;index" json:"usuarioId"`
	Nome       string     `json:"nome"`
	Email      string     `json:"email"`
	Versao     string     `gorm:"size:20" json:"versao"`
	Finalidade string     `gorm:"size:40;index" json:"finalidade"`
	Status     string     `gorm:"size:20;index" json:"status"`
	AceitoEm   time.Time  `json:"aceitoEm"`
	ExpiraEm   time.Time  `json:"expiraEm"`
	RevogadoEm *time.Time `json:"revogadoEm,omitempty"`
	IPAceite   string     `json:"ipAceite"`
	UserAgent  string     `json:"userAgent"`
	Hash       string     `json:"hash"`

	Itens []Item `gorm:"foreignKey:RegistroID;constraint:OnDelete:CASCADE" json:"itens"`
}

// Item é uma cláusula individualmente revogável dentro de um registro.
type Item struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	RegistroID  string     `gorm:"size:36;index" json:"-"`
	Tag         string     `gorm:"size:60" json:"tag"`
	Descricao   string     `json:"descricao"`
	Obrigatorio bool       `json:"obrigatorio"`
	Aceito      bool       `json:"aceito"`
	AceitoEm    *time.Time `json:"aceitoEm,omitempty"`
	RevogadoEm  *time.Time `json:"revogadoEm,omitempty"`
}

// FinalidadeValida informa se a finalidade é uma das reconhecidas.
func FinalidadeValida(f string) bool {
	switch f {
	case FinalidadeTermosDeUso, FinalidadePoliticaPrivacidade,
		FinalidadeConsentimentoLGPD, FinalidadeCompartilhamento,
		FinalidadeComunicacao:
		return true
	}
	return false
}

// Clonar devolve uma cópia profunda do registro.
func (r *Registro) Clonar() *Registro {
	c := *r
	if r.RevogadoEm != nil {
		v := *r.RevogadoEm
		c.RevogadoEm = &v
	}
	c.Itens = make([]Item, len(r.Itens))
	for i, it := range r.Itens {
		if it.AceitoEm != nil {
			v := *it.AceitoEm
			it.AceitoEm = &v
		}
		if it.RevogadoEm != nil {
			v := *it.RevogadoEm
			it.RevogadoEm = &v
		}
		c.Itens[i] = it
	}
	return &c
}
