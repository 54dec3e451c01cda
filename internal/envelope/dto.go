package envelope

import (
	"strings"
	"time"
)

// NovoSignatarioDTO descreve uma parte a incluir num envelope novo.
type NovoSignatarioDTO struct {
	UsuarioID string `json:"usuarioId"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Papel     string `json:"papel"`
}

// NovoEnvelopeDTO é o payload de criação de envelope. Título, tipo, versão
// e hash do documento vêm do resolvedor de documentos, não do chamador.
type NovoEnvelopeDTO struct {
	DocumentoID string              `json:"documentoId"`
	ProcessoID  string              `json:"processoId"`
	Signatarios []NovoSignatarioDTO `json:"signatarios"`
	ValidoAte   *time.Time          `json:"validoAte"`
}

// Filtro delimita a listagem de envelopes. Campos vazios não filtram.
type Filtro struct {
	Status    []string
	Tipos     []string
	CriadoDe  *time.Time // inclusivo
	CriadoAte *time.Time // inclusivo
	Texto     string     // busca em título e em nome/e-mail dos signatários
}

// Combina informa se o envelope satisfaz todos os critérios do filtro.
func (f Filtro) Combina(e *Envelope) bool {
	if len(f.Status) > 0 && !contem(f.Status, e.Status) {
		return false
	}
	if len(f.Tipos) > 0 && !contem(f.Tipos, e.TipoDocumento) {
		return false
	}
	if f.CriadoDe != nil && e.CriadoEm.Before(*f.CriadoDe) {
		return false
	}
	if f.CriadoAte != nil && e.CriadoEm.After(*f.CriadoAte) {
		return false
	}
	if f.Texto != "" && !combinaTexto(e, f.Texto) {
		return false
	}
	return true
}

func contem(lista []string, v string) bool {
	for _, s := range lista {
		if s == v {
			return true
		}
	}
	return false
}

func combinaTexto(e *Envelope, texto string) bool {
	t := strings.ToLower(texto)
	if strings.Contains(strings.ToLower(e.TituloDocumento), t) {
		return true
	}
	for _, s := range e.Signatarios {
		if strings.Contains(strings.ToLower(s.Nome), t) ||
			strings.Contains(strings.ToLower(s.Email), t) {
			return true
		}
	}
	return false
}
