package estatisticas

import (
	"math"

	"github.com/NexoJuridico/api-assinatura/internal/consentimento"
	"github.com/NexoJuridico/api-assinatura/internal/envelope"
)

// Resumo é a visão derivada dos dois stores. Os valores nunca são
// persistidos nem mantidos incrementalmente; cada consulta recalcula tudo
// a partir da fonte da verdade.
type Resumo struct {
	TotalEnvelopes       int `json:"totalEnvelopes"`
	EnvelopesAguardando  int `json:"envelopesAguardando"`
	EnvelopesConcluidos  int `json:"envelopesConcluidos"`
	EnvelopesCancelados  int `json:"envelopesCancelados"`
	MediaHorasAssinatura int `json:"mediaHorasAssinatura"`
	TaxaConclusao        int `json:"taxaConclusao"` // percentual arredondado
	ConsentimentosAtivos int `json:"consentimentosAtivos"`
	ItensRevogados       int `json:"itensRevogados"`
}

// Servico calcula o resumo sob demanda. Somente leitura.
type Servico struct {
	envelopes      envelope.Store
	consentimentos consentimento.Store
}

func NovoServico(envelopes envelope.Store, consentimentos consentimento.Store) *Servico {
	return &Servico{envelopes: envelopes, consentimentos: consentimentos}
}

func (s *Servico) Calcular() (*Resumo, error) {
	envs, err := s.envelopes.ListarTodos()
	if err != nil {
		return nil, err
	}
	registros, err := s.consentimentos.ListarTodos()
	if err != nil {
		return nil, err
	}

	resumo := &Resumo{TotalEnvelopes: len(envs)}
	var horas float64
	for _, e := range envs {
		switch e.Status {
		case envelope.StatusAguardando:
			resumo.EnvelopesAguardando++
		case envelope.StatusConcluido:
			resumo.EnvelopesConcluidos++
			if e.ConcluidoEm != nil {
				horas += e.ConcluidoEm.Sub(e.CriadoEm).Hours()
			}
		case envelope.StatusCancelado:
			resumo.EnvelopesCancelados++
		}
	}
	if resumo.EnvelopesConcluidos > 0 {
		resumo.MediaHorasAssinatura = int(math.Round(horas / float64(resumo.EnvelopesConcluidos)))
	}
	if resumo.TotalEnvelopes > 0 {
		resumo.TaxaConclusao = int(math.Round(100 * float64(resumo.EnvelopesConcluidos) / float64(resumo.TotalEnvelopes)))
	}

	for _, r := range registros {
		if r.Status == consentimento.StatusAceito {
			resumo.ConsentimentosAtivos++
		}
		for _, it := range r.Itens {
			if it.RevogadoEm != nil {
				resumo.ItensRevogados++
			}
		}
	}
	return resumo, nil
}
