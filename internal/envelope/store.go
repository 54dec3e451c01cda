package envelope

import (
	"fmt"
	"sync"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
)

// Store guarda envelopes sem aplicar nenhuma regra de negócio; toda a
// validação de transições é do Coordenador. Implementações devolvem
// cópias — o chamador nunca enxerga o estado interno.
type Store interface {
	Salvar(e *Envelope) error
	BuscarPorID(id string) (*Envelope, error)
	ListarTodos() ([]Envelope, error)
}

// StoreMemoria guarda envelopes num mapa por id, preservando a ordem de
// inserção na listagem.
type StoreMemoria struct {
	mu    sync.RWMutex
	porID map[string]*Envelope
	ordem []string
}

func NovoStoreMemoria() *StoreMemoria {
	return &StoreMemoria{porID: map[string]*Envelope{}}
}

func (s *StoreMemoria) Salvar(e *Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existe := s.porID[e.ID]; !existe {
		s.ordem = append(s.ordem, e.ID)
	}
	s.porID[e.ID] = e.Clonar()
	return nil
}

func (s *StoreMemoria) BuscarPorID(id string) (*Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.porID[id]
	if !ok {
		return nil, fmt.Errorf("%w: envelope %s", erros.ErrNaoEncontrado, id)
	}
	return e.Clonar(), nil
}

func (s *StoreMemoria) ListarTodos() ([]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lista := make([]Envelope, 0, len(s.ordem))
	for _, id := range s.ordem {
		lista = append(lista, *s.porID[id].Clonar())
	}
	return lista, nil
}
