package consentimento

import (
	"fmt"
	"sync"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
)

// Store guarda registros de consentimento sem regra de negócio; as
// transições são todas do Ledger. Implementações devolvem cópias.
type Store interface {
	Salvar(r *Registro) error
	BuscarPorID(id string) (*Registro, error)
	ListarPorUsuario(usuarioID string) ([]Registro, error)
	ListarTodos() ([]Registro, error)
}

// StoreMemoria guarda registros num mapa por id, preservando a ordem de
// inserção na listagem.
type StoreMemoria struct {
	mu    sync.RWMutex
	porID map[string]*Registro
	ordem []string
}

func NovoStoreMemoria() *StoreMemoria {
	return &StoreMemoria{porID: map[string]*Registro{}}
}

func (s *StoreMemoria) Salvar(r *Registro) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existe := s.porID[r.ID]; !existe {
		s.ordem = append(s.ordem, r.ID)
	}
	s.porID[r.ID] = r.Clonar()
	return nil
}

func (s *StoreMemoria) BuscarPorID(id string) (*Registro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.porID[id]
	if !ok {
		return nil, fmt.Errorf("%w: registro %s", erros.ErrNaoEncontrado, id)
	}
	return r.Clonar(), nil
}

func (s *StoreMemoria) ListarPorUsuario(usuarioID string) ([]Registro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var lista []Registro
	for _, id := range s.ordem {
		if s.porID[id].UsuarioID == usuarioID {
			lista = append(lista, *s.porID[id].Clonar())
		}
	}
	return lista, nil
}

func (s *StoreMemoria) ListarTodos() ([]Registro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lista := make([]Registro, 0, len(s.ordem))
	for _, id := range s.ordem {
		lista = append(lista, *s.porID[id].Clonar())
	}
	return lista, nil
}
