package consentimento

import (
	"errors"
	"fmt"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"gorm.io/gorm"
)

// StoreGorm persiste registros e itens de consentimento no Postgres.
type StoreGorm struct {
	DB *gorm.DB
}

func NovoStoreGorm(db *gorm.DB) *StoreGorm {
	return &StoreGorm{DB: db}
}

func (s *StoreGorm) Salvar(r *Registro) error {
	return s.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(r).Error
}

func (s *StoreGorm) BuscarPorID(id string) (*Registro, error) {
	var r Registro
	err := s.DB.Preload("Itens").First(&r, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: registro %s", erros.ErrNaoEncontrado, id)
		}
		return nil, err
	}
	return &r, nil
}

func (s *StoreGorm) ListarPorUsuario(usuarioID string) ([]Registro, error) {
	var lista []Registro
	err := s.DB.Preload("Itens").
		Where("usuario_id = ?", usuarioID).
		Order("aceito_em, id").
		Find(&lista).Error
	return lista, err
}

func (s *StoreGorm) ListarTodos() ([]Registro, error) {
	var lista []Registro
	err := s.DB.Preload("Itens").Order("aceito_em, id").Find(&lista).Error
	return lista, err
}
