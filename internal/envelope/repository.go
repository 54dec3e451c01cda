package envelope

import (
	"errors"
	"fmt"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"gorm.io/gorm"
)

// StoreGorm persiste envelopes e signatários no Postgres.
type StoreGorm struct {
	DB *gorm.DB
}

func NovoStoreGorm(db *gorm.DB) *StoreGorm {
	return &StoreGorm{DB: db}
}

func (s *StoreGorm) Salvar(e *Envelope) error {
	return s.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(e).Error
}

func (s *StoreGorm) BuscarPorID(id string) (*Envelope, error) {
	var e Envelope
	err := s.DB.
		Preload("Signatarios", func(db *gorm.DB) *gorm.DB { return db.Order("ordem") }).
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: envelope %s", erros.ErrNaoEncontrado, id)
		}
		return nil, err
	}
	return &e, nil
}

func (s *StoreGorm) ListarTodos() ([]Envelope, error) {
	var lista []Envelope
	err := s.DB.
		Preload("Signatarios", func(db *gorm.DB) *gorm.DB { return db.Order("ordem") }).
		Order("criado_em, id").
		Find(&lista).Error
	return lista, err
}
