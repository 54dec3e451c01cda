package documento

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Resolver localiza os metadados de um documento a partir do seu ID.
type Resolver interface {
	Buscar(id string) (*Documento, error)
}

// ResolverGorm busca documentos no catálogo em banco.
type ResolverGorm struct {
	DB *gorm.DB
}

func NovoResolverGorm(db *gorm.DB) *ResolverGorm {
	return &ResolverGorm{DB: db}
}

func (r *ResolverGorm) Buscar(id string) (*Documento, error) {
	var d Documento
	if err := r.DB.First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: documento %s", erros.ErrNaoEncontrado, id)
		}
		return nil, err
	}
	return &d, nil
}

// ResolverComCache guarda os metadados resolvidos por um TTL curto.
// Só metadados de documento passam por aqui; estatísticas nunca são cacheadas.
type ResolverComCache struct {
	origem Resolver
	cache  *cache.Cache
}

func NovoResolverComCache(origem Resolver, ttl time.Duration) *ResolverComCache {
	return &ResolverComCache{
		origem: origem,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (r *ResolverComCache) Buscar(id string) (*Documento, error) {
	if v, ok := r.cache.Get(id); ok {
		d := v.(Documento)
		return &d, nil
	}
	d, err := r.origem.Buscar(id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(id, *d)
	return d, nil
}

// ResolverMemoria mantém o catálogo em memória. Usado em testes.
type ResolverMemoria struct {
	mu         sync.RWMutex
	documentos map[string]Documento
}

func NovoResolverMemoria() *ResolverMemoria {
	return &ResolverMemoria{documentos: map[string]Documento{}}
}

func (r *ResolverMemoria) Adicionar(d Documento) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documentos[d.ID] = d
}

func (r *ResolverMemoria) Buscar(id string) (*Documento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.documentos[id]
	if !ok {
		return nil, fmt.Errorf("%w: documento %s", erros.ErrNaoEncontrado, id)
	}
	return &d, nil
}
