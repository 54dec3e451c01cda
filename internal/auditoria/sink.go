package auditoria

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"gorm.io/gorm"
)

// SinkGorm persiste os eventos na tabela de auditoria.
type SinkGorm struct {
	DB *gorm.DB
}

func NovoSinkGorm(db *gorm.DB) *SinkGorm {
	return &SinkGorm{DB: db}
}

func (s *SinkGorm) Registrar(ev Evento) {
	if err := s.DB.Create(&ev).Error; err != nil {
		log.Printf("auditoria: erro ao gravar evento %s: %v", ev.Acao, err)
	}
}

// SinkLog escreve cada evento como uma linha JSON no log do processo.
type SinkLog struct{}

func (SinkLog) Registrar(ev Evento) {
	b, _ := json.Marshal(ev)
	log.Printf("%s", string(b))
}

// SinkWebhook envia cada evento para uma URL externa de alerta.
type SinkWebhook struct {
	URL string
}

func (s *SinkWebhook) Registrar(ev Evento) {
	body, _ := json.Marshal(ev)
	resp, err := http.Post(s.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("auditoria: erro ao enviar webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}

// SinkMemoria acumula eventos em memória. Usado em testes.
type SinkMemoria struct {
	mu      sync.Mutex
	eventos []Evento
}

func NovoSinkMemoria() *SinkMemoria {
	return &SinkMemoria{}
}

func (s *SinkMemoria) Registrar(ev Evento) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventos = append(s.eventos, ev)
}

// Eventos devolve uma cópia dos eventos registrados, na ordem de emissão.
func (s *SinkMemoria) Eventos() []Evento {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Evento, len(s.eventos))
	copy(out, s.eventos)
	return out
}

// SinkMultiplo encaminha cada evento para todos os sinks configurados.
type SinkMultiplo []Sink

func (m SinkMultiplo) Registrar(ev Evento) {
	for _, s := range m {
		s.Registrar(ev)
	}
}
