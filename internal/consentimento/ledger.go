package consentimento

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/auditoria"
	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/NexoJuridico/api-assinatura/internal/utils"
	"github.com/google/uuid"
)

// RetencaoPadraoDias é a janela fixa de retenção de um aceite.
const RetencaoPadraoDias = 365

// NovoItemDTO descreve uma cláusula do aceite.
type NovoItemDTO struct {
	Tag         string `json:"tag"`
	Descricao   string `json:"descricao"`
	Obrigatorio bool   `json:"obrigatorio"`
}

// AceiteDTO é o payload de registro de aceite.
type AceiteDTO struct {
	UsuarioID  string        `json:"usuarioId"`
	Nome       string        `json:"nome"`
	Email      string        `json:"email"`
	Versao     string        `json:"versao"`
	Finalidade string        `json:"finalidade"`
	IP         string        `json:"ip"`
	UserAgent  string        `json:"userAgent"`
	Itens      []NovoItemDTO `json:"itens"`
}

// Ledger é o dono das transições de registros de consentimento. O ledger é
// append-only: aceites criam registros novos; o único campo mutável de um
// registro existente é a revogação de itens (e o status derivado dela).
type Ledger struct {
	store     Store
	auditoria auditoria.Sink

	// Agora é o relógio do ledger; substituível em testes.
	Agora func() time.Time
	// RetencaoDias define a validade do aceite a partir da data do aceite.
	RetencaoDias int

	mu     sync.Mutex
	travas map[string]*sync.Mutex
}

func NovoLedger(store Store, sink auditoria.Sink) *Ledger {
	return &Ledger{
		store:        store,
		auditoria:    sink,
		Agora:        func() time.Time { return time.Now().UTC() },
		RetencaoDias: RetencaoPadraoDias,
		travas:       map[string]*sync.Mutex{},
	}
}

func (l *Ledger) travar(id string) func() {
	l.mu.Lock()
	tr, ok := l.travas[id]
	if !ok {
		tr = &sync.Mutex{}
		l.travas[id] = tr
	}
	l.mu.Unlock()
	tr.Lock()
	return tr.Unlock
}

// RegistrarAceite cria um registro novo com todos os itens aceitos no mesmo
// instante. Registros anteriores do mesmo usuário/finalidade não são tocados.
func (l *Ledger) RegistrarAceite(dto AceiteDTO, atorID string) (*Registro, error) {
	if strings.TrimSpace(dto.UsuarioID) == "" {
		return nil, fmt.Errorf("%w: aceite sem usuarioId", erros.ErrValidacao)
	}
	if !FinalidadeValida(dto.Finalidade) {
		return nil, fmt.Errorf("%w: finalidade %q não é aceita", erros.ErrValidacao, dto.Finalidade)
	}
	if len(dto.Itens) == 0 {
		return nil, fmt.Errorf("%w: aceite sem itens", erros.ErrValidacao)
	}
	for _, it := range dto.Itens {
		if strings.TrimSpace(it.Tag) == "" {
			return nil, fmt.Errorf("%w: item sem tag", erros.ErrValidacao)
		}
	}

	agora := l.Agora()
	reg := &Registro{
		ID:         uuid.NewString(),
		UsuarioID:  dto.UsuarioID,
		Nome:       dto.Nome,
		Email:      dto.Email,
		Versao:     dto.Versao,
		Finalidade: dto.Finalidade,
		Status:     StatusAceito,
		AceitoEm:   agora,
		ExpiraEm:   agora.Add(time.Duration(l.RetencaoDias) * 24 * time.Hour),
		IPAceite:   dto.IP,
		UserAgent:  dto.UserAgent,
	}
	tags := make([]string, 0, len(dto.Itens))
	for _, it := range dto.Itens {
		aceitoEm := agora
		reg.Itens = append(reg.Itens, Item{
			ID:          uuid.NewString(),
			RegistroID:  reg.ID,
			Tag:         it.Tag,
			Descricao:   it.Descricao,
			Obrigatorio: it.Obrigatorio,
			Aceito:      true,
			AceitoEm:    &aceitoEm,
		})
		tags = append(tags, it.Tag)
	}
	reg.Hash = utils.ImpressaoDigital([]byte(fmt.Sprintf("%s|%s|%s|%s|%s",
		reg.UsuarioID, reg.Finalidade, reg.Versao,
		agora.Format(time.RFC3339Nano), strings.Join(tags, ","))))

	if err := l.store.Salvar(reg); err != nil {
		return nil, err
	}
	l.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   reg.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoConsentimentoAceito,
		Detalhe:      fmt.Sprintf("usuário %s, finalidade %s, %d itens", reg.UsuarioID, reg.Finalidade, len(reg.Itens)),
		RegistradoEm: agora,
	})
	return reg, nil
}

// RevogarItem revoga uma cláusula individual. Não alcança os demais itens.
// Quando a última cláusula obrigatória ainda aceita é revogada, o registro
// inteiro passa a Revoked (decisão documentada em DESIGN.md). Revogar um
// item já revogado é um no-op.
func (l *Ledger) RevogarItem(registroID, itemID, atorID string) (*Registro, error) {
	destravar := l.travar(registroID)
	defer destravar()

	reg, err := l.store.BuscarPorID(registroID)
	if err != nil {
		return nil, err
	}
	var item *Item
	for i := range reg.Itens {
		if reg.Itens[i].ID == itemID {
			item = &reg.Itens[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", erros.ErrNaoEncontrado, itemID)
	}
	if item.RevogadoEm != nil {
		return reg, nil
	}

	agora := l.Agora()
	item.Aceito = false
	item.RevogadoEm = &agora

	if item.Obrigatorio && todosObrigatoriosRevogados(reg) {
		reg.Status = StatusRevogado
		if reg.RevogadoEm == nil {
			reg.RevogadoEm = &agora
		}
	}

	if err := l.store.Salvar(reg); err != nil {
		return nil, err
	}
	l.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   reg.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoConsentimentoRevogado,
		Detalhe:      fmt.Sprintf("item %s (%s), registro %s", item.Tag, item.ID, reg.Status),
		RegistradoEm: agora,
	})
	return reg, nil
}

// ListarPorUsuario devolve os registros do usuário, opcionalmente filtrados
// por finalidade. Usuário sem registros devolve lista vazia, não erro.
func (l *Ledger) ListarPorUsuario(usuarioID, finalidade string) ([]Registro, error) {
	registros, err := l.store.ListarPorUsuario(usuarioID)
	if err != nil {
		return nil, err
	}
	if finalidade == "" {
		return registros, nil
	}
	filtrados := make([]Registro, 0, len(registros))
	for _, r := range registros {
		if r.Finalidade == finalidade {
			filtrados = append(filtrados, r)
		}
	}
	return filtrados, nil
}

// ListarTodos é a visão administrativa do ledger inteiro.
func (l *Ledger) ListarTodos() ([]Registro, error) {
	return l.store.ListarTodos()
}

func todosObrigatoriosRevogados(reg *Registro) bool {
	obrigatorios := 0
	for _, it := range reg.Itens {
		if !it.Obrigatorio {
			continue
		}
		obrigatorios++
		if it.RevogadoEm == nil {
			return false
		}
	}
	return obrigatorios > 0
}
