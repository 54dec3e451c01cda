package envelope

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/auditoria"
	"github.com/NexoJuridico/api-assinatura/internal/documento"
	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/google/uuid"
)

// Coordenador é o único dono das transições de estado de envelopes.
// Mutações sobre um mesmo envelope são serializadas por uma trava por id;
// envelopes distintos não se bloqueiam.
type Coordenador struct {
	store      Store
	documentos documento.Resolver
	auditoria  auditoria.Sink

	// RecusaCancelaEnvelope muda a política de recusa: quando ligada, a
	// recusa de qualquer signatário cancela o envelope inteiro. Desligada
	// (padrão), a recusa não impede os demais signatários de concluir.
	RecusaCancelaEnvelope bool

	// Agora é o relógio do coordenador; substituível em testes.
	Agora func() time.Time

	mu     sync.Mutex
	travas map[string]*sync.Mutex
}

func NovoCoordenador(store Store, documentos documento.Resolver, sink auditoria.Sink) *Coordenador {
	return &Coordenador{
		store:      store,
		documentos: documentos,
		auditoria:  sink,
		Agora:      func() time.Time { return time.Now().UTC() },
		travas:     map[string]*sync.Mutex{},
	}
}

// travar adquire a trava do envelope e devolve a função de liberação.
func (c *Coordenador) travar(id string) func() {
	c.mu.Lock()
	tr, ok := c.travas[id]
	if !ok {
		tr = &sync.Mutex{}
		c.travas[id] = tr
	}
	c.mu.Unlock()
	tr.Lock()
	return tr.Unlock
}

// CriarEnvelope monta um envelope novo a partir do catálogo de documentos.
// Com pelo menos um signatário o envelope já nasce aguardando assinaturas.
func (c *Coordenador) CriarEnvelope(dto NovoEnvelopeDTO, atorID string) (*Envelope, error) {
	if len(dto.Signatarios) == 0 {
		return nil, fmt.Errorf("%w: envelope sem signatários", erros.ErrValidacao)
	}
	vistos := map[string]bool{}
	for _, s := range dto.Signatarios {
		if strings.TrimSpace(s.UsuarioID) == "" {
			return nil, fmt.Errorf("%w: signatário sem usuarioId", erros.ErrValidacao)
		}
		if !PapelValido(s.Papel) {
			return nil, fmt.Errorf("%w: papel %q não é aceito", erros.ErrValidacao, s.Papel)
		}
		if vistos[s.UsuarioID] {
			return nil, fmt.Errorf("%w: signatário duplicado %s", erros.ErrValidacao, s.UsuarioID)
		}
		vistos[s.UsuarioID] = true
	}

	doc, err := c.documentos.Buscar(dto.DocumentoID)
	if err != nil {
		return nil, err
	}

	agora := c.Agora()
	env := &Envelope{
		ID:              uuid.NewString(),
		DocumentoID:     doc.ID,
		TituloDocumento: doc.Titulo,
		TipoDocumento:   doc.Tipo,
		ProcessoID:      dto.ProcessoID,
		Status:          StatusAguardando,
		CriadoEm:        agora,
		ValidoAte:       dto.ValidoAte,
		HashDocumento:   doc.Hash,
		VersaoDocumento: doc.Versao,
	}
	for i, s := range dto.Signatarios {
		env.Signatarios = append(env.Signatarios, Signatario{
			ID:         uuid.NewString(),
			EnvelopeID: env.ID,
			Ordem:      i,
			UsuarioID:  s.UsuarioID,
			Nome:       s.Nome,
			Email:      s.Email,
			Papel:      s.Papel,
			Status:     SignatarioPendente,
		})
	}

	if err := c.store.Salvar(env); err != nil {
		return nil, err
	}
	c.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   env.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoEnvelopeCriado,
		Detalhe:      fmt.Sprintf("documento %s, %d signatários", doc.ID, len(env.Signatarios)),
		RegistradoEm: agora,
	})
	return env, nil
}

// Assinar registra a assinatura de um signatário pendente e recalcula o
// status agregado do envelope.
func (c *Coordenador) Assinar(envelopeID, signatarioID, artefato, ip, atorID string) (*Envelope, error) {
	destravar := c.travar(envelopeID)
	defer destravar()

	env, err := c.store.BuscarPorID(envelopeID)
	if err != nil {
		return nil, err
	}
	if err := c.verificarValidade(env, atorID); err != nil {
		return nil, err
	}
	if env.Status == StatusExpirado {
		return nil, fmt.Errorf("%w: envelope %s", erros.ErrExpirado, env.ID)
	}
	if env.Terminal() {
		return nil, fmt.Errorf("%w: envelope %s está %s", erros.ErrTransicaoInvalida, env.ID, env.Status)
	}
	sig := localizarSignatario(env, signatarioID)
	if sig == nil {
		return nil, fmt.Errorf("%w: signatário %s", erros.ErrNaoEncontrado, signatarioID)
	}
	if sig.Status != SignatarioPendente {
		return nil, fmt.Errorf("%w: signatário %s está %s", erros.ErrTransicaoInvalida, sig.UsuarioID, sig.Status)
	}

	agora := c.Agora()
	sig.Status = SignatarioAssinado
	sig.AssinadoEm = &agora
	sig.IPAssinatura = ip
	sig.Artefato = artefato
	recalcularStatus(env, agora)

	if err := c.store.Salvar(env); err != nil {
		return nil, err
	}
	c.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   env.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoEnvelopeAssinado,
		Detalhe:      fmt.Sprintf("signatário %s, envelope %s", sig.UsuarioID, env.Status),
		RegistradoEm: agora,
	})
	return env, nil
}

// Recusar registra a recusa de um signatário pendente. Na política padrão a
// recusa não bloqueia os demais; com RecusaCancelaEnvelope o envelope é
// cancelado na hora.
func (c *Coordenador) Recusar(envelopeID, signatarioID, motivo, atorID string) (*Envelope, error) {
	destravar := c.travar(envelopeID)
	defer destravar()

	env, err := c.store.BuscarPorID(envelopeID)
	if err != nil {
		return nil, err
	}
	if err := c.verificarValidade(env, atorID); err != nil {
		return nil, err
	}
	if env.Status == StatusExpirado {
		return nil, fmt.Errorf("%w: envelope %s", erros.ErrExpirado, env.ID)
	}
	if env.Terminal() {
		return nil, fmt.Errorf("%w: envelope %s está %s", erros.ErrTransicaoInvalida, env.ID, env.Status)
	}
	sig := localizarSignatario(env, signatarioID)
	if sig == nil {
		return nil, fmt.Errorf("%w: signatário %s", erros.ErrNaoEncontrado, signatarioID)
	}
	if sig.Status != SignatarioPendente {
		return nil, fmt.Errorf("%w: signatário %s está %s", erros.ErrTransicaoInvalida, sig.UsuarioID, sig.Status)
	}

	agora := c.Agora()
	sig.Status = SignatarioRecusado
	sig.MotivoRecusa = motivo
	if c.RecusaCancelaEnvelope {
		env.Status = StatusCancelado
	} else {
		recalcularStatus(env, agora)
	}

	if err := c.store.Salvar(env); err != nil {
		return nil, err
	}
	c.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   env.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoEnvelopeRecusado,
		Detalhe:      fmt.Sprintf("signatário %s: %s", sig.UsuarioID, motivo),
		RegistradoEm: agora,
	})
	return env, nil
}

// Cancelar é a ação explícita de operador. Sempre permitida, exceto a partir
// de Completed; repetir o cancelamento é um no-op.
func (c *Coordenador) Cancelar(envelopeID, atorID string) (*Envelope, error) {
	destravar := c.travar(envelopeID)
	defer destravar()

	env, err := c.store.BuscarPorID(envelopeID)
	if err != nil {
		return nil, err
	}
	if env.Status == StatusConcluido {
		return nil, fmt.Errorf("%w: envelope %s já foi concluído", erros.ErrTransicaoInvalida, env.ID)
	}
	if env.Status == StatusCancelado {
		return env, nil
	}

	env.Status = StatusCancelado
	if err := c.store.Salvar(env); err != nil {
		return nil, err
	}
	c.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   env.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoEnvelopeCancelado,
		RegistradoEm: c.Agora(),
	})
	return env, nil
}

// BuscarPorID devolve o snapshot atual do envelope, efetivando a expiração
// pendente caso o prazo já tenha passado.
func (c *Coordenador) BuscarPorID(envelopeID string) (*Envelope, error) {
	destravar := c.travar(envelopeID)
	defer destravar()

	env, err := c.store.BuscarPorID(envelopeID)
	if err != nil {
		return nil, err
	}
	if c.expirar(env) {
		if err := c.store.Salvar(env); err != nil {
			return nil, err
		}
		c.auditoria.Registrar(auditoria.Evento{
			ID:           uuid.NewString(),
			EntidadeID:   env.ID,
			AtorID:       "sistema",
			Acao:         auditoria.AcaoEnvelopeExpirado,
			RegistradoEm: c.Agora(),
		})
	}
	return env, nil
}

// Listar devolve os envelopes que combinam com o filtro, na ordem de
// inserção do store. Envelopes vencidos aparecem como Expired no snapshot;
// a transição é persistida no próximo acesso direto ao envelope.
func (c *Coordenador) Listar(filtro Filtro) ([]Envelope, error) {
	todos, err := c.store.ListarTodos()
	if err != nil {
		return nil, err
	}
	lista := make([]Envelope, 0, len(todos))
	for i := range todos {
		c.expirar(&todos[i])
		if filtro.Combina(&todos[i]) {
			lista = append(lista, todos[i])
		}
	}
	return lista, nil
}

// verificarValidade efetiva a expiração do envelope, se vencido, antes de
// recusar a ação com ErrExpirado.
func (c *Coordenador) verificarValidade(env *Envelope, atorID string) error {
	if !c.expirar(env) {
		return nil
	}
	if err := c.store.Salvar(env); err != nil {
		return err
	}
	c.auditoria.Registrar(auditoria.Evento{
		ID:           uuid.NewString(),
		EntidadeID:   env.ID,
		AtorID:       atorID,
		Acao:         auditoria.AcaoEnvelopeExpirado,
		RegistradoEm: c.Agora(),
	})
	return fmt.Errorf("%w: envelope %s venceu em %s", erros.ErrExpirado, env.ID, env.ValidoAte.Format(time.RFC3339))
}

// expirar marca envelope e signatários pendentes como expirados quando o
// prazo de validade já passou. Não persiste nada.
func (c *Coordenador) expirar(e *Envelope) bool {
	if e.Terminal() || e.ValidoAte == nil || !c.Agora().After(*e.ValidoAte) {
		return false
	}
	e.Status = StatusExpirado
	for i := range e.Signatarios {
		if e.Signatarios[i].Status == SignatarioPendente {
			e.Signatarios[i].Status = SignatarioExpirado
		}
	}
	return true
}

func localizarSignatario(e *Envelope, signatarioID string) *Signatario {
	for i := range e.Signatarios {
		if e.Signatarios[i].ID == signatarioID {
			return &e.Signatarios[i]
		}
	}
	return nil
}

// recalcularStatus deriva o status agregado a partir dos signatários:
// nenhum pendente e pelo menos um assinado fecha o envelope (recusas não
// bloqueiam a conclusão dos demais); qualquer ação isolada leva a
// PartiallySigned. Nunca regride de PartiallySigned/Completed.
func recalcularStatus(e *Envelope, agora time.Time) {
	pendentes, assinados, agiram := 0, 0, 0
	for _, s := range e.Signatarios {
		switch s.Status {
		case SignatarioAssinado:
			assinados++
			agiram++
		case SignatarioRecusado:
			agiram++
		case SignatarioPendente:
			pendentes++
		}
	}
	switch {
	case pendentes == 0 && assinados > 0:
		e.Status = StatusConcluido
		if e.ConcluidoEm == nil {
			t := agora
			e.ConcluidoEm = &t
		}
	case agiram > 0:
		e.Status = StatusParcial
	default:
		e.Status = StatusAguardando
	}
}
