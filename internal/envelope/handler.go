package envelope

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/auth"
	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/gorilla/mux"
)

type Handler struct {
	Coordenador *Coordenador
}

func NovoHandler(c *Coordenador) *Handler {
	return &Handler{Coordenador: c}
}

type recusaDTO struct {
	Motivo string `json:"motivo"`
}

type assinaturaDTO struct {
	Artefato string `json:"artefato"`
}

// POST /envelopes
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto NovoEnvelopeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	env, err := h.Coordenador.CriarEnvelope(dto, atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(env)
}

// GET /envelopes
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	filtro, err := filtroDaQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lista, err := h.Coordenador.Listar(filtro)
	if err != nil {
		http.Error(w, "Erro ao listar envelopes", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lista)
}

// GET /envelopes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	env, err := h.Coordenador.BuscarPorID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(env)
}

// POST /envelopes/{id}/signatarios/{sid}/assinar
func (h *Handler) Assinar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var dto assinaturaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	env, err := h.Coordenador.Assinar(vars["id"], vars["sid"], dto.Artefato, ipDaRequisicao(r), atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(env)
}

// POST /envelopes/{id}/signatarios/{sid}/recusar
func (h *Handler) Recusar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var dto recusaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	env, err := h.Coordenador.Recusar(vars["id"], vars["sid"], dto.Motivo, atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(env)
}

// POST /envelopes/{id}/cancelar
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	env, err := h.Coordenador.Cancelar(mux.Vars(r)["id"], atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(env)
}

func filtroDaQuery(r *http.Request) (Filtro, error) {
	q := r.URL.Query()
	filtro := Filtro{Texto: q.Get("q")}
	if v := q.Get("status"); v != "" {
		filtro.Status = strings.Split(v, ",")
	}
	if v := q.Get("tipoDocumento"); v != "" {
		filtro.Tipos = strings.Split(v, ",")
	}
	if v := q.Get("de"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filtro, err
		}
		filtro.CriadoDe = &t
	}
	if v := q.Get("ate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filtro, err
		}
		filtro.CriadoAte = &t
	}
	return filtro, nil
}

func atorDaRequisicao(r *http.Request) string {
	if p, ok := auth.PrincipalDoContexto(r.Context()); ok {
		return p.ID
	}
	return "anonimo"
}

func ipDaRequisicao(r *http.Request) string {
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		return strings.TrimSpace(strings.Split(v, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
