package consentimento

import (
	"encoding/json"
	"net/http"

	"github.com/NexoJuridico/api-assinatura/internal/auth"
	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/gorilla/mux"
)

type Handler struct {
	Ledger *Ledger
}

func NovoHandler(l *Ledger) *Handler {
	return &Handler{Ledger: l}
}

// POST /consentimentos
func (h *Handler) RegistrarAceite(w http.ResponseWriter, r *http.Request) {
	var dto AceiteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if dto.IP == "" {
		dto.IP = r.RemoteAddr
	}
	if dto.UserAgent == "" {
		dto.UserAgent = r.UserAgent()
	}
	reg, err := h.Ledger.RegistrarAceite(dto, atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reg)
}

// POST /consentimentos/{id}/itens/{itemId}/revogar
func (h *Handler) RevogarItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reg, err := h.Ledger.RevogarItem(vars["id"], vars["itemId"], atorDaRequisicao(r))
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(reg)
}

// GET /usuarios/{id}/consentimentos
func (h *Handler) ListarPorUsuario(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Ledger.ListarPorUsuario(mux.Vars(r)["id"], r.URL.Query().Get("finalidade"))
	if err != nil {
		http.Error(w, "Erro ao listar consentimentos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lista)
}

// GET /consentimentos
func (h *Handler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Ledger.ListarTodos()
	if err != nil {
		http.Error(w, "Erro ao listar consentimentos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lista)
}

func atorDaRequisicao(r *http.Request) string {
	if p, ok := auth.PrincipalDoContexto(r.Context()); ok {
		return p.ID
	}
	return "anonimo"
}
