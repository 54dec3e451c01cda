package estatisticas

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Servico *Servico
}

func NovoHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

// GET /estatisticas
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.Servico.Calcular()
	if err != nil {
		http.Error(w, "Erro ao calcular estatísticas", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(resumo)
}
