package auth

import (
	"encoding/json"
	"net/http"
)

// LoginHandler emite um token para o principal informado pelo provedor de
// identidade. A autenticação em si acontece fora daqui; este endpoint só
// carimba os dados recebidos no JWT usado pelo restante da API.
func LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Principal
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
		if p.ID == "" {
			http.Error(w, "usuarioId é obrigatório", http.StatusBadRequest)
			return
		}
		token, err := GerarToken(p)
		if err != nil {
			http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}
