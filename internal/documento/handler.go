package documento

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/NexoJuridico/api-assinatura/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB       *gorm.DB
	Resolver Resolver
}

func NovoHandler(db *gorm.DB, resolver Resolver) *Handler {
	return &Handler{DB: db, Resolver: resolver}
}

type criarDocumentoDTO struct {
	Titulo   string `json:"titulo"`
	Tipo     string `json:"tipo"`
	Conteudo string `json:"conteudo"` // base64 ou texto; só a impressão digital é guardada
	Versao   int    `json:"versao"`
}

// POST /documentos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto criarDocumentoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if dto.Titulo == "" || !TipoValido(dto.Tipo) {
		http.Error(w, "título e tipo de documento são obrigatórios", http.StatusBadRequest)
		return
	}
	if dto.Versao <= 0 {
		dto.Versao = 1
	}
	d := Documento{
		ID:       uuid.NewString(),
		Titulo:   dto.Titulo,
		Tipo:     dto.Tipo,
		Versao:   dto.Versao,
		Hash:     utils.ImpressaoDigital([]byte(dto.Conteudo)),
		CriadoEm: time.Now().UTC(),
	}
	if err := h.DB.Create(&d).Error; err != nil {
		http.Error(w, "Erro ao salvar documento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// GET /documentos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, err := h.Resolver.Buscar(id)
	if err != nil {
		http.Error(w, err.Error(), erros.StatusHTTP(err))
		return
	}
	json.NewEncoder(w).Encode(d)
}
