package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/auditoria"
	"github.com/NexoJuridico/api-assinatura/internal/auth"
	"github.com/NexoJuridico/api-assinatura/internal/consentimento"
	"github.com/NexoJuridico/api-assinatura/internal/documento"
	"github.com/NexoJuridico/api-assinatura/internal/envelope"
	"github.com/NexoJuridico/api-assinatura/internal/estatisticas"
	"github.com/NexoJuridico/api-assinatura/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := database.AutoMigrate(
		&documento.Documento{},
		&envelope.Envelope{},
		&envelope.Signatario{},
		&consentimento.Registro{},
		&consentimento.Item{},
		&auditoria.Evento{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Sinks de auditoria: banco + log; webhook opcional por env
	sinks := auditoria.SinkMultiplo{auditoria.NovoSinkGorm(database), auditoria.SinkLog{}}
	if url := os.Getenv("AUDITORIA_WEBHOOK_URL"); url != "" {
		sinks = append(sinks, &auditoria.SinkWebhook{URL: url})
	}

	// Stores e serviços
	resolver := documento.NovoResolverComCache(documento.NovoResolverGorm(database), 5*time.Minute)
	storeEnvelopes := envelope.NovoStoreGorm(database)
	storeConsentimentos := consentimento.NovoStoreGorm(database)

	coordenador := envelope.NovoCoordenador(storeEnvelopes, resolver, sinks)
	coordenador.RecusaCancelaEnvelope = os.Getenv("RECUSA_CANCELA_ENVELOPE") == "true"
	ledger := consentimento.NovoLedger(storeConsentimentos, sinks)

	// Handlers
	documentoHandler := documento.NovoHandler(database, resolver)
	envelopeHandler := envelope.NovoHandler(coordenador)
	consentimentoHandler := consentimento.NovoHandler(ledger)
	estatisticasHandler := estatisticas.NovoHandler(estatisticas.NovoServico(storeEnvelopes, storeConsentimentos))

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/login", auth.LoginHandler()).Methods("POST")

	s := r.NewRoute().Subrouter()
	s.Use(auth.MiddlewareAutenticacao)

	// Rotas de documentos
	s.HandleFunc("/documentos", documentoHandler.Criar).Methods("POST")
	s.HandleFunc("/documentos/{id}", documentoHandler.BuscarPorID).Methods("GET")

	// Rotas de envelopes
	s.HandleFunc("/envelopes", envelopeHandler.Criar).Methods("POST")
	s.HandleFunc("/envelopes", envelopeHandler.Listar).Methods("GET")
	s.HandleFunc("/envelopes/{id}", envelopeHandler.BuscarPorID).Methods("GET")
	s.HandleFunc("/envelopes/{id}/signatarios/{sid}/assinar", envelopeHandler.Assinar).Methods("POST")
	s.HandleFunc("/envelopes/{id}/signatarios/{sid}/recusar", envelopeHandler.Recusar).Methods("POST")
	s.Handle("/envelopes/{id}/cancelar", auth.ExigirAdmin(http.HandlerFunc(envelopeHandler.Cancelar))).Methods("POST")

	// Rotas de consentimentos
	s.HandleFunc("/consentimentos", consentimentoHandler.RegistrarAceite).Methods("POST")
	s.Handle("/consentimentos", auth.ExigirAdmin(http.HandlerFunc(consentimentoHandler.ListarTodos))).Methods("GET")
	s.HandleFunc("/consentimentos/{id}/itens/{itemId}/revogar", consentimentoHandler.RevogarItem).Methods("POST")
	s.HandleFunc("/usuarios/{id}/consentimentos", consentimentoHandler.ListarPorUsuario).Methods("GET")

	// Rota de estatísticas
	s.HandleFunc("/estatisticas", estatisticasHandler.Resumo).Methods("GET")

	handler := cors.AllowAll().Handler(r)

	porta := os.Getenv("PORTA")
	if porta == "" {
		porta = "8080"
	}
	fmt.Println("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, handler))
}
