package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"rapidpark/internal/api"
	"rapidpark/internal/auth"
	"rapidpark/internal/config"
	"rapidpark/internal/conversation"
	"rapidpark/internal/repository"
	"rapidpark/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	reservationRepo := repository.NewReservationRepository(database)
	if err := reservationRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	jobRepo := repository.NewJobRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	pricing := service.NewPriceCalculator(cfg)
	allocator := service.NewSpotAllocator(reservationRepo, cfg.LotCapacity)
	notifier := service.NewNotifyService()
	reservationSvc := service.NewReservationService(reservationRepo, allocator, pricing, notifier, cfg.LotName)
	jobSvc := service.NewJobService(jobRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)

	registry := conversation.NewRegistry()
	machine := conversation.NewMachine(registry, reservationSvc, cfg.MaxClarifyRetries)

	reservationHandler := api.NewReservationHandler(reservationSvc)
	parseHandler := api.NewParseHandler()
	webhookHandler := api.NewVoiceWebhookHandler(machine)
	adminHandler := api.NewAdminHandler(registry, reservationSvc, reservationRepo)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/reservations", reservationHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations", reservationHandler.ListReservations).Methods("GET")
	r.HandleFunc("/api/reservations/{code}", reservationHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/quote", reservationHandler.Quote).Methods("POST")
	r.HandleFunc("/api/parse-arrival", parseHandler.ParseArrival).Methods("POST")
	r.HandleFunc("/api/parse-duration", parseHandler.ParseDuration).Methods("POST")
	r.HandleFunc("/api/parse-email", parseHandler.ParseEmail).Methods("POST")

	// Voice platform endpoints
	r.HandleFunc("/voice/webhook", webhookHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/voice/twiml", webhookHandler.HandleTwiML).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}).Methods("GET")

	// Admin endpoints (protected)
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/register", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/sessions", adminHandler.ListSessions).Methods("GET")
	admin.HandleFunc("/sessions/{call_id}", adminHandler.EvictSession).Methods("DELETE")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations/{id}", adminHandler.DeleteReservation).Methods("DELETE")

	// Background jobs: finish sweep frees spots, idle eviction keeps the
	// session registry from growing without bound.
	c := cron.New()
	c.AddFunc("*/10 * * * *", func() {
		if err := jobSvc.MarkFinishedReservations(context.Background()); err != nil {
			log.Printf("Cron Job: %v", err)
		}
	})
	c.AddFunc("*/5 * * * *", func() {
		if n := registry.EvictIdle(cfg.SessionIdleTimeout); n > 0 {
			log.Printf("Cron Job: evicted %d idle sessions", n)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Server running on port %s (lot %s, capacity %d)", cfg.Port, cfg.LotName, cfg.LotCapacity)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}
