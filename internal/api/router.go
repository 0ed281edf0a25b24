package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/fund-ledger/internal/api/handlers"
	custommiddleware "github.com/ndewijer/fund-ledger/internal/api/middleware"
	"github.com/ndewijer/fund-ledger/internal/config"
	"github.com/ndewijer/fund-ledger/internal/service"
)

// Services groups the services the HTTP API delegates to.
type Services struct {
	System   *service.SystemService
	Fund     *service.FundService
	Entry    *service.EntryService
	Ledger   *service.LedgerService
	Snapshot *service.SnapshotService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, sessions *custommiddleware.SessionCodec, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	fundHandler := handlers.NewFundHandler(services.Fund)
	entryHandler := handlers.NewEntryHandler(services.Entry)
	ledgerHandler := handlers.NewLedgerHandler(services.Ledger, services.Snapshot, cfg.Ledger.Currency)
	sessionHandler := handlers.NewSessionHandler(services.Fund, ledgerHandler, sessions)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/fund", func(r chi.Router) {
			r.Get("/", fundHandler.Funds)
			r.Post("/", fundHandler.CreateFund)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", fundHandler.GetFund)
				r.Put("/", fundHandler.UpdateFund)
				r.Delete("/", fundHandler.DeleteFund)

				r.Get("/entry", entryHandler.Entries)
				r.Post("/entry", entryHandler.SaveEntry)
				r.With(custommiddleware.ValidateDateMiddleware).Delete("/entry/{date}", entryHandler.DeleteEntry)

				r.Get("/ledger", ledgerHandler.Ledger)
				r.Get("/chart", ledgerHandler.Chart)
				r.Get("/snapshot", ledgerHandler.Snapshot)
			})
		})

		r.Get("/ledger/summary", ledgerHandler.Summaries)

		r.Route("/session", func(r chi.Router) {
			r.Use(sessions.Middleware)
			r.Get("/fund", sessionHandler.CurrentFund)
			r.Put("/fund", sessionHandler.SelectFund)
			r.Get("/ledger", sessionHandler.Ledger)
		})
	})

	return r
}
