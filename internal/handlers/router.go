package handlers

import (
	"net/http"
	"strings"

	"bankoffice/internal/config"
	"bankoffice/internal/middleware"
	"bankoffice/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type Handler struct {
	cfg          config.Config
	log          zerolog.Logger
	customers    CustomerService
	accounts     AccountService
	transactions LedgerService
	accessLogs   AccessLogService
	auth         AuthService
	sessions     middleware.SessionResolver
	hub          *websocket.Hub
}

func New(cfg config.Config, log zerolog.Logger, customers CustomerService, accounts AccountService, transactions LedgerService, accessLogs AccessLogService, auth AuthService, sessions middleware.SessionResolver, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:          cfg,
		log:          log,
		customers:    customers,
		accounts:     accounts,
		transactions: transactions,
		accessLogs:   accessLogs,
		auth:         auth,
		sessions:     sessions,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(h.log))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	requireSession := middleware.Auth(h.cfg.JWTSecret, h.sessions)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/verify-token", h.VerifyToken)
		r.Get("/session/{sessionID}", h.GetSession)
		r.With(requireSession).Post("/logout", h.Logout)
	})

	router.Post("/customers", h.CreateCustomer)
	router.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/customers", h.ListCustomers)
		r.Get("/customers/{id}", h.GetCustomer)
		r.Put("/customers/{id}", h.UpdateCustomer)
		r.Delete("/customers/{id}", h.DeleteCustomer)

		r.Post("/accounts", h.CreateAccount)
		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Put("/accounts/{id}", h.UpdateAccount)
		r.Delete("/accounts/{id}", h.DeleteAccount)
		r.Post("/accounts/newaccount", h.CreateAccount)
		r.Put("/accounts/updateAccount/{id}", h.UpdateAccount)
		r.Delete("/accounts/deleteAccount/{id}", h.DeleteAccount)

		r.Post("/transactions", h.CreateTransaction)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Put("/transactions/{id}", h.UpdateTransaction)
		r.Delete("/transactions/{id}", h.DeleteTransaction)

		r.Post("/logs", h.CreateAccessLog)
		r.Get("/logs", h.ListAccessLogs)
		r.Get("/logs/{id}", h.GetAccessLog)
	})
	router.With(middleware.Auth(h.cfg.JWTSecret, h.sessions, middleware.AllowQueryToken())).Get("/ws/transactions", h.TransactionFeed)

	router.Get("/info", h.Info)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service":     "bankoffice",
		"version":     Version,
		"environment": h.cfg.AppEnv,
	})
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
