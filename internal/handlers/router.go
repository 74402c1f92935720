package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/eshop/backoffice/internal/config"
	mW "github.com/eshop/backoffice/internal/middleware"
	"github.com/eshop/backoffice/internal/services"
)

// Dependencies are the services the API is served from.
type Dependencies struct {
	Config    *config.Config
	Auth      *services.AuthService
	Inventory *services.InventoryService
	Orders    *services.OrderService
	Ledger    *services.LedgerService
	Overview  *services.OverviewService
	Redis     *redis.Client // optional, enables Idempotency-Key replay
}

// NewRouter wires every route of the API.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config

	authHandler := NewAuthHandler(deps.Auth)
	productHandler := NewProductHandler(deps.Inventory)
	orderHandler := NewOrderHandler(deps.Orders)
	walletHandler := NewWalletHandler(deps.Ledger)
	overviewHandler := NewOverviewHandler(deps.Overview)
	idempotent := mW.Idempotency(deps.Redis, cfg.Idempotency.TTL)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mW.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", mW.ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})

		// Public endpoints (no auth required)
		r.Post("/auth/login", authHandler.Login)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware(deps.Auth))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/session", authHandler.Session)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Post("/", productHandler.Create)
				r.Get("/{id}", productHandler.Get)
				r.Patch("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
				r.Get("/{id}/label", productHandler.Label)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.With(idempotent).Post("/", orderHandler.Place)
				r.Get("/{id}", orderHandler.Get)
				r.Delete("/{id}", orderHandler.Delete)
				r.Post("/{id}/cancel", orderHandler.Cancel)
			})

			r.Route("/wallets", func(r chi.Router) {
				r.Get("/", walletHandler.List)
				r.Post("/", walletHandler.Create)
				r.Get("/me", walletHandler.Me)
				r.Get("/{id}", walletHandler.Get)
				r.With(idempotent).Post("/{id}/deposit", walletHandler.Deposit)
				r.With(idempotent).Post("/{id}/withdraw", walletHandler.Withdraw)
				r.Get("/{id}/transactions", walletHandler.Transactions)
				r.Get("/{id}/summary", walletHandler.Summary)
			})

			r.Get("/transactions", walletHandler.AllTransactions)
			r.Get("/overview", overviewHandler.Get)
		})
	})

	return r
}
