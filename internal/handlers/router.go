package handlers

import (
	"net/http"
	"time"

	"cart-discount-service/internal/middleware"
	"cart-discount-service/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the transport settings of the router
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter wires the cart API routes
func NewRouter(cartService services.CartServiceInterface, logger *zap.Logger, cfg RouterConfig) http.Handler {
	cartHandler := NewCartHandler(cartService, logger)
	discountHandler := NewDiscountHandler(cartService, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recoverer(logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/", Health)
	r.Get("/health", Health)

	r.Route("/cart/{cartID}", func(r chi.Router) {
		r.Use(middleware.CartIdentity(cartService, logger))

		r.Get("/", cartHandler.GetCart)
		r.Post("/ticket", cartHandler.AddTicket)
		r.Delete("/ticket/{ticketID}", cartHandler.RemoveTicket)

		r.Get("/discount", discountHandler.ListEligible)
		r.Post("/discount", discountHandler.ApplyDiscount)
		r.Post("/discount/reconcile", discountHandler.Reconcile)
		r.Delete("/discount/{discountID}", discountHandler.RemoveDiscount)
	})

	return r
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "cart-discount-service"})
}
