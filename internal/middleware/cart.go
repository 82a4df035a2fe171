package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const cartIDKey contextKey = "cart_id"

// CartChecker reports whether a cart exists
type CartChecker interface {
	CartExists(ctx context.Context, cartID int) (bool, error)
}

// CartIdentity resolves the {cartID} URL parameter, rejects unknown carts
// and stores the id in the request context
func CartIdentity(carts CartChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID, err := strconv.Atoi(chi.URLParam(r, "cartID"))
			if err != nil || cartID <= 0 {
				WriteError(w, http.StatusBadRequest, "invalid cart")
				return
			}

			exists, err := carts.CartExists(r.Context(), cartID)
			if err != nil {
				logger.Error("failed to check cart", zap.Int("cart_id", cartID), zap.Error(err))
				WriteError(w, http.StatusInternalServerError, "failed to check cart")
				return
			}
			if !exists {
				WriteError(w, http.StatusBadRequest, "invalid cart")
				return
			}

			ctx := context.WithValue(r.Context(), cartIDKey, cartID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCartID returns the cart id stored by CartIdentity
func GetCartID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(cartIDKey).(int)
	return id, ok
}
