package handlers

import (
	"net/http"

	"cart-discount-service/internal/middleware"
	"cart-discount-service/internal/models"
	"cart-discount-service/internal/services"

	"go.uber.org/zap"
)

// DiscountHandler handles discount entitlement routes of a cart
type DiscountHandler struct {
	cartService services.CartServiceInterface
	logger      *zap.Logger
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(cartService services.CartServiceInterface, logger *zap.Logger) *DiscountHandler {
	return &DiscountHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// ListEligible handles GET /cart/{cartID}/discount
func (h *DiscountHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	eligible, err := h.cartService.ListEligible(r.Context(), cartID(r))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"discounts": eligible})
}

// ApplyDiscount handles POST /cart/{cartID}/discount
func (h *DiscountHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var proposal models.DiscountProposal
	if err := decodeJSON(w, r, &proposal); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid discount")
		return
	}

	id, err := h.cartService.ApplyDiscount(r.Context(), cartID(r), proposal)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "discount applied",
		"id":      id,
	})
}

// RemoveDiscount handles DELETE /cart/{cartID}/discount/{discountID}
func (h *DiscountHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	discountID, ok := urlID(r, "discountID")
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "invalid discount id")
		return
	}

	if err := h.cartService.RemoveDiscount(r.Context(), cartID(r), discountID); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "discount removed"})
}

// Reconcile handles POST /cart/{cartID}/discount/reconcile
func (h *DiscountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	invalidated, err := h.cartService.Reconcile(r.Context(), cartID(r))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"invalidated": invalidated})
}
