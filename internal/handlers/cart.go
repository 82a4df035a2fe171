package handlers

import (
	"net/http"

	"cart-discount-service/internal/middleware"
	"cart-discount-service/internal/models"
	"cart-discount-service/internal/services"

	"go.uber.org/zap"
)

// CartHandler handles cart contents and ticket routes
type CartHandler struct {
	cartService services.CartServiceInterface
	logger      *zap.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService services.CartServiceInterface, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// addTicketRequest is the body of POST /cart/{cartID}/ticket
type addTicketRequest struct {
	Ticket *models.TicketCreateRequest `json:"ticket"`
}

// GetCart handles GET /cart/{cartID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.GetCart(r.Context(), cartID(r))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tickets":   cart.Tickets,
		"discounts": cart.Discounts,
	})
}

// AddTicket handles POST /cart/{cartID}/ticket
func (h *CartHandler) AddTicket(w http.ResponseWriter, r *http.Request) {
	var req addTicketRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Ticket == nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid ticket")
		return
	}

	id, err := h.cartService.AddTicket(r.Context(), cartID(r), req.Ticket)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

// RemoveTicket handles DELETE /cart/{cartID}/ticket/{ticketID}
func (h *CartHandler) RemoveTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := urlID(r, "ticketID")
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	removal, err := h.cartService.RemoveTicket(r.Context(), cartID(r), ticketID)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removal)
}
