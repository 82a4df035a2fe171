package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cart-discount-service/internal/middleware"
	"cart-discount-service/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; cart payloads are tiny
const maxBodyBytes = 1 << 16

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// urlID parses a positive integer URL parameter
func urlID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// cartID returns the id resolved by the cart identity middleware
func cartID(r *http.Request) int {
	id, _ := middleware.GetCartID(r.Context())
	return id
}

// writeServiceError maps service errors to status codes. Unexpected errors
// are logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDiscount):
		middleware.WriteError(w, http.StatusBadRequest, "invalid discount")
	case errors.Is(err, models.ErrCartNotFound):
		middleware.WriteError(w, http.StatusBadRequest, "invalid cart")
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrTicketNotFound):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDiscountNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrCartBusy):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
