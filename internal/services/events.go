package services

import (
	"time"

	"cart-discount-service/internal/models"
)

// Discount event types
const (
	EventDiscountApplied     = "discount.applied"
	EventDiscountInvalidated = "discount.invalidated"
	EventDiscountRemoved     = "discount.removed"
)

// DiscountEvent is published whenever a discount row is created or deleted.
// It carries enough for consumers to update pricing without reading the
// cart back.
type DiscountEvent struct {
	Type         string              `json:"type"`
	CartID       int                 `json:"cart_id"`
	EventID      int                 `json:"event_id"`
	DiscountID   int                 `json:"discount_id"`
	DiscountType models.DiscountType `json:"discount_type"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

func newDiscountEvent(eventType string, d *models.Discount) DiscountEvent {
	return DiscountEvent{
		Type:         eventType,
		CartID:       d.CartID,
		EventID:      d.EventID,
		DiscountID:   d.ID,
		DiscountType: d.Type,
		OccurredAt:   time.Now().UTC(),
	}
}
