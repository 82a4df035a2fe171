// Package discounts computes, validates and reconciles Group and Family
// discount entitlement for the event buckets of a cart.
//
// A bucket is the set of tickets and discount rows sharing one
// (cart, event) pair. Everything in this package is keyed on that pair.
package discounts

import (
	"context"

	"cart-discount-service/internal/models"
)

// TicketLedger is the read side of the ticket store used by the engine
type TicketLedger interface {
	TicketsByCart(ctx context.Context, cartID int) ([]*models.Ticket, error)
	TicketsByCartEventType(ctx context.Context, cartID, eventID int, ticketType models.TicketType) ([]*models.Ticket, error)
}

// DiscountLedger stores one row per granted discount instance.
// Fetches return rows in insertion (id) order.
type DiscountLedger interface {
	DiscountsByCart(ctx context.Context, cartID int) ([]*models.Discount, error)
	DiscountsByCartEventType(ctx context.Context, cartID, eventID int, discountType models.DiscountType) ([]*models.Discount, error)
	InsertDiscount(ctx context.Context, cartID, eventID int, discountType models.DiscountType) (int, error)
	DeleteDiscount(ctx context.Context, id int) (int64, error)
}
