package services

import (
	"context"

	"cart-discount-service/internal/models"
)

// CartServiceInterface defines the cart operations exposed over HTTP
type CartServiceInterface interface {
	CartExists(ctx context.Context, cartID int) (bool, error)
	GetCart(ctx context.Context, cartID int) (*models.CartContents, error)
	AddTicket(ctx context.Context, cartID int, req *models.TicketCreateRequest) (int, error)
	RemoveTicket(ctx context.Context, cartID, ticketID int) (*TicketRemoval, error)
	ListEligible(ctx context.Context, cartID int) ([]models.EligibleDiscount, error)
	ApplyDiscount(ctx context.Context, cartID int, proposal models.DiscountProposal) (int, error)
	RemoveDiscount(ctx context.Context, cartID, discountID int) error
	Reconcile(ctx context.Context, cartID int) ([]*models.Discount, error)
}

// CartLocker serializes mutations of a single cart. The returned function
// releases the lock and is safe to call more than once.
type CartLocker interface {
	Lock(ctx context.Context, cartID int) (unlock func(), err error)
}

// EventPublisher delivers discount events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event DiscountEvent) error
	Close() error
}

// Catalog looks up event and ticket type data owned by other services
type Catalog interface {
	EventMode(ctx context.Context, eventID int) (models.EventMode, error)
	TicketPrice(ctx context.Context, ticketType models.TicketType, eventID int) (int, error)
}
