package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-discount-service/internal/discounts"
	"cart-discount-service/internal/models"
	"cart-discount-service/internal/repositories"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// TicketRemoval reports a ticket deletion and the discounts it invalidated
type TicketRemoval struct {
	Deleted     int64              `json:"deleted"`
	Invalidated []*models.Discount `json:"invalidated"`
}

// CartService coordinates ticket and discount changes of a cart. Every
// change that reads entitlement and then writes runs under the cart's lock
// and inside one transaction.
type CartService struct {
	store     repositories.Store
	locker    CartLocker
	publisher EventPublisher
	catalog   Catalog
	logger    *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store repositories.Store, locker CartLocker, publisher EventPublisher, catalog Catalog, logger *zap.Logger) *CartService {
	return &CartService{
		store:     store,
		locker:    locker,
		publisher: publisher,
		catalog:   catalog,
		logger:    logger,
	}
}

// CartExists reports whether the cart is known
func (s *CartService) CartExists(ctx context.Context, cartID int) (bool, error) {
	exists, err := s.store.Ledgers().Carts.CartExists(ctx, cartID)
	if err != nil {
		return false, fmt.Errorf("failed to check cart: %w", err)
	}
	return exists, nil
}

// GetCart returns the tickets and recorded discounts of a cart
func (s *CartService) GetCart(ctx context.Context, cartID int) (*models.CartContents, error) {
	contents := &models.CartContents{CartID: cartID}

	err := s.store.WithinReadTx(ctx, func(l repositories.Ledgers) error {
		if err := requireCart(ctx, l, cartID); err != nil {
			return err
		}

		tickets, err := l.Tickets.TicketsByCart(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to get tickets: %w", err)
		}

		recorded, err := l.Discounts.DiscountsByCart(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to get discounts: %w", err)
		}

		contents.Tickets = tickets
		contents.Discounts = recorded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contents, nil
}

// AddTicket prices the ticket from the catalog, checks it matches the
// event's admission mode and stores it
func (s *CartService) AddTicket(ctx context.Context, cartID int, req *models.TicketCreateRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	mode, err := s.catalog.EventMode(ctx, req.EventID)
	if err != nil {
		return 0, err
	}
	if err := req.ValidateForMode(mode); err != nil {
		return 0, err
	}

	price, err := s.catalog.TicketPrice(ctx, req.Type, req.EventID)
	if err != nil {
		return 0, err
	}

	l := s.store.Ledgers()
	if err := requireCart(ctx, l, cartID); err != nil {
		return 0, err
	}

	ticket := &models.Ticket{
		CartID:   cartID,
		EventID:  req.EventID,
		Type:     req.Type,
		Price:    price,
		SeatID:   req.SeatID,
		GAAreaID: req.GAAreaID,
	}
	id, err := l.Tickets.InsertTicket(ctx, ticket)
	if err != nil {
		return 0, fmt.Errorf("failed to add ticket: %w", err)
	}

	s.logger.Info("ticket added",
		zap.Int("cart_id", cartID),
		zap.Int("ticket_id", id),
		zap.Int("event_id", req.EventID),
		zap.String("type", string(req.Type)),
		zap.Bool("allocated", ticket.IsAllocated()),
	)
	return id, nil
}

// RemoveTicket deletes a ticket of the cart and drops the discounts the
// remaining tickets no longer support
func (s *CartService) RemoveTicket(ctx context.Context, cartID, ticketID int) (*TicketRemoval, error) {
	removal := &TicketRemoval{}

	err := s.withCart(ctx, cartID, func(l repositories.Ledgers) error {
		deleted, err := l.Tickets.DeleteTicket(ctx, cartID, ticketID)
		if err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		if deleted == 0 {
			return fmt.Errorf("%w: ticket %d in cart %d", models.ErrTicketNotFound, ticketID, cartID)
		}

		invalidated, err := discounts.NewReconciler(l.Tickets, l.Discounts).Reconcile(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to reconcile discounts: %w", err)
		}

		removal.Deleted = deleted
		removal.Invalidated = invalidated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket removed",
		zap.Int("cart_id", cartID),
		zap.Int("ticket_id", ticketID),
		zap.Int("invalidated", len(removal.Invalidated)),
	)
	s.publishAll(ctx, EventDiscountInvalidated, removal.Invalidated)

	if removal.Invalidated == nil {
		removal.Invalidated = []*models.Discount{}
	}
	return removal, nil
}

// ListEligible returns the discounts the cart can still be granted
// from one snapshot of its tickets and discounts
func (s *CartService) ListEligible(ctx context.Context, cartID int) ([]models.EligibleDiscount, error) {
	var eligible []models.EligibleDiscount

	err := s.store.WithinReadTx(ctx, func(l repositories.Ledgers) error {
		if err := requireCart(ctx, l, cartID); err != nil {
			return err
		}

		var err error
		eligible, err = discounts.NewCalculator(l.Tickets, l.Discounts).ComputeEligible(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to compute eligible discounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return eligible, nil
}

// ApplyDiscount records one more discount instance if the cart is entitled
// to it. Returns ErrInvalidDiscount otherwise.
func (s *CartService) ApplyDiscount(ctx context.Context, cartID int, proposal models.DiscountProposal) (int, error) {
	if err := proposal.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidDiscount, err)
	}

	var applied *models.Discount
	err := s.withCart(ctx, cartID, func(l repositories.Ledgers) error {
		calc := discounts.NewCalculator(l.Tickets, l.Discounts)
		valid, err := discounts.NewValidator(calc).IsValid(ctx, cartID, proposal)
		if err != nil {
			return fmt.Errorf("failed to validate discount: %w", err)
		}
		if !valid {
			return models.ErrInvalidDiscount
		}

		id, err := l.Discounts.InsertDiscount(ctx, cartID, proposal.EventID, proposal.Type)
		if err != nil {
			return fmt.Errorf("failed to apply discount: %w", err)
		}

		applied = &models.Discount{ID: id, CartID: cartID, EventID: proposal.EventID, Type: proposal.Type}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidDiscount) {
			s.logger.Info("discount rejected",
				zap.Int("cart_id", cartID),
				zap.Int("event_id", proposal.EventID),
				zap.String("type", string(proposal.Type)),
				zap.Bool("known_type", proposal.Type.IsKnown()),
			)
		}
		return 0, err
	}

	s.logger.Info("discount applied",
		zap.Int("cart_id", cartID),
		zap.Int("discount_id", applied.ID),
		zap.Int("event_id", applied.EventID),
		zap.String("type", string(applied.Type)),
	)
	s.publish(ctx, newDiscountEvent(EventDiscountApplied, applied))
	return applied.ID, nil
}

// RemoveDiscount deletes one recorded discount of the cart
func (s *CartService) RemoveDiscount(ctx context.Context, cartID, discountID int) error {
	var removed *models.Discount

	err := s.withCart(ctx, cartID, func(l repositories.Ledgers) error {
		recorded, err := l.Discounts.DiscountsByCart(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to get discounts: %w", err)
		}
		for _, d := range recorded {
			if d.ID == discountID {
				removed = d
				break
			}
		}
		if removed == nil {
			return fmt.Errorf("%w: discount %d in cart %d", models.ErrDiscountNotFound, discountID, cartID)
		}

		if _, err := l.Discounts.DeleteCartDiscount(ctx, cartID, discountID); err != nil {
			return fmt.Errorf("failed to delete discount: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("discount removed", zap.Int("cart_id", cartID), zap.Int("discount_id", discountID))
	s.publish(ctx, newDiscountEvent(EventDiscountRemoved, removed))
	return nil
}

// Reconcile drops the cart's discounts its tickets no longer support
func (s *CartService) Reconcile(ctx context.Context, cartID int) ([]*models.Discount, error) {
	var invalidated []*models.Discount

	err := s.withCart(ctx, cartID, func(l repositories.Ledgers) error {
		var err error
		invalidated, err = discounts.NewReconciler(l.Tickets, l.Discounts).Reconcile(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to reconcile discounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(invalidated) > 0 {
		s.logger.Info("discounts invalidated", zap.Int("cart_id", cartID), zap.Int("count", len(invalidated)))
	}
	s.publishAll(ctx, EventDiscountInvalidated, invalidated)

	if invalidated == nil {
		invalidated = []*models.Discount{}
	}
	return invalidated, nil
}

// withCart runs fn under the cart's lock in one transaction. The cart row
// is locked first so other instances sharing the database wait for the
// commit. fn must only use the ledgers it is given.
func (s *CartService) withCart(ctx context.Context, cartID int, fn func(l repositories.Ledgers) error) error {
	unlock, err := s.locker.Lock(ctx, cartID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.store.WithinTx(ctx, func(l repositories.Ledgers) error {
		if err := l.Carts.LockCart(ctx, cartID); err != nil {
			return err
		}
		return fn(l)
	})
}

func (s *CartService) publishAll(ctx context.Context, eventType string, rows []*models.Discount) {
	for _, d := range rows {
		s.publish(ctx, newDiscountEvent(eventType, d))
	}
}

// publish runs after commit; a broker failure never undoes a change
func (s *CartService) publish(ctx context.Context, event DiscountEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish discount event",
			zap.String("event", event.Type),
			zap.Int("cart_id", event.CartID),
			zap.Int("discount_id", event.DiscountID),
			zap.Error(err),
		)
	}
}

func requireCart(ctx context.Context, l repositories.Ledgers, cartID int) error {
	exists, err := l.Carts.CartExists(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to check cart: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", models.ErrCartNotFound, cartID)
	}
	return nil
}
