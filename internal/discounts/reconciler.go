package discounts

import (
	"context"
	"fmt"

	"cart-discount-service/internal/models"
)

// Reconciler shrinks recorded discounts back to what the tickets of each
// bucket can structurally support
type Reconciler struct {
	tickets   TicketLedger
	discounts DiscountLedger
}

// NewReconciler creates a reconciler over the given ledgers
func NewReconciler(tickets TicketLedger, discounts DiscountLedger) *Reconciler {
	return &Reconciler{tickets: tickets, discounts: discounts}
}

// Reconcile deletes discount rows that the cart's current tickets no longer
// support and returns the rows it removed. It works on raw ticket counts,
// visits only events that have recorded discounts, and never grants new
// ones. Surplus rows are removed oldest first. Running it on a consistent
// cart is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context, cartID int) ([]*models.Discount, error) {
	recorded, err := r.discounts.DiscountsByCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts for cart %d: %w", cartID, err)
	}

	var removed []*models.Discount
	for _, eventID := range distinctEventIDs(recorded, func(d *models.Discount) int { return d.EventID }) {
		bucketRemoved, err := r.reconcileBucket(ctx, cartID, eventID)
		if err != nil {
			return removed, err
		}
		removed = append(removed, bucketRemoved...)
	}

	return removed, nil
}

func (r *Reconciler) reconcileBucket(ctx context.Context, cartID, eventID int) ([]*models.Discount, error) {
	families, err := r.discounts.DiscountsByCartEventType(ctx, cartID, eventID, models.DiscountFamily)
	if err != nil {
		return nil, fmt.Errorf("failed to get family discounts for event %d: %w", eventID, err)
	}

	groups, err := r.discounts.DiscountsByCartEventType(ctx, cartID, eventID, models.DiscountGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to get group discounts for event %d: %w", eventID, err)
	}

	raw, err := countBucketTickets(ctx, r.tickets, cartID, eventID)
	if err != nil {
		return nil, err
	}

	removed, err := r.trim(ctx, families, FamilyCapacity(raw.adults, raw.children))
	if err != nil {
		return removed, err
	}

	removedGroups, err := r.trim(ctx, groups, GroupCapacity(raw.adults))
	return append(removed, removedGroups...), err
}

// trim deletes the leading rows beyond capacity
func (r *Reconciler) trim(ctx context.Context, rows []*models.Discount, capacity int) ([]*models.Discount, error) {
	surplus := len(rows) - capacity
	if surplus <= 0 {
		return nil, nil
	}

	removed := make([]*models.Discount, 0, surplus)
	for _, row := range rows[:surplus] {
		n, err := r.discounts.DeleteDiscount(ctx, row.ID)
		if err != nil {
			return removed, fmt.Errorf("failed to delete discount %d: %w", row.ID, err)
		}
		if n > 0 {
			removed = append(removed, row)
		}
	}

	return removed, nil
}
