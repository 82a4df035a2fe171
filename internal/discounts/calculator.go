package discounts

import (
	"context"
	"fmt"

	"cart-discount-service/internal/models"
)

// Calculator computes the discounts a cart can still be granted
type Calculator struct {
	tickets   TicketLedger
	discounts DiscountLedger
}

// NewCalculator creates a calculator over the given ledgers
func NewCalculator(tickets TicketLedger, discounts DiscountLedger) *Calculator {
	return &Calculator{tickets: tickets, discounts: discounts}
}

// ComputeEligible returns the additional discounts each event bucket of the
// cart supports right now. Entries follow the order in which events first
// appear among the cart's tickets, Group before Family within an event.
// Entries with no remaining amount are left out.
//
// Counts are netted against recorded discounts as they are taken: a
// recorded Group discount consumes the whole adult pool of its event, which
// also removes any Family entitlement for that event, and each recorded
// Family discount consumes two adults and three children.
func (c *Calculator) ComputeEligible(ctx context.Context, cartID int) ([]models.EligibleDiscount, error) {
	tickets, err := c.tickets.TicketsByCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for cart %d: %w", cartID, err)
	}

	eventIDs := distinctEventIDs(tickets, func(t *models.Ticket) int { return t.EventID })

	eligible := make([]models.EligibleDiscount, 0, len(eventIDs)*2)
	for _, eventID := range eventIDs {
		adults, children, err := c.netCounts(ctx, cartID, eventID)
		if err != nil {
			return nil, err
		}

		if amount := GroupCapacity(adults); amount > 0 {
			eligible = append(eligible, models.EligibleDiscount{
				EventID: eventID,
				Type:    models.DiscountGroup,
				Amount:  amount,
			})
		}

		if amount := FamilyCapacity(adults, children); amount > 0 {
			eligible = append(eligible, models.EligibleDiscount{
				EventID: eventID,
				Type:    models.DiscountFamily,
				Amount:  amount,
			})
		}
	}

	return eligible, nil
}

// netCounts returns the adult and child counts of a bucket that are not yet
// covered by a recorded discount. Net adults may go negative when Family
// rows outnumber the adults present; downstream capacity checks treat that
// the same as zero.
func (c *Calculator) netCounts(ctx context.Context, cartID, eventID int) (int, int, error) {
	raw, err := countBucketTickets(ctx, c.tickets, cartID, eventID)
	if err != nil {
		return 0, 0, err
	}

	groups, err := c.discounts.DiscountsByCartEventType(ctx, cartID, eventID, models.DiscountGroup)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get group discounts for event %d: %w", eventID, err)
	}

	families, err := c.discounts.DiscountsByCartEventType(ctx, cartID, eventID, models.DiscountFamily)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get family discounts for event %d: %w", eventID, err)
	}

	adults := raw.adults - familyAdults*len(families)
	if len(groups) > 0 {
		adults = 0
	}
	children := max(0, raw.children-familyChildren*len(families))

	return adults, children, nil
}
