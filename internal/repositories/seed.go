package repositories

import (
	"context"
	"fmt"

	"cart-discount-service/internal/models"
)

// DemoCartIDs are the carts created by SeedDemoData
var DemoCartIDs = []int{100, 101, 102, 200, 201, 202, 203}

func demoTickets() []*models.Ticket {
	ptr := func(v int) *int { return &v }
	return []*models.Ticket{
		{CartID: 100, EventID: 1, Type: models.TicketAdult, Price: 25, SeatID: ptr(50)},
		{CartID: 100, EventID: 1, Type: models.TicketAdult, Price: 25, SeatID: ptr(49)},
		{CartID: 100, EventID: 1, Type: models.TicketAdult, Price: 25, SeatID: ptr(48)},
		{CartID: 100, EventID: 1, Type: models.TicketAdult, Price: 25, SeatID: ptr(47)},
		{CartID: 101, EventID: 1, Type: models.TicketAdult, Price: 25, SeatID: ptr(46)},
		{CartID: 101, EventID: 2, Type: models.TicketAdult, Price: 25, GAAreaID: ptr(1)},
	}
}

// SeedDemoData loads the demo carts, their tickets and the group discount
// earned by cart 100. A store that already holds the demo carts is left
// untouched.
func SeedDemoData(ctx context.Context, store Store) error {
	return store.WithinTx(ctx, func(l Ledgers) error {
		exists, err := l.Carts.CartExists(ctx, DemoCartIDs[0])
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		for _, id := range DemoCartIDs {
			if err := l.Carts.CreateCart(ctx, id); err != nil {
				return err
			}
		}

		for _, ticket := range demoTickets() {
			if _, err := l.Tickets.InsertTicket(ctx, ticket); err != nil {
				return fmt.Errorf("failed to seed ticket: %w", err)
			}
		}

		if _, err := l.Discounts.InsertDiscount(ctx, 100, 1, models.DiscountGroup); err != nil {
			return fmt.Errorf("failed to seed discount: %w", err)
		}
		return nil
	})
}
