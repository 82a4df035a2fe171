package discounts_test

import (
	"context"
	"testing"

	"cart-discount-service/internal/discounts"
	"cart-discount-service/internal/models"
	"cart-discount-service/internal/repositories"

	"github.com/stretchr/testify/require"
)

const (
	cartID      = 200
	otherCartID = 201

	event2 = 2
	event3 = 3
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	ledgers repositories.Ledgers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repositories.NewMemoryStore()
	f := &fixture{t: t, ctx: context.Background(), ledgers: store.Ledgers()}
	require.NoError(t, f.ledgers.Carts.CreateCart(f.ctx, cartID))
	require.NoError(t, f.ledgers.Carts.CreateCart(f.ctx, otherCartID))
	return f
}

func (f *fixture) addTickets(cart, eventID int, ticketType models.TicketType, n int) {
	f.t.Helper()
	area := 1
	for i := 0; i < n; i++ {
		_, err := f.ledgers.Tickets.InsertTicket(f.ctx, &models.Ticket{
			CartID:   cart,
			EventID:  eventID,
			Type:     ticketType,
			Price:    20,
			GAAreaID: &area,
		})
		require.NoError(f.t, err)
	}
}

func (f *fixture) addDiscounts(cart, eventID int, discountType models.DiscountType, n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.ledgers.Discounts.InsertDiscount(f.ctx, cart, eventID, discountType)
		require.NoError(f.t, err)
	}
}

func (f *fixture) removeTickets(cart, eventID int, ticketType models.TicketType, n int) {
	f.t.Helper()
	tickets, err := f.ledgers.Tickets.TicketsByCartEventType(f.ctx, cart, eventID, ticketType)
	require.NoError(f.t, err)
	require.GreaterOrEqual(f.t, len(tickets), n)
	for _, tk := range tickets[:n] {
		deleted, err := f.ledgers.Tickets.DeleteTicket(f.ctx, cart, tk.ID)
		require.NoError(f.t, err)
		require.EqualValues(f.t, 1, deleted)
	}
}

func (f *fixture) eligible(cart int) []models.EligibleDiscount {
	f.t.Helper()
	calc := discounts.NewCalculator(f.ledgers.Tickets, f.ledgers.Discounts)
	eligible, err := calc.ComputeEligible(f.ctx, cart)
	require.NoError(f.t, err)
	return eligible
}

func (f *fixture) reconcile(cart int) []*models.Discount {
	f.t.Helper()
	removed, err := discounts.NewReconciler(f.ledgers.Tickets, f.ledgers.Discounts).Reconcile(f.ctx, cart)
	require.NoError(f.t, err)
	return removed
}

func (f *fixture) recorded(cart int) []*models.Discount {
	f.t.Helper()
	rows, err := f.ledgers.Discounts.DiscountsByCart(f.ctx, cart)
	require.NoError(f.t, err)
	return rows
}

func filterEligible(list []models.EligibleDiscount, eventID int, discountType models.DiscountType) []models.EligibleDiscount {
	var out []models.EligibleDiscount
	for _, e := range list {
		if (eventID == 0 || e.EventID == eventID) && (discountType == "" || e.Type == discountType) {
			out = append(out, e)
		}
	}
	return out
}

func countRecorded(rows []*models.Discount, eventID int, discountType models.DiscountType) int {
	n := 0
	for _, d := range rows {
		if (eventID == 0 || d.EventID == eventID) && (discountType == "" || d.Type == discountType) {
			n++
		}
	}
	return n
}
