package discounts_test

import (
	"testing"

	"cart-discount-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_Reconcile(t *testing.T) {
	type seeded struct {
		eventID      int
		discountType models.DiscountType
		n            int
	}

	tests := []struct {
		name        string
		buckets     []bucket
		discounts   []seeded
		wantRemoved int
		wantGroups  map[int]int
		wantFamily  map[int]int
	}{
		{
			name:        "3A with a group loses the group",
			buckets:     []bucket{{eventID: event2, adults: 3}},
			discounts:   []seeded{{event2, models.DiscountGroup, 1}},
			wantRemoved: 1,
			wantGroups:  map[int]int{event2: 0},
		},
		{
			name:        "4A with two groups keeps one",
			buckets:     []bucket{{eventID: event2, adults: 4}},
			discounts:   []seeded{{event2, models.DiscountGroup, 2}},
			wantRemoved: 1,
			wantGroups:  map[int]int{event2: 1},
		},
		{
			name:        "2A 1C with a family and a group loses both",
			buckets:     []bucket{{eventID: event2, adults: 2, children: 1}},
			discounts:   []seeded{{event2, models.DiscountFamily, 1}, {event2, models.DiscountGroup, 1}},
			wantRemoved: 2,
			wantGroups:  map[int]int{event2: 0},
			wantFamily:  map[int]int{event2: 0},
		},
		{
			name:        "3A 2C with a family and a group loses the group",
			buckets:     []bucket{{eventID: event2, adults: 3, children: 2}},
			discounts:   []seeded{{event2, models.DiscountFamily, 1}, {event2, models.DiscountGroup, 1}},
			wantRemoved: 1,
			wantGroups:  map[int]int{event2: 0},
			wantFamily:  map[int]int{event2: 1},
		},
		{
			name:        "4A 6C with three families and two groups loses one of each",
			buckets:     []bucket{{eventID: event2, adults: 4, children: 6}},
			discounts:   []seeded{{event2, models.DiscountFamily, 3}, {event2, models.DiscountGroup, 2}},
			wantRemoved: 2,
			wantGroups:  map[int]int{event2: 1},
			wantFamily:  map[int]int{event2: 2},
		},
		{
			name:        "4A with a group is untouched",
			buckets:     []bucket{{eventID: event2, adults: 4}},
			discounts:   []seeded{{event2, models.DiscountGroup, 1}},
			wantRemoved: 0,
			wantGroups:  map[int]int{event2: 1},
		},
		{
			name:        "4A 2C with a group and a family is untouched",
			buckets:     []bucket{{eventID: event2, adults: 4, children: 2}},
			discounts:   []seeded{{event2, models.DiscountGroup, 1}, {event2, models.DiscountFamily, 1}},
			wantRemoved: 0,
			wantGroups:  map[int]int{event2: 1},
			wantFamily:  map[int]int{event2: 1},
		},
		{
			name:        "3A and 4A across events with a group each keeps the second",
			buckets:     []bucket{{eventID: event2, adults: 3}, {eventID: event3, adults: 4}},
			discounts:   []seeded{{event2, models.DiscountGroup, 1}, {event3, models.DiscountGroup, 1}},
			wantRemoved: 1,
			wantGroups:  map[int]int{event2: 0, event3: 1},
		},
		{
			name:        "family per event with 1C and 2C keeps the second",
			buckets:     []bucket{{eventID: event2, adults: 2, children: 1}, {eventID: event3, adults: 2, children: 2}},
			discounts:   []seeded{{event2, models.DiscountFamily, 1}, {event3, models.DiscountFamily, 1}},
			wantRemoved: 1,
			wantFamily:  map[int]int{event2: 0, event3: 1},
		},
		{
			name:        "discount for an event without tickets is removed",
			buckets:     []bucket{{eventID: event2, adults: 4}},
			discounts:   []seeded{{event3, models.DiscountGroup, 1}},
			wantRemoved: 1,
			wantGroups:  map[int]int{event2: 0, event3: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, b := range tt.buckets {
				f.addTickets(cartID, b.eventID, models.TicketAdult, b.adults)
				f.addTickets(cartID, b.eventID, models.TicketChild, b.children)
			}
			for _, d := range tt.discounts {
				f.addDiscounts(cartID, d.eventID, d.discountType, d.n)
			}

			removed := f.reconcile(cartID)
			assert.Len(t, removed, tt.wantRemoved)

			rows := f.recorded(cartID)
			for eventID, want := range tt.wantGroups {
				assert.Equal(t, want, countRecorded(rows, eventID, models.DiscountGroup), "groups for event %d", eventID)
			}
			for eventID, want := range tt.wantFamily {
				assert.Equal(t, want, countRecorded(rows, eventID, models.DiscountFamily), "families for event %d", eventID)
			}
		})
	}
}

func TestReconciler_Reconcile_RemovesOldestFirst(t *testing.T) {
	f := newFixture(t)
	f.addTickets(cartID, event2, models.TicketAdult, 4)
	f.addDiscounts(cartID, event2, models.DiscountGroup, 3)

	before := f.recorded(cartID)
	require.Len(t, before, 3)

	removed := f.reconcile(cartID)

	require.Len(t, removed, 2)
	assert.Equal(t, before[0].ID, removed[0].ID)
	assert.Equal(t, before[1].ID, removed[1].ID)

	after := f.recorded(cartID)
	require.Len(t, after, 1)
	assert.Equal(t, before[2].ID, after[0].ID)
}

func TestReconciler_Reconcile_LeavesOtherCarts(t *testing.T) {
	f := newFixture(t)
	f.addTickets(otherCartID, event2, models.TicketAdult, 3)
	f.addDiscounts(otherCartID, event2, models.DiscountGroup, 1)

	assert.Empty(t, f.reconcile(cartID))
	assert.Len(t, f.recorded(otherCartID), 1)
}

func TestReconciler_Reconcile_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addTickets(cartID, event2, models.TicketAdult, 4)
	f.addTickets(cartID, event2, models.TicketChild, 6)
	f.addDiscounts(cartID, event2, models.DiscountFamily, 3)
	f.addDiscounts(cartID, event2, models.DiscountGroup, 2)

	first := f.reconcile(cartID)
	afterFirst := f.recorded(cartID)

	second := f.reconcile(cartID)

	assert.NotEmpty(t, first)
	assert.Empty(t, second)
	assert.Equal(t, afterFirst, f.recorded(cartID))
}

func TestReconciler_Reconcile_AfterTicketRemoval(t *testing.T) {
	f := newFixture(t)
	f.addTickets(cartID, event2, models.TicketAdult, 4)
	f.addTickets(cartID, event2, models.TicketChild, 2)
	f.addDiscounts(cartID, event2, models.DiscountGroup, 1)
	f.addDiscounts(cartID, event2, models.DiscountFamily, 1)

	f.removeTickets(cartID, event2, models.TicketAdult, 1)
	removed := f.reconcile(cartID)

	require.Len(t, removed, 1)
	assert.Equal(t, models.DiscountGroup, removed[0].Type)

	rows := f.recorded(cartID)
	assert.Equal(t, 0, countRecorded(rows, event2, models.DiscountGroup))
	assert.Equal(t, 1, countRecorded(rows, event2, models.DiscountFamily))
}

func TestReconciler_Reconcile_NeverAddsRows(t *testing.T) {
	f := newFixture(t)
	f.addTickets(cartID, event2, models.TicketAdult, 4)
	f.addTickets(cartID, event2, models.TicketChild, 3)

	assert.Empty(t, f.reconcile(cartID))
	assert.Empty(t, f.recorded(cartID))
}

func TestReconciler_Reconcile_BoundsHoldAfterwards(t *testing.T) {
	f := newFixture(t)
	for adults := 0; adults <= 5; adults++ {
		for children := 0; children <= 6; children++ {
			eventID := 10 + adults*10 + children
			f.addTickets(cartID, eventID, models.TicketAdult, adults)
			f.addTickets(cartID, eventID, models.TicketChild, children)
			f.addDiscounts(cartID, eventID, models.DiscountGroup, 2)
			f.addDiscounts(cartID, eventID, models.DiscountFamily, 3)
		}
	}

	f.reconcile(cartID)
	rows := f.recorded(cartID)

	for adults := 0; adults <= 5; adults++ {
		for children := 0; children <= 6; children++ {
			eventID := 10 + adults*10 + children
			groups := countRecorded(rows, eventID, models.DiscountGroup)
			families := countRecorded(rows, eventID, models.DiscountFamily)

			if adults >= 4 {
				assert.Equal(t, 1, groups, "groups for %dA %dC", adults, children)
			} else {
				assert.Equal(t, 0, groups, "groups for %dA %dC", adults, children)
			}
			assert.LessOrEqual(t, families, 3, "families for %dA %dC", adults, children)
			assert.LessOrEqual(t, families*2, adults, "families for %dA %dC", adults, children)
		}
	}
}
