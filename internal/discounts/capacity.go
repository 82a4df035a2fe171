package discounts

import (
	"context"
	"fmt"

	"cart-discount-service/internal/models"
)

const (
	// groupMinAdults is the adult count that earns the single Group discount
	groupMinAdults = 4

	familyAdults   = 2
	familyChildren = 3
)

// GroupCapacity returns how many Group discounts an adult count supports.
// A bucket earns at most one, however many adults it holds.
func GroupCapacity(adults int) int {
	if adults >= groupMinAdults {
		return 1
	}
	return 0
}

// FamilyCapacity returns how many Family discounts the given adult and
// child counts support. A family unit is two adults with either two or
// three children: children are grouped in threes and a leftover pair still
// forms a unit, a single leftover child does not.
func FamilyCapacity(adults, children int) int {
	if adults <= 0 || children <= 0 {
		return 0
	}

	adultPairs := adults / familyAdults
	childTrios := children / familyChildren
	leftover := children - childTrios*familyChildren

	childUnits := childTrios
	if leftover == 2 {
		childUnits++
	}

	return min(adultPairs, childUnits)
}

// distinctEventIDs returns event ids in first-seen order
func distinctEventIDs[T any](rows []T, eventID func(T) int) []int {
	seen := make(map[int]bool, len(rows))
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		id := eventID(row)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// rawCounts holds the un-netted ticket counts of one bucket
type rawCounts struct {
	adults   int
	children int
}

func countBucketTickets(ctx context.Context, tickets TicketLedger, cartID, eventID int) (rawCounts, error) {
	adults, err := tickets.TicketsByCartEventType(ctx, cartID, eventID, models.TicketAdult)
	if err != nil {
		return rawCounts{}, fmt.Errorf("failed to count adult tickets for event %d: %w", eventID, err)
	}

	children, err := tickets.TicketsByCartEventType(ctx, cartID, eventID, models.TicketChild)
	if err != nil {
		return rawCounts{}, fmt.Errorf("failed to count child tickets for event %d: %w", eventID, err)
	}

	return rawCounts{adults: len(adults), children: len(children)}, nil
}
