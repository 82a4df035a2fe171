package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cart-discount-service/internal/models"
)

// CatalogEvent is the catalog entry of one event
type CatalogEvent struct {
	ID     int                       `json:"id"`
	Mode   models.EventMode          `json:"mode"`
	Prices map[models.TicketType]int `json:"prices"`
}

// StaticCatalog serves event data from a fixed table
type StaticCatalog struct {
	events map[int]CatalogEvent
}

// NewStaticCatalog creates a catalog from the given events
func NewStaticCatalog(events []CatalogEvent) *StaticCatalog {
	c := &StaticCatalog{events: make(map[int]CatalogEvent, len(events))}
	for _, e := range events {
		c.events[e.ID] = e
	}
	return c
}

// DefaultCatalog returns the demo events the seed data refers to
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog([]CatalogEvent{
		{ID: 1, Mode: models.EventAllocated, Prices: map[models.TicketType]int{models.TicketAdult: 25, models.TicketChild: 15}},
		{ID: 2, Mode: models.EventGeneralAdmission, Prices: map[models.TicketType]int{models.TicketAdult: 20, models.TicketChild: 15}},
		{ID: 3, Mode: models.EventGeneralAdmission, Prices: map[models.TicketType]int{models.TicketAdult: 25, models.TicketChild: 20}},
	})
}

// LoadCatalog reads a catalog from a JSON file of the form
// {"events":[{"id":1,"mode":"allocated","prices":{"Adult":25}}]}
func LoadCatalog(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file struct {
		Events []CatalogEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for _, e := range file.Events {
		if e.Mode != models.EventAllocated && e.Mode != models.EventGeneralAdmission {
			return nil, fmt.Errorf("catalog event %d has unknown mode %q", e.ID, e.Mode)
		}
	}

	return NewStaticCatalog(file.Events), nil
}

// EventMode returns the admission mode of an event
func (c *StaticCatalog) EventMode(ctx context.Context, eventID int) (models.EventMode, error) {
	e, ok := c.events[eventID]
	if !ok {
		return "", fmt.Errorf("%w: event of id:%d", models.ErrEventNotFound, eventID)
	}
	return e.Mode, nil
}

// TicketPrice returns the price of a ticket type for an event
func (c *StaticCatalog) TicketPrice(ctx context.Context, ticketType models.TicketType, eventID int) (int, error) {
	e, ok := c.events[eventID]
	if !ok {
		return 0, fmt.Errorf("%w: event of id:%d", models.ErrEventNotFound, eventID)
	}

	price, ok := e.Prices[ticketType]
	if !ok {
		return 0, fmt.Errorf("%w: ticket of type:%s and event id:%d not found", models.ErrInvalidInput, ticketType, eventID)
	}
	return price, nil
}
