package models

import (
	"errors"
	"fmt"
	"strings"
)

// TicketType is the admission category of a ticket. Only Adult and Child
// matter for discounts; other values are stored but ignored.
type TicketType string

const (
	TicketAdult TicketType = "Adult"
	TicketChild TicketType = "Child"
)

// EventMode distinguishes seat-allocated events from general admission
type EventMode string

const (
	EventAllocated        EventMode = "allocated"
	EventGeneralAdmission EventMode = "generalAdmission"
)

// Ticket represents one purchased admission unit in a cart
type Ticket struct {
	ID       int        `json:"id" db:"id"`
	CartID   int        `json:"cart_id" db:"cart_id"`
	EventID  int        `json:"event_id" db:"event_id"`
	Type     TicketType `json:"type" db:"type"`
	Price    int        `json:"price" db:"price"`
	SeatID   *int       `json:"seat_id" db:"seat_id"`
	GAAreaID *int       `json:"ga_area_id" db:"ga_area_id"`
}

// IsAllocated reports whether the ticket holds a specific seat
func (t *Ticket) IsAllocated() bool {
	return t.SeatID != nil
}

// Validate checks that exactly one of seat and GA area is set
func (t *Ticket) Validate() error {
	if t.EventID <= 0 {
		return errors.New("event id is required")
	}
	if strings.TrimSpace(string(t.Type)) == "" {
		return errors.New("ticket type is required")
	}
	if t.Price < 0 {
		return errors.New("ticket price cannot be negative")
	}
	if (t.SeatID == nil) == (t.GAAreaID == nil) {
		return errors.New("exactly one of seat_id and ga_area_id must be set")
	}
	return nil
}

// TicketCreateRequest represents a request to add a ticket to a cart.
// Price is not accepted from clients; it comes from the catalog.
type TicketCreateRequest struct {
	EventID  int        `json:"event_id" validate:"required,gt=0"`
	Type     TicketType `json:"type" validate:"required"`
	SeatID   *int       `json:"seat_id" validate:"omitempty,gt=0"`
	GAAreaID *int       `json:"ga_area_id" validate:"omitempty,gt=0"`
}

// Validate validates the request fields
func (req *TicketCreateRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describeValidationError(err))
	}
	return nil
}

// ValidateForMode checks the seat/GA shape required by the event's admission mode
func (req *TicketCreateRequest) ValidateForMode(mode EventMode) error {
	switch mode {
	case EventAllocated:
		if req.SeatID == nil {
			return fmt.Errorf("%w: seat_id must be a number", ErrInvalidInput)
		}
		if req.GAAreaID != nil {
			return fmt.Errorf("%w: ga_area_id must be null", ErrInvalidInput)
		}
	case EventGeneralAdmission:
		if req.SeatID != nil {
			return fmt.Errorf("%w: seat_id must be null", ErrInvalidInput)
		}
		if req.GAAreaID == nil {
			return fmt.Errorf("%w: ga_area_id must be a number", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown event mode %q", ErrInvalidInput, mode)
	}
	return nil
}
