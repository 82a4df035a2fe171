package models

import (
	"errors"
	"testing"
)

func intRef(v int) *int { return &v }

func TestTicket_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ticket  Ticket
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid allocated ticket",
			ticket: Ticket{CartID: 100, EventID: 1, Type: TicketAdult, Price: 25, SeatID: intRef(1)},
		},
		{
			name:   "valid general admission ticket",
			ticket: Ticket{CartID: 100, EventID: 2, Type: TicketChild, Price: 15, GAAreaID: intRef(1)},
		},
		{
			name:    "missing event",
			ticket:  Ticket{CartID: 100, Type: TicketAdult, SeatID: intRef(1)},
			wantErr: true,
			errMsg:  "event id is required",
		},
		{
			name:    "blank type",
			ticket:  Ticket{CartID: 100, EventID: 1, Type: "  ", SeatID: intRef(1)},
			wantErr: true,
			errMsg:  "ticket type is required",
		},
		{
			name:    "negative price",
			ticket:  Ticket{CartID: 100, EventID: 1, Type: TicketAdult, Price: -1, SeatID: intRef(1)},
			wantErr: true,
			errMsg:  "ticket price cannot be negative",
		},
		{
			name:    "both seat and ga area",
			ticket:  Ticket{CartID: 100, EventID: 1, Type: TicketAdult, SeatID: intRef(1), GAAreaID: intRef(1)},
			wantErr: true,
			errMsg:  "exactly one of seat_id and ga_area_id must be set",
		},
		{
			name:    "neither seat nor ga area",
			ticket:  Ticket{CartID: 100, EventID: 1, Type: TicketAdult},
			wantErr: true,
			errMsg:  "exactly one of seat_id and ga_area_id must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ticket.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Ticket.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("Ticket.Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestTicket_IsAllocated(t *testing.T) {
	if !(&Ticket{SeatID: intRef(4)}).IsAllocated() {
		t.Error("ticket with a seat should be allocated")
	}
	if (&Ticket{GAAreaID: intRef(1)}).IsAllocated() {
		t.Error("general admission ticket should not be allocated")
	}
}

func TestTicketCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     TicketCreateRequest
		wantErr bool
	}{
		{"valid", TicketCreateRequest{EventID: 1, Type: TicketAdult, SeatID: intRef(1)}, false},
		{"missing event", TicketCreateRequest{Type: TicketAdult, SeatID: intRef(1)}, true},
		{"missing type", TicketCreateRequest{EventID: 1, SeatID: intRef(1)}, true},
		{"zero seat", TicketCreateRequest{EventID: 1, Type: TicketAdult, SeatID: intRef(0)}, true},
		{"negative ga area", TicketCreateRequest{EventID: 2, Type: TicketAdult, GAAreaID: intRef(-3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("TicketCreateRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("TicketCreateRequest.Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestTicketCreateRequest_ValidateForMode(t *testing.T) {
	tests := []struct {
		name    string
		req     TicketCreateRequest
		mode    EventMode
		wantErr bool
	}{
		{"allocated with seat", TicketCreateRequest{SeatID: intRef(1)}, EventAllocated, false},
		{"allocated without seat", TicketCreateRequest{GAAreaID: intRef(1)}, EventAllocated, true},
		{"allocated with both", TicketCreateRequest{SeatID: intRef(1), GAAreaID: intRef(1)}, EventAllocated, true},
		{"general admission with area", TicketCreateRequest{GAAreaID: intRef(1)}, EventGeneralAdmission, false},
		{"general admission with seat", TicketCreateRequest{SeatID: intRef(1), GAAreaID: intRef(1)}, EventGeneralAdmission, true},
		{"general admission without area", TicketCreateRequest{}, EventGeneralAdmission, true},
		{"unknown mode", TicketCreateRequest{SeatID: intRef(1)}, EventMode("standing"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.ValidateForMode(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ValidateForMode(%q) error = %v, want ErrInvalidInput", tt.mode, err)
			}
		})
	}
}
