package models

import (
	"errors"
	"strings"
	"testing"
)

func TestDiscountType_IsKnown(t *testing.T) {
	tests := []struct {
		discountType DiscountType
		want         bool
	}{
		{DiscountGroup, true},
		{DiscountFamily, true},
		{"Student", false},
		{"group", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.discountType.IsKnown(); got != tt.want {
			t.Errorf("DiscountType(%q).IsKnown() = %v, want %v", tt.discountType, got, tt.want)
		}
	}
}

func TestDiscountProposal_Validate(t *testing.T) {
	tests := []struct {
		name     string
		proposal DiscountProposal
		wantErr  bool
		field    string
	}{
		{"valid group", DiscountProposal{EventID: 1, Type: DiscountGroup}, false, ""},
		{"unknown type passes shape check", DiscountProposal{EventID: 1, Type: "Student"}, false, ""},
		{"missing event", DiscountProposal{Type: DiscountFamily}, true, "event_id"},
		{"negative event", DiscountProposal{EventID: -2, Type: DiscountFamily}, true, "event_id"},
		{"missing type", DiscountProposal{EventID: 1}, true, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.proposal.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("DiscountProposal.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("DiscountProposal.Validate() error = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("DiscountProposal.Validate() error = %v, want mention of %q", err, tt.field)
			}
		})
	}
}
