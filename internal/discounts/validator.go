package discounts

import (
	"context"

	"cart-discount-service/internal/models"
)

// Validator decides whether one more discount instance may be granted
type Validator struct {
	calculator *Calculator
}

// NewValidator creates a validator backed by the given calculator
func NewValidator(calculator *Calculator) *Validator {
	return &Validator{calculator: calculator}
}

// IsValid reports whether the proposed discount has remaining entitlement.
// An unknown discount type never matches and is simply not valid.
// The caller inserts the discount row only after a true result.
func (v *Validator) IsValid(ctx context.Context, cartID int, proposal models.DiscountProposal) (bool, error) {
	eligible, err := v.calculator.ComputeEligible(ctx, cartID)
	if err != nil {
		return false, err
	}

	for _, e := range eligible {
		if e.EventID == proposal.EventID && e.Type == proposal.Type {
			return e.Amount > 0, nil
		}
	}

	return false, nil
}
