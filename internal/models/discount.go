package models

import "fmt"

// DiscountType is the kind of a granted discount
type DiscountType string

const (
	DiscountGroup  DiscountType = "Group"
	DiscountFamily DiscountType = "Family"
)

// IsKnown reports whether the type is one the calculator can grant
func (t DiscountType) IsKnown() bool {
	return t == DiscountGroup || t == DiscountFamily
}

// Discount represents one granted discount instance. The amount of a
// discount kind for a bucket is the number of rows, never a column.
type Discount struct {
	ID      int          `json:"id" db:"id"`
	CartID  int          `json:"cart_id" db:"cart_id"`
	EventID int          `json:"event_id" db:"event_id"`
	Type    DiscountType `json:"type" db:"type"`
}

// EligibleDiscount is the number of additional instances of a discount
// kind that can still be granted for an event. Amount is always positive.
type EligibleDiscount struct {
	EventID int          `json:"event_id"`
	Type    DiscountType `json:"type"`
	Amount  int          `json:"amount"`
}

// DiscountProposal is a request to apply one more discount instance
type DiscountProposal struct {
	EventID int          `json:"event_id" validate:"required,gt=0"`
	Type    DiscountType `json:"type" validate:"required"`
}

// Validate validates the proposal shape. Unknown types pass here and are
// rejected by entitlement checks like any other ungrantable discount.
func (p *DiscountProposal) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describeValidationError(err))
	}
	return nil
}
