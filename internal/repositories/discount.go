package repositories

import (
	"context"
	"fmt"

	"cart-discount-service/internal/models"
)

// DiscountRepository handles applied discount rows
type DiscountRepository struct {
	db Querier
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db Querier) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// DiscountsByCart retrieves every discount row of a cart in id order
func (r *DiscountRepository) DiscountsByCart(ctx context.Context, cartID int) ([]*models.Discount, error) {
	query := `
		SELECT id, cart_id, event_id, type
		FROM discounts
		WHERE cart_id = $1
		ORDER BY id ASC`

	return r.queryDiscounts(ctx, query, cartID)
}

// DiscountsByCartEventType retrieves the rows of one discount kind in one event bucket
func (r *DiscountRepository) DiscountsByCartEventType(ctx context.Context, cartID, eventID int, discountType models.DiscountType) ([]*models.Discount, error) {
	query := `
		SELECT id, cart_id, event_id, type
		FROM discounts
		WHERE cart_id = $1 AND event_id = $2 AND type = $3
		ORDER BY id ASC`

	return r.queryDiscounts(ctx, query, cartID, eventID, string(discountType))
}

// InsertDiscount records one discount instance and returns its id
func (r *DiscountRepository) InsertDiscount(ctx context.Context, cartID, eventID int, discountType models.DiscountType) (int, error) {
	query := `
		INSERT INTO discounts (cart_id, event_id, type)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	if err := r.db.QueryRowContext(ctx, query, cartID, eventID, string(discountType)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert discount: %w", err)
	}

	return id, nil
}

// DeleteDiscount removes a discount row by id and returns the rows deleted
func (r *DiscountRepository) DeleteDiscount(ctx context.Context, id int) (int64, error) {
	return r.exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
}

// DeleteCartDiscount removes a discount row only if it belongs to the cart
func (r *DiscountRepository) DeleteCartDiscount(ctx context.Context, cartID, id int) (int64, error) {
	return r.exec(ctx, `DELETE FROM discounts WHERE id = $1 AND cart_id = $2`, id, cartID)
}

func (r *DiscountRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete discount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *DiscountRepository) queryDiscounts(ctx context.Context, query string, args ...any) ([]*models.Discount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	discounts := []*models.Discount{}
	for rows.Next() {
		var (
			discount     models.Discount
			discountType string
		)
		if err := rows.Scan(&discount.ID, &discount.CartID, &discount.EventID, &discountType); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discount.Type = models.DiscountType(discountType)
		discounts = append(discounts, &discount)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return discounts, nil
}
