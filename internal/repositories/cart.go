package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cart-discount-service/internal/database"
	"cart-discount-service/internal/models"
)

// CartRepository handles cart data operations
type CartRepository struct {
	db     Querier
	driver string
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db Querier, driver string) *CartRepository {
	return &CartRepository{db: db, driver: driver}
}

// CartExists reports whether a cart with the given id exists
func (r *CartRepository) CartExists(ctx context.Context, cartID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`, cartID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cart %d: %w", cartID, err)
	}
	return exists, nil
}

// CreateCart inserts a cart with an explicit id
func (r *CartRepository) CreateCart(ctx context.Context, cartID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO carts (id) VALUES ($1)`, cartID)
	if err != nil {
		return fmt.Errorf("failed to create cart %d: %w", cartID, err)
	}
	return nil
}

// LockCart takes the cart row lock on Postgres. SQLite has no row locks;
// its transactions begin immediate and already hold the database write lock,
// so the row is only checked for existence there.
func (r *CartRepository) LockCart(ctx context.Context, cartID int) error {
	query := `SELECT id FROM carts WHERE id = $1 FOR UPDATE`
	if r.driver == database.DriverSQLite {
		query = `SELECT id FROM carts WHERE id = $1`
	}

	var id int
	err := r.db.QueryRowContext(ctx, query, cartID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", models.ErrCartNotFound, cartID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock cart %d: %w", cartID, err)
	}
	return nil
}
