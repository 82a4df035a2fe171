package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cart-discount-service/internal/database"
	"cart-discount-service/internal/models"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CartStore handles cart identity
type CartStore interface {
	CartExists(ctx context.Context, cartID int) (bool, error)
	CreateCart(ctx context.Context, cartID int) error
	// LockCart holds the cart until the enclosing transaction ends, so
	// concurrent units of work on one cart run one after another even across
	// processes. Returns ErrCartNotFound for an unknown cart.
	LockCart(ctx context.Context, cartID int) error
}

// TicketStore handles ticket rows
type TicketStore interface {
	TicketsByCart(ctx context.Context, cartID int) ([]*models.Ticket, error)
	TicketsByCartEventType(ctx context.Context, cartID, eventID int, ticketType models.TicketType) ([]*models.Ticket, error)
	InsertTicket(ctx context.Context, ticket *models.Ticket) (int, error)
	DeleteTicket(ctx context.Context, cartID, ticketID int) (int64, error)
}

// DiscountStore handles discount rows, one per granted instance
type DiscountStore interface {
	DiscountsByCart(ctx context.Context, cartID int) ([]*models.Discount, error)
	DiscountsByCartEventType(ctx context.Context, cartID, eventID int, discountType models.DiscountType) ([]*models.Discount, error)
	InsertDiscount(ctx context.Context, cartID, eventID int, discountType models.DiscountType) (int, error)
	DeleteDiscount(ctx context.Context, id int) (int64, error)
	DeleteCartDiscount(ctx context.Context, cartID, id int) (int64, error)
}

// Ledgers groups the stores bound to one connection or transaction
type Ledgers struct {
	Carts     CartStore
	Tickets   TicketStore
	Discounts DiscountStore
}

// Store gives access to ledgers directly or within an atomic unit of work
type Store interface {
	Ledgers() Ledgers
	WithinTx(ctx context.Context, fn func(l Ledgers) error) error
	// WithinReadTx runs fn against one consistent snapshot. Writes made by
	// fn are discarded.
	WithinReadTx(ctx context.Context, fn func(l Ledgers) error) error
}

// SQLStore is a Store backed by database/sql
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore creates a new SQL store for the given database driver
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Ledgers returns repositories that run each query on the pool
func (s *SQLStore) Ledgers() Ledgers {
	return s.ledgersFor(s.db)
}

// WithinTx runs fn in a transaction, committing only if fn returns nil.
// A cancelled context rolls the transaction back.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(l Ledgers) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.ledgersFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithinReadTx runs fn in a read-only repeatable read transaction on
// Postgres. SQLite transactions are serializable already.
func (s *SQLStore) WithinReadTx(ctx context.Context, fn func(l Ledgers) error) error {
	var opts *sql.TxOptions
	if s.driver != database.DriverSQLite {
		opts = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(s.ledgersFor(tx))
}

func (s *SQLStore) ledgersFor(q Querier) Ledgers {
	return Ledgers{
		Carts:     NewCartRepository(q, s.driver),
		Tickets:   NewTicketRepository(q),
		Discounts: NewDiscountRepository(q),
	}
}
