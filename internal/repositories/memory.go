package repositories

import (
	"context"
	"fmt"
	"sync"

	"cart-discount-service/internal/models"
)

// MemoryStore is an in-process Store. Transactions work on a copy of the
// tables that replaces the live tables only when the unit of work succeeds.
type MemoryStore struct {
	mu     sync.RWMutex
	tables *memTables
}

type memTables struct {
	carts          map[int]bool
	tickets        []*models.Ticket
	discounts      []*models.Discount
	nextTicketID   int
	nextDiscountID int
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: &memTables{
			carts:          make(map[int]bool),
			nextTicketID:   1,
			nextDiscountID: 1,
		},
	}
}

// Ledgers returns stores that read and write the live tables
func (s *MemoryStore) Ledgers() Ledgers {
	v := &memView{store: s}
	return Ledgers{Carts: v, Tickets: v, Discounts: v}
}

// WithinTx runs fn against a private copy of the tables. Transactions are
// serialized with each other and with direct writes.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(l Ledgers) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.tables.clone()
	v := &memView{tables: work}
	if err := fn(Ledgers{Carts: v, Tickets: v, Discounts: v}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.tables = work
	return nil
}

// WithinReadTx runs fn against a snapshot of the tables. Anything fn
// writes is dropped with the snapshot.
func (s *MemoryStore) WithinReadTx(ctx context.Context, fn func(l Ledgers) error) error {
	s.mu.RLock()
	snapshot := s.tables.clone()
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	v := &memView{tables: snapshot}
	return fn(Ledgers{Carts: v, Tickets: v, Discounts: v})
}

func (t *memTables) clone() *memTables {
	c := &memTables{
		carts:          make(map[int]bool, len(t.carts)),
		tickets:        make([]*models.Ticket, len(t.tickets)),
		discounts:      make([]*models.Discount, len(t.discounts)),
		nextTicketID:   t.nextTicketID,
		nextDiscountID: t.nextDiscountID,
	}
	for id := range t.carts {
		c.carts[id] = true
	}
	copy(c.tickets, t.tickets)
	copy(c.discounts, t.discounts)
	return c
}

// memView is bound either to the store (locking each call) or to the
// private tables of a running transaction (already locked)
type memView struct {
	store  *MemoryStore
	tables *memTables
}

func (v *memView) read() (*memTables, func()) {
	if v.store == nil {
		return v.tables, func() {}
	}
	v.store.mu.RLock()
	return v.store.tables, v.store.mu.RUnlock
}

func (v *memView) write() (*memTables, func()) {
	if v.store == nil {
		return v.tables, func() {}
	}
	v.store.mu.Lock()
	return v.store.tables, v.store.mu.Unlock
}

func (v *memView) CartExists(ctx context.Context, cartID int) (bool, error) {
	t, done := v.read()
	defer done()
	return t.carts[cartID], nil
}

func (v *memView) CreateCart(ctx context.Context, cartID int) error {
	t, done := v.write()
	defer done()
	if t.carts[cartID] {
		return fmt.Errorf("failed to create cart %d: %w", cartID, models.ErrInvalidInput)
	}
	t.carts[cartID] = true
	return nil
}

// LockCart only checks the cart exists; WithinTx already serializes
// transactions on the store mutex
func (v *memView) LockCart(ctx context.Context, cartID int) error {
	t, done := v.read()
	defer done()
	if !t.carts[cartID] {
		return fmt.Errorf("%w: %d", models.ErrCartNotFound, cartID)
	}
	return nil
}

func (v *memView) TicketsByCart(ctx context.Context, cartID int) ([]*models.Ticket, error) {
	return v.filterTickets(func(tk *models.Ticket) bool { return tk.CartID == cartID }), nil
}

func (v *memView) TicketsByCartEventType(ctx context.Context, cartID, eventID int, ticketType models.TicketType) ([]*models.Ticket, error) {
	return v.filterTickets(func(tk *models.Ticket) bool {
		return tk.CartID == cartID && tk.EventID == eventID && tk.Type == ticketType
	}), nil
}

func (v *memView) InsertTicket(ctx context.Context, ticket *models.Ticket) (int, error) {
	if err := ticket.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	t, done := v.write()
	defer done()

	if !t.carts[ticket.CartID] {
		return 0, fmt.Errorf("failed to insert ticket: %w", models.ErrCartNotFound)
	}

	row := *ticket
	row.ID = t.nextTicketID
	t.nextTicketID++
	t.tickets = append(t.tickets, &row)
	return row.ID, nil
}

func (v *memView) DeleteTicket(ctx context.Context, cartID, ticketID int) (int64, error) {
	t, done := v.write()
	defer done()

	for i, tk := range t.tickets {
		if tk.ID == ticketID && tk.CartID == cartID {
			t.tickets = append(t.tickets[:i:i], t.tickets[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (v *memView) DiscountsByCart(ctx context.Context, cartID int) ([]*models.Discount, error) {
	return v.filterDiscounts(func(d *models.Discount) bool { return d.CartID == cartID }), nil
}

func (v *memView) DiscountsByCartEventType(ctx context.Context, cartID, eventID int, discountType models.DiscountType) ([]*models.Discount, error) {
	return v.filterDiscounts(func(d *models.Discount) bool {
		return d.CartID == cartID && d.EventID == eventID && d.Type == discountType
	}), nil
}

func (v *memView) InsertDiscount(ctx context.Context, cartID, eventID int, discountType models.DiscountType) (int, error) {
	t, done := v.write()
	defer done()

	if !t.carts[cartID] {
		return 0, fmt.Errorf("failed to insert discount: %w", models.ErrCartNotFound)
	}

	row := &models.Discount{ID: t.nextDiscountID, CartID: cartID, EventID: eventID, Type: discountType}
	t.nextDiscountID++
	t.discounts = append(t.discounts, row)
	return row.ID, nil
}

func (v *memView) DeleteDiscount(ctx context.Context, id int) (int64, error) {
	return v.deleteDiscount(func(d *models.Discount) bool { return d.ID == id }), nil
}

func (v *memView) DeleteCartDiscount(ctx context.Context, cartID, id int) (int64, error) {
	return v.deleteDiscount(func(d *models.Discount) bool { return d.ID == id && d.CartID == cartID }), nil
}

func (v *memView) deleteDiscount(match func(*models.Discount) bool) int64 {
	t, done := v.write()
	defer done()

	for i, d := range t.discounts {
		if match(d) {
			t.discounts = append(t.discounts[:i:i], t.discounts[i+1:]...)
			return 1
		}
	}
	return 0
}

func (v *memView) filterTickets(match func(*models.Ticket) bool) []*models.Ticket {
	t, done := v.read()
	defer done()

	out := []*models.Ticket{}
	for _, tk := range t.tickets {
		if match(tk) {
			row := *tk
			out = append(out, &row)
		}
	}
	return out
}

func (v *memView) filterDiscounts(match func(*models.Discount) bool) []*models.Discount {
	t, done := v.read()
	defer done()

	out := []*models.Discount{}
	for _, d := range t.discounts {
		if match(d) {
			row := *d
			out = append(out, &row)
		}
	}
	return out
}
