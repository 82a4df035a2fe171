package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cart-discount-service/internal/models"
)

const ticketColumns = `id, cart_id, event_id, type, price, seat_id, ga_area_id`

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db Querier
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db Querier) *TicketRepository {
	return &TicketRepository{db: db}
}

// TicketsByCart retrieves all tickets of a cart in insertion order
func (r *TicketRepository) TicketsByCart(ctx context.Context, cartID int) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE cart_id = $1
		ORDER BY id ASC`

	return r.queryTickets(ctx, query, cartID)
}

// TicketsByCartEventType retrieves the tickets of one type in one event bucket
func (r *TicketRepository) TicketsByCartEventType(ctx context.Context, cartID, eventID int, ticketType models.TicketType) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE cart_id = $1 AND event_id = $2 AND type = $3
		ORDER BY id ASC`

	return r.queryTickets(ctx, query, cartID, eventID, string(ticketType))
}

// InsertTicket adds a ticket to its cart and returns the new id
func (r *TicketRepository) InsertTicket(ctx context.Context, ticket *models.Ticket) (int, error) {
	if err := ticket.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tickets (cart_id, event_id, type, price, seat_id, ga_area_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		ticket.CartID,
		ticket.EventID,
		string(ticket.Type),
		ticket.Price,
		nullableInt(ticket.SeatID),
		nullableInt(ticket.GAAreaID),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ticket: %w", err)
	}

	return id, nil
}

// DeleteTicket removes a ticket only if it belongs to the given cart.
// It returns the number of rows deleted.
func (r *TicketRepository) DeleteTicket(ctx context.Context, cartID, ticketID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1 AND cart_id = $2`, ticketID, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

func scanTicket(rows *sql.Rows) (*models.Ticket, error) {
	var (
		ticket   models.Ticket
		ticketTy string
		seatID   sql.NullInt64
		gaAreaID sql.NullInt64
	)

	err := rows.Scan(
		&ticket.ID,
		&ticket.CartID,
		&ticket.EventID,
		&ticketTy,
		&ticket.Price,
		&seatID,
		&gaAreaID,
	)
	if err != nil {
		return nil, err
	}

	ticket.Type = models.TicketType(ticketTy)
	ticket.SeatID = intPtr(seatID)
	ticket.GAAreaID = intPtr(gaAreaID)

	return &ticket, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
