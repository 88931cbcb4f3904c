package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketWithCreator is the summary row produced by joining tickets with
// their creator account.
type TicketWithCreator struct {
	Ticket          domain.Ticket
	CreatorUsername string
}

// TicketRepository defines persistence access for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByIDWithCreator(ctx context.Context, id string) (*TicketWithCreator, error)
	ListAllWithCreator(ctx context.Context) ([]TicketWithCreator, error)
	ListByUserWithCreator(ctx context.Context, userID string) ([]TicketWithCreator, error)
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository returns a Postgres-backed implementation.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, user_id, title, description, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	return r.db.QueryRow(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, closed_at=$2
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Status,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, title, description, status, created_at, closed_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetByIDWithCreator(ctx context.Context, id string) (*TicketWithCreator, error) {
	const query = `
        SELECT t.id, t.user_id, t.title, t.description, t.status, t.created_at, t.closed_at, u.username
        FROM tickets t
        JOIN users u ON u.id = t.user_id
        WHERE t.id=$1`

	var row TicketWithCreator
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&row.Ticket.ID,
		&row.Ticket.UserID,
		&row.Ticket.Title,
		&row.Ticket.Description,
		&row.Ticket.Status,
		&row.Ticket.CreatedAt,
		&row.Ticket.ClosedAt,
		&row.CreatorUsername,
	); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ticketRepository) ListAllWithCreator(ctx context.Context) ([]TicketWithCreator, error) {
	const query = `
        SELECT t.id, t.user_id, t.title, t.description, t.status, t.created_at, t.closed_at, u.username
        FROM tickets t
        JOIN users u ON u.id = t.user_id
        ORDER BY t.created_at DESC`
	return r.list(ctx, query)
}

func (r *ticketRepository) ListByUserWithCreator(ctx context.Context, userID string) ([]TicketWithCreator, error) {
	const query = `
        SELECT t.id, t.user_id, t.title, t.description, t.status, t.created_at, t.closed_at, u.username
        FROM tickets t
        JOIN users u ON u.id = t.user_id
        WHERE t.user_id=$1
        ORDER BY t.created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]TicketWithCreator, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketWithCreator
	for rows.Next() {
		var row TicketWithCreator
		if err := rows.Scan(
			&row.Ticket.ID,
			&row.Ticket.UserID,
			&row.Ticket.Title,
			&row.Ticket.Description,
			&row.Ticket.Status,
			&row.Ticket.CreatedAt,
			&row.Ticket.ClosedAt,
			&row.CreatorUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
