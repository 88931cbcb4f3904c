package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ResponseRepository manages ticket thread responses.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.Response) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error)
}

type responseRepository struct {
	db DB
}

// NewResponseRepository returns a Postgres-backed implementation.
func NewResponseRepository(db DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *domain.Response) error {
	const query = `
        INSERT INTO responses (id, ticket_id, responder_id, message)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	return r.db.QueryRow(ctx, query,
		response.ID,
		response.TicketID,
		response.ResponderID,
		response.Message,
	).Scan(&response.CreatedAt)
}

func (r *responseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	const query = `
        SELECT id, ticket_id, responder_id, message, created_at
        FROM responses WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Response
	for rows.Next() {
		var response domain.Response
		if err := rows.Scan(
			&response.ID,
			&response.TicketID,
			&response.ResponderID,
			&response.Message,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, rows.Err()
}
