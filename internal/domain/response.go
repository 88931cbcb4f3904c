package domain

import "time"

// Response captures a message appended to a ticket thread by its owner
// or an admin. Responses are append-only; they are never updated or
// deleted.
type Response struct {
	ID          string
	TicketID    string
	ResponderID string
	Message     string
	CreatedAt   time.Time
}
