package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Wire values are
// kept verbatim from the upstream data set.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "abierto"
	TicketStatusInProgress TicketStatus = "en_proceso"
	TicketStatusClosed     TicketStatus = "cerrado"
)

// Ticket is the aggregate for support requests. ClosedAt is non-nil iff
// Status is TicketStatusClosed.
type Ticket struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	ClosedAt    *time.Time
}
