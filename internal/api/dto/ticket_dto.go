package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AddResponseRequest payload.
type AddResponseRequest struct {
	Message string `json:"message"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// TicketSummaryResponse is the listing view; description and responses
// are intentionally omitted.
type TicketSummaryResponse struct {
	TicketID        string              `json:"ticketId"`
	Title           string              `json:"title"`
	Status          domain.TicketStatus `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatorUsername string              `json:"creatorUsername"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketID        string                  `json:"ticketId"`
	UserID          string                  `json:"userId"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Status          domain.TicketStatus     `json:"status"`
	CreatedAt       time.Time               `json:"createdAt"`
	ClosedAt        *time.Time              `json:"closedAt"`
	CreatorUsername string                  `json:"creatorUsername"`
	Responses       []TicketResponseMessage `json:"responses"`
}

// TicketResponseMessage represents a thread response.
type TicketResponseMessage struct {
	ResponseID        string    `json:"responseId"`
	ResponderID       string    `json:"responderId"`
	ResponderUsername string    `json:"responderUsername"`
	Message           string    `json:"message"`
	CreatedAt         time.Time `json:"createdAt"`
}
