package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// unknownResponder is the placeholder shown when a responder account
// cannot be resolved. Kept verbatim from the upstream data set.
const unknownResponder = "Desconocido"

// TicketSummary is the listing view; it intentionally omits the
// description and the response thread.
type TicketSummary struct {
	TicketID        string
	Title           string
	Status          domain.TicketStatus
	CreatedAt       time.Time
	CreatorUsername string
}

// ResponseSummary is the response view with the responder resolved.
type ResponseSummary struct {
	ResponseID        string
	ResponderID       string
	ResponderUsername string
	Message           string
	CreatedAt         time.Time
}

// TicketDetail is the full ticket view including the ordered thread.
type TicketDetail struct {
	TicketID        string
	UserID          string
	Title           string
	Description     string
	Status          domain.TicketStatus
	CreatedAt       time.Time
	ClosedAt        *time.Time
	CreatorUsername string
	Responses       []ResponseSummary
}

// TicketService enforces ownership and role rules for ticket workflows.
type TicketService struct {
	tx         repository.TxManager
	cache      *cache.TicketCache
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service. Cache and dispatcher are
// optional; nil disables them.
func NewTicketService(tx repository.TxManager, ticketCache *cache.TicketCache, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tx: tx, cache: ticketCache, dispatcher: dispatcher}
}

// CreateTicket opens a new ticket owned by ownerID. New tickets start
// "abierto" with no responses and no closed timestamp.
func (s *TicketService) CreateTicket(ctx context.Context, ownerID, title, description string) (*TicketDetail, error) {
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      domain.TicketStatusOpen,
	}

	creatorUsername := unknownResponder
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		owner, err := uow.Users.GetByID(ctx, ownerID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if owner != nil {
			creatorUsername = owner.Username
		}
		return uow.Tickets.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  ownerID,
		Payload: events.TicketCreatedPayload{
			Title:  ticket.Title,
			Status: ticket.Status,
		},
	})

	return &TicketDetail{
		TicketID:        ticket.ID,
		UserID:          ticket.UserID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Status:          ticket.Status,
		CreatedAt:       ticket.CreatedAt,
		ClosedAt:        nil,
		CreatorUsername: creatorUsername,
		Responses:       []ResponseSummary{},
	}, nil
}

// ListForAdmin returns every ticket regardless of status or owner.
func (s *TicketService) ListForAdmin(ctx context.Context) ([]TicketSummary, error) {
	if rows, err := s.cache.GetAdminList(ctx); err == nil && rows != nil {
		return summaries(rows), nil
	}

	var rows []repository.TicketWithCreator
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		var err error
		rows, err = uow.Tickets.ListAllWithCreator(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetAdminList(ctx, rows)
	return summaries(rows), nil
}

// ListMine returns only tickets owned by the given user.
func (s *TicketService) ListMine(ctx context.Context, userID string) ([]TicketSummary, error) {
	if rows, err := s.cache.GetUserList(ctx, userID); err == nil && rows != nil {
		return summaries(rows), nil
	}

	var rows []repository.TicketWithCreator
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		var err error
		rows, err = uow.Tickets.ListByUserWithCreator(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetUserList(ctx, userID, rows)
	return summaries(rows), nil
}

// GetTicketDetail returns the full ticket including its ordered thread.
// Only the owner or an admin may view it.
func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID, requesterID string, requesterIsAdmin bool) (*TicketDetail, error) {
	var detail *TicketDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		row, err := uow.Tickets.GetByIDWithCreator(ctx, ticketID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		} else if err != nil {
			return err
		}
		if !requesterIsAdmin && row.Ticket.UserID != requesterID {
			return apperrors.NewForbidden("no permission to view this ticket")
		}

		responses, err := uow.Responses.ListByTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		usernames, err := responderUsernames(ctx, uow, responses)
		if err != nil {
			return err
		}

		detail = &TicketDetail{
			TicketID:        row.Ticket.ID,
			UserID:          row.Ticket.UserID,
			Title:           row.Ticket.Title,
			Description:     row.Ticket.Description,
			Status:          row.Ticket.Status,
			CreatedAt:       row.Ticket.CreatedAt,
			ClosedAt:        row.Ticket.ClosedAt,
			CreatorUsername: row.CreatorUsername,
			Responses:       make([]ResponseSummary, 0, len(responses)),
		}
		for _, response := range responses {
			detail.Responses = append(detail.Responses, responseSummary(&response, usernames))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AddResponse appends a response to a ticket. An admin reply on an
// "abierto" ticket moves it to "en_proceso" within the same
// transaction; a user reply never changes status.
func (s *TicketService) AddResponse(ctx context.Context, ticketID, message, responderID string, responderIsAdmin bool) (*ResponseSummary, error) {
	response := &domain.Response{
		ID:          uuid.NewString(),
		TicketID:    ticketID,
		ResponderID: responderID,
		Message:     message,
	}

	responderUsername := unknownResponder
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		ticket, err := uow.Tickets.GetByID(ctx, ticketID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		} else if err != nil {
			return err
		}
		if !responderIsAdmin && ticket.UserID != responderID {
			return apperrors.NewForbidden("no permission to respond to this ticket")
		}

		responder, err := uow.Users.GetByID(ctx, responderID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if responder != nil {
			responderUsername = responder.Username
		}

		if err := uow.Responses.Create(ctx, response); err != nil {
			return err
		}

		if responderIsAdmin && ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusInProgress
			if err := uow.Tickets.Update(ctx, ticket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResponseAdded,
		TicketID: ticketID,
		ActorID:  responderID,
		Payload: events.TicketResponseAddedPayload{
			ResponseID:  response.ID,
			ByAdmin:     responderIsAdmin,
			BodyPreview: stringPreview(response.Message, 120),
		},
	})

	return &ResponseSummary{
		ResponseID:        response.ID,
		ResponderID:       response.ResponderID,
		ResponderUsername: responderUsername,
		Message:           response.Message,
		CreatedAt:         response.CreatedAt,
	}, nil
}

// UpdateStatus sets the ticket status verbatim. "cerrado" stamps the
// closed timestamp; any other value clears it. The admin role is
// asserted here as well as at the route gate.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, newStatus domain.TicketStatus, requesterIsAdmin bool) error {
	if !requesterIsAdmin {
		return apperrors.NewForbidden("admin role required")
	}

	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		ticket, err := uow.Tickets.GetByID(ctx, ticketID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		} else if err != nil {
			return err
		}

		oldStatus = ticket.Status
		ticket.Status = newStatus
		if newStatus == domain.TicketStatusClosed {
			now := time.Now()
			ticket.ClosedAt = &now
		} else {
			ticket.ClosedAt = nil
		}
		return uow.Tickets.Update(ctx, ticket)
	})
	if err != nil {
		return err
	}

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return nil
}

func responderUsernames(ctx context.Context, uow *repository.UnitOfWork, responses []domain.Response) (map[string]string, error) {
	seen := make(map[string]struct{}, len(responses))
	ids := make([]string, 0, len(responses))
	for _, response := range responses {
		if _, ok := seen[response.ResponderID]; ok {
			continue
		}
		seen[response.ResponderID] = struct{}{}
		ids = append(ids, response.ResponderID)
	}

	users, err := uow.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	return usernames, nil
}

func responseSummary(response *domain.Response, usernames map[string]string) ResponseSummary {
	username, ok := usernames[response.ResponderID]
	if !ok {
		username = unknownResponder
	}
	return ResponseSummary{
		ResponseID:        response.ID,
		ResponderID:       response.ResponderID,
		ResponderUsername: username,
		Message:           response.Message,
		CreatedAt:         response.CreatedAt,
	}
}

func summaries(rows []repository.TicketWithCreator) []TicketSummary {
	result := make([]TicketSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, TicketSummary{
			TicketID:        row.Ticket.ID,
			Title:           row.Ticket.Title,
			Status:          row.Ticket.Status,
			CreatedAt:       row.Ticket.CreatedAt,
			CreatorUsername: row.CreatorUsername,
		})
	}
	return result
}

func (s *TicketService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
