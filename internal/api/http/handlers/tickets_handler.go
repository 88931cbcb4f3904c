package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}

	detail, err := h.service.CreateTicket(c.Context(), principal.UserID, req.Title, req.Description)
	if err != nil {
		return err
	}

	c.Location("/api/tickets/" + detail.TicketID)
	return c.Status(http.StatusCreated).JSON(ticketDetailResponse(detail))
}

// ListMine GET /api/tickets/my-tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListMine(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(ticketSummaryResponses(tickets))
}

// ListForAdmin GET /api/tickets/admin/all.
func (h *TicketsHandler) ListForAdmin(c *fiber.Ctx) error {
	tickets, err := h.service.ListForAdmin(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(ticketSummaryResponses(tickets))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.service.GetTicketDetail(c.Context(), c.Params("id"), principal.UserID, principal.IsAdmin())
	if err != nil {
		return err
	}
	return c.JSON(ticketDetailResponse(detail))
}

// AddResponse POST /api/tickets/:id/responses.
func (h *TicketsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	response, err := h.service.AddResponse(c.Context(), c.Params("id"), req.Message, principal.UserID, principal.IsAdmin())
	if err != nil {
		return err
	}
	return c.JSON(ticketResponseMessage(response))
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	if err := h.service.UpdateStatus(c.Context(), c.Params("id"), domain.TicketStatus(req.Status), principal.IsAdmin()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func ticketSummaryResponses(tickets []service.TicketSummary) []dto.TicketSummaryResponse {
	items := make([]dto.TicketSummaryResponse, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, dto.TicketSummaryResponse{
			TicketID:        ticket.TicketID,
			Title:           ticket.Title,
			Status:          ticket.Status,
			CreatedAt:       ticket.CreatedAt,
			CreatorUsername: ticket.CreatorUsername,
		})
	}
	return items
}

func ticketDetailResponse(detail *service.TicketDetail) dto.TicketDetailResponse {
	responses := make([]dto.TicketResponseMessage, 0, len(detail.Responses))
	for i := range detail.Responses {
		responses = append(responses, ticketResponseMessage(&detail.Responses[i]))
	}
	return dto.TicketDetailResponse{
		TicketID:        detail.TicketID,
		UserID:          detail.UserID,
		Title:           detail.Title,
		Description:     detail.Description,
		Status:          detail.Status,
		CreatedAt:       detail.CreatedAt,
		ClosedAt:        detail.ClosedAt,
		CreatorUsername: detail.CreatorUsername,
		Responses:       responses,
	}
}

func ticketResponseMessage(response *service.ResponseSummary) dto.TicketResponseMessage {
	return dto.TicketResponseMessage{
		ResponseID:        response.ResponseID,
		ResponderID:       response.ResponderID,
		ResponderUsername: response.ResponderUsername,
		Message:           response.Message,
		CreatedAt:         response.CreatedAt,
	}
}
