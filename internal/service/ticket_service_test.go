package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newTicketFixture() (*repository.MemStore, *TicketService, *domain.User, *domain.User) {
	store := repository.NewMemStore()
	store.SeedRoles()
	owner := store.AddUser("ana", "ana@example.com", "hash", domain.RoleUser)
	admin := store.AddUser("boss", "boss@example.com", "hash", domain.RoleUser, domain.RoleAdmin)
	svc := NewTicketService(repository.NewMemTxManager(store), nil, nil)
	return store, svc, owner, admin
}

func TestCreateTicketDefaults(t *testing.T) {
	store, svc, owner, _ := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "printer broken", "it makes noises")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if detail.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want %q", detail.Status, domain.TicketStatusOpen)
	}
	if detail.ClosedAt != nil {
		t.Error("new ticket has closed timestamp")
	}
	if len(detail.Responses) != 0 {
		t.Errorf("responses = %d, want 0", len(detail.Responses))
	}
	if detail.CreatorUsername != "ana" {
		t.Errorf("creator = %q, want ana", detail.CreatorUsername)
	}
	if _, ok := store.Tickets[detail.TicketID]; !ok {
		t.Error("ticket not persisted")
	}
}

func TestGetTicketDetailAccessControl(t *testing.T) {
	store, svc, owner, admin := newTicketFixture()
	stranger := store.AddUser("eve", "eve@example.com", "hash", domain.RoleUser)

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if _, err := svc.GetTicketDetail(context.Background(), detail.TicketID, stranger.ID, false); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("stranger err = %v, want FORBIDDEN", err)
	}
	if _, err := svc.GetTicketDetail(context.Background(), detail.TicketID, owner.ID, false); err != nil {
		t.Errorf("owner err = %v", err)
	}
	if _, err := svc.GetTicketDetail(context.Background(), detail.TicketID, admin.ID, true); err != nil {
		t.Errorf("admin err = %v", err)
	}
	if _, err := svc.GetTicketDetail(context.Background(), uuid.NewString(), owner.ID, false); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket err = %v, want NOT_FOUND", err)
	}
}

func TestGetTicketDetailResponsesOrderedAndResolved(t *testing.T) {
	store, svc, owner, admin := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	base := time.Now()
	ghostID := uuid.NewString()
	store.Responses = append(store.Responses,
		domain.Response{ID: "r2", TicketID: detail.TicketID, ResponderID: admin.ID, Message: "second", CreatedAt: base.Add(2 * time.Second)},
		domain.Response{ID: "r1", TicketID: detail.TicketID, ResponderID: owner.ID, Message: "first", CreatedAt: base.Add(time.Second)},
		domain.Response{ID: "r3", TicketID: detail.TicketID, ResponderID: ghostID, Message: "third", CreatedAt: base.Add(3 * time.Second)},
	)

	got, err := svc.GetTicketDetail(context.Background(), detail.TicketID, owner.ID, false)
	if err != nil {
		t.Fatalf("GetTicketDetail: %v", err)
	}
	if len(got.Responses) != 3 {
		t.Fatalf("responses = %d, want 3", len(got.Responses))
	}
	if got.Responses[0].ResponseID != "r1" || got.Responses[1].ResponseID != "r2" || got.Responses[2].ResponseID != "r3" {
		t.Errorf("responses out of creation order: %+v", got.Responses)
	}
	if got.Responses[0].ResponderUsername != "ana" || got.Responses[1].ResponderUsername != "boss" {
		t.Errorf("responder usernames not resolved: %+v", got.Responses[:2])
	}
	if got.Responses[2].ResponderUsername != "Desconocido" {
		t.Errorf("unresolved responder = %q, want placeholder", got.Responses[2].ResponderUsername)
	}
}

func TestAddResponseStatusTransition(t *testing.T) {
	store, svc, owner, admin := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	// A user reply never changes status.
	if _, err := svc.AddResponse(context.Background(), detail.TicketID, "still broken", owner.ID, false); err != nil {
		t.Fatalf("owner AddResponse: %v", err)
	}
	if status := store.Tickets[detail.TicketID].Status; status != domain.TicketStatusOpen {
		t.Errorf("status after user reply = %q, want %q", status, domain.TicketStatusOpen)
	}

	// An admin reply on an open ticket moves it to in progress.
	response, err := svc.AddResponse(context.Background(), detail.TicketID, "looking into it", admin.ID, true)
	if err != nil {
		t.Fatalf("admin AddResponse: %v", err)
	}
	if response.ResponderUsername != "boss" {
		t.Errorf("responder = %q, want boss", response.ResponderUsername)
	}
	if status := store.Tickets[detail.TicketID].Status; status != domain.TicketStatusInProgress {
		t.Errorf("status after admin reply = %q, want %q", status, domain.TicketStatusInProgress)
	}

	// A second admin reply leaves the status alone.
	if _, err := svc.AddResponse(context.Background(), detail.TicketID, "any update?", admin.ID, true); err != nil {
		t.Fatalf("second admin AddResponse: %v", err)
	}
	if status := store.Tickets[detail.TicketID].Status; status != domain.TicketStatusInProgress {
		t.Errorf("status after second admin reply = %q", status)
	}

	responses := store.ResponsesFor(detail.TicketID)
	if len(responses) != 3 {
		t.Errorf("responses persisted = %d, want 3", len(responses))
	}
}

func TestAddResponseAccessControl(t *testing.T) {
	store, svc, owner, _ := newTicketFixture()
	stranger := store.AddUser("eve", "eve@example.com", "hash", domain.RoleUser)

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if _, err := svc.AddResponse(context.Background(), detail.TicketID, "hi", stranger.ID, false); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("stranger err = %v, want FORBIDDEN", err)
	}
	if _, err := svc.AddResponse(context.Background(), uuid.NewString(), "hi", owner.ID, false); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket err = %v, want NOT_FOUND", err)
	}
	if len(store.Responses) != 0 {
		t.Errorf("responses persisted = %d, want 0", len(store.Responses))
	}
}

func TestUpdateStatusClosedTimestamp(t *testing.T) {
	store, svc, owner, _ := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), detail.TicketID, domain.TicketStatusClosed, true); err != nil {
		t.Fatalf("UpdateStatus cerrado: %v", err)
	}
	closed := store.Tickets[detail.TicketID]
	if closed.Status != domain.TicketStatusClosed || closed.ClosedAt == nil {
		t.Errorf("closed ticket = %+v", closed)
	}

	// Reopening clears the closed timestamp.
	if err := svc.UpdateStatus(context.Background(), detail.TicketID, domain.TicketStatusOpen, true); err != nil {
		t.Fatalf("UpdateStatus abierto: %v", err)
	}
	reopened := store.Tickets[detail.TicketID]
	if reopened.Status != domain.TicketStatusOpen || reopened.ClosedAt != nil {
		t.Errorf("reopened ticket = %+v", reopened)
	}
}

func TestUpdateStatusAcceptsArbitraryValueVerbatim(t *testing.T) {
	// The status domain is not validated on update; unknown values are
	// written as-is. Documented behavior, not an endorsement.
	store, svc, owner, _ := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), detail.TicketID, domain.TicketStatus("escalado"), true); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got := store.Tickets[detail.TicketID]
	if got.Status != domain.TicketStatus("escalado") {
		t.Errorf("status = %q, want escalado", got.Status)
	}
	if got.ClosedAt != nil {
		t.Error("non-cerrado status must clear closed timestamp")
	}
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	_, svc, owner, _ := newTicketFixture()

	detail, err := svc.CreateTicket(context.Background(), owner.ID, "t", "d")
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), detail.TicketID, domain.TicketStatusClosed, false); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("err = %v, want FORBIDDEN", err)
	}
	if err := svc.UpdateStatus(context.Background(), uuid.NewString(), domain.TicketStatusClosed, true); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket err = %v, want NOT_FOUND", err)
	}
}

func TestListMineAndListForAdmin(t *testing.T) {
	store, svc, owner, _ := newTicketFixture()
	other := store.AddUser("bob", "bob@example.com", "hash", domain.RoleUser)

	if _, err := svc.CreateTicket(context.Background(), owner.ID, "mine", "d"); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.CreateTicket(context.Background(), other.ID, "theirs", "d"); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	mine, err := svc.ListMine(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "mine" || mine[0].CreatorUsername != "ana" {
		t.Errorf("ListMine = %+v", mine)
	}

	all, err := svc.ListForAdmin(context.Background())
	if err != nil {
		t.Fatalf("ListForAdmin: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListForAdmin = %d rows, want 2", len(all))
	}
}
