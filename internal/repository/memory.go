package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// MemStore is an in-memory backing store used by the memory-backed
// TxManager. It exists for tests and local experiments; production
// wiring uses the pgx implementation.
type MemStore struct {
	mu        sync.Mutex
	Users     map[string]*domain.User
	Roles     map[string]*domain.Role
	UserRoles []domain.UserRole
	Tickets   map[string]*domain.Ticket
	Responses []domain.Response
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		Users:   make(map[string]*domain.User),
		Roles:   make(map[string]*domain.Role),
		Tickets: make(map[string]*domain.Ticket),
	}
}

// SeedRoles inserts the reference roles the way migrations would.
func (s *MemStore) SeedRoles() {
	for _, name := range []domain.RoleName{domain.RoleUser, domain.RoleAdmin} {
		role := &domain.Role{ID: uuid.NewString(), Name: name}
		s.Roles[role.ID] = role
	}
}

// AddUser inserts a user with the given role assignments.
func (s *MemStore) AddUser(username, email, passwordHash string, roles ...domain.RoleName) *domain.User {
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.Users[user.ID] = user
	for _, name := range roles {
		for _, role := range s.Roles {
			if role.Name == name {
				s.UserRoles = append(s.UserRoles, domain.UserRole{
					UserID:     user.ID,
					RoleID:     role.ID,
					AssignedAt: time.Now(),
				})
			}
		}
	}
	return user
}

// RoleNamesFor lists the role names assigned to a user.
func (s *MemStore) RoleNamesFor(userID string) []domain.RoleName {
	var names []domain.RoleName
	for _, assignment := range s.UserRoles {
		if assignment.UserID != userID {
			continue
		}
		if role, ok := s.Roles[assignment.RoleID]; ok {
			names = append(names, role.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ResponsesFor lists stored responses for a ticket in creation order.
func (s *MemStore) ResponsesFor(ticketID string) []domain.Response {
	var result []domain.Response
	for _, response := range s.Responses {
		if response.TicketID == ticketID {
			result = append(result, response)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

type memTxManager struct {
	store *MemStore
}

// NewMemTxManager returns a TxManager over an in-memory store. It holds
// the store lock for the duration of fn; writes apply directly, so a
// failing fn does not roll back.
func NewMemTxManager(store *MemStore) TxManager {
	return &memTxManager{store: store}
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return fn(ctx, &UnitOfWork{
		Users:     &memUserRepo{store: m.store},
		Roles:     &memRoleRepo{store: m.store},
		UserRoles: &memUserRoleRepo{store: m.store},
		Tickets:   &memTicketRepo{store: m.store},
		Responses: &memResponseRepo{store: m.store},
	})
}

type memUserRepo struct{ store *MemStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.store.Users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.store.Users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.store.Users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.store.Users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var result []domain.User
	for _, id := range ids {
		if user, ok := r.store.Users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

type memRoleRepo struct{ store *MemStore }

func (r *memRoleRepo) GetByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	for _, role := range r.store.Roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := r.store.Roles[id]; ok {
		clone := *role
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

type memUserRoleRepo struct{ store *MemStore }

func (r *memUserRoleRepo) Create(_ context.Context, assignment *domain.UserRole) error {
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	r.store.UserRoles = append(r.store.UserRoles, *assignment)
	return nil
}

func (r *memUserRoleRepo) ListRoleNames(_ context.Context, userID string) ([]domain.RoleName, error) {
	return r.store.RoleNamesFor(userID), nil
}

type memTicketRepo struct{ store *MemStore }

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	clone := *ticket
	r.store.Tickets[ticket.ID] = &clone
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.store.Tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	r.store.Tickets[ticket.ID] = &clone
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := r.store.Tickets[id]; ok {
		clone := *ticket
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) GetByIDWithCreator(ctx context.Context, id string) (*TicketWithCreator, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TicketWithCreator{Ticket: *ticket, CreatorUsername: r.creatorUsername(ticket.UserID)}, nil
}

func (r *memTicketRepo) ListAllWithCreator(_ context.Context) ([]TicketWithCreator, error) {
	var rows []TicketWithCreator
	for _, ticket := range r.store.Tickets {
		rows = append(rows, TicketWithCreator{Ticket: *ticket, CreatorUsername: r.creatorUsername(ticket.UserID)})
	}
	sortByCreatedDesc(rows)
	return rows, nil
}

func (r *memTicketRepo) ListByUserWithCreator(_ context.Context, userID string) ([]TicketWithCreator, error) {
	var rows []TicketWithCreator
	for _, ticket := range r.store.Tickets {
		if ticket.UserID != userID {
			continue
		}
		rows = append(rows, TicketWithCreator{Ticket: *ticket, CreatorUsername: r.creatorUsername(ticket.UserID)})
	}
	sortByCreatedDesc(rows)
	return rows, nil
}

func (r *memTicketRepo) creatorUsername(userID string) string {
	if user, ok := r.store.Users[userID]; ok {
		return user.Username
	}
	return ""
}

func sortByCreatedDesc(rows []TicketWithCreator) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticket.CreatedAt.After(rows[j].Ticket.CreatedAt) })
}

type memResponseRepo struct{ store *MemStore }

func (r *memResponseRepo) Create(_ context.Context, response *domain.Response) error {
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}
	r.store.Responses = append(r.store.Responses, *response)
	return nil
}

func (r *memResponseRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Response, error) {
	return r.store.ResponsesFor(ticketID), nil
}
