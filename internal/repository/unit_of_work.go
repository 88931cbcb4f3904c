package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork bundles the repositories bound to one database handle.
// When constructed inside WithinTx, every write issued through it
// commits or rolls back together.
type UnitOfWork struct {
	Users     UserRepository
	Roles     RoleRepository
	UserRoles UserRoleRepository
	Tickets   TicketRepository
	Responses ResponseRepository
}

// NewUnitOfWork binds all repositories to the given handle.
func NewUnitOfWork(db DB) *UnitOfWork {
	return &UnitOfWork{
		Users:     NewUserRepository(db),
		Roles:     NewRoleRepository(db),
		UserRoles: NewUserRoleRepository(db),
		Tickets:   NewTicketRepository(db),
		Responses: NewResponseRepository(db),
	}
}

// TxManager runs a function inside a single transaction scope.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewPgxTxManager returns a TxManager backed by a pgx pool.
func NewPgxTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

// WithinTx opens a transaction, hands fn repositories bound to it, and
// commits once fn returns nil. Any error rolls everything back.
func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, NewUnitOfWork(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
