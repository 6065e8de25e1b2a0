package auth

import (
	"context"
	"database/sql"
	"log"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, repos RepositoryManager) error) error
	Users() UserRepository
}

type mngr struct {
	db    *bun.DB
	tx    bun.IDB
	users UserRepository
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		tx:    db,
		users: NewUsersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository database should be initialized", errors.CategoryInternal)
	}

	if m.users == nil {
		return errors.New("repository users should be initialized", errors.CategoryInternal)
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// RunInTx runs f with repositories bound to a single transaction. Nested
// calls reuse the outer transaction.
func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, repos RepositoryManager) error) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled before transaction")
	default:
	}

	if tx, ok := m.tx.(bun.Tx); ok {
		return f(ctx, &mngr{db: m.db, tx: tx, users: NewUsersRepository(tx)})
	}

	return m.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		return f(ctx, &mngr{db: m.db, tx: tx, users: NewUsersRepository(tx)})
	})
}

func (m mngr) Users() UserRepository {
	return m.users
}
