package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

type users struct {
	db bun.IDB
}

var _ UserRepository = (*users)(nil)

// NewUsersRepository returns a bun backed UserRepository. db may be a
// *bun.DB or a bun.Tx.
func NewUsersRepository(db bun.IDB) UserRepository {
	return &users{db: db}
}

func (a *users) FindCredentialByEmail(ctx context.Context, email string) (*User, error) {
	return a.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.email = ?", email)
	})
}

func (a *users) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	return a.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.email = ?", email).
			Where("?TableAlias.is_active = ?", true)
	})
}

func (a *users) FindByID(ctx context.Context, id int64) (*User, error) {
	return a.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	})
}

func (a *users) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	return a.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id).
			Where("?TableAlias.is_active = ?", true)
	})
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, StorageError(err, "failed to check user email")
	}
	return exists, nil
}

func (a *users) SearchByName(ctx context.Context, name string, opts ListOptions) ([]*User, error) {
	opts.Name = name
	return a.List(ctx, opts)
}

// List returns active users, newest first
func (a *users) List(ctx context.Context, opts ListOptions) ([]*User, error) {
	opts = opts.Normalize()

	records := make([]*User, 0)
	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true)

	if name := strings.TrimSpace(opts.Name); name != "" {
		q = q.Where("LOWER(?TableAlias.name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(name))+"%")
	}

	err := q.
		OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id DESC").
		Offset(opts.Skip).
		Limit(opts.Limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, StorageError(err, "failed to list users")
	}
	return records, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	if record == nil {
		return nil, errors.New("user record is required", errors.CategoryBadInput)
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	if record.Role == "" {
		record.Role = RoleUser
	}

	if _, err := a.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, StorageError(err, "failed to insert user")
	}
	return record, nil
}

// Update writes every mutable column of record and returns the stored row
func (a *users) Update(ctx context.Context, record *User) (*User, error) {
	if record == nil || record.ID == 0 {
		return nil, ErrUserNotFound
	}

	record.UpdatedAt = time.Now().UTC()

	res, err := a.db.NewUpdate().
		Model(record).
		Column("email", "password_hash", "name", "role", "is_active", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, StorageError(err, "failed to update user")
	}

	if err := expectAffected(res); err != nil {
		return nil, err
	}

	return a.FindByID(ctx, record.ID)
}

func (a *users) Delete(ctx context.Context, id int64) error {
	res, err := a.db.NewDelete().
		Model(&User{ID: id}).
		WherePK().
		Exec(ctx)
	if err != nil {
		return StorageError(err, "failed to delete user")
	}
	return expectAffected(res)
}

func (a *users) findOne(ctx context.Context, where func(*bun.SelectQuery) *bun.SelectQuery) (*User, error) {
	record := &User{}
	err := where(a.db.NewSelect().Model(record)).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, StorageError(err, "failed to query user")
	}
	return record, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return StorageError(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
