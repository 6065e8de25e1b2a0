package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	auth "github.com/goliatone/go-intranet-auth"
)

var seedEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, repo auth.UserRepository, email, name string, offset time.Duration, mutate ...func(*auth.User)) *auth.User {
	t.Helper()

	u := &auth.User{
		Email:        email,
		PasswordHash: mustHash(testPassword),
		Name:         name,
		Role:         auth.RoleUser,
		IsActive:     true,
		CreatedAt:    seedEpoch.Add(offset),
	}
	for _, fn := range mutate {
		fn(u)
	}

	created, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func inactive(u *auth.User) { u.IsActive = false }

func TestUsersRepositoryCreateAndFind(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "alice@example.com", "Alice", 0)
	require.NotZero(t, created.ID)
	assert.Equal(t, auth.RoleUser, created.Role)
	assert.True(t, created.UpdatedAt.Equal(created.CreatedAt))

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Equal(t, "Alice", byID.Name)
	assert.Equal(t, created.PasswordHash, byID.PasswordHash)

	byEmail, err := repo.FindCredentialByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByID(ctx, created.ID+100)
	assert.Same(t, auth.ErrUserNotFound, err)

	_, err = repo.FindCredentialByEmail(ctx, "nobody@example.com")
	assert.Same(t, auth.ErrUserNotFound, err)
}

func TestUsersRepositoryDefaultsRole(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	created := seedUser(t, repo, "norole@example.com", "No Role", 0, func(u *auth.User) { u.Role = "" })
	assert.Equal(t, auth.RoleUser, created.Role)
}

func TestUsersRepositoryDuplicateEmail(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	seedUser(t, repo, "alice@example.com", "Alice", 0)

	_, err := repo.Create(context.Background(), &auth.User{
		Email:        "alice@example.com",
		PasswordHash: mustHash(testPassword),
		Name:         "Other Alice",
		Role:         auth.RoleUser,
		IsActive:     true,
	})
	assert.Same(t, auth.ErrEmailTaken, err)
}

func TestUsersRepositoryActiveFilters(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	gone := seedUser(t, repo, "gone@example.com", "Gone", 0, inactive)

	_, err := repo.FindActiveByID(ctx, gone.ID)
	assert.Same(t, auth.ErrUserNotFound, err)

	_, err = repo.FindActiveByEmail(ctx, "gone@example.com")
	assert.Same(t, auth.ErrUserNotFound, err)

	// credentials are still readable so login can reject uniformly
	found, err := repo.FindCredentialByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	list, err := repo.List(ctx, auth.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestUsersRepositoryListOrderAndPagination(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	a := seedUser(t, repo, "a@example.com", "Ann", 1*time.Minute)
	b := seedUser(t, repo, "b@example.com", "Ben", 2*time.Minute)
	c := seedUser(t, repo, "c@example.com", "Cid", 3*time.Minute)
	seedUser(t, repo, "d@example.com", "Dee", 4*time.Minute, inactive)

	all, err := repo.List(ctx, auth.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, ids(all))

	page, err := repo.List(ctx, auth.ListOptions{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)

	past, err := repo.List(ctx, auth.ListOptions{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestUsersRepositoryListTieBreaksOnID(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))

	first := seedUser(t, repo, "first@example.com", "First", 0)
	second := seedUser(t, repo, "second@example.com", "Second", 0)

	all, err := repo.List(context.Background(), auth.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, first.ID}, ids(all))
}

func TestUsersRepositorySearchByName(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, "jo@example.com", "Joanna Smith", 1*time.Minute)
	seedUser(t, repo, "john@example.com", "JOHN doe", 2*time.Minute)
	seedUser(t, repo, "mark@example.com", "Mark", 3*time.Minute)
	seedUser(t, repo, "pct@example.com", "100% Jo", 4*time.Minute)
	seedUser(t, repo, "old@example.com", "Johan", 5*time.Minute, inactive)

	tests := []struct {
		query string
		want  []string
	}{
		{"jo", []string{"100% Jo", "JOHN doe", "Joanna Smith"}},
		{"JOHN", []string{"JOHN doe"}},
		{"smith", []string{"Joanna Smith"}},
		{"%", []string{"100% Jo"}},
		{"_", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.SearchByName(ctx, tt.query, auth.ListOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(found))
		})
	}
}

func TestUsersRepositoryUpdate(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	alice := seedUser(t, repo, "alice@example.com", "Alice", 0)
	seedUser(t, repo, "bob@example.com", "Bob", time.Minute)

	alice.Name = "Alice Liddell"
	alice.Role = auth.RoleAdmin
	updated, err := repo.Update(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, auth.RoleAdmin, updated.Role)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	alice.Email = "bob@example.com"
	_, err = repo.Update(ctx, alice)
	assert.Same(t, auth.ErrEmailTaken, err)

	_, err = repo.Update(ctx, &auth.User{ID: 999, Email: "x@example.com", Role: auth.RoleUser, PasswordHash: "x"})
	assert.Same(t, auth.ErrUserNotFound, err)
}

func TestUsersRepositoryDelete(t *testing.T) {
	repo := auth.NewUsersRepository(newTestDB(t))
	ctx := context.Background()

	alice := seedUser(t, repo, "alice@example.com", "Alice", 0)

	require.NoError(t, repo.Delete(ctx, alice.ID))

	_, err := repo.FindByID(ctx, alice.ID)
	assert.Same(t, auth.ErrUserNotFound, err)

	assert.Same(t, auth.ErrUserNotFound, repo.Delete(ctx, alice.ID))
}

func TestUsersRepositoryStorageFailures(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	repo := auth.NewUsersRepository(bun.NewDB(sqldb, sqlitedialect.New()))
	ctx := context.Background()
	boom := errors.New("database is locked")

	mock.ExpectQuery(`SELECT`).WillReturnError(boom)
	_, err = repo.FindByID(ctx, 1)
	assert.True(t, auth.IsStorageError(err))

	mock.ExpectQuery(`SELECT`).WillReturnError(boom)
	_, err = repo.List(ctx, auth.ListOptions{})
	assert.True(t, auth.IsStorageError(err))

	mock.ExpectQuery(`SELECT`).WillReturnError(boom)
	_, err = repo.ExistsByEmail(ctx, "a@example.com")
	assert.True(t, auth.IsStorageError(err))

	mock.ExpectExec(`DELETE`).WillReturnError(boom)
	err = repo.Delete(ctx, 1)
	assert.True(t, auth.IsStorageError(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func ids(users []*auth.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func names(users []*auth.User) []string {
	var out []string
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}
