package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/pkg/database"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

func newUserTestRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:           "user-001",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash-abc",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRowFor(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name",
		"last_name", "role", "created_at", "updated_at",
	}).AddRow(
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName,
		u.LastName, u.Role, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName,
			u.LastName, u.Role, u.CreatedAt, u.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	assert.NoError(t, err)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName,
			u.LastName, u.Role, u.CreatedAt, u.UpdatedAt,
		).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), u)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newUserTestRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(userRowFor(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
