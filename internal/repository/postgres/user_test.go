package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/pkg/database"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

func setupUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewUserRepository(mock), mock
}

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupUserRepo(t)
	defer mock.Close()

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs("user-001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "role", "created_at"}).
			AddRow("user-001", "Asha", "asha@example.com", domain.RoleUser, now))

	user, err := repo.GetByID(context.Background(), "user-001")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByID(context.Background(), "nonexistent")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteCascade_Success(t *testing.T) {
	repo, mock := setupUserRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM addresses").
		WithArgs("user-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := repo.DeleteCascade(context.Background(), "user-001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteCascade_UserNotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM addresses").
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
