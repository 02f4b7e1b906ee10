package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func userColumns() []string {
	return []string{"user_id", "username", "email", "password_hash", "activated", "secret_key", "client_id", "created_at", "updated_at"}
}

func TestUserReadRepository_GetByUsername_Mock(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	repo := NewUserReadRepository(db)
	ctx := context.Background()

	t.Run("row is scanned", func(t *testing.T) {
		now := time.Now()
		id := uuid.New()
		mock.ExpectQuery("SELECT user_id, username").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(id, "alice", "alice@example.com", "hash", true, "secret", "CLIENT", now, now))

		user, err := repo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, id, user.UserID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.Activated)
	})

	t.Run("no rows maps to nil user", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id, username").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByUsername(ctx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("db error is returned", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id, username").
			WithArgs("alice").
			WillReturnError(errors.New("connection refused"))

		user, err := repo.GetByUsername(ctx, "alice")
		assert.Error(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Mock(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	t.Run("save executes insert", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs("alice", "alice@example.com", "hash", "secret", "CLIENT").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(ctx, "alice", "alice@example.com", "hash", "secret", "CLIENT")
		assert.NoError(t, err)
	})

	t.Run("save surfaces exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs("alice", "alice@example.com", "hash", "secret", "CLIENT").
			WillReturnError(errors.New("unique violation"))

		err := repo.Save(ctx, "alice", "alice@example.com", "hash", "secret", "CLIENT")
		assert.Error(t, err)
	})

	t.Run("activate updates one row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("alice").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Activate(ctx, "alice")
		assert.NoError(t, err)
	})

	t.Run("activate with no matching row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Activate(ctx, "ghost")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
