package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	err = ApplySchema(context.Background(), db)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserRepositories_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	secretKey := "aaaabbbbccccddddeeeeffff0000111122223333444455556666777788889999"
	clientID := "A1B2C3D4E5F6A7"

	t.Run("Save and GetByUsername", func(t *testing.T) {
		err := writeRepo.Save(ctx, "alice", "alice@example.com", "hashed-password", secretKey, clientID)
		assert.NoError(t, err)

		user, err := readRepo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "hashed-password", user.PasswordHash)
		assert.Equal(t, secretKey, user.SecretKey)
		assert.Equal(t, clientID, user.ClientID)
		assert.False(t, user.Activated)
	})

	t.Run("GetByUsername absent user", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("GetByUsernameOrEmail matches either", func(t *testing.T) {
		username := "alice"
		email := "alice@example.com"
		other := "unused@example.com"

		user, err := readRepo.GetByUsernameOrEmail(ctx, &username, &other)
		assert.NoError(t, err)
		assert.NotNil(t, user)

		ghost := "ghost"
		user, err = readRepo.GetByUsernameOrEmail(ctx, &ghost, &email)
		assert.NoError(t, err)
		assert.NotNil(t, user)

		user, err = readRepo.GetByUsernameOrEmail(ctx, &ghost, &other)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := writeRepo.Save(ctx, "alice", "alice2@example.com", "hash", "another-secret", "FFFFFFFFFFFFFF")
		assert.Error(t, err)
	})

	t.Run("Activate flips the flag", func(t *testing.T) {
		err := writeRepo.Activate(ctx, "alice")
		assert.NoError(t, err)

		user, err := readRepo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.True(t, user.Activated)
	})

	t.Run("Activate unknown user", func(t *testing.T) {
		err := writeRepo.Activate(ctx, "nobody")
		assert.Error(t, err)
	})
}
