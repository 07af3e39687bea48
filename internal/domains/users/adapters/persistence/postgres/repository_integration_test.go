//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
	"github.com/envioslab/shipment-api/internal/domains/users/ports"
	"github.com/envioslab/shipment-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("users_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Ana", "Gómez", "Ana@Example.com", "Calle 12 #3-45")
	require.NoError(t, err)
	user.PasswordHash = "$2a$10$fakehashfakehashfakehashfakehash"
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser(t))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, domain.RoleCustomer, created.RoleID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "  ANA@example.COM  ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestUser(t))
	require.NoError(t, err)

	// The unique index translates to the conflict sentinel.
	_, err = repo.Create(ctx, newTestUser(t))
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
}
