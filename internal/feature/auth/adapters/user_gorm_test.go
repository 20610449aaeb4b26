package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"disclosure_backend/internal/feature/auth/domain/entity"
	"disclosure_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
// TranslateError matches the production configuration, which the
// duplicate-key mapping in Create depends on.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("inserts a user", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)
		ctx := context.Background()

		u := &entity.User{Email: "user@example.com", Password: "hashed"}
		require.NoError(t, repo.Create(ctx, u))
		assert.NotZero(t, u.ID)
	})

	t.Run("duplicate email fails with ErrEmailAlreadyExists", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, &entity.User{Email: "user@example.com", Password: "hashed"}))

		err := repo.Create(ctx, &entity.User{Email: "user@example.com", Password: "other"})
		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestUserGorm_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserGorm(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "user@example.com", Password: "hashed"}))

	got, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserGorm_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserGorm(db)
	ctx := context.Background()

	u := &entity.User{Email: "user@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
