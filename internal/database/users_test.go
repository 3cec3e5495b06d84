package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scurrlin/stocks-app/internal/models"
)

func TestUsersRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()

	t.Run("CreateUser then FindUserByEmail round-trips", func(t *testing.T) {
		testDB.TruncateAll(t)

		user := &models.User{
			ID:           uuid.NewString(),
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: "hash",
		}
		err := testDB.CreateUser(ctx, user)
		require.NoError(t, err)
		assert.False(t, user.CreatedAt.IsZero())

		found, err := testDB.FindUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "Alice", found.Name)
		assert.Equal(t, "hash", found.PasswordHash)
	})

	t.Run("FindUserByEmail returns nil for unknown email", func(t *testing.T) {
		testDB.TruncateAll(t)

		found, err := testDB.FindUserByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindUserByEmail returns nil for empty email", func(t *testing.T) {
		found, err := testDB.FindUserByEmail(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		testDB.TruncateAll(t)

		first := &models.User{
			ID:           uuid.NewString(),
			Email:        "bob@example.com",
			Name:         "Bob",
			PasswordHash: "hash",
		}
		require.NoError(t, testDB.CreateUser(ctx, first))

		second := &models.User{
			ID:           uuid.NewString(),
			Email:        "bob@example.com",
			Name:         "Other Bob",
			PasswordHash: "hash",
		}
		err := testDB.CreateUser(ctx, second)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("CreateUser rejects missing fields", func(t *testing.T) {
		err := testDB.CreateUser(ctx, &models.User{Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
