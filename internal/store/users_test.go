package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreate(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	user, err := repo.Create("Alice", "Alice@Example.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username, "stored lowercase")
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUserRepositoryDuplicate(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.Create("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = repo.Create("ALICE", "other@example.com", "hash")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = repo.Create("bob", "alice@example.com", "hash")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserRepositoryFindByIdentifier(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.Create("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	byName, err := repo.FindByIdentifier("Alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByIdentifier("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByIdentifier("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
