package repository

import (
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCreateAndGetByHash(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	user := createTestUser(t, db, "alice")

	token := &models.Token{UserID: user.ID, Name: "login", Hash: "abc123"}
	require.NoError(t, repo.Create(testCtx(), token))

	got, err := repo.GetByHash(testCtx(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "alice", got.User.Name, "user should be preloaded")
}

func TestTokenGetByHashReturnsNilOnMiss(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	got, err := repo.GetByHash(testCtx(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenTouchLastUsed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	user := createTestUser(t, db, "alice")

	token := &models.Token{UserID: user.ID, Name: "login", Hash: "h1"}
	require.NoError(t, repo.Create(testCtx(), token))
	require.Nil(t, token.LastUsedAt)

	require.NoError(t, repo.TouchLastUsed(testCtx(), token.ID))

	got, err := repo.GetByHash(testCtx(), "h1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
}

func TestTokenDeleteAllForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(testCtx(), &models.Token{UserID: alice.ID, Name: "login", Hash: "a1"}))
	require.NoError(t, repo.Create(testCtx(), &models.Token{UserID: alice.ID, Name: "login", Hash: "a2"}))
	require.NoError(t, repo.Create(testCtx(), &models.Token{UserID: bob.ID, Name: "login", Hash: "b1"}))

	require.NoError(t, repo.DeleteAllForUser(testCtx(), alice.ID))

	for _, hash := range []string{"a1", "a2"} {
		got, err := repo.GetByHash(testCtx(), hash)
		require.NoError(t, err)
		assert.Nil(t, got, "token %s should be revoked", hash)
	}

	got, err := repo.GetByHash(testCtx(), "b1")
	require.NoError(t, err)
	assert.NotNil(t, got, "other users' tokens survive")

	// Idempotent
	assert.NoError(t, repo.DeleteAllForUser(testCtx(), alice.ID))
}
