package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/sentiment-be/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("alice", "Alice", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	got, err := svc.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)

	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	first, err := svc.Register("alice", "Alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register("alice", "Bob", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The original record survives untouched.
	got, err := svc.GetUserByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = svc.Authenticate("alice", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("alice", "pw1")
	assert.NoError(t, err)
}

func TestPasswordsAreHashed(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("alice", "Alice", "pw1")
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE username = ?", "alice").Scan(&stored))
	assert.NotEqual(t, "pw1", stored)
	assert.NotEmpty(t, stored)
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	_, err := svc.GetUserByID("missing")
	assert.ErrorContains(t, err, "not found")
}
