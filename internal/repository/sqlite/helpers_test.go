package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"messagely/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, nil))
	return db
}

func seedUser(t *testing.T, repo *UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		PasswordHash: "hash-" + username,
		FirstName:    "First " + username,
		LastName:     "Last " + username,
		Phone:        "+1-555-0100",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
