// internal/repository/repository_test.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskdeck/internal/database"
)

// setupTestDB opens a private in-memory SQLite database with the schema
// applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// createTestUser registers a user through the credential store and returns
// its id.
func createTestUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()

	users := NewUserRepository(db)
	id, err := users.Register(context.Background(), username, username+"@example.com", "secret")
	require.NoError(t, err)
	return id
}
