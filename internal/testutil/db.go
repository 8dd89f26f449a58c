package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/formbase/formbase/assets"
	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/pkg/fb/database"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/migrate"
)

// NewTestDB creates a file-backed SQLite database under t.TempDir() with all
// migrations applied. The database is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := migrate.New(assets.MigrationsFS, assets.MigrationsPath, logger.NewNoopLogger())
	m.SetDB(db)
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return db
}

// CreateUser inserts a USER row with a placeholder hash and returns its id.
func CreateUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	now := time.Now().UTC()
	id, err := queries.New(db).CreateUser(context.Background(), queries.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         "USER",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return id
}

// TestDBProvider implements DBProvider for testing.
type TestDBProvider struct {
	DB *sql.DB
}

func (p *TestDBProvider) GetDB() *sql.DB {
	return p.DB
}
