package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies the versioned SQL files of an fs.FS to a SQLite database.
// Files follow the golang-migrate naming: NNNNNN_name.up.sql / NNNNNN_name.down.sql.
type Migrator struct {
	db       *sql.DB
	log      logger.Logger
	assetsFS fs.FS
	path     string
}

// New creates a new Migrator reading migrations from path inside assetsFS.
func New(assetsFS fs.FS, path string, log logger.Logger) *Migrator {
	return &Migrator{
		assetsFS: assetsFS,
		path:     path,
		log:      log,
	}
}

// SetDB sets the database connection.
func (m *Migrator) SetDB(db *sql.DB) {
	m.db = db
}

// Run applies every pending up migration.
// Each migration runs in its own transaction; a failed one leaves the
// database at the last successful version.
func (m *Migrator) Run(ctx context.Context) error {
	if m.db == nil {
		return errors.New("migrator has no database")
	}

	mg, err := m.instance()
	if err != nil {
		return err
	}

	before, _, _ := mg.Version()

	done := make(chan error, 1)
	go func() { done <- mg.Up() }()

	select {
	case <-ctx.Done():
		mg.GracefulStop <- true
		<-done
		return ctx.Err()
	case err = <-done:
	}

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.log.Info("No pending migrations")
		return nil
	case err != nil:
		return fmt.Errorf("cannot apply migrations: %w", err)
	}

	after, dirty, err := mg.Version()
	if err != nil {
		return fmt.Errorf("cannot read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database left dirty at version %d", after)
	}

	m.log.Infof("Applied migrations %d -> %d", before, after)
	return nil
}

// Version returns the currently applied migration version, 0 when none is.
func (m *Migrator) Version() (uint, error) {
	if m.db == nil {
		return 0, errors.New("migrator has no database")
	}

	mg, err := m.instance()
	if err != nil {
		return 0, err
	}
	v, _, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return v, err
}

// The returned instance is never closed: Close would close m.db as well.
func (m *Migrator) instance() (*migrate.Migrate, error) {
	src, err := iofs.New(m.assetsFS, m.path)
	if err != nil {
		return nil, fmt.Errorf("cannot load migrations from %s: %w", m.path, err)
	}

	dst, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot prepare migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return nil, fmt.Errorf("cannot create migrator: %w", err)
	}
	return mg, nil
}
