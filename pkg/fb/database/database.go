package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/migrate"
)

// Database manages the SQLite database connection and lifecycle.
type Database struct {
	DB            *sql.DB
	assetsFS      fs.FS
	migrationPath string
	cfg           *config.Config
	log           logger.Logger
}

// New creates a new Database instance.
func New(assetsFS fs.FS, cfg *config.Config, log logger.Logger) *Database {
	return &Database{
		assetsFS: assetsFS,
		cfg:      cfg,
		log:      log,
	}
}

// SetMigrationPath sets the migrations directory inside the assets filesystem.
func (d *Database) SetMigrationPath(path string) {
	d.migrationPath = path
}

// DSN returns the connection string used for path.
// Transactions start as BEGIN IMMEDIATE so a transaction that reads and then
// writes holds the write lock from its first statement.
func DSN(path string) string {
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON&_txlock=immediate", path)
}

// Start opens the database connection and runs migrations.
func (d *Database) Start(ctx context.Context) error {
	dbDir := filepath.Dir(d.cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("cannot create database directory: %w", err)
	}

	db, err := Open(ctx, d.cfg.Database.Path)
	if err != nil {
		return err
	}

	d.DB = db
	d.log.Info("Database connection established")

	migrator := migrate.New(d.assetsFS, d.migrationPath, d.log)
	migrator.SetDB(d.DB)
	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("cannot run migrations: %w", err)
	}

	version, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("cannot read schema version: %w", err)
	}
	d.log.Infof("Database schema at version %d", version)

	return nil
}

// Open opens and pings a SQLite database at path.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot ping database: %w", err)
	}
	return db, nil
}

// Stop closes the database connection.
func (d *Database) Stop(ctx context.Context) error {
	if d.DB != nil {
		d.log.Info("Closing database connection")
		return d.DB.Close()
	}
	return nil
}

// GetDB returns the underlying sql.DB.
func (d *Database) GetDB() *sql.DB {
	return d.DB
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit transaction: %w", err)
	}
	return nil
}
