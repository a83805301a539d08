package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DSN returns a SQLite data source name with WAL mode, foreign keys and a busy timeout.
func DSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// Open opens the SQLite database at path.
// PRE: path is a writable file path or ":memory:"
// POST: Returns a pinged connection pool; caller closes it
func Open(path string, maxOpenConns int) (*sql.DB, error) {
	dsn := DSN(path)
	if path == ":memory:" {
		// every connection to :memory: is a separate database
		dsn = path + "?_pragma=foreign_keys(ON)"
		maxOpenConns = 1
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}
	return db, nil
}

// Migrate applies all pending schema migrations.
// PRE: db is a valid database connection
// POST: Schema is at the latest version
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("storage: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("storage: run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the version of the last applied migration.
func SchemaVersion(db *sql.DB) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("storage: set dialect: %w", err)
	}
	return goose.GetDBVersion(db)
}
