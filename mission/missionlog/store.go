package missionlog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRecordNotFound is returned when no mission has the requested ID
var ErrRecordNotFound = errors.New("mission record not found")

// MemoryPath opens a database that lives only as long as the Store
const MemoryPath = ":memory:"

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 50

// Config holds mission log configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Store is a SQLite-backed mission log
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the database at cfg.Path and applies migrations
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
		// Every connection to :memory: is its own database
		if cfg.Path == MemoryPath {
			cfg.MaxOpenConns = 1
		}
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 30 * time.Minute
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: cfg.Path}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("component", "missionlog").Str("path", cfg.Path).Msg("mission log ready")
	return s, nil
}

// Migrate runs database migrations
func (s *Store) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// m.Close would close the shared *sql.DB, so it is not called here
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const recordColumns = `id, source, name, plateau_x, plateau_y, start_x, start_y, start_heading,
	commands, final_x, final_y, final_heading, report, expected, moves, blocked, turns, ignored, created_at`

// Append stores a record
func (s *Store) Append(ctx context.Context, r *Record) error {
	if r == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if r.ID == "" {
		return fmt.Errorf("record ID is required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Source, r.Name, r.PlateauX, r.PlateauY, r.StartX, r.StartY, r.StartHeading,
		r.Commands, r.FinalX, r.FinalY, r.FinalHeading, r.Report, r.Expected,
		r.Moves, r.Blocked, r.Turns, r.Ignored, r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert mission %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the record with the given ID
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM missions WHERE id = ?`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission %s: %w", id, err)
	}
	return r, nil
}

// List returns the most recent records first
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM missions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate missions: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM missions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count missions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.Source, &r.Name, &r.PlateauX, &r.PlateauY, &r.StartX, &r.StartY, &r.StartHeading,
		&r.Commands, &r.FinalX, &r.FinalY, &r.FinalHeading, &r.Report, &r.Expected,
		&r.Moves, &r.Blocked, &r.Turns, &r.Ignored, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
