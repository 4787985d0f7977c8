// Package library persists named IaC forms per user in SQLite.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no configuration matches the owner and id.
var ErrNotFound = errors.New("configuration not found")

// Config is a saved form. The rendered document is derived, not stored.
type Config struct {
	ID        string
	Owner     string
	Name      string
	Form      *iac.Form
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document renders the saved form.
func (c *Config) Document() string { return c.Form.Render() }

// Store is a SQLite-backed library.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// Open opens or creates the library at path. Parent directories are created.
// ":memory:" opens a private in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema.LibrarySQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	s := &Store{db: db, log: log.With().Str("component", "library").Logger(), now: time.Now}
	s.log.Debug().Str("path", path).Msg("library opened")
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts cfg when its ID is empty, otherwise updates the row with that
// ID for the same owner. The stored ID and timestamps are written back.
func (s *Store) Save(ctx context.Context, cfg *Config) error {
	if cfg.Owner == "" {
		return fmt.Errorf("saving configuration: owner is required")
	}
	if cfg.Form == nil {
		cfg.Form = iac.EmptyForm()
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Untitled configuration"
	}
	form, err := iac.EncodeForm(cfg.Form)
	if err != nil {
		return err
	}
	now := s.now().UTC().Truncate(time.Second)

	if cfg.ID == "" {
		id := uuid.NewString()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO configs (id, owner, name, form, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, cfg.Owner, name, string(form), now.Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting configuration: %w", err)
		}
		cfg.ID, cfg.Name, cfg.CreatedAt, cfg.UpdatedAt = id, name, now, now
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE configs SET name = ?, form = ?, updated_at = ? WHERE id = ? AND owner = ?`,
		name, string(form), now.Format(time.RFC3339), cfg.ID, cfg.Owner)
	if err != nil {
		return fmt.Errorf("updating configuration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	cfg.Name, cfg.UpdatedAt = name, now
	return nil
}

// List returns the owner's configurations, most recently updated first.
func (s *Store) List(ctx context.Context, owner string) ([]*Config, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, form, created_at, updated_at FROM configs WHERE owner = ? ORDER BY updated_at DESC, name`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("listing configurations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // best-effort close

	var out []*Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// Get returns one configuration.
func (s *Store) Get(ctx context.Context, owner, id string) (*Config, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, name, form, created_at, updated_at FROM configs WHERE id = ? AND owner = ?`,
		id, owner)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cfg, err
}

// Delete removes one configuration.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("deleting configuration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfig(sc scanner) (*Config, error) {
	var (
		cfg              Config
		form             string
		created, updated string
	)
	if err := sc.Scan(&cfg.ID, &cfg.Owner, &cfg.Name, &form, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning configuration: %w", err)
	}
	f, err := iac.ParseForm([]byte(form))
	if err != nil {
		return nil, fmt.Errorf("configuration %s: %w", cfg.ID, err)
	}
	cfg.Form = f
	if cfg.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("configuration %s: created_at: %w", cfg.ID, err)
	}
	if cfg.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("configuration %s: updated_at: %w", cfg.ID, err)
	}
	return &cfg, nil
}
