// Package history records every fired event in SQLite or PostgreSQL.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver.
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Record is one fired event.
type Record struct {
	ID          int64
	Event       prayer.EventName
	ScheduledAt time.Time
	FiredAt     time.Time
	Status      prayer.Status
}

// Late returns how long after its scheduled time the event fired.
func (r Record) Late() time.Duration {
	return r.FiredAt.Sub(r.ScheduledAt)
}

type row struct {
	ID          int64  `db:"id"`
	Event       string `db:"event"`
	ScheduledAt string `db:"scheduled_at"`
	FiredAt     string `db:"fired_at"`
	Status      string `db:"status"`
}

// Store is a handle on the fired_events table.
type Store struct {
	db *sqlx.DB
}

// DefaultPath returns $XDG_DATA_HOME/adhan/history.db.
func DefaultPath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "adhan", "history.db")
}

// Open connects to dsn. A postgres:// URL selects PostgreSQL; anything else
// is a SQLite file path, created with its directory if needed.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultPath()
	}

	driver := "sqlite"
	if isPostgres(dsn) {
		driver = "postgres"
	} else if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}
	log.Debug().Str("driver", driver).Msg("history database ready")
	return s, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	id := "INTEGER PRIMARY KEY"
	if s.db.DriverName() == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fired_events (
			id ` + id + `,
			event TEXT NOT NULL,
			scheduled_at TEXT NOT NULL,
			fired_at TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fired_events_fired_at ON fired_events(fired_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a fired event. Times are kept as RFC 3339 text in UTC so
// both drivers sort them the same way.
func (s *Store) Record(ctx context.Context, e prayer.Event, firedAt time.Time) error {
	q := s.db.Rebind(`INSERT INTO fired_events (event, scheduled_at, fired_at, status) VALUES (?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q,
		string(e.Name),
		e.FireAt.UTC().Format(time.RFC3339Nano),
		firedAt.UTC().Format(time.RFC3339Nano),
		e.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Name, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []row
	q := s.db.Rebind(`SELECT id, event, scheduled_at, fired_at, status FROM fired_events ORDER BY fired_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r row) record() (Record, error) {
	scheduled, err := time.Parse(time.RFC3339Nano, r.ScheduledAt)
	if err != nil {
		return Record{}, fmt.Errorf("history row %d: %w", r.ID, err)
	}
	fired, err := time.Parse(time.RFC3339Nano, r.FiredAt)
	if err != nil {
		return Record{}, fmt.Errorf("history row %d: %w", r.ID, err)
	}
	var status prayer.Status
	if err := status.UnmarshalText([]byte(r.Status)); err != nil {
		return Record{}, fmt.Errorf("history row %d: %w", r.ID, err)
	}
	return Record{
		ID:          r.ID,
		Event:       prayer.EventName(r.Event),
		ScheduledAt: scheduled,
		FiredAt:     fired,
		Status:      status,
	}, nil
}
