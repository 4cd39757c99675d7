// Package store keeps the privacy-conscious site analytics and the contact
// inbox in SQLite. Visitor addresses arrive already hashed.
package store

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// timeFormat is fixed width so stored timestamps compare as strings
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

// Store is the SQLite backed analytics store
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	// writes come from request goroutines; one connection keeps sqlite from
	// reporting busy
	db.SetMaxOpenConns(1)

	s := &Store{db: db, entropy: rand.New(rand.NewSource(time.Now().UnixNano()))}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}

func (s *Store) newID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS visitors (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip  TEXT NOT NULL,
		user_agent TEXT,
		path       TEXT,
		timestamp  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		code       TEXT NOT NULL,
		url        TEXT NOT NULL,
		source     TEXT,
		hashed_ip  TEXT,
		timestamp  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_code ON link_clicks(code);

	CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		body       TEXT NOT NULL,
		hashed_ip  TEXT,
		sent       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at DESC);
	`)
	return err
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
