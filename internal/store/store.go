// Package store persists best scores in SQLite. Each slot holds one
// player's best; the local game uses a single slot and SSH sessions get
// one slot per user.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS best_scores (
	slot       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	session    TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_best_scores_updated ON best_scores(updated_at);
`

// ErrMalformed is returned when a slot holds something other than a
// non-negative integer.
var ErrMalformed = errors.New("malformed best score")

// Store is a SQLite-backed best-score table. Safe for concurrent use.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Entry is one row of the leaderboard.
type Entry struct {
	Name      string
	Score     int
	UpdatedAt time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info("score store opened", zap.String("path", path))
	return &Store{db: db, log: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Load returns the best score in slot. A missing slot is 0. A malformed
// value is also 0, reported with ErrMalformed.
func (s *Store) Load(ctx context.Context, slot string) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM best_scores WHERE slot = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return parseScore(value)
}

func parseScore(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	return n, nil
}

// Save records score in slot unless the slot already holds a higher one.
// Two sessions sharing a slot therefore never lower each other's best.
func (s *Store) Save(ctx context.Context, slot string, score int, session string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO best_scores (slot, value, session, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			value = excluded.value,
			session = excluded.session,
			updated_at = excluded.updated_at
		WHERE CAST(best_scores.value AS INTEGER) < CAST(excluded.value AS INTEGER)
			OR best_scores.value NOT GLOB '[0-9]*'`,
		slot, strconv.Itoa(score), session, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}

// Top returns up to n slots starting with prefix, best first. Ties go to
// whoever got there earlier. The prefix is stripped from the names.
func (s *Store) Top(ctx context.Context, prefix string, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, value, updated_at FROM best_scores
		WHERE substr(slot, 1, ?) = ?
		ORDER BY CAST(value AS INTEGER) DESC, updated_at ASC
		LIMIT ?`,
		len(prefix), prefix, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			slot, value string
			updated     int64
		)
		if err := rows.Scan(&slot, &value, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		score, err := parseScore(value)
		if err != nil {
			s.log.Warn("skipping malformed slot", zap.String("slot", slot), zap.Error(err))
			continue
		}
		entries = append(entries, Entry{
			Name:      strings.TrimPrefix(slot, prefix),
			Score:     score,
			UpdatedAt: time.UnixMilli(updated),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

// Slot binds one slot and session to the store. It implements the
// game's best-score interface.
func (s *Store) Slot(name, session string) *Slot {
	return &Slot{store: s, name: name, session: session}
}

// Slot is a single best-score slot.
type Slot struct {
	store   *Store
	name    string
	session string
}

func (sl *Slot) LoadBest() (int, error) {
	return sl.store.Load(context.Background(), sl.name)
}

func (sl *Slot) SaveBest(best int) error {
	return sl.store.Save(context.Background(), sl.name, best, sl.session)
}
