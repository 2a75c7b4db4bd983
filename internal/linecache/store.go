// Package linecache stores rendered dialogue lines in SQLite so a line
// the player re-triggers is served from disk instead of re-synthesized.
package linecache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hollowline/vox-core/internal/config"
	_ "modernc.org/sqlite"
)

// Entry is one cached rendered line.
type Entry struct {
	Key        string
	Preset     string
	Text       string
	SampleRate int
	PCM        []byte
	CreatedAt  time.Time
}

// Store wraps the SQLite-backed line cache. In ephemeral retention mode
// there is no database and every lookup misses.
type Store struct {
	db    *sql.DB
	cfg   config.LineCacheConfig
	log   *slog.Logger
	clock func() time.Time
}

// Key derives the cache key for a line. Seed participates because a
// seeded render is bit-different from an unseeded one.
func Key(text, preset string, seed uint64) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(preset))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(seed, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// Open initializes the cache according to config.
func Open(ctx context.Context, cfg config.LineCacheConfig, log *slog.Logger) (*Store, error) {
	if cfg.RetentionMode == "ephemeral" {
		return &Store{cfg: cfg, log: log, clock: time.Now}, nil
	}

	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, cfg: cfg, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.VacuumOnStart {
		if err := s.vacuum(ctx); err != nil {
			log.Warn("line cache vacuum failed", slog.String("error", err.Error()))
		}
	}

	if err := s.Prune(ctx); err != nil {
		log.Warn("line cache prune on start failed", slog.String("error", err.Error()))
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS lines (
    key TEXT PRIMARY KEY,
    preset TEXT NOT NULL,
    text TEXT NOT NULL,
    sample_rate INTEGER NOT NULL,
    pcm BLOB NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lines_created ON lines(created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *Store) vacuum(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached PCM for key, with a hit flag.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	if s.db == nil {
		return Entry{}, false, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT key, preset, text, sample_rate, pcm, created_at FROM lines WHERE key = ?`, key)
	var e Entry
	if err := row.Scan(&e.Key, &e.Preset, &e.Text, &e.SampleRate, &e.PCM, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("query line: %w", err)
	}
	return e, true, nil
}

// Put stores a rendered line, replacing any previous render.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if s.db == nil {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lines(key, preset, text, sample_rate, pcm, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET pcm=excluded.pcm, created_at=excluded.created_at`,
		e.Key, e.Preset, e.Text, e.SampleRate, e.PCM, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert line: %w", err)
	}
	return nil
}

// Count returns the number of cached lines.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lines: %w", err)
	}
	return n, nil
}

// Prune drops lines older than the retention window, then trims the
// table down to the configured maximum, oldest first.
func (s *Store) Prune(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if s.cfg.MaxAgeDays > 0 {
		cutoff := s.clock().UTC().AddDate(0, 0, -s.cfg.MaxAgeDays)
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM lines WHERE created_at < ?`, cutoff); err != nil {
			return fmt.Errorf("prune by age: %w", err)
		}
	}
	if s.cfg.MaxLines > 0 {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM lines WHERE key IN (
			    SELECT key FROM lines ORDER BY created_at DESC LIMIT -1 OFFSET ?
			 )`, s.cfg.MaxLines)
		if err != nil {
			return fmt.Errorf("prune by count: %w", err)
		}
	}
	return nil
}
