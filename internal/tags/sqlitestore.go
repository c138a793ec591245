package tags

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/Johann-FullHD/ChatTags/internal/tags/migrations"
)

const upsertPlayerTag = `INSERT INTO player_tags (player_id, text, color, enabled)
VALUES (?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
	text = excluded.text,
	color = excluded.color,
	enabled = excluded.enabled`

// SQLiteStore keeps records in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and brings
// its schema up to date.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create tag directory: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run tag migrations: %w", err)
	}
	return nil
}

// Load returns every stored row ordered by player id.
func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player_id, text, color, enabled FROM player_tags ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("query player tags: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			enabled int64
		)
		if err := rows.Scan(&entry.ID, &entry.Text, &entry.Color, &enabled); err != nil {
			return nil, fmt.Errorf("scan player tag: %w", err)
		}
		entry.Enabled = enabled != 0
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player tags: %w", err)
	}
	return entries, nil
}

// Save upserts every entry in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tag transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertPlayerTag)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare tag upsert: %w", err)
	}
	defer stmt.Close()
	for _, entry := range entries {
		enabled := 0
		if entry.Enabled {
			enabled = 1
		}
		if _, err := stmt.ExecContext(ctx, entry.ID, entry.Text, entry.Color, enabled); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert tag for %s: %w", entry.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tag transaction: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
