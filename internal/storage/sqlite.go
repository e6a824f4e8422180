package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens (creating the parent directory if needed) and migrates
// the database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (r *SQLiteRepository) List(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value, updated_at FROM kv
		WHERE instr(key, ?) = 1
		ORDER BY key ASC`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Key, &e.Value, &updated); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseRequiredTime(updated); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendEvent(ctx context.Context, in CompletionEvent) error {
	if strings.TrimSpace(in.ID) == "" {
		return errors.New("storage: event id is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completion_events (id, user_id, day, task_id, from_state, to_state, reason, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Day, in.TaskID, in.FromState, in.ToState, in.Reason, mustTime(in.At),
	)
	return err
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventFilter) ([]CompletionEvent, error) {
	query := `SELECT id, user_id, day, task_id, from_state, to_state, reason, at FROM completion_events`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Day != "" {
		clauses = append(clauses, "day = ?")
		args = append(args, filter.Day)
	}
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY at ASC, rowid ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CompletionEvent, 0)
	for rows.Next() {
		var ev CompletionEvent
		var at string
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Day, &ev.TaskID, &ev.FromState, &ev.ToState, &ev.Reason, &at); err != nil {
			return nil, err
		}
		if ev.At, err = parseRequiredTime(at); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}
