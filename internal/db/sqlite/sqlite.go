package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jusunglee/thaiconv/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements db.Repository using SQLite
type Repository struct {
	db *sql.DB
	q  querier
}

// New creates a new SQLite repository
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	isNew := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		isNew = true
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would get its own empty database
		sqliteDB.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if isNew {
		slog.Info("created new SQLite database", "path", dbPath)
	}

	return &Repository{db: sqliteDB, q: sqliteDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	err = fn(&Repository{db: r.db, q: tx})
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Dictionary methods

func (r *Repository) ListDictionaryEntries(ctx context.Context) ([]db.DictionaryEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, roman_key, thai, tone, rank, created_at, updated_at
		FROM dictionary_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []db.DictionaryEntry
	for rows.Next() {
		var e db.DictionaryEntry
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&e.ID, &e.RomanKey, &e.Thai, &e.Tone, &e.Rank, &createdAtStr, &updatedAtStr); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) UpsertDictionaryEntry(ctx context.Context, arg db.UpsertDictionaryEntryParams) (db.DictionaryEntry, error) {
	row := r.q.QueryRowContext(ctx, `
		INSERT INTO dictionary_entries (roman_key, thai, tone, rank)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (roman_key, thai) DO UPDATE SET
			tone = excluded.tone,
			rank = excluded.rank,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		RETURNING id, roman_key, thai, tone, rank, created_at, updated_at
	`, arg.RomanKey, arg.Thai, arg.Tone, arg.Rank)

	var e db.DictionaryEntry
	var createdAtStr, updatedAtStr string
	err := row.Scan(&e.ID, &e.RomanKey, &e.Thai, &e.Tone, &e.Rank, &createdAtStr, &updatedAtStr)
	if db.IsNoRows(err) {
		return db.DictionaryEntry{}, db.ErrNoRows
	}
	if err != nil {
		return db.DictionaryEntry{}, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return e, nil
}

func (r *Repository) DeleteDictionaryEntry(ctx context.Context, arg db.DeleteDictionaryEntryParams) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		DELETE FROM dictionary_entries WHERE roman_key = ? AND thai = ?
	`, arg.RomanKey, arg.Thai)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *Repository) CountDictionaryEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictionary_entries`).Scan(&count)
	return count, err
}

// Feedback methods

func (r *Repository) CreateFeedback(ctx context.Context, arg db.CreateFeedbackParams) (db.Feedback, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO feedback (input, expected, got, comment, source)
		VALUES (?, ?, ?, ?, ?)
	`, arg.Input, arg.Expected, arg.Got, arg.Comment, arg.Source)
	if err != nil {
		return db.Feedback{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return db.Feedback{}, err
	}

	row := r.q.QueryRowContext(ctx, `
		SELECT id, input, expected, got, comment, source, created_at
		FROM feedback WHERE id = ?
	`, id)
	return scanFeedback(row)
}

func (r *Repository) ListFeedback(ctx context.Context, arg db.ListFeedbackParams) ([]db.Feedback, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, input, expected, got, comment, source, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []db.Feedback
	for rows.Next() {
		var f db.Feedback
		var createdAtStr string
		if err := rows.Scan(&f.ID, &f.Input, &f.Expected, &f.Got, &f.Comment, &f.Source, &createdAtStr); err != nil {
			return nil, err
		}
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *Repository) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteOldFeedback(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		DELETE FROM feedback WHERE created_at < ?
	`, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanFeedback(row *sql.Row) (db.Feedback, error) {
	var f db.Feedback
	var createdAtStr string
	err := row.Scan(&f.ID, &f.Input, &f.Expected, &f.Got, &f.Comment, &f.Source, &createdAtStr)
	if db.IsNoRows(err) {
		return db.Feedback{}, db.ErrNoRows
	}
	if err != nil {
		return db.Feedback{}, err
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	return f, nil
}
