package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/thaiconv/internal/db"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// New creates a new PostgreSQL repository and applies the schema.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{pool: pool, q: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// PoolStats exposes connection pool statistics for metrics.
func (r *Repository) PoolStats() *pgxpool.Stat {
	return r.pool.Stat()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	// If fn() panics, the normal err-check rollback below won't run.
	// recover() catches the panic so we can roll back the tx (releasing the db connection), then re-panic.
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
	}()

	err = fn(&Repository{pool: r.pool, q: tx})
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Dictionary methods

func (r *Repository) ListDictionaryEntries(ctx context.Context) ([]db.DictionaryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, roman_key, thai, tone, rank, created_at, updated_at
		FROM dictionary_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.DictionaryEntry, error) {
		return scanDictionaryEntry(row)
	})
}

func (r *Repository) UpsertDictionaryEntry(ctx context.Context, arg db.UpsertDictionaryEntryParams) (db.DictionaryEntry, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO dictionary_entries (roman_key, thai, tone, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (roman_key, thai) DO UPDATE SET
			tone = EXCLUDED.tone,
			rank = EXCLUDED.rank,
			updated_at = NOW()
		RETURNING id, roman_key, thai, tone, rank, created_at, updated_at
	`, arg.RomanKey, arg.Thai, arg.Tone, arg.Rank)

	return scanDictionaryEntry(row)
}

func (r *Repository) DeleteDictionaryEntry(ctx context.Context, arg db.DeleteDictionaryEntryParams) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM dictionary_entries WHERE roman_key = $1 AND thai = $2
	`, arg.RomanKey, arg.Thai)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountDictionaryEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM dictionary_entries`).Scan(&count)
	return count, err
}

// Feedback methods

func (r *Repository) CreateFeedback(ctx context.Context, arg db.CreateFeedbackParams) (db.Feedback, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO feedback (input, expected, got, comment, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, input, expected, got, comment, source, created_at
	`, arg.Input, arg.Expected, arg.Got, arg.Comment, arg.Source)

	return scanFeedback(row)
}

func (r *Repository) ListFeedback(ctx context.Context, arg db.ListFeedbackParams) ([]db.Feedback, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, input, expected, got, comment, source, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Feedback, error) {
		return scanFeedback(row)
	})
}

func (r *Repository) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count)
	return count, err
}

func (r *Repository) DeleteOldFeedback(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM feedback WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanDictionaryEntry(row pgx.Row) (db.DictionaryEntry, error) {
	var e db.DictionaryEntry
	err := row.Scan(&e.ID, &e.RomanKey, &e.Thai, &e.Tone, &e.Rank, &e.CreatedAt, &e.UpdatedAt)
	if db.IsNoRows(err) {
		return db.DictionaryEntry{}, db.ErrNoRows
	}
	return e, err
}

func scanFeedback(row pgx.Row) (db.Feedback, error) {
	var f db.Feedback
	err := row.Scan(&f.ID, &f.Input, &f.Expected, &f.Got, &f.Comment, &f.Source, &f.CreatedAt)
	if db.IsNoRows(err) {
		return db.Feedback{}, db.ErrNoRows
	}
	return f, err
}
