package db

import (
	"context"
	"database/sql"
	"time"
)

// DictionaryEntry is a stored romanized-key to Thai word mapping. Entries
// are listed in insertion order, which is the table order the dictionary
// uses to break rank ties.
type DictionaryEntry struct {
	ID        int64
	RomanKey  string
	Thai      string
	Tone      int16
	Rank      int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertDictionaryEntryParams struct {
	RomanKey string
	Thai     string
	Tone     int16
	Rank     int32
}

type DeleteDictionaryEntryParams struct {
	RomanKey string
	Thai     string
}

// Feedback is a user report that a conversion was wrong.
type Feedback struct {
	ID        int64
	Input     string
	Expected  string
	Got       sql.NullString
	Comment   sql.NullString
	Source    string
	CreatedAt time.Time
}

type CreateFeedbackParams struct {
	Input    string
	Expected string
	Got      sql.NullString
	Comment  sql.NullString
	Source   string
}

type ListFeedbackParams struct {
	Limit  int32
	Offset int32
}

// Repository defines the interface for database operations
type Repository interface {
	// Dictionary
	ListDictionaryEntries(ctx context.Context) ([]DictionaryEntry, error)
	UpsertDictionaryEntry(ctx context.Context, arg UpsertDictionaryEntryParams) (DictionaryEntry, error)
	DeleteDictionaryEntry(ctx context.Context, arg DeleteDictionaryEntryParams) (int64, error)
	CountDictionaryEntries(ctx context.Context) (int64, error)

	// Feedback
	CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (Feedback, error)
	ListFeedback(ctx context.Context, arg ListFeedbackParams) ([]Feedback, error)
	CountFeedback(ctx context.Context) (int64, error)

	// Retention/Cleanup
	DeleteOldFeedback(ctx context.Context, before time.Time) (int64, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	// Lifecycle
	Close() error
}
