// Package dictsource loads the dictionary from the embedded table, a TSV
// file, or a SQLite/PostgreSQL database.
package dictsource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/db/postgres"
	"github.com/jusunglee/thaiconv/internal/db/sqlite"
	"github.com/jusunglee/thaiconv/internal/dictionary"
	"github.com/jusunglee/thaiconv/internal/phonetic"
)

type Kind string

const (
	KindEmbedded Kind = "embedded"
	KindTSV      Kind = "tsv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// ErrEmptyDatabase is returned when a database source holds no entries.
var ErrEmptyDatabase = errors.New("dictionary table is empty")

// Classify decides what kind of source a --dictionary value names.
func Classify(source string) (Kind, error) {
	switch {
	case source == "":
		return KindEmbedded, nil
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		return KindPostgres, nil
	case strings.HasPrefix(source, "sqlite://"),
		strings.HasSuffix(source, ".db"),
		strings.HasSuffix(source, ".sqlite"),
		source == ":memory:":
		return KindSQLite, nil
	case strings.HasSuffix(source, ".tsv"):
		return KindTSV, nil
	default:
		return "", fmt.Errorf("unrecognized dictionary source %q", source)
	}
}

// OpenRepository opens a database repository for a sqlite or postgres URL.
func OpenRepository(ctx context.Context, url string) (db.Repository, error) {
	kind, err := Classify(url)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindPostgres:
		repo, err := postgres.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		return repo, nil
	case KindSQLite:
		repo, err := sqlite.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("opening SQLite: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%q is not a database URL", url)
	}
}

// Load builds a dictionary store from source.
func Load(ctx context.Context, source string) (*dictionary.Store, error) {
	kind, err := Classify(source)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindEmbedded:
		return dictionary.Default()
	case KindTSV:
		store, err := dictionary.LoadFile(source)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", source, err)
		}
		return store, nil
	}

	repo, err := OpenRepository(ctx, source)
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	return FromRepository(ctx, repo)
}

// FromRepository reads every stored entry into a store.
func FromRepository(ctx context.Context, repo db.Repository) (*dictionary.Store, error) {
	rows, err := repo.ListDictionaryEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing dictionary entries: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDatabase
	}
	return dictionary.New(lo.Map(rows, func(r db.DictionaryEntry, _ int) dictionary.Entry {
		return dictionary.Entry{Key: r.RomanKey, Thai: r.Thai, Tone: phonetic.Tone(r.Tone), Rank: int(r.Rank)}
	}))
}

// Import upserts entries in one transaction and returns how many were written.
func Import(ctx context.Context, repo db.Repository, entries []dictionary.Entry) (int, error) {
	err := repo.WithTx(ctx, func(tx db.Repository) error {
		for _, e := range entries {
			if _, err := tx.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{
				RomanKey: e.Key,
				Thai:     e.Thai,
				Tone:     int16(e.Tone.Digit()),
				Rank:     int32(e.Rank),
			}); err != nil {
				return fmt.Errorf("upserting %s -> %s: %w", e.Key, e.Thai, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Delete removes the entry for a romanized key and Thai word. The key is
// folded the way dictionary keys are stored, so ajarn finds the acarn row.
func Delete(ctx context.Context, repo db.Repository, key, thai string) (int64, error) {
	norm, _ := phonetic.NormalizeSpelling(strings.TrimSpace(key))
	if err := phonetic.ValidSpelling(norm); err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	n, err := repo.DeleteDictionaryEntry(ctx, db.DeleteDictionaryEntryParams{
		RomanKey: norm,
		Thai:     strings.TrimSpace(thai),
	})
	if err != nil {
		return 0, fmt.Errorf("deleting %s -> %s: %w", norm, thai, err)
	}
	return n, nil
}
