package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestDictionaryEntryUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e, err := repo.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{
		RomanKey: "khon",
		Thai:     "คน",
		Tone:     1,
		Rank:     100,
	})
	require.NoError(t, err)
	assert.Equal(t, "khon", e.RomanKey)
	assert.Equal(t, "คน", e.Thai)
	assert.Equal(t, int16(1), e.Tone)
	assert.Equal(t, int32(100), e.Rank)
	assert.False(t, e.CreatedAt.IsZero())

	// Same pair updates in place
	again, err := repo.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{
		RomanKey: "khon",
		Thai:     "คน",
		Tone:     1,
		Rank:     250,
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, again.ID)
	assert.Equal(t, int32(250), again.Rank)

	count, err := repo.CountDictionaryEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDictionaryEntryRejectsBadTone(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpsertDictionaryEntry(context.Background(), db.UpsertDictionaryEntryParams{
		RomanKey: "khon",
		Thai:     "คน",
		Tone:     9,
	})
	assert.Error(t, err)
}

func TestListDictionaryEntriesKeepsInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, p := range []db.UpsertDictionaryEntryParams{
		{RomanKey: "mai", Thai: "ไม้", Tone: 4, Rank: 300},
		{RomanKey: "mai", Thai: "ไม่", Tone: 3, Rank: 900},
		{RomanKey: "pai", Thai: "ไป", Tone: 1, Rank: 800},
	} {
		_, err := repo.UpsertDictionaryEntry(ctx, p)
		require.NoError(t, err)
	}

	entries, err := repo.ListDictionaryEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "ไม้", entries[0].Thai)
	assert.Equal(t, "ไม่", entries[1].Thai)
	assert.Equal(t, "ไป", entries[2].Thai)

	rows, err := repo.DeleteDictionaryEntry(ctx, db.DeleteDictionaryEntryParams{RomanKey: "mai", Thai: "ไม้"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.DeleteDictionaryEntry(ctx, db.DeleteDictionaryEntryParams{RomanKey: "mai", Thai: "ไม้"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFeedback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f, err := repo.CreateFeedback(ctx, db.CreateFeedbackParams{
		Input:    "khon",
		Expected: "ขน",
		Got:      sql.NullString{String: "คน", Valid: true},
		Source:   "web",
	})
	require.NoError(t, err)
	assert.Equal(t, "khon", f.Input)
	assert.Equal(t, "ขน", f.Expected)
	assert.Equal(t, "คน", f.Got.String)
	assert.False(t, f.Comment.Valid)
	assert.Equal(t, "web", f.Source)

	_, err = repo.CreateFeedback(ctx, db.CreateFeedbackParams{
		Input:    "baan",
		Expected: "บ้าน",
		Comment:  sql.NullString{String: "fine", Valid: true},
		Source:   "bot",
	})
	require.NoError(t, err)

	list, err := repo.ListFeedback(ctx, db.ListFeedbackParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "baan", list[0].Input, "newest first")

	page, err := repo.ListFeedback(ctx, db.ListFeedbackParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "khon", page[0].Input)

	count, err := repo.CountFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteOldFeedback(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestWithTx(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx db.Repository) error {
		_, err := tx.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{RomanKey: "pai", Thai: "ไป", Tone: 1})
		require.NoError(t, err)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	count, err := repo.CountDictionaryEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "rolled back")

	err = repo.WithTx(ctx, func(tx db.Repository) error {
		_, err := tx.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{RomanKey: "pai", Thai: "ไป", Tone: 1})
		return err
	})
	require.NoError(t, err)

	count, err = repo.CountDictionaryEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNewOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.db")
	ctx := context.Background()

	repo, err := New(ctx, "sqlite://"+path)
	require.NoError(t, err)
	_, err = repo.UpsertDictionaryEntry(ctx, db.UpsertDictionaryEntryParams{RomanKey: "pai", Thai: "ไป", Tone: 1})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	// Reopening keeps the data
	repo, err = New(ctx, path)
	require.NoError(t, err)
	defer repo.Close()
	count, err := repo.CountDictionaryEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestScanFeedbackMapsNoRows(t *testing.T) {
	repo := newTestRepo(t)

	row := repo.db.QueryRowContext(context.Background(), `
		SELECT id, input, expected, got, comment, source, created_at
		FROM feedback WHERE id = -1
	`)
	_, err := scanFeedback(row)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrNoRows))
	assert.True(t, db.IsNoRows(err))
}
