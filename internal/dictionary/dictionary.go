// Package dictionary holds the curated romanized-key to Thai word table.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jusunglee/thaiconv/internal/phonetic"
)

//go:embed data/dictionary.tsv
var embedded string

// Entry is one Thai word reachable from a romanized key.
type Entry struct {
	Key  string        `json:"key"`
	Thai string        `json:"thai"`
	Tone phonetic.Tone `json:"tone"`
	Rank int           `json:"rank"`
}

type pair struct{ key, thai string }

// Store is an immutable dictionary. Lookups are safe for concurrent use.
type Store struct {
	entries []Entry
	byKey   map[string][]Entry
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Default loads the embedded dictionary once per process.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Load(strings.NewReader(embedded))
	})
	return defaultStore, defaultErr
}

// New builds a store from entries in table order. Keys are normalized the
// same way user input is. A repeated (key, thai) pair is an error.
func New(entries []Entry) (*Store, error) {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string][]Entry),
	}
	seen := make(map[pair]bool, len(entries))
	for i, e := range entries {
		e, err := normalize(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		p := pair{e.Key, e.Thai}
		if seen[p] {
			return nil, fmt.Errorf("entry %d: duplicate entry %s -> %s", i+1, e.Key, e.Thai)
		}
		seen[p] = true
		s.entries = append(s.entries, e)
		s.byKey[e.Key] = append(s.byKey[e.Key], e)
	}
	for _, list := range s.byKey {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rank > list[j].Rank })
	}
	return s, nil
}

func normalize(e Entry) (Entry, error) {
	key, _ := phonetic.NormalizeSpelling(strings.TrimSpace(e.Key))
	if err := phonetic.ValidSpelling(key); err != nil {
		return e, fmt.Errorf("key %q: %w", e.Key, err)
	}
	e.Key = key
	e.Thai = strings.TrimSpace(e.Thai)
	if e.Thai == "" {
		return e, fmt.Errorf("key %q: empty Thai word", e.Key)
	}
	for _, r := range e.Thai {
		if !phonetic.IsThai(r) {
			return e, fmt.Errorf("key %q: %q is not Thai script", e.Key, r)
		}
	}
	if !e.Tone.Valid() {
		return e, fmt.Errorf("key %q: invalid tone %d", e.Key, int(e.Tone))
	}
	if e.Rank < 0 {
		return e, fmt.Errorf("key %q: negative rank %d", e.Key, e.Rank)
	}
	return e, nil
}

// Load reads a tab-separated dictionary.
// Format: key<TAB>thai<TAB>tone digit<TAB>rank. Blank lines and lines
// starting with # are skipped.
func Load(r io.Reader) (*Store, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return New(entries)
}

// Parse reads dictionary lines without building a store.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	seen := make(map[pair]int)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 tab-separated fields, got %d", lineNum, len(parts))
		}
		digit, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad tone %q", lineNum, parts[2])
		}
		tone, ok := phonetic.ToneFromDigit(digit)
		if !ok {
			return nil, fmt.Errorf("line %d: tone digit %d out of range 1-5", lineNum, digit)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad rank %q", lineNum, parts[3])
		}

		e, err := normalize(Entry{Key: parts[0], Thai: parts[1], Tone: tone, Rank: rank})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		p := pair{e.Key, e.Thai}
		if first, dup := seen[p]; dup {
			return nil, fmt.Errorf("line %d: duplicate entry %s -> %s (first on line %d)", lineNum, e.Key, e.Thai, first)
		}
		seen[p] = lineNum
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return entries, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Write emits entries in the format Load reads.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%d\t%d\n", e.Key, e.Thai, e.Tone.Digit(), e.Rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Lookup returns the entries for a normalized key, highest rank first and
// ties in table order. A miss returns an empty slice.
func (s *Store) Lookup(key string) []Entry {
	list := s.byKey[key]
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Prefix returns entries whose key starts with prefix, in table order.
func (s *Store) Prefix(prefix string) []Entry {
	out := []Entry{}
	for _, e := range s.entries {
		if strings.HasPrefix(e.Key, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns every entry in table order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int { return len(s.entries) }
