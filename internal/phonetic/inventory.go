package phonetic

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

const maiTaikhu = "็"

// Onset is a romanized initial consonant or cluster. Forms lists the Thai
// spellings that share its sound; Forms[0] is the default.
type Onset struct {
	Roman string
	Forms []string
}

// Pattern places the parts of a Thai vowel around the onset:
// Pre + onset + Above + tone mark + Post.
type Pattern struct {
	Pre   string
	Above string
	Post  string
}

// Vowel is a romanized vowel nucleus. Closed is nil for vowels that never
// take a final consonant. Live marks vowels that end in a glide (am, ai, ao)
// and make the syllable live even when short.
type Vowel struct {
	Roman   string
	Long    bool
	Live    bool
	Open    Pattern
	Closed  *Pattern
	ClosedY *Pattern
}

// Coda is a romanized final consonant.
type Coda struct {
	Roman    string
	Forms    []string
	Sonorant bool
}

// Inventory holds the phonetic tables. It is immutable once built.
type Inventory struct {
	onsets []Onset
	vowels []Vowel
	codas  []Coda
}

var (
	defaultOnce      sync.Once
	defaultInventory *Inventory
	defaultErr       error
)

// Default builds and validates the built-in inventory once per process.
func Default() (*Inventory, error) {
	defaultOnce.Do(func() {
		defaultInventory, defaultErr = New(defaultOnsets, defaultVowels, defaultCodas)
	})
	return defaultInventory, defaultErr
}

// New validates the given tables and returns an inventory whose match order
// is longest key first, ties kept in table order.
func New(onsets []Onset, vowels []Vowel, codas []Coda) (*Inventory, error) {
	var errs []error

	seen := make(map[string]bool)
	for _, o := range onsets {
		if err := checkKey("onset", o.Roman, seen); err != nil {
			errs = append(errs, err)
			continue
		}
		if len(o.Forms) == 0 {
			errs = append(errs, fmt.Errorf("onset %q: no Thai forms", o.Roman))
		}
		for _, f := range o.Forms {
			if err := checkConsonants(f); err != nil {
				errs = append(errs, fmt.Errorf("onset %q: %w", o.Roman, err))
			}
		}
	}

	seen = make(map[string]bool)
	for _, v := range vowels {
		if err := checkKey("vowel", v.Roman, seen); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, p := range []*Pattern{&v.Open, v.Closed, v.ClosedY} {
			if p == nil {
				continue
			}
			if err := checkThai(p.Pre + p.Above + p.Post); err != nil {
				errs = append(errs, fmt.Errorf("vowel %q: %w", v.Roman, err))
			}
		}
		if v.Open == (Pattern{}) {
			errs = append(errs, fmt.Errorf("vowel %q: empty open pattern", v.Roman))
		}
	}

	seen = make(map[string]bool)
	for _, c := range codas {
		if err := checkKey("coda", c.Roman, seen); err != nil {
			errs = append(errs, err)
			continue
		}
		if len(c.Forms) == 0 {
			errs = append(errs, fmt.Errorf("coda %q: no Thai forms", c.Roman))
		}
		for _, f := range c.Forms {
			if err := checkThai(f); err != nil {
				errs = append(errs, fmt.Errorf("coda %q: %w", c.Roman, err))
			}
		}
	}

	if len(onsets) == 0 || len(vowels) == 0 {
		errs = append(errs, errors.New("inventory needs at least one onset and one vowel"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid phonetic inventory: %w", err)
	}

	inv := &Inventory{
		onsets: append([]Onset(nil), onsets...),
		vowels: append([]Vowel(nil), vowels...),
		codas:  append([]Coda(nil), codas...),
	}
	sort.SliceStable(inv.onsets, func(i, j int) bool { return len(inv.onsets[i].Roman) > len(inv.onsets[j].Roman) })
	sort.SliceStable(inv.vowels, func(i, j int) bool { return len(inv.vowels[i].Roman) > len(inv.vowels[j].Roman) })
	sort.SliceStable(inv.codas, func(i, j int) bool { return len(inv.codas[i].Roman) > len(inv.codas[j].Roman) })
	return inv, nil
}

func checkKey(kind, key string, seen map[string]bool) error {
	if key == "" {
		return fmt.Errorf("%s with empty key", kind)
	}
	if err := ValidSpelling(key); err != nil {
		return fmt.Errorf("%s %q: %w", kind, key, err)
	}
	if seen[key] {
		return fmt.Errorf("duplicate %s %q", kind, key)
	}
	seen[key] = true
	return nil
}

func checkThai(s string) error {
	for _, r := range s {
		if !IsThai(r) {
			return fmt.Errorf("%q is not Thai script", r)
		}
	}
	return nil
}

func checkConsonants(s string) error {
	if s == "" {
		return errors.New("empty form")
	}
	if err := checkThai(s); err != nil {
		return err
	}
	first, _ := utf8.DecodeRuneInString(s)
	if _, ok := ClassOf(first); !ok {
		return fmt.Errorf("%q does not start with a consonant", s)
	}
	return nil
}

// IsThai reports whether r lies in the Thai Unicode block.
func IsThai(r rune) bool {
	return r >= 0x0e00 && r <= 0x0e7f
}

// Onsets returns the onsets whose key is a prefix of s, longest first.
func (inv *Inventory) Onsets(s string) []Onset {
	var out []Onset
	for _, o := range inv.onsets {
		if strings.HasPrefix(s, o.Roman) {
			out = append(out, o)
		}
	}
	return out
}

// Vowels returns the vowels whose key is a prefix of s, longest first.
func (inv *Inventory) Vowels(s string) []Vowel {
	var out []Vowel
	for _, v := range inv.vowels {
		if strings.HasPrefix(s, v.Roman) {
			out = append(out, v)
		}
	}
	return out
}

// Codas returns the codas whose key is a prefix of s, longest first.
func (inv *Inventory) Codas(s string) []Coda {
	var out []Coda
	for _, c := range inv.codas {
		if strings.HasPrefix(s, c.Roman) {
			out = append(out, c)
		}
	}
	return out
}

// AllOnsets returns a copy of every onset, longest key first.
func (inv *Inventory) AllOnsets() []Onset { return slices.Clone(inv.onsets) }

// AllVowels returns a copy of every vowel, longest key first.
func (inv *Inventory) AllVowels() []Vowel { return slices.Clone(inv.vowels) }

// Onset looks up an onset by its exact romanized key.
func (inv *Inventory) Onset(roman string) (Onset, bool) {
	for _, o := range inv.onsets {
		if o.Roman == roman {
			return o, true
		}
	}
	return Onset{}, false
}

// Syllable is one matched onset-vowel-coda unit together with the letter
// forms chosen for it. A nil Onset means the implicit glottal อ.
type Syllable struct {
	Onset     *Onset
	OnsetForm string
	Vowel     Vowel
	Coda      *Coda
	CodaForm  string
}

const implicitOnset = "อ"

// NewSyllable builds a syllable using the default letter forms.
func NewSyllable(onset *Onset, vowel Vowel, coda *Coda) Syllable {
	s := Syllable{Onset: onset, Vowel: vowel, Coda: coda, OnsetForm: implicitOnset}
	if onset != nil {
		s.OnsetForm = onset.Forms[0]
	}
	if coda != nil {
		s.CodaForm = coda.Forms[0]
	}
	return s
}

// Roman returns the romanized spelling the syllable was matched from.
func (s Syllable) Roman() string {
	var b strings.Builder
	if s.Onset != nil {
		b.WriteString(s.Onset.Roman)
	}
	b.WriteString(s.Vowel.Roman)
	if s.Coda != nil {
		b.WriteString(s.Coda.Roman)
	}
	return b.String()
}

func (s Syllable) Class() Class {
	r, _ := utf8.DecodeRuneInString(s.OnsetForm)
	c, ok := ClassOf(r)
	if !ok {
		return ClassMid
	}
	return c
}

func (s Syllable) Live() bool {
	if s.Coda != nil {
		return s.Coda.Sonorant || s.Vowel.Live
	}
	return s.Vowel.Long || s.Vowel.Live
}

// Tone is the tone the syllable carries when written with mark m.
func (s Syllable) Tone(m Mark) Tone {
	return SyllableTone(s.Class(), s.Live(), s.Vowel.Long, m)
}

// MarkFor returns the mark that gives the syllable the wanted tone.
func (s Syllable) MarkFor(want Tone) (Mark, bool) {
	return MarkFor(s.Class(), s.Live(), s.Vowel.Long, want)
}

func (s Syllable) pattern() Pattern {
	if s.Coda == nil {
		return s.Vowel.Open
	}
	if s.Coda.Roman == "y" && s.Vowel.ClosedY != nil {
		return *s.Vowel.ClosedY
	}
	if s.Vowel.Closed != nil {
		return *s.Vowel.Closed
	}
	return s.Vowel.Open
}

// Render writes the syllable in Thai script with mark m.
func (s Syllable) Render(m Mark) string {
	p := s.pattern()
	above := p.Above
	if m != MarkNone && above == maiTaikhu {
		above = ""
	}
	return p.Pre + s.OnsetForm + above + string(m) + p.Post + s.CodaForm
}
