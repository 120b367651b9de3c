package transliteration

import (
	"sort"
	"strings"

	"github.com/jusunglee/thaiconv/internal/phonetic"
)

// Source tells where a candidate came from.
type Source int

const (
	SourceDictionary Source = iota + 1
	SourceSynthesized
)

func (s Source) String() string {
	switch s {
	case SourceDictionary:
		return "dictionary"
	case SourceSynthesized:
		return "synthesized"
	default:
		return "unknown"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Candidate is one possible Thai rendering of a word.
type Candidate struct {
	Thai     string        `json:"thai"`
	Tone     phonetic.Tone `json:"tone"`
	Source   Source        `json:"source"`
	Score    float64       `json:"score"`
	Segments []string      `json:"segments,omitempty"`

	syllables []phonetic.Syllable
}

const (
	maxParses        = 8
	synthScore       = 100
	alternatePenalty = 10
)

// Synthesizer spells romanized words phonetically, syllable by syllable.
type Synthesizer struct {
	inv *phonetic.Inventory
}

func NewSynthesizer(inv *phonetic.Inventory) *Synthesizer {
	return &Synthesizer{inv: inv}
}

type match struct {
	syl phonetic.Syllable
	end int
}

// matchesAt lists every syllable that can start at offset i, longest first.
// Only the first syllable of a word may omit its onset.
func (s *Synthesizer) matchesAt(base string, i int) []match {
	var onsets []*phonetic.Onset
	for _, o := range s.inv.Onsets(base[i:]) {
		onsets = append(onsets, &o)
	}
	if i == 0 {
		onsets = append(onsets, nil)
	}

	var out []match
	for _, o := range onsets {
		j := i
		if o != nil {
			j += len(o.Roman)
		}
		for _, v := range s.inv.Vowels(base[j:]) {
			k := j + len(v.Roman)
			if v.Closed != nil {
				for _, c := range s.inv.Codas(base[k:]) {
					out = append(out, match{syl: phonetic.NewSyllable(o, v, &c), end: k + len(c.Roman)})
				}
			}
			out = append(out, match{syl: phonetic.NewSyllable(o, v, nil), end: k})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].end > out[b].end })
	return out
}

// Parse returns the complete segmentations of base that use the fewest
// syllables, in depth-first longest-syllable-first order, at most eight.
func (s *Synthesizer) Parse(base string) [][]phonetic.Syllable {
	n := len(base)
	if n == 0 {
		return nil
	}

	matches := make([][]match, n)
	best := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		best[i] = -1
		matches[i] = s.matchesAt(base, i)
		for _, m := range matches[i] {
			if rest := best[m.end]; rest >= 0 && (best[i] < 0 || rest+1 < best[i]) {
				best[i] = rest + 1
			}
		}
	}
	if best[0] < 0 {
		return nil
	}

	var parses [][]phonetic.Syllable
	var walk func(i int, path []phonetic.Syllable)
	walk = func(i int, path []phonetic.Syllable) {
		if len(parses) >= maxParses {
			return
		}
		if i == n {
			parses = append(parses, append([]phonetic.Syllable(nil), path...))
			return
		}
		for _, m := range matches[i] {
			if best[m.end] == best[i]-1 {
				walk(m.end, append(path, m.syl))
			}
		}
	}
	walk(0, nil)
	return parses
}

// Synthesize spells base phonetically. The last syllable is spelled once per
// consonant class its onset can be written with, primary letter first.
func (s *Synthesizer) Synthesize(base string) []Candidate {
	var out []Candidate
	for _, parse := range s.Parse(base) {
		segments := make([]string, len(parse))
		for i, syl := range parse {
			segments[i] = syl.Roman()
		}
		for rank, syls := range lastOnsetVariants(parse) {
			last := syls[len(syls)-1]
			out = append(out, Candidate{
				Thai:      spell(syls, phonetic.MarkNone),
				Tone:      last.Tone(phonetic.MarkNone),
				Source:    SourceSynthesized,
				Score:     float64(synthScore - alternatePenalty*rank),
				Segments:  segments,
				syllables: syls,
			})
		}
	}
	return out
}

// lastOnsetVariants returns parse with its last onset written in the first
// letter of each distinct consonant class.
func lastOnsetVariants(parse []phonetic.Syllable) [][]phonetic.Syllable {
	last := parse[len(parse)-1]
	if last.Onset == nil {
		return [][]phonetic.Syllable{parse}
	}
	var out [][]phonetic.Syllable
	seen := make(map[phonetic.Class]bool)
	for _, form := range last.Onset.Forms {
		v := last
		v.OnsetForm = form
		if seen[v.Class()] {
			continue
		}
		seen[v.Class()] = true
		syls := append(append([]phonetic.Syllable(nil), parse[:len(parse)-1]...), v)
		out = append(out, syls)
	}
	return out
}

// spell renders syllables with mark on the last one.
func spell(syls []phonetic.Syllable, mark phonetic.Mark) string {
	var b strings.Builder
	for i, syl := range syls {
		if i == len(syls)-1 {
			b.WriteString(syl.Render(mark))
			continue
		}
		b.WriteString(syl.Render(phonetic.MarkNone))
	}
	return b.String()
}

// spellWithTone renders syllables so the last one carries tone. It reports
// false when the last syllable's class and shape cannot carry it.
func spellWithTone(syls []phonetic.Syllable, tone phonetic.Tone) (string, bool) {
	mark, ok := syls[len(syls)-1].MarkFor(tone)
	if !ok {
		return "", false
	}
	return spell(syls, mark), true
}
