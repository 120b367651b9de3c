package transliteration

import (
	"sort"

	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/dictionary"
	"github.com/jusunglee/thaiconv/internal/phonetic"
)

const (
	dictionaryScore = 1000
	toneMatchBonus  = 500
	tonePenalty     = 50
)

// rank merges dictionary hits and synthesized spellings into one list, best
// first. Any dictionary hit outscores every synthesized candidate. An
// explicit tone relabels dictionary hits and re-marks synthesized ones.
func rank(hits []dictionary.Entry, synthesized []Candidate, tone *phonetic.Tone) []Candidate {
	out := make([]Candidate, 0, len(hits)+len(synthesized))

	for _, e := range hits {
		c := Candidate{
			Thai:   e.Thai,
			Tone:   e.Tone,
			Source: SourceDictionary,
			Score:  float64(dictionaryScore + e.Rank),
		}
		if tone == nil || *tone == e.Tone {
			c.Score += toneMatchBonus
		}
		if tone != nil {
			c.Tone = *tone
		}
		out = append(out, c)
	}

	for _, c := range synthesized {
		if tone != nil && c.Tone != *tone {
			if thai, ok := spellWithTone(c.syllables, *tone); ok {
				c.Thai = thai
				c.Tone = *tone
			} else {
				c.Score -= tonePenalty
			}
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	type key struct {
		thai string
		tone phonetic.Tone
	}
	return lo.UniqBy(out, func(c Candidate) key { return key{c.Thai, c.Tone} })
}
