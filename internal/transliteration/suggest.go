package transliteration

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/phonetic"
)

// DefaultSuggestions is the number of suggestions returned when the caller
// does not ask for a specific count.
const DefaultSuggestions = 8

type SuggestionKind string

const (
	KindConversion SuggestionKind = "conversion"
	KindPrefix     SuggestionKind = "prefix"
	KindFuzzy      SuggestionKind = "fuzzy"
	KindOnset      SuggestionKind = "onset"
	KindCoda       SuggestionKind = "coda"
)

// Suggestion is an alternative spelling offered while the user is typing.
type Suggestion struct {
	Roman string         `json:"roman"`
	Thai  string         `json:"thai"`
	Score int            `json:"score"`
	Kind  SuggestionKind `json:"kind"`
}

const (
	conversionScore = 999
	onsetScore      = 40
	codaScore       = 35
)

// Suggest lists alternatives for a partially typed word: its conversion,
// dictionary words it is a prefix of or one edit away from, and the same
// spelling written with other onset or coda letters.
func (e *Engine) Suggest(buffer string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestions
	}
	tok, err := Tokenize(buffer)
	if err != nil {
		return []Suggestion{}
	}
	roman := strings.TrimSpace(buffer)

	var out []Suggestion
	res := e.ConvertWord(buffer)
	if res.Best != nil {
		out = append(out, Suggestion{Roman: roman, Thai: res.Best.Thai, Score: conversionScore, Kind: KindConversion})
	}

	for _, entry := range e.dict.Prefix(tok.Base) {
		out = append(out, Suggestion{Roman: entry.Key, Thai: entry.Thai, Score: entry.Rank, Kind: KindPrefix})
	}
	for _, entry := range e.dict.Entries() {
		if matchr.Levenshtein(tok.Base, entry.Key) == 1 {
			out = append(out, Suggestion{Roman: entry.Key, Thai: entry.Thai, Score: entry.Rank, Kind: KindFuzzy})
		}
	}

	if parses := e.synth.Parse(tok.Base); len(parses) > 0 {
		out = append(out, letterAlternates(roman, parses[0], tok.Tone)...)
	}

	out = lo.UniqBy(out, func(s Suggestion) [2]string { return [2]string{s.Roman, s.Thai} })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// letterAlternates respells parse with every other letter for the first
// syllable's onset and the last syllable's coda.
func letterAlternates(roman string, parse []phonetic.Syllable, tone *phonetic.Tone) []Suggestion {
	var out []Suggestion
	emit := func(syls []phonetic.Syllable, score int, kind SuggestionKind) {
		thai := spell(syls, phonetic.MarkNone)
		if tone != nil {
			if marked, ok := spellWithTone(syls, *tone); ok {
				thai = marked
			}
		}
		out = append(out, Suggestion{Roman: roman, Thai: thai, Score: score, Kind: kind})
	}

	if first := parse[0]; first.Onset != nil {
		for _, form := range first.Onset.Forms[1:] {
			syls := append([]phonetic.Syllable(nil), parse...)
			syls[0].OnsetForm = form
			emit(syls, onsetScore, KindOnset)
		}
	}

	last := len(parse) - 1
	if coda := parse[last].Coda; coda != nil {
		for _, form := range coda.Forms[1:] {
			syls := append([]phonetic.Syllable(nil), parse...)
			syls[last].CodaForm = form
			emit(syls, codaScore, KindCoda)
		}
	}
	return out
}
