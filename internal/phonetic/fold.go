package phonetic

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Combining diacritics some romanization schemes use to write tone.
var diacriticTones = map[rune]Tone{
	'\u0300': ToneLow,     // grave
	'\u0301': ToneHigh,    // acute
	'\u0302': ToneFalling, // circumflex
	'\u030c': ToneRising,  // caron
	'\u0304': ToneMid,     // macron
}

var spellingRewrites = strings.NewReplacer(
	"-", "",
	"'", "",
	"j", "c",
	"dt", "t",
	"bp", "p",
)

var lower = cases.Lower(language.Und)

// NormalizeSpelling folds a romanized spelling to the canonical key used by
// the dictionary and the phonetic inventory. A tone diacritic found in the
// input is returned as tone; zero means none was written. When several are
// written the last one wins. The result is not validated, see ValidSpelling.
func NormalizeSpelling(s string) (string, Tone) {
	var (
		b    strings.Builder
		tone Tone
	)
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			if t, ok := diacriticTones[r]; ok {
				tone = t
			}
			continue
		}
		b.WriteRune(r)
	}
	return spellingRewrites.Replace(lower.String(b.String())), tone
}

// ValidSpelling reports an error unless s is a non-empty canonical key made
// of a-z and the glottal marker '?'.
func ValidSpelling(s string) error {
	if s == "" {
		return fmt.Errorf("empty spelling")
	}
	for i, r := range s {
		if (r < 'a' || r > 'z') && r != '?' {
			return fmt.Errorf("unexpected %q at offset %d", r, i)
		}
	}
	return nil
}
