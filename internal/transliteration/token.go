package transliteration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jusunglee/thaiconv/internal/phonetic"
)

// ErrInvalidToken is wrapped by every error that rejects a single word.
var ErrInvalidToken = errors.New("invalid token")

// Token is a romanized word split into its normalized base spelling and an
// optional explicit tone.
type Token struct {
	Base   string         `json:"base"`
	Tone   *phonetic.Tone `json:"tone,omitempty"`
	Source string         `json:"source"`
}

func invalid(word, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidToken, word, fmt.Sprintf(format, args...))
}

// Tokenize splits a trailing tone digit 1-5 off word and normalizes the rest.
// A tone diacritic counts only when no digit is given.
func Tokenize(word string) (Token, error) {
	src := strings.TrimSpace(word)
	if src == "" {
		return Token{}, invalid(word, "empty word")
	}

	body := src
	var tone *phonetic.Tone
	if last := src[len(src)-1]; last >= '0' && last <= '9' {
		t, ok := phonetic.ToneFromDigit(int(last - '0'))
		if !ok {
			return Token{}, invalid(word, "tone digit %c out of range 1-5", last)
		}
		tone = &t
		body = src[:len(src)-1]
	}

	base, diacritic := phonetic.NormalizeSpelling(body)
	if base == "" {
		return Token{}, invalid(word, "no spelling before tone digit")
	}
	if err := phonetic.ValidSpelling(base); err != nil {
		return Token{}, invalid(word, "%v", err)
	}
	if tone == nil && diacritic != 0 {
		tone = &diacritic
	}
	return Token{Base: base, Tone: tone, Source: src}, nil
}

// TokenizeWithTone is Tokenize with a caller-supplied tone digit that takes
// precedence over anything written in the word.
func TokenizeWithTone(word string, digit int) (Token, error) {
	tone, ok := phonetic.ToneFromDigit(digit)
	if !ok {
		return Token{}, invalid(word, "tone %d out of range 1-5", digit)
	}
	tok, err := Tokenize(word)
	if err != nil {
		return Token{}, err
	}
	tok.Tone = &tone
	return tok, nil
}
