// Package transliteration converts romanized Thai words into Thai script by
// combining dictionary lookups with phonetic spelling.
package transliteration

import (
	"strings"
	"sync"
	"unicode"
)

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
	defaultErr    error
)

// Default returns the process-wide engine over the built-in tables.
func Default() (*Engine, error) {
	defaultOnce.Do(func() {
		defaultEngine, defaultErr = NewDefault()
	})
	return defaultEngine, defaultErr
}

// Transliterate converts a phrase with the default engine and returns its
// rendering. Text already written in Thai script is returned unchanged.
func Transliterate(text string) (string, error) {
	if detectScript(text) == "thai" {
		return text, nil
	}
	e, err := Default()
	if err != nil {
		return "", err
	}
	return Render(e.ConvertPhrase(text)), nil
}

func detectScript(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Thai, r) {
			return "thai"
		}
	}
	if strings.TrimSpace(text) == "" {
		return "empty"
	}
	return "latin"
}
