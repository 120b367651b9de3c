package transliteration

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/dictionary"
	"github.com/jusunglee/thaiconv/internal/phonetic"
)

// Result is the outcome of converting one word. Best is nil when nothing
// matched; Err is set only for words that could not be tokenized.
type Result struct {
	Original   string      `json:"original"`
	Token      Token       `json:"token"`
	Candidates []Candidate `json:"candidates"`
	Best       *Candidate  `json:"best,omitempty"`
	Err        error       `json:"-"`
}

// Matched reports whether the word produced at least one candidate.
func (r Result) Matched() bool { return r.Best != nil }

// Engine converts romanized Thai into Thai script. It only reads its tables
// after construction and is safe for concurrent use.
type Engine struct {
	inv   *phonetic.Inventory
	dict  *dictionary.Store
	synth *Synthesizer
}

func New(inv *phonetic.Inventory, dict *dictionary.Store) (*Engine, error) {
	if inv == nil {
		return nil, errors.New("phonetic inventory is required")
	}
	if dict == nil {
		return nil, errors.New("dictionary is required")
	}
	return &Engine{inv: inv, dict: dict, synth: NewSynthesizer(inv)}, nil
}

// NewDefault builds an engine over the built-in inventory and dictionary.
func NewDefault() (*Engine, error) {
	inv, err := phonetic.Default()
	if err != nil {
		return nil, err
	}
	dict, err := dictionary.Default()
	if err != nil {
		return nil, err
	}
	return New(inv, dict)
}

func (e *Engine) Dictionary() *dictionary.Store { return e.dict }

func (e *Engine) Inventory() *phonetic.Inventory { return e.inv }

// ConvertWord converts a single word. An optional tone digit 1-5 overrides
// any tone written in the word itself.
func (e *Engine) ConvertWord(word string, tone ...int) Result {
	var (
		tok Token
		err error
	)
	if len(tone) > 0 {
		tok, err = TokenizeWithTone(word, tone[0])
	} else {
		tok, err = Tokenize(word)
	}
	if err != nil {
		return Result{Original: word, Candidates: []Candidate{}, Err: err}
	}

	candidates := rank(e.dict.Lookup(tok.Base), e.synth.Synthesize(tok.Base), tok.Tone)
	res := Result{Original: word, Token: tok, Candidates: candidates}
	if len(candidates) > 0 {
		best := candidates[0]
		res.Best = &best
	}
	return res
}

// ConvertPhrase converts each whitespace-separated word in order. A word
// that fails does not affect the others.
func (e *Engine) ConvertPhrase(phrase string) []Result {
	return lo.Map(strings.Fields(phrase), func(w string, _ int) Result {
		return e.ConvertWord(w)
	})
}

// Render joins the best match of each result with single spaces. Words
// without a match keep their original spelling.
func Render(results []Result) string {
	return strings.Join(lo.Map(results, func(r Result, _ int) string {
		if r.Best == nil {
			return r.Original
		}
		return r.Best.Thai
	}), " ")
}
