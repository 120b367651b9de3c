// thaiime converts romanized Thai from the terminal. With --phrase it prints
// one conversion and exits; otherwise it opens an interactive input method
// and prints the composed text on exit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/dictsource"
	"github.com/jusunglee/thaiconv/internal/ime"
	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("thaiime")

	var (
		dictionary = fs.StringLong("dictionary", "", "Dictionary source: empty for the built-in table, a .tsv file, sqlite://path or postgres://...")
		phrase     = fs.StringLong("phrase", "", "Convert this phrase and exit")
		tone       = fs.Int64Long("tone", 0, "Tone digit 1-5 for a single-word --phrase")
		asJSON     = fs.BoolLong("json", "Print every candidate as JSON")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	ctx := context.Background()
	inv, err := phonetic.Default()
	if err != nil {
		return fmt.Errorf("loading phonetic inventory: %w", err)
	}
	dict, err := dictsource.Load(ctx, *dictionary)
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}
	engine, err := transliteration.New(inv, dict)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	if *phrase == "" {
		draft, err := ime.Run(engine)
		if err != nil {
			return fmt.Errorf("running input method: %w", err)
		}
		if draft != "" {
			fmt.Println(draft)
		}
		return nil
	}

	var results []transliteration.Result
	if *tone != 0 {
		if len(strings.Fields(*phrase)) != 1 {
			return errors.New("--tone requires exactly one word")
		}
		results = []transliteration.Result{engine.ConvertWord(strings.TrimSpace(*phrase), int(*tone))}
	} else {
		results = engine.ConvertPhrase(*phrase)
	}

	if *asJSON {
		return printJSON(results)
	}
	fmt.Println(transliteration.Render(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Original, r.Err)
		}
	}
	return nil
}

type jsonResult struct {
	Original   string                      `json:"original"`
	Candidates []transliteration.Candidate `json:"candidates"`
	Best       *transliteration.Candidate  `json:"best,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func printJSON(results []transliteration.Result) error {
	out := lo.Map(results, func(r transliteration.Result, _ int) jsonResult {
		jr := jsonResult{Original: r.Original, Candidates: r.Candidates, Best: r.Best}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		return jr
	})
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
