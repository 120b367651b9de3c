package ime

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

const (
	cheatColumns = 4
	toneExample  = "kaa"
)

var cellStyle = lipgloss.NewStyle().Width(18)

func grid(cells []string) string {
	rows := lo.Map(lo.Chunk(cells, cheatColumns), func(row []string, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, lo.Map(row, func(c string, _ int) string {
			return cellStyle.Render(c)
		})...)
	})
	return strings.Join(rows, "\n")
}

// CheatSheet lists every vowel written on ก (open, then closed with น), the
// single-letter consonants and the five tone digits.
func CheatSheet(e *transliteration.Engine) string {
	inv := e.Inventory()
	k, _ := inv.Onset("k")
	n, hasN := lo.Find(inv.Codas("n"), func(c phonetic.Coda) bool { return c.Roman == "n" })

	vowels := inv.AllVowels()
	slices.SortStableFunc(vowels, func(a, b phonetic.Vowel) int { return strings.Compare(a.Roman, b.Roman) })
	vowelCells := lo.Map(vowels, func(v phonetic.Vowel, _ int) string {
		cell := fmt.Sprintf("%s %s", v.Roman, phonetic.NewSyllable(&k, v, nil).Render(phonetic.MarkNone))
		if v.Closed != nil && hasN {
			cell += " " + phonetic.NewSyllable(&k, v, &n).Render(phonetic.MarkNone)
		}
		return cell
	})

	onsets := lo.Filter(inv.AllOnsets(), func(o phonetic.Onset, _ int) bool {
		return utf8.RuneCountInString(o.Forms[0]) == 1
	})
	slices.SortStableFunc(onsets, func(a, b phonetic.Onset) int { return strings.Compare(a.Roman, b.Roman) })
	onsetCells := lo.Map(onsets, func(o phonetic.Onset, _ int) string {
		return o.Roman + " " + strings.Join(o.Forms, " ")
	})

	var toneCells []string
	for d := 1; d <= 5; d++ {
		tone, _ := phonetic.ToneFromDigit(d)
		cell := fmt.Sprintf("%d %s", d, tone)
		if r := e.ConvertWord(toneExample, d); r.Best != nil {
			cell += " " + r.Best.Thai
		}
		toneCells = append(toneCells, cell)
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Vowels") + "\n")
	b.WriteString(grid(vowelCells) + "\n\n")
	b.WriteString(headingStyle.Render("Consonants") + "\n")
	b.WriteString(grid(onsetCells) + "\n\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Tones (shown on %s)", toneExample)) + "\n")
	b.WriteString(grid(toneCells) + "\n\n")
	b.WriteString(headingStyle.Render("Tips") + "\n")
	b.WriteString("Write ? before a vowel inside a word for a silent อ, e.g. khao?i.\n")
	b.WriteString("j, dt and bp are read as c, t and p. Hyphens and apostrophes are ignored.")
	return b.String()
}
