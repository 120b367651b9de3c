// Package ime is a terminal input method for romanized Thai. Words typed in
// the input line are converted and appended to a draft when Enter is
// pressed; alternatives for the last committed word can then replace it.
package ime

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jusunglee/thaiconv/internal/transliteration"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	draftStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type Model struct {
	engine      *transliteration.Engine
	input       textinput.Model
	draft       []string
	lastRoman   string
	suggestions []transliteration.Suggestion
	cheatSheet  string
	showCheat   bool
	width       int
}

func New(engine *transliteration.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "Type (e.g. sabaay) and hit Enter to add..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	return Model{
		engine:     engine,
		input:      ti,
		cheatSheet: CheatSheet(engine),
		width:      80,
	}
}

// Draft is the committed Thai text.
func (m Model) Draft() string {
	return strings.Join(m.draft, " ")
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		empty := m.input.Value() == ""
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.commit(), nil
		case tea.KeyTab:
			m.showCheat = !m.showCheat
			return m, nil
		case tea.KeyCtrlU:
			m.draft = nil
			m.lastRoman = ""
			m.suggestions = nil
			return m, nil
		case tea.KeyBackspace:
			if empty && len(m.draft) > 0 {
				m.draft = m.draft[:len(m.draft)-1]
				m.lastRoman = ""
				m.suggestions = nil
				return m, nil
			}
		case tea.KeyRunes:
			if empty && len(msg.Runes) == 1 {
				if i := int(msg.Runes[0] - '1'); i >= 0 && i < len(m.suggestions) {
					return m.pick(i), nil
				}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commit converts the input line, appends it to the draft and lists
// alternatives for its last word.
func (m Model) commit() Model {
	roman := strings.TrimSpace(m.input.Value())
	if roman == "" {
		return m
	}
	for _, r := range m.engine.ConvertPhrase(roman) {
		m.draft = append(m.draft, transliteration.Render([]transliteration.Result{r}))
	}
	words := strings.Fields(roman)
	m.lastRoman = words[len(words)-1]
	m.suggestions = m.engine.Suggest(m.lastRoman, transliteration.DefaultSuggestions)
	m.input.Reset()
	return m
}

// pick replaces the last committed word with alternative i.
func (m Model) pick(i int) Model {
	if len(m.draft) == 0 {
		return m
	}
	m.draft = append(m.draft[:len(m.draft)-1:len(m.draft)-1], m.suggestions[i].Thai)
	return m
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Thai Word Converter"))
	s.WriteString("\n")

	draft := m.Draft()
	if draft == "" {
		draft = subtleStyle.Render("Result text appears here")
	}
	s.WriteString(draftStyle.Width(max(m.width-4, 20)).Render(draft))
	s.WriteString("\n\n")

	s.WriteString(m.input.View())
	s.WriteString("\n")
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		s.WriteString(previewStyle.Render(transliteration.Render(m.engine.ConvertPhrase(v))))
	}
	s.WriteString("\n")

	if m.lastRoman != "" && len(m.suggestions) > 0 {
		s.WriteString(headingStyle.Render(fmt.Sprintf("Alternatives for %s", m.lastRoman)))
		s.WriteString("\n")
		for i, sug := range m.suggestions {
			fmt.Fprintf(&s, "  %d %s %s\n", i+1, sug.Thai, subtleStyle.Render("("+sug.Roman+")"))
		}
	}

	s.WriteString("\n")
	s.WriteString(subtleStyle.Render("enter commit • 1-8 replace last word • backspace remove word • ctrl+u clear • tab cheat sheet • esc quit"))
	s.WriteString("\n")

	if m.showCheat {
		s.WriteString("\n")
		s.WriteString(m.cheatSheet)
		s.WriteString("\n")
	}
	return s.String()
}

// Run starts the IME and returns the draft when the user quits.
func Run(engine *transliteration.Engine) (string, error) {
	p := tea.NewProgram(New(engine), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(Model).Draft(), nil
}
