// envsetup provides a lightweight .env configuration wizard.
// It runs automatically on first bot startup when no .env file exists,
// collecting the Discord token and where the dictionary and feedback live.
package envsetup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jusunglee/thaiconv/internal/dictsource"
)

type step int

const (
	stepWelcome step = iota
	stepDiscord
	stepGuild
	stepDictionary
	stepDatabase
	stepConfirm
	stepSaved
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	path         string
	step         step
	input        textinput.Model
	discordToken string
	guildID      string
	dictionary   string
	databaseURL  string
	err          error
}

// New returns a wizard that writes its answers to path.
func New(path string) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()
	return model{path: path, step: stepWelcome, input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// next moves to s with an empty input, masking it for secrets.
func (m model) next(s step) model {
	m.step = s
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = ""
	switch s {
	case stepDiscord:
		m.input.EchoMode = textinput.EchoPassword
	case stepDictionary:
		m.input.Placeholder = "embedded"
	case stepDatabase:
		m.input.Placeholder = "sqlite://thaiconv.db"
	case stepConfirm:
		m.input.Placeholder = "Y"
	}
	return m
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		return m.next(stepDiscord), nil

	case stepDiscord:
		if value == "" {
			m.err = errors.New("Discord token is required")
			return m, nil
		}
		m.discordToken = value
		return m.next(stepGuild), nil

	case stepGuild:
		m.guildID = value
		return m.next(stepDictionary), nil

	case stepDictionary:
		if _, err := dictsource.Classify(value); err != nil {
			m.err = err
			return m, nil
		}
		m.dictionary = value
		return m.next(stepDatabase), nil

	case stepDatabase:
		if value != "" {
			kind, err := dictsource.Classify(value)
			if err == nil && kind != dictsource.KindSQLite && kind != dictsource.KindPostgres {
				err = fmt.Errorf("%q is not a database, use sqlite://path or postgres://...", value)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
		}
		m.databaseURL = value
		return m.next(stepConfirm), nil

	case stepConfirm:
		switch strings.ToLower(value) {
		case "", "y", "yes":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.step = stepSaved
			return m, tea.Quit
		case "n", "no":
			return New(m.path), nil
		default:
			m.err = errors.New("Please answer y or n")
		}
	}

	return m, nil
}

func (m model) envContent() string {
	var s strings.Builder
	fmt.Fprintf(&s, "DISCORD_TOKEN=%s\n", m.discordToken)
	if m.guildID != "" {
		fmt.Fprintf(&s, "GUILD_ID=%s\n", m.guildID)
	}
	if m.dictionary != "" {
		fmt.Fprintf(&s, "DICTIONARY=%s\n", m.dictionary)
	}
	if m.databaseURL != "" {
		fmt.Fprintf(&s, "DATABASE_URL=%s\n", m.databaseURL)
	}
	return s.String()
}

func (m model) writeEnvFile() error {
	return os.WriteFile(m.path, []byte(m.envContent()), 0600)
}

func orDefault(v, def string) string {
	if v == "" {
		return dimStyle.Render(def)
	}
	return successStyle.Render(v)
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("thaiconv - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard will help you configure the Discord bot.\n")
		s.WriteString("You'll need a Discord bot token. Everything else is optional.\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))
		s.WriteString("\n")
		return s.String()

	case stepDiscord:
		s.WriteString(titleStyle.Render("Step 1: Discord Bot Token"))
		s.WriteString("\n\n")
		s.WriteString("  1. Go to " + linkStyle.Render("https://discord.com/developers/applications") + "\n")
		s.WriteString("  2. Create a new application (or select existing)\n")
		s.WriteString("  3. Go to the Bot section and click 'Reset Token'\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your Discord token here:"))

	case stepGuild:
		s.WriteString(titleStyle.Render("Step 2: Guild ID (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Registering commands to one server makes them show up instantly.\n")
		s.WriteString("Leave empty to register them globally.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Guild ID:"))

	case stepDictionary:
		s.WriteString(titleStyle.Render("Step 3: Dictionary (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Leave empty for the built-in word list, or give a .tsv file,\n")
		s.WriteString("a SQLite database (sqlite://path) or a postgres:// URL.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Dictionary source:"))

	case stepDatabase:
		s.WriteString(titleStyle.Render("Step 4: Feedback Database (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Users can report wrong spellings when a database is configured.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Database URL:"))

	case stepConfirm, stepSaved:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("  Discord:    " + successStyle.Render(maskToken(m.discordToken)) + "\n")
		s.WriteString("  Guild:      " + orDefault(m.guildID, "global") + "\n")
		s.WriteString("  Dictionary: " + orDefault(m.dictionary, "embedded") + "\n")
		s.WriteString("  Database:   " + orDefault(m.databaseURL, "none") + "\n")
		s.WriteString("\n")
		if m.step == stepSaved {
			s.WriteString(successStyle.Render("Saved to " + m.path))
			s.WriteString("\n")
			return s.String()
		}
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
	}

	s.WriteString("\n")
	s.WriteString(m.input.View())
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	return s.String()
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and returns true if the file was written.
func Run(path string) (bool, error) {
	p := tea.NewProgram(New(path))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.step == stepSaved, nil
}

// NeedsSetup reports whether path does not exist yet.
func NeedsSetup(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
