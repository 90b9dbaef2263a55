// envsetup provides a lightweight .env configuration wizard for the Discord
// bot, collecting the bot token, an optional test guild and the speech
// engine path.
package envsetup

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type step int

const (
	stepWelcome step = iota
	stepDiscord
	stepGuild
	stepESpeak
	stepConfirm
)

const defaultESpeakPath = "espeak-ng"

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

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	step         step
	discordToken string
	guildID      string
	espeakPath   string
	espeakFound  bool
	input        string
	path         string
	lookPath     func(string) (string, error)
	saved        bool
	err          error
}

func New(path string) model {
	return model{
		step:     stepWelcome,
		path:     path,
		lookPath: exec.LookPath,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEnter:
			return m.handleEnter()

		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
			return m, nil

		case tea.KeyRunes:
			m.input += string(msg.Runes)
			return m, nil

		case tea.KeySpace:
			m.input += " "
			return m, nil
		}
	}

	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input)

	switch m.step {
	case stepWelcome:
		m.step = stepDiscord

	case stepDiscord:
		if value == "" {
			m.err = errors.New("Discord token is required")
			return m, nil
		}
		m.discordToken = value
		m.step = stepGuild

	case stepGuild:
		if strings.Trim(value, "0123456789") != "" {
			m.err = errors.New("Guild IDs are numeric; leave empty to register globally")
			return m, nil
		}
		m.guildID = value
		m.step = stepESpeak

	case stepESpeak:
		if value == "" {
			value = defaultESpeakPath
		}
		m.espeakPath = value
		_, err := m.lookPath(value)
		m.espeakFound = err == nil
		m.step = stepConfirm

	case stepConfirm:
		choice := strings.ToLower(value)
		switch choice {
		case "y", "yes", "":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			m = New(m.path)
			return m, nil
		}
	}

	m.input = ""
	return m, nil
}

func (m model) envContent() string {
	var s strings.Builder
	fmt.Fprintf(&s, "DISCORD_TOKEN=%s\n", m.discordToken)
	if m.guildID != "" {
		fmt.Fprintf(&s, "DISCORD_GUILD_ID=%s\n", m.guildID)
	}
	fmt.Fprintf(&s, "ESPEAK_PATH=%s\n", m.espeakPath)
	return s.String()
}

func (m model) writeEnvFile() error {
	if err := os.WriteFile(m.path, []byte(m.envContent()), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", m.path, err)
	}
	return nil
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("Coptic Name Bot - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard will help you configure the bot.\n")
		s.WriteString("You'll need:\n\n")
		s.WriteString("  - A Discord bot token\n")
		s.WriteString("  - Optionally, espeak-ng installed for /coptic speak:true\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepDiscord:
		s.WriteString(titleStyle.Render("Step 1: Discord Bot Token"))
		s.WriteString("\n\n")
		s.WriteString("To get your Discord bot token:\n\n")
		s.WriteString("  1. Go to " + linkStyle.Render("https://discord.com/developers/applications") + "\n")
		s.WriteString("  2. Create a new application (or select existing)\n")
		s.WriteString("  3. Go to the Bot section\n")
		s.WriteString("  4. Click 'Reset Token' to get your bot token\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your Discord token here:"))
		s.WriteString("\n")
		s.WriteString("> " + inputStyle.Render(maskToken(m.input)))

	case stepGuild:
		s.WriteString(titleStyle.Render("Step 2: Test Guild (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Commands registered to one guild update instantly.\n")
		s.WriteString("Global commands can take up to an hour to appear.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Guild ID, or Enter to register globally:"))
		s.WriteString("\n")
		s.WriteString("> " + inputStyle.Render(m.input))

	case stepESpeak:
		s.WriteString(titleStyle.Render("Step 3: Speech Engine"))
		s.WriteString("\n\n")
		s.WriteString("Recordings are made with espeak-ng. Install it from\n")
		s.WriteString("  " + linkStyle.Render("https://github.com/espeak-ng/espeak-ng") + "\n")
		s.WriteString("or your package manager.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Path to espeak-ng [" + defaultESpeakPath + "]:"))
		s.WriteString("\n")
		s.WriteString("> " + inputStyle.Render(m.input))

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("Your configuration:\n\n")
		s.WriteString("  Discord:  " + successStyle.Render(maskToken(m.discordToken)) + "\n")
		guild := "global"
		if m.guildID != "" {
			guild = m.guildID
		}
		s.WriteString("  Guild:    " + successStyle.Render(guild) + "\n")
		if m.espeakFound {
			s.WriteString("  espeak:   " + successStyle.Render(m.espeakPath) + "\n")
		} else {
			s.WriteString("  espeak:   " + errorStyle.Render(m.espeakPath+" (not found, speech disabled)") + "\n")
		}
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration to " + m.path + "? [Y/n]:"))
		s.WriteString("\n")
		s.WriteString("> " + inputStyle.Render(m.input))
	}

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

// Run starts the setup wizard writing to path and returns true if the
// configuration was saved.
func Run(path string) (bool, error) {
	p := tea.NewProgram(New(path))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.saved, nil
}

// NeedsSetup reports whether path does not exist yet.
func NeedsSetup(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
