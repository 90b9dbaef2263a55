// Package tui is the interactive terminal form: a name field, the Coptic
// result below it, and a key to hear the result spoken.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/transliteration"
)

// Converter is the part of converter.Converter the form drives.
type Converter interface {
	Convert(ctx context.Context, raw string) converter.Result
	ConvertAndSpeak(ctx context.Context, raw string) (converter.Result, error)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	copticStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

type convertedMsg struct {
	result converter.Result
	err    error
}

type model struct {
	ctx      context.Context
	conv     Converter
	input    textinput.Model
	result   converter.Result
	done     bool
	speaking bool
	err      error
	width    int
}

func New(ctx context.Context, conv Converter) model {
	ti := textinput.New()
	ti.Placeholder = "Mina, Karas, مينا..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	return model{
		ctx:   ctx,
		conv:  conv,
		input: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.convert(false)
		case tea.KeyCtrlS:
			m.speaking = true
			return m, m.convert(true)
		}

	case convertedMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		m.speaking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) convert(speak bool) tea.Cmd {
	ctx, conv, value := m.ctx, m.conv, m.input.Value()
	return func() tea.Msg {
		if !speak {
			return convertedMsg{result: conv.Convert(ctx, value)}
		}
		res, err := conv.ConvertAndSpeak(ctx, value)
		return convertedMsg{result: res, err: err}
	}
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Coptic Name"))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Name in Latin or Arabic letters:"))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	if m.done {
		s.WriteString(m.renderResult())
		s.WriteString("\n\n")
	}
	if m.speaking {
		s.WriteString(dimStyle.Render("speaking..."))
		s.WriteString("\n\n")
	}

	s.WriteString(dimStyle.Render("enter convert • ctrl+s convert and speak • esc quit"))
	s.WriteString("\n")
	return s.String()
}

func (m model) renderResult() string {
	res := m.result
	if res.Empty {
		return errorStyle.Render(res.Notice)
	}

	var s strings.Builder
	s.WriteString(copticStyle.Render(res.Coptic))
	if res.Script == transliteration.ScriptLatin {
		s.WriteString("\n" + dimStyle.Render("Arabic: "+res.Arabic))
	}
	if res.Notice != "" {
		s.WriteString("\n" + errorStyle.Render(res.Notice))
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	return boxStyle.Render(s.String())
}

// Run shows the form until the user quits or ctx is cancelled.
func Run(ctx context.Context, conv Converter) error {
	p := tea.NewProgram(New(ctx, conv), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
