// Package tui provides a BubbleTea terminal rendition of the popup for
// sessions without a Wayland compositor.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/backlight-popup/internal/backlight"
	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/mailbox"
	"github.com/jmylchreest/backlight-popup/internal/popup"
)

const readTimeout = time.Second

// tickMsg drives the state machine.
type tickMsg time.Time

// ConfigMsg delivers a reloaded configuration to a running program.
type ConfigMsg struct {
	Config *config.Config
}

// screen is the popup.View for the terminal. It only records state; the
// model renders it.
type screen struct {
	reader  backlight.Reader
	visible bool
	percent int
	drawn   bool
}

func (s *screen) Redraw() error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	pct, err := s.reader.Percentage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read brightness from %s: %w", s.reader.Name(), err)
	}
	s.percent = pct
	s.drawn = true
	return nil
}

func (s *screen) Show() { s.visible = true }
func (s *screen) Hide() { s.visible = false }

// Model is the terminal popup model.
type Model struct {
	cfg        *config.Config
	screen     *screen
	controller *popup.Controller
	progress   progress.Model
	help       help.Model
	keys       KeyMap
	width      int
	err        error
}

// New creates a terminal popup reading mb on every tick.
func New(cfg *config.Config, mb *mailbox.Mailbox, reader backlight.Reader, logger *slog.Logger) Model {
	s := &screen{
		reader:  reader,
		visible: cfg.Popup.InitialVisible,
	}

	return Model{
		cfg:        cfg,
		screen:     s,
		controller: popup.NewController(mb, s, logger),
		progress:   newProgress(cfg),
		help:       help.New(),
		keys:       DefaultKeyMap(),
	}
}

func newProgress(cfg *config.Config) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(cfg.Popup.AccentColor)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Visible reports whether the popup is currently shown.
func (m Model) Visible() bool {
	return m.screen.visible
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.cfg.Popup.RefreshInterval.Duration(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if err := m.tick(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.scheduleTick()

	case ConfigMsg:
		m.cfg = msg.Config
		m.progress = newProgress(msg.Config)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			// Redraw only; pending hide/show messages stay for the next tick
			if !m.screen.visible {
				return m, nil
			}
			if err := m.screen.Redraw(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) tick() error {
	_, err := m.controller.Tick()
	return err
}

// View renders the popup.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n"
	}

	var body string
	if !m.screen.visible {
		body = hiddenStyle.Render(fmt.Sprintf("hidden (send %s to show)", m.cfg.Signals.Show))
	} else {
		content := popup.Content{
			Percent:  m.screen.percent,
			Color:    string(m.cfg.Popup.AccentColor),
			FontSize: m.cfg.Popup.FontSize,
		}
		text := "…"
		if m.screen.drawn {
			text = content.Plain()
		}
		percent := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(content.Color)).
			Render(text)
		bar := m.progress.ViewAs(content.Fraction())
		body = boxStyle.
			BorderForeground(lipgloss.Color(content.Color)).
			Render(lipgloss.JoinVertical(lipgloss.Center, percent, "", bar))
	}

	if m.width > 0 {
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}

	return body + "\n" + m.help.View(m.keys) + "\n"
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 4)

	hiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
