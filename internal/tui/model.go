// Package tui provides the BubbleTea-based terminal mixer.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/voidaudio/internal/audio"
)

// refreshInterval matches the fade step so ramps are visible.
const refreshInterval = 100 * time.Millisecond

// volumeStep is the increment for the volume keys.
const volumeStep = 0.05

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the mixer TUI model.
type Model struct {
	manager *audio.Manager

	tracks []audio.TrackInfo
	cursor int

	master float64
	muted  bool

	keys     KeyMap
	help     help.Model
	showHelp bool

	width int
}

type tickMsg time.Time

// New creates a mixer model over manager.
func New(manager *audio.Manager) Model {
	m := Model{
		manager: manager,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh reloads the snapshot from the manager.
func (m *Model) refresh() {
	m.tracks = m.manager.Tracks()
	m.master = m.manager.MasterVolume()
	m.muted = m.manager.Muted()
	if m.cursor >= len(m.tracks) {
		m.cursor = max(0, len(m.tracks)-1)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()
	}

	return m, nil
}

// selected returns the track under the cursor.
func (m Model) selected() (audio.TrackInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tracks) {
		return audio.TrackInfo{}, false
	}
	return m.tracks[m.cursor], true
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Mute):
		m.manager.ToggleMute()
	case key.Matches(msg, m.keys.MasterUp):
		m.manager.SetMasterVolume(m.master + volumeStep)
	case key.Matches(msg, m.keys.MasterDown):
		m.manager.SetMasterVolume(m.master - volumeStep)
	default:
		m.handleTrackKey(msg)
	}

	m.refresh()
	return m, nil
}

// handleTrackKey applies keys that act on the selected track.
func (m Model) handleTrackKey(msg tea.KeyMsg) {
	t, ok := m.selected()
	if !ok {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		switch {
		case t.Playing && t.Kind == audio.KindMusic:
			m.manager.StopMusic(t.ID)
		case t.Playing:
			m.manager.StopSound(t.ID)
		case t.Kind == audio.KindMusic:
			m.manager.PlayMusic(t.ID)
		default:
			m.manager.PlaySound(t.ID)
		}
	case key.Matches(msg, m.keys.Pause):
		if t.Playing {
			m.manager.Pause(t.ID)
		} else {
			m.manager.Resume(t.ID)
		}
	case key.Matches(msg, m.keys.Restart):
		m.manager.Play(t.ID, audio.PlayOptions{Restart: true})
	case key.Matches(msg, m.keys.TrackUp):
		m.manager.SetTrackVolume(t.ID, t.Volume+volumeStep)
	case key.Matches(msg, m.keys.TrackDown):
		m.manager.SetTrackVolume(t.ID, t.Volume-volumeStep)
	}
}

// View renders the mixer.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("voidaudio mixer"))
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("master %s", volumeBar(m.master)))
	if m.muted {
		b.WriteString("  " + mutedStyle.Render("MUTED"))
	}
	b.WriteString("\n\n")

	if len(m.tracks) == 0 {
		b.WriteString(dimStyle.Render("No tracks loaded."))
		b.WriteString("\n")
	}

	for i, t := range m.tracks {
		line := fmt.Sprintf("%-16s %-5s %-8s %s  out %3.0f%%  %s%s",
			truncate(t.ID, 16), t.Kind, trackState(t), volumeBar(t.Volume),
			t.DeviceVolume*100, progress(t), loopMarker(t.Loop))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func trackState(t audio.TrackInfo) string {
	switch {
	case t.Fading && t.Playing:
		return "fade-in"
	case t.Fading:
		return "fade-out"
	case t.Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// progress renders position/length as m:ss/m:ss.
func progress(t audio.TrackInfo) string {
	if t.Length <= 0 {
		return "-:--/-:--"
	}
	return clock(t.Position) + "/" + clock(t.Length)
}

func clock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func loopMarker(loop bool) string {
	if loop {
		return "  ↻"
	}
	return ""
}

// volumeBar renders a 10-cell gauge with a percentage.
func volumeBar(v float64) string {
	filled := int(v*10 + 0.5)
	return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("█", filled), strings.Repeat("·", 10-filled), v*100)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

// Run starts the mixer and blocks until the user quits.
func Run(manager *audio.Manager) error {
	p := tea.NewProgram(New(manager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
