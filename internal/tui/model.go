// Package tui provides the live Bubble Tea view of the day's events.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/adhan/internal/hijri"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/qibla"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	nextStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FC1E9"))
	pastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	countdownBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Clock    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Today    key.Binding
	AllShown key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today},
		{k.Clock, k.AllShown},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Clock:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "12/24h")),
	Next:     key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→", "next day")),
	Prev:     key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←", "prev day")),
	Today:    key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "today")),
	AllShown: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all events")),
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Options configure the model.
type Options struct {
	Engine prayer.Engine
	// Events limits the rows shown; empty shows all nine.
	Events      []prayer.EventName
	TwelveHour  bool
	HijriOffset int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the watch screen.
type Model struct {
	engine      prayer.Engine
	events      []prayer.EventName
	twelveHour  bool
	showAll     bool
	hijriOffset int
	now         func() time.Time

	current time.Time
	offset  int // days from today
	day     prayer.Schedule
	dayKey  string
	next    prayer.Event
	hasNext bool

	help  help.Model
	width int
}

// New returns a model positioned at the current time.
func New(opts Options) *Model {
	m := &Model{
		engine:      opts.Engine,
		events:      opts.Events,
		twelveHour:  opts.TwelveHour,
		hijriOffset: opts.HijriOffset,
		now:         opts.Now,
		help:        help.New(),
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.refresh(m.now())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh(time.Time(msg))
		return m, tick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Clock):
			m.twelveHour = !m.twelveHour
		case key.Matches(msg, keys.AllShown):
			m.showAll = !m.showAll
		case key.Matches(msg, keys.Next):
			m.offset++
			m.refresh(m.current)
		case key.Matches(msg, keys.Prev):
			m.offset--
			m.refresh(m.current)
		case key.Matches(msg, keys.Today):
			m.offset = 0
			m.refresh(m.current)
		}
		return m, nil
	}
	return m, nil
}

// refresh recomputes the shown day only when the date changes; the next
// event is recomputed every tick.
func (m *Model) refresh(now time.Time) {
	m.current = now
	loc := m.engine.Location
	if loc == nil {
		loc = time.Local
	}
	shown := now.In(loc).AddDate(0, 0, m.offset)
	if k := shown.Format("2006-01-02"); k != m.dayKey {
		m.day = m.engine.Day(shown)
		m.dayKey = k
	}
	m.next, m.hasNext = m.engine.Next(now)
}

func (m *Model) clock(t time.Time) string {
	if m.twelveHour {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}

func (m *Model) rows() []prayer.EventName {
	if m.showAll || len(m.events) == 0 {
		return prayer.CanonicalOrder
	}
	return m.events
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	h := hijri.FromTime(m.day.Date, m.hijriOffset)
	b.WriteString(titleStyle.Render(m.day.Date.Format("Monday, 02 January 2006")))
	b.WriteString("  " + subtleStyle.Render(h.String()) + "\n\n")

	for _, name := range m.rows() {
		t, _ := m.day.Get(name)
		label := fmt.Sprintf("%-9s", name.Title())

		var line string
		switch {
		case !t.Valid():
			line = warnStyle.Render(label + " --:--  " + t.Status.String())
		case m.hasNext && m.next.Name == name && m.next.FireAt.Equal(t.Instant):
			line = nextStyle.Render("▸ " + label + m.clock(t.Instant))
		case t.Instant.Before(m.current):
			line = pastStyle.Render("  " + label + m.clock(t.Instant))
		default:
			line = "  " + label + m.clock(t.Instant)
		}
		if t.Valid() && t.Status != prayer.Computed {
			line += " " + warnStyle.Render("~"+t.Status.String())
		}
		b.WriteString(line + "\n")
	}

	if m.hasNext {
		remaining := prayer.FormatRemaining(prayer.TimeRemaining(m.next, m.current))
		box := fmt.Sprintf("%s in %s", m.next.Name.Title(), remaining)
		if m.next.Wrapped {
			box += " (estimated)"
		}
		b.WriteString("\n" + countdownBox.Render(box) + "\n")
	}

	dir := qibla.From(m.engine.Coordinates.Latitude, m.engine.Coordinates.Longitude)
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Qibla %.1f° %s · %s", dir.Bearing, dir.Compass, hijri.Phase(m.current))) + "\n\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}
