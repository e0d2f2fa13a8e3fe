// Package tui holds the interactive reminder countdown.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/scheduler"
	"github.com/julianstephens/tracklit/internal/tracker"
)

// GlassML is the amount logged by the log key.
const GlassML = 250

type tickMsg time.Time

// ReminderOptions configure a ReminderModel.
type ReminderOptions struct {
	Repo     *tracker.Repository
	Interval time.Duration
	Message  string
	// Notify delivers the reminder text; errors are logged.
	Notify func(text string) error
	Now    func() time.Time
}

type ReminderModel struct {
	opts  ReminderOptions
	sched *scheduler.Scheduler
	id    string

	keys     KeyMap
	help     help.Model
	countBar progress.Model
	waterBar progress.Model

	now       time.Time
	paused    bool
	remaining time.Duration
	fired     *int // shared with the scheduled callback
	water     int
	goal      int
	status    string
	quitting  bool
}

func NewReminderModel(opts ReminderOptions) (ReminderModel, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Message == "" {
		opts.Message = constants.DefaultReminderMessage
	}
	m := ReminderModel{
		opts:     opts,
		sched:    scheduler.New(scheduler.WithClock(opts.Now)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		countBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		waterBar: progress.New(progress.WithSolidFill(models.ColorHex("blue"))),
		now:      opts.Now(),
		fired:    new(int),
	}
	m.remaining = opts.Interval
	if err := m.schedule(); err != nil {
		return m, err
	}
	m.refresh()
	return m, nil
}

func (m *ReminderModel) schedule() error {
	if m.id != "" {
		m.sched.Cancel(m.id)
	}
	fired, notify, message := m.fired, m.opts.Notify, m.opts.Message
	h, err := m.sched.Schedule("reminder", m.opts.Interval, func(time.Time) {
		*fired++
		if notify == nil {
			return
		}
		if err := notify(message); err != nil {
			logger.Warn("Reminder delivery failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	m.id = h.ID
	return nil
}

// refresh reloads today's water total.
func (m *ReminderModel) refresh() {
	if m.opts.Repo == nil {
		return
	}
	snap, err := m.opts.Repo.Snapshot()
	if err != nil {
		m.status = "failed to read store: " + err.Error()
		return
	}
	m.water = snap.Water.TotalOn(models.DateKey(m.now))
	m.goal = snap.Water.Goal.Or(0)
}

func tick() tea.Cmd {
	return tea.Tick(constants.SchedulerResolution, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ReminderModel) Init() tea.Cmd {
	return tick()
}

func (m ReminderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.onTick()

	case tea.WindowSizeMsg:
		width := min(msg.Width-8, 60)
		m.countBar.Width = width
		m.waterBar.Width = width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m ReminderModel) onTick() (tea.Model, tea.Cmd) {
	m.now = m.opts.Now()
	if m.paused {
		return m, tick()
	}
	if m.sched.Tick(m.now) > 0 {
		m.refresh()
	}
	if next, ok := m.sched.Next(m.id); ok {
		m.remaining = next.Sub(m.now)
	}
	return m, tick()
}

func (m ReminderModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.sched.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Log):
		if m.opts.Repo == nil {
			break
		}
		if err := m.opts.Repo.AddIntake(constants.TrackerWater, GlassML, m.opts.Now()); err != nil {
			m.status = err.Error()
			break
		}
		m.status = fmt.Sprintf("logged %d ml", GlassML)
		m.refresh()

	case key.Matches(msg, m.keys.Snooze):
		if err := m.schedule(); err != nil {
			m.status = err.Error()
			break
		}
		m.remaining = m.opts.Interval
		m.status = "countdown restarted"

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused {
			// Resuming restarts the countdown.
			if err := m.schedule(); err != nil {
				m.status = err.Error()
			}
			m.remaining = m.opts.Interval
		}
	}
	return m, nil
}

func (m ReminderModel) View() string {
	if m.quitting {
		return ""
	}

	elapsed := 1 - float64(m.remaining)/float64(m.opts.Interval)
	countdown := countdownStyle.Render(formatRemaining(m.remaining))
	if m.paused {
		countdown = warningStyle.Render("paused")
	}

	lines := []string{
		titleStyle.Render(m.opts.Message),
		"",
		"Next reminder in " + countdown,
		m.countBar.ViewAs(clamp(elapsed)),
		"",
	}
	if m.opts.Repo != nil {
		water := fmt.Sprintf("Water today: %d ml", m.water)
		ratio := 0.0
		if m.goal > 0 {
			water += fmt.Sprintf(" of %d ml", m.goal)
			ratio = float64(m.water) / float64(m.goal)
		}
		lines = append(lines, water, m.waterBar.ViewAs(clamp(ratio)), "")
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("Reminders sent: %d", *m.fired)))
	if m.status != "" {
		lines = append(lines, mutedStyle.Render(m.status))
	}
	lines = append(lines, "", m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func clamp(f float64) float64 {
	return max(0, min(1, f))
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mm := int(d%time.Hour) / int(time.Minute)
	ss := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, ss)
	}
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
