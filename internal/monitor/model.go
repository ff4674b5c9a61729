package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/poller"
	"github.com/nextracker/nextracker/internal/render"
	"github.com/nextracker/nextracker/internal/ui"
)

// Refresher asks the poller for an immediate poll. It must not block.
type Refresher interface {
	Refresh()
}

// Layout heights reserved around the scrollable body.
const (
	headerHeight = 2
	footerHeight = 2
)

// Model is the Bubble Tea model for the status dashboard.
type Model struct {
	host      string
	layout    render.Layout
	refresher Refresher
	events    <-chan poller.Event
	interval  time.Duration

	spinner       spinner.Model
	viewport      viewport.Model
	viewportReady bool
	help          help.Model
	keys          keyMap

	result      fields.Result
	lastSuccess time.Time
	lastErr     error
	busy        bool
	polls       int
	failures    int

	width    int
	height   int
	showHelp bool
	quitting bool
	now      func() time.Time
}

// eventMsg carries one poller event into the update loop.
type eventMsg poller.Event

// eventsClosedMsg signals that the poller will send nothing more.
type eventsClosedMsg struct{}

// clockMsg re-renders the "last update" age once a second.
type clockMsg time.Time

// NewModel creates a dashboard fed by events. refresher is called when the
// user presses the refresh key.
func NewModel(host string, layout render.Layout, interval time.Duration, refresher Refresher, events <-chan poller.Event) Model {
	sp := spinner.New()
	sp.Spinner = ui.SpinnerFrames
	sp.Style = SpinnerStyle

	return Model{
		host:      host,
		layout:    layout,
		refresher: refresher,
		events:    events,
		interval:  interval,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		now:       time.Now,
	}
}

// Init starts listening for poller events and the spinner and clock ticks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.spinner.Tick,
		clockCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		bodyHeight := m.height - headerHeight - footerHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, bodyHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = bodyHeight
		}
		m.syncViewport()

	case eventMsg:
		m.applyEvent(poller.Event(msg))
		m.syncViewport()
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.busy = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clockMsg:
		return m, clockCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// applyEvent folds one poller event into the model. A failed poll keeps the
// previous result on screen; it is marked stale until the next success.
func (m *Model) applyEvent(ev poller.Event) {
	switch ev.Type {
	case poller.EventStarted:
		m.busy = true
	case poller.EventOutcome:
		m.busy = false
		m.polls++
		out := ev.Outcome
		if out.OK() {
			m.result = out.Result
			m.lastSuccess = out.Finished
			m.lastErr = nil
			return
		}
		m.failures++
		m.lastErr = out.Err
	}
}

// syncViewport re-renders the section cards into the scrollable body.
func (m *Model) syncViewport() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

// waitForEvent blocks on the next poller event.
func waitForEvent(events <-chan poller.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Busy reports whether a poll is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// Stale reports whether the shown data predates a failed poll.
func (m Model) Stale() bool {
	return m.lastErr != nil && m.result != nil
}

// Result returns the most recent successful result, nil before the first.
func (m Model) Result() fields.Result {
	return m.result
}

// LastError returns the failure of the most recent poll, nil after a success.
func (m Model) LastError() error {
	return m.lastErr
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// successful poll.
func (m Model) SecondsSinceUpdate() int {
	if m.lastSuccess.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.lastSuccess).Seconds())
}
