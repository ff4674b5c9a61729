package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/poller"
	"github.com/nextracker/nextracker/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) Refresh() {
	f.calls++
}

var testSelection = fields.Selection{
	"status":   {"status", "status_code"},
	"database": {"type"},
}

func newTestModel(t *testing.T) (Model, *fakeRefresher, chan poller.Event) {
	t.Helper()
	layout := render.NewLayout(fields.NewMapper(fields.DefaultTable()), testSelection)
	refresher := &fakeRefresher{}
	events := make(chan poller.Event, 4)
	return NewModel("cloud.example.com", layout, 30*time.Second, refresher, events), refresher, events
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func started(seq uint64) eventMsg {
	return eventMsg(poller.Event{Type: poller.EventStarted, Seq: seq})
}

func succeeded(seq uint64, result fields.Result, at time.Time) eventMsg {
	return eventMsg(poller.Event{Type: poller.EventOutcome, Seq: seq, Outcome: poller.Outcome{
		Seq: seq, Result: result, Started: at, Finished: at,
	}})
}

func failed(seq uint64, err error) eventMsg {
	return eventMsg(poller.Event{Type: poller.EventOutcome, Seq: seq, Outcome: poller.Outcome{
		Seq: seq, Err: err,
	}})
}

var okResult = fields.Result{
	"status":   {"status": "ok", "status_code": int64(200)},
	"database": {"type": nil},
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, "cloud.example.com", m.host)
	assert.Equal(t, 30*time.Second, m.interval)
	assert.False(t, m.Busy())
	assert.False(t, m.Stale())
	assert.Nil(t, m.Result())
	assert.Nil(t, m.LastError())
	assert.Equal(t, 0, m.SecondsSinceUpdate())
	assert.NotNil(t, m.Init())
}

func TestModel_PollLifecycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	now := time.Now()

	m, _ = update(t, m, started(1))
	assert.True(t, m.Busy())

	m, _ = update(t, m, succeeded(1, okResult, now))
	assert.False(t, m.Busy())
	assert.Equal(t, okResult, m.Result())
	assert.Equal(t, 1, m.polls)

	transportErr := errors.New(errors.ErrTransport, "cloud.example.com answered 502 Bad Gateway", "")
	m, _ = update(t, m, started(2))
	m, _ = update(t, m, failed(2, transportErr))

	assert.False(t, m.Busy())
	assert.Equal(t, okResult, m.Result(), "a failed poll keeps the previous data")
	assert.True(t, m.Stale())
	assert.Equal(t, transportErr, m.LastError())
	assert.Equal(t, 1, m.failures)

	fresh := fields.Result{"status": {"status": "ok", "status_code": int64(100)}}
	m, _ = update(t, m, succeeded(3, fresh, now.Add(time.Minute)))
	assert.False(t, m.Stale())
	assert.Nil(t, m.LastError())
	assert.Equal(t, fresh, m.Result())
	assert.Equal(t, 3, m.polls)
}

func TestModel_FailureBeforeAnyData(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, failed(1, errors.New(errors.ErrDecode, "not JSON", "")))

	assert.Nil(t, m.Result())
	assert.False(t, m.Stale(), "nothing to mark stale yet")
	assert.Equal(t, errors.ErrDecode, errors.CodeOf(m.LastError()))
}

func TestModel_EventCmdWaitsForNext(t *testing.T) {
	m, _, events := newTestModel(t)

	_, cmd := update(t, m, started(1))
	require.NotNil(t, cmd)

	events <- poller.Event{Type: poller.EventOutcome, Seq: 1}
	msg := cmd()
	ev, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(1), ev.Seq)

	close(events)
	assert.Equal(t, eventsClosedMsg{}, cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.True(t, m.viewportReady)
	assert.Equal(t, 100, m.viewport.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, m.viewport.Height)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 3})
	assert.Equal(t, 60, m.viewport.Width)
	assert.Equal(t, 1, m.viewport.Height, "body keeps at least one line")
}

func TestModel_SecondsSinceUpdate(t *testing.T) {
	m, _, _ := newTestModel(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base.Add(42 * time.Second) }

	m, _ = update(t, m, succeeded(1, okResult, base))
	assert.Equal(t, 42, m.SecondsSinceUpdate())
}

func TestModel_QuittingRendersNothing(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, keyRunes("q"))
	assert.Empty(t, m.View())
}
