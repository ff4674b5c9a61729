package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/render"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Plain output so assertions can match text
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestView_WaitingForFirstPoll(t *testing.T) {
	m := sizedModel(t)

	out := m.View()
	assert.Contains(t, out, "nextracker")
	assert.Contains(t, out, "cloud.example.com")
	assert.Contains(t, out, "Waiting for the first poll")
	assert.Contains(t, out, "quit")
}

func TestView_Result(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, succeeded(1, okResult, time.Now()))

	out := m.View()
	assert.Contains(t, out, "status")
	assert.Contains(t, out, "status_code: 200")
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "type: n/a")
	assert.Contains(t, out, "1 polls")
	assert.NotContains(t, out, "(stale)")

	assert.Less(t, strings.Index(out, "status"), strings.Index(out, "database"),
		"sections follow the table order")
}

func TestView_FailureKeepsStaleCards(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, succeeded(1, okResult, time.Now()))
	m, _ = update(t, m, failed(2, errors.WrapWithCode(
		errors.New(errors.ErrTransport, "context deadline exceeded", ""),
		errors.ErrTransport, "Request to https://cloud.example.com/info failed", "Check the server")))

	out := m.View()
	assert.Contains(t, out, "status_code: 200")
	assert.Contains(t, out, "(stale)")
	assert.Contains(t, out, "✗ Request to https://cloud.example.com/info failed: context deadline exceeded")
	assert.Contains(t, out, "showing data from")
	assert.Contains(t, out, "(1 failed)")
}

func TestView_FailureWithoutData(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, failed(1, errors.New(errors.ErrDecode, "Neither the instance nor the root URL answered with JSON", "")))

	out := m.View()
	assert.Contains(t, out, "No data yet")
	assert.Contains(t, out, "answered with JSON")
	assert.NotContains(t, out, "showing data from")
}

func TestView_BusyShowsSpinner(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, started(1))

	assert.True(t, m.Busy())
	header := m.renderHeader()
	assert.Contains(t, header, m.spinner.View()+" nextracker")
}

func TestView_HelpOverlay(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, keyRunes("?"))

	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "refresh now")
	assert.Contains(t, out, "go to bottom")
}

func TestStyleLine(t *testing.T) {
	assert.Equal(t, "  version: 28.0.1", styleLine(render.Line{Depth: 1, Text: "version: 28.0.1"}))
	assert.Equal(t, "cpu_load:", styleLine(render.Line{Text: "cpu_load:"}))
}

func TestCalculateCardWidth(t *testing.T) {
	m := Model{}
	assert.Equal(t, cardWidthDefault, m.calculateCardWidth())

	m.width = 200
	assert.Equal(t, cardWidthDefault, m.calculateCardWidth())

	m.width = 50
	assert.Equal(t, 46, m.calculateCardWidth())

	m.width = 10
	assert.Equal(t, cardWidthMin, m.calculateCardWidth())
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "just now", formatAge(0))
	assert.Equal(t, "1s ago", formatAge(1))
	assert.Equal(t, "90s ago", formatAge(90))
}
