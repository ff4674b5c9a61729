package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/render"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with poll stats.
func (m Model) renderHeader() string {
	var indicator string
	switch {
	case m.busy:
		indicator = m.spinner.View()
	case m.polls == 0:
		indicator = StatusStyle(false, true).Render(StatusWaiting)
	case m.lastErr != nil:
		indicator = StatusStyle(false, m.Stale()).Render(StatusFailed)
	default:
		indicator = StatusStyle(true, false).Render(StatusOK)
	}

	stats := fmt.Sprintf(" | %s | %d polls", m.host, m.polls)
	if m.failures > 0 {
		stats += fmt.Sprintf(" (%d failed)", m.failures)
	}
	if !m.lastSuccess.IsZero() {
		stats += " | last update " + formatAge(m.SecondsSinceUpdate())
	}
	if m.interval > 0 {
		stats += " | every " + m.interval.String()
	}

	return HeaderStyle.Render(indicator + " " + TitleStyle.Render("nextracker") + StatsStyle.Render(stats))
}

// renderBody renders the section cards, or a placeholder before any data.
func (m Model) renderBody() string {
	if m.result == nil {
		if m.lastErr != nil {
			return LabelStyle.Render("No data yet. Press r to retry.")
		}
		return LabelStyle.Render("Waiting for the first poll...")
	}

	cardWidth := m.calculateCardWidth()
	stale := m.Stale()

	var cards []string
	for _, section := range m.layout.Sections {
		values, ok := m.result[section]
		if !ok {
			continue
		}
		cards = append(cards, m.renderCard(section, values, cardWidth, stale))
	}
	if len(cards) == 0 {
		return LabelStyle.Render("No fields selected. Run 'nextracker init' to pick some.")
	}

	return m.layoutCards(cards, cardWidth)
}

// renderCard renders one section as a bordered card.
func (m Model) renderCard(section string, values map[string]any, width int, stale bool) string {
	title := SectionTitleStyle.Render(section)
	if stale {
		title += " " + StaleTagStyle.Render("(stale)")
	}

	lines := []string{title}
	for _, line := range render.Section(values, section, m.layout) {
		lines = append(lines, styleLine(line))
	}

	style := CardStyle
	if stale {
		style = CardStaleStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// styleLine colours the label and value halves of a rendered line.
func styleLine(line render.Line) string {
	indent := strings.Repeat(render.Indent, line.Depth)
	label, value, found := strings.Cut(line.Text, ": ")
	if !found {
		return indent + LabelStyle.Render(line.Text)
	}

	valueStyle := ValueStyle
	if value == render.Missing {
		valueStyle = MissingStyle
	}
	return indent + LabelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// calculateCardWidth determines the card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return cardWidthDefault
	}
	if m.width >= 2*(cardWidthDefault+cardChrome) {
		return cardWidthDefault
	}
	w := m.width - cardChrome - 1
	if w < cardWidthMin {
		w = cardWidthMin
	}
	return w
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	cardsPerRow := 1
	if m.width > 0 {
		cardsPerRow = m.width / (cardWidth + cardChrome)
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter shows the last failure, or the key hints.
func (m Model) renderFooter() string {
	if m.lastErr != nil {
		msg := "✗ " + errors.SummaryOf(m.lastErr)
		if m.Stale() {
			msg += fmt.Sprintf(" (showing data from %s)", formatAge(m.SecondsSinceUpdate()))
		}
		return ErrorStyle.Render(msg)
	}
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func formatAge(seconds int) string {
	switch seconds {
	case 0:
		return "just now"
	case 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", seconds)
	}
}
