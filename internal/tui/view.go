package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"

	"github.com/csheth/xtract/internal/route"
)

// services are the collaborators every view shares.
type services struct {
	source Source
	jobs   *jobBus
	log    logrus.FieldLogger
}

// frame carries what a view needs to render that it does not own.
type frame struct {
	width   int
	spinner string
}

// view is one mounted screen. A view is created when its location kind is
// entered and dropped when another kind replaces it, taking its request
// channels with it.
type view interface {
	Kind() route.Kind
	// Bind points the view at loc and returns the requests to issue, if any.
	Bind(loc route.Location) tea.Cmd
	// HandleResult applies a completed request and reports whether it was
	// accepted. Stale completions are rejected.
	HandleResult(msg tea.Msg) bool
	Update(msg tea.KeyMsg, keys keyMap) tea.Cmd
	Loading() bool
	Typing() bool
	Selectable() bool
	Retryable() bool
	Render(f frame) body
}

func (m *model) View() string {
	m.refreshBody()
	parts := []string{m.headerView(), m.viewport.View()}
	if m.addressOpen {
		parts = append(parts, m.addressView())
	}
	parts = append(parts, m.statusView(), m.helpView())
	return strings.Join(parts, "\n")
}

func (m *model) headerView() string {
	logo := logoStyle.Render("xtract")
	location := helperStyle.Render(m.location.Path())
	return lipgloss.JoinHorizontal(lipgloss.Top, logo, " ", taglineStyle.Render(heroTagline), "  ", location)
}

func (m *model) addressView() string {
	return sectionHeaderStyle.Render("Go to ") + m.address.View()
}

func (m *model) statusView() string {
	if m.errorMessage != "" {
		return errorStyle.Render(m.errorMessage)
	}
	stats := []string{fmt.Sprintf("API %s", m.config.APIBaseURL)}
	if badges := m.jobs.badges(); len(badges) > 0 {
		stats = append(stats, strings.Join(badges, " "))
	}
	if m.infoMessage != "" {
		stats = append(stats, m.infoMessage)
	}
	line := strings.Join(stats, "  •  ")
	if m.layout.windowWidth > 0 {
		line = truncate.StringWithTail(line, uint(m.layout.windowWidth), "…")
	}
	return statusBarStyle.Render(line)
}

func (m *model) helpView() string {
	return m.help.View(m.keys)
}

// refreshBody re-renders the mounted view into the viewport and, after a
// selection move, scrolls so the selected item is visible.
func (m *model) refreshBody() {
	extra := lipgloss.Height(m.helpView()) - 1
	if m.addressOpen {
		extra++
	}
	m.viewport.Width = m.layout.bodyWidth
	m.viewport.Height = m.layout.heightWith(extra)
	if m.view == nil {
		m.viewport.SetContent("")
		return
	}
	rendered := m.view.Render(frame{width: m.layout.bodyWidth, spinner: m.spinner.View()})
	m.viewport.SetContent(rendered.content)
	if m.followFocus {
		m.followFocus = false
		m.ensureVisible(rendered.focusStart, rendered.focusEnd)
	}
}

func (m *model) ensureVisible(start, end int) {
	if end < start {
		return
	}
	if start < m.viewport.YOffset {
		m.viewport.SetYOffset(start)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if end > lowerBound {
		target := end - m.viewport.Height + 1
		if target > start {
			target = start
		}
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

type cardField struct {
	text  string
	style lipgloss.Style
}

// renderCard draws one selectable paper entry. The link line shows the
// location Enter navigates to.
func renderCard(width int, selected bool, title string, fields []cardField, id string) string {
	inner := wrapWidth(width, 6)
	lines := []string{paperTitleStyle.Render(wordwrap.String(title, inner))}
	for _, field := range fields {
		if strings.TrimSpace(field.text) == "" {
			continue
		}
		lines = append(lines, field.style.Render(wordwrap.String(field.text, inner)))
	}
	lines = append(lines, linkStyle.Render("↳ "+route.PaperPath(id)))
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Copy().Width(wrapWidth(width, 2)).Render(strings.Join(lines, "\n"))
}

func relevanceLabel(similarity *float64) string {
	if similarity == nil {
		return ""
	}
	return fmt.Sprintf("Relevance %d%%", int(math.Round(*similarity*100)))
}

func moveSelection(selected, delta, count int) int {
	if count == 0 {
		return 0
	}
	target := selected + delta
	if target < 0 {
		target = 0
	}
	if target >= count {
		target = count - 1
	}
	return target
}

func errorPanel(width int, title string, lines ...string) string {
	inner := wrapWidth(width, 6)
	rows := []string{errorStyle.Render(title)}
	for _, line := range lines {
		rows = append(rows, wordwrap.String(line, inner))
	}
	return errorPanelStyle.Copy().Width(wrapWidth(width, 2)).Render(strings.Join(rows, "\n"))
}
