package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/xtract/internal/route"
)

// history is the stack of locations esc walks back through.
type history struct {
	entries []route.Location
}

func (h *history) push(loc route.Location) {
	h.entries = append(h.entries, loc)
}

func (h *history) pop() (route.Location, bool) {
	if len(h.entries) == 0 {
		return route.Location{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *history) len() int { return len(h.entries) }

// mount creates a fresh view for kind.
func (m *model) mount(kind route.Kind) view {
	switch kind {
	case route.Search:
		return newSearchView(m.svc)
	case route.Paper:
		return newPaperView(m.svc)
	default:
		return newHomeView()
	}
}

// visit shows loc. A different kind replaces the mounted view; the same kind
// re-binds it, which restarts requests only when the parameter changed.
func (m *model) visit(loc route.Location, record bool) tea.Cmd {
	if record && m.view != nil && loc.Path() != m.location.Path() {
		m.history.push(m.location)
	}
	if m.view == nil || m.view.Kind() != loc.Kind {
		if m.view != nil {
			m.svc.log.WithFields(logrus.Fields{"from": m.view.Kind(), "to": loc.Kind}).Debug("view replaced")
		}
		m.view = m.mount(loc.Kind)
		m.viewport.GotoTop()
	}
	m.location = loc
	m.errorMessage = ""
	m.infoMessage = ""
	cmd := m.view.Bind(loc)
	m.syncKeys()
	return tea.Batch(cmd, m.startSpinner())
}

// navigate parses a location string and visits it.
func (m *model) navigate(path string) tea.Cmd {
	loc, err := route.Parse(path)
	if err != nil {
		m.svc.log.WithError(err).WithField("location", path).Warn("navigation rejected")
		m.errorMessage = err.Error()
		return nil
	}
	return m.visit(loc, true)
}

func (m *model) back() tea.Cmd {
	prev, ok := m.history.pop()
	if !ok {
		return nil
	}
	return m.visit(prev, false)
}
