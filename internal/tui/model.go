package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/xtract/internal/route"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Source Source
	Logger logrus.FieldLogger
	// StartLocation is the first location shown, "/" when empty.
	StartLocation string
	// APIBaseURL is shown in the status bar.
	APIBaseURL string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	log := config.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	address := textinput.New()
	address.Placeholder = "/search?q=… or /paper/<id>"
	address.CharLimit = 400
	address.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.KeyMap = bodyScrollKeys()

	return &model{
		config:   config,
		svc:      services{source: config.Source, jobs: newJobBus(log), log: log},
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  spin,
		viewport: vp,
		layout:   newPageLayout(),
		address:  address,
		jobs:     jobTracker{},
	}
}

type model struct {
	config Config
	svc    services

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout
	address  textinput.Model

	location route.Location
	history  history
	view     view
	jobs     jobTracker

	addressOpen  bool
	spinning     bool
	followFocus  bool
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	start := m.config.StartLocation
	if strings.TrimSpace(start) == "" {
		start = route.HomePath
	}
	loc, err := route.Parse(start)
	if err != nil {
		m.svc.log.WithError(err).WithField("location", start).Warn("start location rejected")
		cmd := m.visit(route.Location{Kind: route.Home}, false)
		m.errorMessage = err.Error()
		return cmd
	}
	return m.visit(loc, false)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.view == nil || !m.view.Loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = m.layout.windowWidth
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case navigateMsg:
		return m, m.navigate(msg.path)
	case jobSignalMsg:
		m.jobs.observe(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.jobs.observe(msg.Snapshot)
		m.applyResult(msg)
		return m, nil
	}
	return m, m.forwardToInputs(msg)
}

// applyResult hands a finished job to the mounted view. Results for views
// that were replaced, or for parameters the view no longer shows, are
// dropped here.
func (m *model) applyResult(env jobResultEnvelope) {
	if env.Payload == nil {
		return
	}
	if m.view == nil || !m.view.HandleResult(env.Payload) {
		m.svc.log.WithFields(logrus.Fields{
			"job":   env.Snapshot.ID,
			"param": env.Snapshot.Param,
		}).Debug("discarded stale result")
		m.infoMessage = fmt.Sprintf("ignored late %s result for %q", env.Snapshot.Kind, env.Snapshot.Param)
		return
	}
	if !m.view.Loading() {
		m.infoMessage = ""
	}
	m.syncKeys()
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.addressOpen {
		return m.handleAddressKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Address):
		return m.openAddress()
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.QuitShort):
		return tea.Quit
	case key.Matches(msg, m.keys.Retry):
		m.infoMessage = "retrying " + m.location.Path()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Home), key.Matches(msg, m.keys.NewSearch):
		return m.visit(route.Location{Kind: route.Home}, true)
	case key.Matches(msg, m.viewport.KeyMap.PageDown, m.viewport.KeyMap.PageUp,
		m.viewport.KeyMap.HalfPageDown, m.viewport.KeyMap.HalfPageUp):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if m.view == nil {
		return nil
	}
	if key.Matches(msg, m.keys.Up, m.keys.Down) {
		m.followFocus = true
	}
	cmd := m.view.Update(msg, m.keys)
	m.syncKeys()
	return tea.Batch(cmd, m.startSpinner())
}

func (m *model) openAddress() tea.Cmd {
	m.addressOpen = true
	m.address.SetValue(m.location.Path())
	m.address.CursorEnd()
	m.syncKeys()
	return m.address.Focus()
}

func (m *model) closeAddress() {
	m.addressOpen = false
	m.address.Blur()
	m.address.SetValue("")
	m.syncKeys()
}

func (m *model) handleAddressKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeAddress()
		return nil
	case tea.KeyEnter:
		path := m.address.Value()
		m.closeAddress()
		return m.navigate(path)
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return cmd
}

// forwardToInputs passes cursor blinks and similar messages to whichever
// text input currently has focus.
func (m *model) forwardToInputs(msg tea.Msg) tea.Cmd {
	if m.addressOpen {
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return cmd
	}
	if home, ok := m.view.(*homeView); ok {
		return home.updateInput(msg)
	}
	return nil
}

func (m *model) startSpinner() tea.Cmd {
	if m.spinning || m.view == nil || !m.view.Loading() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *model) syncKeys() {
	typing := m.addressOpen
	selectable, retryable, topics := false, false, false
	canGoBack := m.history.len() > 0
	if m.view != nil {
		typing = typing || m.view.Typing()
		selectable = !m.addressOpen && m.view.Selectable()
		retryable = m.view.Retryable()
		topics = !m.addressOpen && m.view.Kind() == route.Home
	}
	m.keys.sync(typing, selectable, retryable, topics, canGoBack)
}
