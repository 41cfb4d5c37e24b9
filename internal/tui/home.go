package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/xtract/internal/route"
)

// homeView is the entry point: a search box and the quick-search topics.
type homeView struct {
	input textinput.Model
	topic int
}

func newHomeView() *homeView {
	input := textinput.New()
	input.Placeholder = "Search for research papers…"
	input.CharLimit = 200
	input.Width = 60
	input.Focus()
	return &homeView{input: input, topic: -1}
}

func (v *homeView) Kind() route.Kind { return route.Home }

func (v *homeView) Bind(route.Location) tea.Cmd {
	return textinput.Blink
}

func (v *homeView) HandleResult(tea.Msg) bool { return false }

func (v *homeView) Update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextTopic):
		v.topic = (v.topic + 1) % len(quickSearches)
		return nil
	case key.Matches(msg, keys.PrevTopic):
		if v.topic <= 0 {
			v.topic = len(quickSearches) - 1
		} else {
			v.topic--
		}
		return nil
	case key.Matches(msg, keys.Open):
		return v.submit()
	}
	v.topic = -1
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// submit navigates to the search location of the highlighted topic or of
// the typed query. The query is passed on untrimmed.
func (v *homeView) submit() tea.Cmd {
	if v.topic >= 0 {
		v.input.SetValue(quickSearches[v.topic])
		v.topic = -1
	}
	query := v.input.Value()
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return navigateTo(route.SearchPath(query))
}

// updateInput forwards non-key messages such as cursor blinks.
func (v *homeView) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *homeView) Loading() bool    { return false }
func (v *homeView) Typing() bool     { return true }
func (v *homeView) Selectable() bool { return false }
func (v *homeView) Retryable() bool  { return false }

func (v *homeView) Render(f frame) body {
	cb := &contentBuilder{}
	cb.WriteLine(titleStyle.Render("Discover research papers"))
	cb.WriteLine(helperStyle.Render("Search the corpus, open a paper, and follow its recommendations."))
	cb.WriteRune('\n')
	cb.WriteLine(panelStyle.Copy().Width(wrapWidth(f.width, 2)).Render(v.input.View()))
	cb.WriteRune('\n')
	cb.WriteLine(sectionHeaderStyle.Render("Popular topics"))

	var rows []string
	var row []string
	rowWidth := 0
	for idx, topic := range quickSearches {
		style := topicStyle
		if idx == v.topic {
			style = activeTopicStyle
		}
		chip := style.Render(topic)
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+w > f.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	cb.WriteLine(strings.Join(rows, "\n"))
	cb.WriteRune('\n')
	cb.WriteString(helperStyle.Render("Enter searches • tab cycles topics • ctrl+l opens a location"))
	return body{content: cb.String(), focusStart: 0, focusEnd: -1}
}
