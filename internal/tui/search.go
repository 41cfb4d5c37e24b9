package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/xtract/internal/route"
	"github.com/csheth/xtract/internal/viewstate"
	"github.com/csheth/xtract/internal/xtract"
)

// searchView lists the results for the query bound from the location.
type searchView struct {
	svc      services
	binding  route.Binding
	query    string
	results  viewstate.Channel[[]xtract.SearchResult]
	selected int
}

func newSearchView(svc services) *searchView {
	return &searchView{svc: svc}
}

func (v *searchView) Kind() route.Kind { return route.Search }

func (v *searchView) Bind(loc route.Location) tea.Cmd {
	if !v.binding.Bind(loc.Query) {
		return nil
	}
	v.query = loc.Query
	v.selected = 0
	return v.load()
}

// load starts a request cycle for the bound query. A blank query leaves the
// view idle without contacting the service.
func (v *searchView) load() tea.Cmd {
	if strings.TrimSpace(v.query) == "" {
		v.results.Reset()
		return nil
	}
	ticket := v.results.Start(v.query)
	return v.svc.jobs.Start(jobKindSearch, v.query, searchJob(v.svc.source, ticket))
}

func (v *searchView) HandleResult(msg tea.Msg) bool {
	res, ok := msg.(searchResultMsg)
	if !ok {
		return false
	}
	if res.err != nil {
		if !v.results.Fail(res.ticket, res.err) {
			return false
		}
		v.svc.log.WithFields(logrus.Fields{"query": res.ticket.Param}).WithError(res.err).Warn("search failed")
		return true
	}
	results := res.results
	if results == nil {
		results = []xtract.SearchResult{}
	}
	return v.results.Resolve(res.ticket, results)
}

func (v *searchView) Update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Retry):
		if v.results.State() == viewstate.Error {
			return v.load()
		}
	case key.Matches(msg, keys.Up):
		v.selected = moveSelection(v.selected, -1, len(v.results.Value()))
	case key.Matches(msg, keys.Down):
		v.selected = moveSelection(v.selected, 1, len(v.results.Value()))
	case key.Matches(msg, keys.Open):
		results := v.results.Value()
		if v.results.State() == viewstate.Success && v.selected < len(results) {
			return navigateTo(route.PaperPath(results[v.selected].ID))
		}
	}
	return nil
}

func (v *searchView) Loading() bool { return v.results.State() == viewstate.Loading }
func (v *searchView) Typing() bool  { return false }

func (v *searchView) Selectable() bool {
	return v.results.State() == viewstate.Success && len(v.results.Value()) > 0
}

func (v *searchView) Retryable() bool { return v.results.State() == viewstate.Error }

func (v *searchView) Render(f frame) body {
	cb := &contentBuilder{}
	out := body{focusEnd: -1}
	if strings.TrimSpace(v.query) != "" {
		cb.WriteLine(titleStyle.Render(fmt.Sprintf("Search results for %q", v.query)))
		cb.WriteRune('\n')
	}

	switch v.results.State() {
	case viewstate.Idle:
		cb.WriteLine(helperStyle.Render("Enter a search term to find research papers"))
		cb.WriteString(helperStyle.Render("Press / to start a new search."))
	case viewstate.Loading:
		cb.WriteString(helperStyle.Render(f.spinner + " Searching research papers..."))
	case viewstate.Error:
		cb.WriteString(errorPanel(f.width,
			"Error loading results: "+v.results.Message(),
			"Please try again later.",
			"Press r to retry or / to start a new search.",
		))
	case viewstate.Success:
		results := v.results.Value()
		if len(results) == 0 {
			cb.WriteLine(fmt.Sprintf("No research papers found for \"%s\"", v.query))
			cb.WriteString(helperStyle.Render("Try different keywords or check your spelling."))
			break
		}
		cb.WriteLine(helperStyle.Render(fmt.Sprintf("%d papers found", len(results))))
		for idx, result := range results {
			if idx == v.selected {
				out.focusStart = cb.Line()
			}
			cb.WriteLine(renderCard(f.width, idx == v.selected, result.Title, searchCardFields(result), result.ID))
			if idx == v.selected {
				out.focusEnd = cb.Line() - 1
			}
		}
	}
	out.content = cb.String()
	return out
}

func searchCardFields(result xtract.SearchResult) []cardField {
	fields := []cardField{}
	if result.Authors != "" {
		fields = append(fields, cardField{text: "By " + result.Authors, style: helperStyle})
	}
	if result.UpdateDate != "" {
		fields = append(fields, cardField{text: "Published: " + result.UpdateDate, style: helperStyle})
	}
	if result.Citations != nil {
		fields = append(fields, cardField{text: fmt.Sprintf("Citations: %d", *result.Citations), style: helperStyle})
	}
	if label := relevanceLabel(result.Similarity); label != "" {
		fields = append(fields, cardField{text: label, style: relevanceStyle})
	}
	if result.Abstract != "" {
		fields = append(fields, cardField{text: previewText(result.Abstract, abstractPreviewLimit), style: plainStyle})
	}
	return fields
}
