package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/xtract/internal/route"
	"github.com/csheth/xtract/internal/viewstate"
	"github.com/csheth/xtract/internal/xtract"
)

var testFrame = frame{width: 100, spinner: "*"}

// loadSearch binds the view to query and applies every result the issued
// requests produce.
func loadSearch(t *testing.T, v *searchView, query string) tea.Cmd {
	t.Helper()
	cmd := v.Bind(route.Location{Kind: route.Search, Query: query})
	for _, payload := range resultsOf(collectMsgs(t, cmd)) {
		v.HandleResult(payload)
	}
	return cmd
}

func TestSearchViewEmptyQueryIssuesNoRequest(t *testing.T) {
	for _, query := range []string{"", "   "} {
		source := &fakeSource{}
		v := newSearchView(testServices(source))
		if cmd := v.Bind(route.Location{Kind: route.Search, Query: query}); cmd != nil {
			t.Fatalf("blank query %q should not issue a request", query)
		}
		if v.results.State() != viewstate.Idle {
			t.Fatalf("blank query should leave the view idle, got %s", v.results.State())
		}
		out := v.Render(testFrame).content
		if !strings.Contains(out, "Enter a search term to find research papers") {
			t.Fatalf("missing idle prompt:\n%s", out)
		}
		if len(source.Calls()) != 0 {
			t.Fatalf("service contacted: %v", source.Calls())
		}
	}
}

func TestSearchViewEmptyResultsEchoQuery(t *testing.T) {
	source := &fakeSource{results: map[string][]xtract.SearchResult{"zzqx": {}}}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "zzqx")

	if v.results.State() != viewstate.Success {
		t.Fatalf("expected success, got %s", v.results.State())
	}
	out := v.Render(testFrame).content
	if !strings.Contains(out, `No research papers found for "zzqx"`) {
		t.Fatalf("empty state should echo the literal query:\n%s", out)
	}
	if !strings.Contains(out, "Try different keywords or check your spelling.") {
		t.Fatalf("missing hint:\n%s", out)
	}
}

func TestSearchViewRendersResultCards(t *testing.T) {
	citations := 12
	abstract := strings.Repeat("alpha ", 30) + "OMEGA"
	source := &fakeSource{results: map[string][]xtract.SearchResult{
		"machine learning": {
			{ID: "2101.00001", Title: "Learning Things", Authors: "A. Author", UpdateDate: "2021-01-01", Abstract: abstract, Citations: &citations},
			{ID: "hep-th/9901001", Title: "Strings", Authors: "B. Author"},
		},
	}}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "machine learning")

	out := v.Render(testFrame).content
	for _, want := range []string{
		"2 papers found",
		"Learning Things",
		"By A. Author",
		"Published: 2021-01-01",
		"Citations: 12",
		"alpha alpha",
		"...",
		"/paper/hep-th%2F9901001",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "OMEGA") {
		t.Fatal("abstract preview should be truncated")
	}
}

func TestSearchViewErrorRendersMessageAndStops(t *testing.T) {
	source := &fakeSource{err: &xtract.FetchError{Kind: xtract.KindTransport, Err: errors.New("connection refused")}}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "graphs")

	if v.results.State() != viewstate.Error {
		t.Fatalf("expected error state, got %s", v.results.State())
	}
	out := v.Render(testFrame).content
	if !strings.Contains(out, "Error loading results: network error: connection refused") {
		t.Fatalf("missing error message:\n%s", out)
	}
	if !strings.Contains(out, "Please try again later.") {
		t.Fatalf("missing retry hint:\n%s", out)
	}
	if v.Loading() {
		t.Fatal("error state must not keep loading")
	}
	if cmd := v.Update(tea.KeyMsg{Type: tea.KeyDown}, newKeyMap()); cmd != nil {
		t.Fatal("no further request should follow an error without user action")
	}
	if got := len(source.Calls()); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}

func TestSearchViewRetryRestartsRequest(t *testing.T) {
	source := &fakeSource{err: errors.New("boom")}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "graphs")

	source.err = nil
	source.results = map[string][]xtract.SearchResult{"graphs": {{ID: "1", Title: "Graphs"}}}
	keys := newKeyMap()
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, keys)
	if cmd == nil {
		t.Fatal("retry should issue a request")
	}
	if v.results.State() != viewstate.Loading {
		t.Fatalf("retry should move to loading, got %s", v.results.State())
	}
	for _, payload := range resultsOf(collectMsgs(t, cmd)) {
		v.HandleResult(payload)
	}
	if v.results.State() != viewstate.Success || len(v.results.Value()) != 1 {
		t.Fatalf("retry should succeed, got %s", v.results.State())
	}
}

func TestSearchViewSameQueryDoesNotRestart(t *testing.T) {
	source := &fakeSource{results: map[string][]xtract.SearchResult{"q": {}}}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "q")
	if cmd := v.Bind(route.Location{Kind: route.Search, Query: "q"}); cmd != nil {
		t.Fatal("unchanged query should not restart")
	}
	if got := len(source.Calls()); got != 1 {
		t.Fatalf("expected one request, got %d", got)
	}
}

func TestSearchViewDropsResultsForOldQuery(t *testing.T) {
	source := &fakeSource{results: map[string][]xtract.SearchResult{
		"old": {{ID: "1", Title: "Old"}},
		"new": {{ID: "2", Title: "New"}},
	}}
	v := newSearchView(testServices(source))
	v.Bind(route.Location{Kind: route.Search, Query: "old"})
	oldTicket := v.results.Ticket()
	v.Bind(route.Location{Kind: route.Search, Query: "new"})

	late := runJob(t, searchJob(source, oldTicket))
	if v.HandleResult(late) {
		t.Fatal("result for the previous query must be discarded")
	}
	if v.results.State() != viewstate.Loading || v.results.Param() != "new" {
		t.Fatalf("view should still wait for the new query: %s %q", v.results.State(), v.results.Param())
	}
}

func TestSearchViewEnterOpensSelectedPaper(t *testing.T) {
	source := &fakeSource{results: map[string][]xtract.SearchResult{
		"q": {{ID: "1", Title: "First"}, {ID: "what?is#this", Title: "Second"}},
	}}
	v := newSearchView(testServices(source))
	loadSearch(t, v, "q")
	keys := newKeyMap()

	v.Update(tea.KeyMsg{Type: tea.KeyDown}, keys)
	v.Update(tea.KeyMsg{Type: tea.KeyDown}, keys)
	if v.selected != 1 {
		t.Fatalf("selection should clamp at the last card, got %d", v.selected)
	}
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
	if cmd == nil {
		t.Fatal("enter should navigate")
	}
	nav := cmd().(navigateMsg)
	if nav.path != route.PaperPath("what?is#this") {
		t.Fatalf("unexpected path %q", nav.path)
	}
	loc, err := route.Parse(nav.path)
	if err != nil || loc.PaperID != "what?is#this" {
		t.Fatalf("path should round-trip the id: %+v %v", loc, err)
	}
}
