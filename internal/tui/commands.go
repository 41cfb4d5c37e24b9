package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/xtract/internal/viewstate"
	"github.com/csheth/xtract/internal/xtract"
)

// Source is the remote paper service as seen by the views.
type Source interface {
	Search(ctx context.Context, query string) ([]xtract.SearchResult, error)
	Paper(ctx context.Context, id string) (xtract.Paper, error)
	Recommendations(ctx context.Context, id string) ([]xtract.Paper, error)
}

type navigateMsg struct {
	path string
}

type searchResultMsg struct {
	ticket  viewstate.Ticket
	results []xtract.SearchResult
	err     error
}

type paperResultMsg struct {
	ticket viewstate.Ticket
	paper  xtract.Paper
	err    error
}

type recommendationsMsg struct {
	ticket viewstate.Ticket
	recs   []xtract.Paper
	err    error
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: path}
	}
}

func searchJob(source Source, ticket viewstate.Ticket) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		results, err := source.Search(ctx, ticket.Param)
		return searchResultMsg{ticket: ticket, results: results, err: err}, err
	}
}

func paperJob(source Source, ticket viewstate.Ticket) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		paper, err := source.Paper(ctx, ticket.Param)
		return paperResultMsg{ticket: ticket, paper: paper, err: err}, err
	}
}

func recommendationsJob(source Source, ticket viewstate.Ticket) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		recs, err := source.Recommendations(ctx, ticket.Param)
		return recommendationsMsg{ticket: ticket, recs: recs, err: err}, err
	}
}
