package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"

	"github.com/csheth/xtract/internal/route"
	"github.com/csheth/xtract/internal/viewstate"
	"github.com/csheth/xtract/internal/xtract"
)

// paperView shows one paper and the papers recommended for it. The paper
// and its recommendations load on independent channels.
type paperView struct {
	svc      services
	binding  route.Binding
	id       string
	paper    viewstate.Channel[xtract.Paper]
	recs     viewstate.Channel[[]xtract.Paper]
	selected int
}

func newPaperView(svc services) *paperView {
	return &paperView{svc: svc}
}

func (v *paperView) Kind() route.Kind { return route.Paper }

func (v *paperView) Bind(loc route.Location) tea.Cmd {
	if !v.binding.Bind(loc.PaperID) {
		return nil
	}
	v.id = loc.PaperID
	v.selected = 0
	return v.load()
}

// load issues the paper and recommendation requests together.
func (v *paperView) load() tea.Cmd {
	paperTicket := v.paper.Start(v.id)
	recsTicket := v.recs.Start(v.id)
	return tea.Batch(
		v.svc.jobs.Start(jobKindPaper, v.id, paperJob(v.svc.source, paperTicket)),
		v.svc.jobs.Start(jobKindRecommend, v.id, recommendationsJob(v.svc.source, recsTicket)),
	)
}

func (v *paperView) HandleResult(msg tea.Msg) bool {
	switch res := msg.(type) {
	case paperResultMsg:
		if res.err != nil {
			return v.paper.Fail(res.ticket, res.err)
		}
		if res.paper.ID == "" {
			return v.paper.Fail(res.ticket, xtract.ErrInvalidPaper)
		}
		return v.paper.Resolve(res.ticket, res.paper)
	case recommendationsMsg:
		recs := res.recs
		if res.err != nil {
			if !v.recs.Current(res.ticket) {
				return false
			}
			v.svc.log.WithFields(logrus.Fields{"paper": res.ticket.Param}).WithError(res.err).Warn("recommendations unavailable")
			recs = nil
		}
		if recs == nil {
			recs = []xtract.Paper{}
		}
		return v.recs.Resolve(res.ticket, recs)
	}
	return false
}

func (v *paperView) Update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Retry):
		if v.Retryable() {
			return v.load()
		}
	case key.Matches(msg, keys.Up):
		v.selected = moveSelection(v.selected, -1, len(v.recs.Value()))
	case key.Matches(msg, keys.Down):
		v.selected = moveSelection(v.selected, 1, len(v.recs.Value()))
	case key.Matches(msg, keys.Open):
		if v.Selectable() && v.selected < len(v.recs.Value()) {
			return navigateTo(route.PaperPath(v.recs.Value()[v.selected].ID))
		}
	}
	return nil
}

func (v *paperView) Loading() bool {
	return v.paper.State() == viewstate.Loading || v.recs.State() == viewstate.Loading
}

func (v *paperView) Typing() bool { return false }

func (v *paperView) Selectable() bool {
	return v.paper.State() == viewstate.Success &&
		v.recs.State() == viewstate.Success &&
		len(v.recs.Value()) > 0
}

func (v *paperView) Retryable() bool {
	return v.paper.State() == viewstate.Error && !errors.Is(v.paper.Err(), xtract.ErrNotFound)
}

func (v *paperView) Render(f frame) body {
	cb := &contentBuilder{}
	out := body{focusEnd: -1}
	switch v.paper.State() {
	case viewstate.Idle, viewstate.Loading:
		cb.WriteString(helperStyle.Render(f.spinner + " Loading research paper..."))
	case viewstate.Error:
		if errors.Is(v.paper.Err(), xtract.ErrNotFound) {
			cb.WriteString(errorPanel(f.width,
				"Paper not found",
				fmt.Sprintf("The paper with ID %q could not be found.", v.id),
				"Press h to return home.",
			))
			break
		}
		cb.WriteString(errorPanel(f.width,
			"Error loading paper",
			v.paper.Message(),
			"Paper ID: "+v.id,
			"Press r to retry or h to return home.",
		))
	case viewstate.Success:
		v.writePaper(cb, f)
		cb.WriteRune('\n')
		v.writeRecommendations(cb, f, &out)
	}
	out.content = cb.String()
	return out
}

func (v *paperView) writePaper(cb *contentBuilder, f frame) {
	p := v.paper.Value()
	wrap := wrapWidth(f.width, 2)
	title := p.Title
	if title == "" {
		title = "Untitled paper"
	}
	cb.WriteLine(paperTitleStyle.Render(wordwrap.String(title, wrap)))
	if p.Authors != "" {
		cb.WriteLine(wordwrap.String(p.Authors, wrap))
	}
	meta := []string{}
	if p.UpdateDate != "" {
		meta = append(meta, "Updated: "+p.UpdateDate)
	}
	meta = append(meta, "Paper ID: "+p.ID)
	for _, line := range meta {
		cb.WriteLine(badgeStyle.Render(line))
	}
	if p.Abstract != "" {
		cb.WriteRune('\n')
		cb.WriteLine(sectionHeaderStyle.Render("Abstract"))
		cb.WriteLine(wordwrap.String(p.Abstract, wrap))
	}
}

func (v *paperView) writeRecommendations(cb *contentBuilder, f frame, out *body) {
	cb.WriteLine(sectionHeaderStyle.Render("Related Research"))
	switch v.recs.State() {
	case viewstate.Idle, viewstate.Loading:
		cb.WriteString(helperStyle.Render(f.spinner + " Loading recommendations..."))
	case viewstate.Success:
		recs := v.recs.Value()
		if len(recs) == 0 {
			cb.WriteString(helperStyle.Render("No related papers found"))
			return
		}
		for idx, rec := range recs {
			fields := []cardField{
				{text: rec.Authors, style: helperStyle},
				{text: relevanceLabel(rec.Similarity), style: relevanceStyle},
			}
			if idx == v.selected {
				out.focusStart = cb.Line()
			}
			cb.WriteLine(renderCard(f.width, idx == v.selected, rec.Title, fields, rec.ID))
			if idx == v.selected {
				out.focusEnd = cb.Line() - 1
			}
		}
	}
}
