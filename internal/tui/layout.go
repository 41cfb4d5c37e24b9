package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

type pageLayout struct {
	windowWidth int
	bodyWidth   int
	bodyHeight  int
}

func newPageLayout() pageLayout {
	return pageLayout{
		bodyWidth:  80,
		bodyHeight: 20,
	}
}

// Update sizes the scrollable body for a window. The header, the status line
// and one line of help stay outside the body.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	innerWidth := width - bodyHorizontalPadding
	if innerWidth < minBodyWidth {
		innerWidth = minBodyWidth
	}
	l.bodyWidth = innerWidth
	const chrome = 5
	bodyHeight := height - chrome
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}
	l.bodyHeight = bodyHeight
}

// heightWith returns the body height left once extra footer lines are shown.
func (l pageLayout) heightWith(extra int) int {
	h := l.bodyHeight - extra
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// body is a rendered view plus the lines occupied by its selected item.
type body struct {
	content    string
	focusStart int
	focusEnd   int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

// WriteLine writes s followed by a newline.
func (cb *contentBuilder) WriteLine(s string) {
	cb.WriteString(s)
	cb.WriteRune('\n')
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// previewText cuts value to limit cells and marks the cut with "...".
func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	return truncate.String(value, uint(limit)) + "..."
}

func wrapWidth(width, padding int) int {
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
