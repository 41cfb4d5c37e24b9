package tui

import (
	"strings"
	"testing"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name       string
		width      int
		height     int
		bodyWidth  int
		bodyHeight int
	}{
		{name: "narrow", width: 80, height: 24, bodyWidth: 76, bodyHeight: 19},
		{name: "wide", width: 200, height: 40, bodyWidth: 196, bodyHeight: 35},
		{name: "tiny", width: 20, height: 6, bodyWidth: minBodyWidth, bodyHeight: minBodyHeight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.bodyWidth != tc.bodyWidth {
				t.Fatalf("body width mismatch: got %d want %d", layout.bodyWidth, tc.bodyWidth)
			}
			if layout.bodyHeight != tc.bodyHeight {
				t.Fatalf("body height mismatch: got %d want %d", layout.bodyHeight, tc.bodyHeight)
			}
		})
	}
}

func TestPageLayoutHeightWith(t *testing.T) {
	layout := newPageLayout()
	layout.Update(80, 24)
	if got := layout.heightWith(3); got != 16 {
		t.Fatalf("got %d want 16", got)
	}
	if got := layout.heightWith(100); got != minBodyHeight {
		t.Fatalf("height should not drop below the minimum, got %d", got)
	}
}

func TestContentBuilderCountsLines(t *testing.T) {
	cb := &contentBuilder{}
	cb.WriteLine("one")
	cb.WriteString("two\nthree")
	cb.WriteRune('\n')
	if cb.Line() != 3 {
		t.Fatalf("got %d lines want 3", cb.Line())
	}
}

func TestPreviewText(t *testing.T) {
	short := "A short abstract."
	if got := previewText(short, abstractPreviewLimit); got != short {
		t.Fatalf("short text should be unchanged, got %q", got)
	}
	long := strings.Repeat("x", 151)
	got := previewText(long, abstractPreviewLimit)
	if got != strings.Repeat("x", 150)+"..." {
		t.Fatalf("unexpected preview %q", got)
	}
	exact := strings.Repeat("y", 150)
	if got := previewText(exact, abstractPreviewLimit); got != exact {
		t.Fatal("text at the limit should not be cut")
	}
}
