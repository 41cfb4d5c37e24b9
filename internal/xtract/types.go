// Package xtract talks to the paper search and recommendation service.
package xtract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Paper is a single research paper record. Similarity is only populated when
// the paper was returned as a recommendation.
type Paper struct {
	ID         string
	Title      string
	Authors    string
	UpdateDate string
	Abstract   string
	Similarity *float64
}

// SearchResult mirrors Paper but comes from the search endpoint, which may
// additionally report a citation count.
type SearchResult struct {
	ID         string
	Title      string
	Authors    string
	UpdateDate string
	Abstract   string
	Similarity *float64
	Citations  *int
}

// wireRecord is the JSON shape shared by every endpoint.
type wireRecord struct {
	ID         flexString `json:"id"`
	Title      flexString `json:"title"`
	Authors    flexString `json:"authors"`
	UpdateDate flexString `json:"update_date"`
	Abstract   flexString `json:"abstract"`
	Similarity *float64   `json:"similarity"`
	Citations  *float64   `json:"citations"`
}

func (w wireRecord) paper() Paper {
	return Paper{
		ID:         string(w.ID),
		Title:      strings.TrimSpace(string(w.Title)),
		Authors:    strings.TrimSpace(string(w.Authors)),
		UpdateDate: strings.TrimSpace(string(w.UpdateDate)),
		Abstract:   strings.TrimSpace(string(w.Abstract)),
		Similarity: w.Similarity,
	}
}

func (w wireRecord) searchResult() SearchResult {
	p := w.paper()
	result := SearchResult{
		ID:         p.ID,
		Title:      p.Title,
		Authors:    p.Authors,
		UpdateDate: p.UpdateDate,
		Abstract:   p.Abstract,
		Similarity: p.Similarity,
	}
	if w.Citations != nil {
		n := citationCount(*w.Citations)
		result.Citations = &n
	}
	return result
}

// citationCount rounds a reported count and clamps it to [0, MaxInt32].
func citationCount(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(math.Round(f))
}

// flexString accepts JSON strings, numbers and null. The upstream dataset is
// loaded through a dataframe that sometimes types identifiers as numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null" || raw == "":
		*f = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("expected string or number, got %s", raw)
		}
		*f = flexString(raw)
		return nil
	}
}
