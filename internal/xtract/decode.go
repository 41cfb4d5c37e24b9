package xtract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrInvalidPaper is returned when a paper payload lacks an identifier.
	ErrInvalidPaper = errors.New("invalid paper data")
	// ErrInvalidSearchResults is returned when a search payload is not a list
	// of records carrying an id and a title.
	ErrInvalidSearchResults = errors.New("invalid search result data")
)

// DecodePaper parses a paper object. The object must carry a non-empty id.
func DecodePaper(raw []byte) (Paper, error) {
	if !isObject(raw) {
		return Paper{}, ErrInvalidPaper
	}
	var rec wireRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Paper{}, fmt.Errorf("%w: %v", ErrInvalidPaper, err)
	}
	if rec.ID == "" {
		return Paper{}, ErrInvalidPaper
	}
	return rec.paper(), nil
}

// DecodeSearchResults parses the search response. An empty list is valid.
func DecodeSearchResults(raw []byte) ([]SearchResult, error) {
	var items []json.RawMessage
	if !isArray(raw) {
		return nil, ErrInvalidSearchResults
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSearchResults, err)
	}
	results := make([]SearchResult, 0, len(items))
	for idx, item := range items {
		rec, ok := decodeRecord(item)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no id or title", ErrInvalidSearchResults, idx)
		}
		results = append(results, rec.searchResult())
	}
	return results, nil
}

// DecodeRecommendations parses the recommendation response, preserving the
// service's order. Entries that are not paper records are skipped. ok is
// false when the payload is not a list at all; the returned slice is still
// empty and non-nil in that case.
func DecodeRecommendations(raw []byte) (recs []Paper, ok bool) {
	recs = []Paper{}
	if !isArray(raw) {
		return recs, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return recs, false
	}
	for _, item := range items {
		rec, valid := decodeRecord(item)
		if !valid {
			continue
		}
		recs = append(recs, rec.paper())
	}
	return recs, true
}

func decodeRecord(raw []byte) (wireRecord, bool) {
	if !isObject(raw) {
		return wireRecord{}, false
	}
	var rec wireRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return wireRecord{}, false
	}
	if rec.ID == "" || rec.Title == "" {
		return wireRecord{}, false
	}
	return rec, true
}

func isObject(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

func isArray(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}
