// Package route maps navigable locations to the parameter each view binds to.
//
// Locations use the same shapes as the web client: "/", "/search?q=<query>"
// and "/paper/<id>". Identifiers and queries are percent-encoded when a
// location is built and decoded when it is parsed, so building and parsing
// round-trips any string.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind names the view a location renders.
type Kind int

const (
	Home Kind = iota
	Search
	Paper
)

func (k Kind) String() string {
	switch k {
	case Home:
		return "home"
	case Search:
		return "search"
	case Paper:
		return "paper"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	// HomePath is the entry point.
	HomePath = "/"

	searchPrefix = "/search"
	paperPrefix  = "/paper/"
	queryKey     = "q"
)

var (
	// ErrUnknownRoute is returned for paths no view handles.
	ErrUnknownRoute = errors.New("unknown location")
	// ErrMissingPaperID is returned for "/paper/" without an identifier.
	ErrMissingPaperID = errors.New("missing paper id")
)

// Location is a parsed navigable location.
type Location struct {
	Kind    Kind
	Query   string
	PaperID string
}

// SearchPath builds the location of the search view for query.
func SearchPath(query string) string {
	return searchPrefix + "?" + queryKey + "=" + url.QueryEscape(query)
}

// PaperPath builds the location of the detail view for id.
func PaperPath(id string) string {
	return paperPrefix + url.PathEscape(id)
}

// Path renders l back into its canonical location string.
func (l Location) Path() string {
	switch l.Kind {
	case Search:
		return SearchPath(l.Query)
	case Paper:
		return PaperPath(l.PaperID)
	default:
		return HomePath
	}
}

// Param is the bound parameter of the location: the query for search, the
// decoded identifier for a paper, and "" for home.
func (l Location) Param() string {
	switch l.Kind {
	case Search:
		return l.Query
	case Paper:
		return l.PaperID
	default:
		return ""
	}
}

// Parse decodes a location string. A missing leading slash is tolerated and
// a trailing slash is ignored. Paper identifiers may arrive either escaped as
// a single segment or spread over several raw segments.
func Parse(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{Kind: Home}, nil
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}

	path := u.EscapedPath()
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case path == "" || path == HomePath:
		return Location{Kind: Home}, nil
	case path == searchPrefix:
		values, err := url.ParseQuery(u.RawQuery)
		if err != nil {
			return Location{}, fmt.Errorf("parse search query: %w", err)
		}
		return Location{Kind: Search, Query: values.Get(queryKey)}, nil
	case path == strings.TrimSuffix(paperPrefix, "/"):
		return Location{}, ErrMissingPaperID
	case strings.HasPrefix(path, paperPrefix):
		id, err := url.PathUnescape(path[len(paperPrefix):])
		if err != nil {
			return Location{}, fmt.Errorf("decode paper id: %w", err)
		}
		if id == "" {
			return Location{}, ErrMissingPaperID
		}
		return Location{Kind: Paper, PaperID: id}, nil
	default:
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
}

// Binding remembers the parameter a view is bound to so that re-extracting
// an unchanged parameter does not restart its requests.
type Binding struct {
	param string
	bound bool
}

// Bind records param and reports whether it differs from the previous one.
// The first call always reports a change.
func (b *Binding) Bind(param string) bool {
	if b.bound && b.param == param {
		return false
	}
	b.param = param
	b.bound = true
	return true
}

// Param returns the bound parameter.
func (b *Binding) Param() string { return b.param }

// Bound reports whether Bind has been called since the last Reset.
func (b *Binding) Bound() bool { return b.bound }

// Reset forgets the bound parameter.
func (b *Binding) Reset() {
	b.param = ""
	b.bound = false
}
