package xtract

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
)

// ErrNotFound matches a FetchError produced by an HTTP 404.
var ErrNotFound = errors.New("not found")

// FetchError is returned for every failed request: the transport failed, the
// server answered outside the 2xx range, or the body was not valid JSON.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Status     string
	Detail     string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("network error: %v", e.Err)
	case KindStatus:
		msg := fmt.Sprintf("request failed: %s", e.statusText())
		if e.Detail != "" {
			msg += fmt.Sprintf(" (%s)", e.Detail)
		}
		return msg
	case KindDecode:
		if e.Err != nil {
			return fmt.Sprintf("malformed response: %v", e.Err)
		}
		return "malformed response"
	default:
		return "request failed"
	}
}

func (e *FetchError) statusText() string {
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports 404 responses as ErrNotFound.
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindStatus && e.StatusCode == http.StatusNotFound
}

func transportError(rawURL string, err error) *FetchError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &FetchError{Kind: KindTransport, URL: rawURL, Err: err}
}

func statusError(rawURL string, resp *http.Response, body []byte) *FetchError {
	return &FetchError{
		Kind:       KindStatus,
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Detail:     errorDetail(body),
	}
}

// errorDetail pulls the human readable message out of an error body. The
// service answers failures with {"detail": "..."}; anything else is shown as
// plain text when it is short enough to be a message.
func errorDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch d := payload.Detail.(type) {
		case string:
			return d
		case nil:
			return ""
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
		return ""
	}
	if strings.HasPrefix(trimmed, "<") || len(trimmed) > 200 {
		return ""
	}
	return trimmed
}
