package xtract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is where the service listens when run locally.
	DefaultBaseURL = "http://127.0.0.1:8000"

	requestIDHeader = "X-Request-Id"
	errorBodyLimit  = 512
)

// Config describes how to build a Client.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client issues single-attempt GET requests against the service. It never
// retries, caches or imposes its own timeout.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       logrus.FieldLogger
}

// New returns a Client for cfg, falling back to DefaultBaseURL and a
// discarding logger.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Client{baseURL: base, userAgent: cfg.UserAgent, http: hc, log: logger}
}

// BaseURL reports the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchURL builds the search request for a free-text query.
func (c *Client) SearchURL(query string) string {
	return c.baseURL + "/search?query=" + url.QueryEscape(query)
}

// PaperURL builds the detail request for a paper identifier.
func (c *Client) PaperURL(id string) string {
	return c.baseURL + "/paper/" + url.PathEscape(id)
}

// RecommendURL builds the recommendation request for a paper identifier.
func (c *Client) RecommendURL(id string) string {
	return c.baseURL + "/recommend/" + url.PathEscape(id)
}

// FetchJSON performs one GET and returns the body once it is known to be
// valid JSON. Every failure is a *FetchError.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) (json.RawMessage, error) {
	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{"url": rawURL, "request_id": requestID})
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, transportError(rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fe := transportError(rawURL, err)
		log.WithError(fe.Err).Warn("request failed")
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		fe := statusError(rawURL, resp, body)
		log.WithField("status", resp.StatusCode).Warn(fe.Error())
		return nil, fe
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fe := transportError(rawURL, err)
		log.WithError(fe.Err).Warn("reading response body failed")
		return nil, fe
	}
	if !json.Valid(body) {
		fe := &FetchError{Kind: KindDecode, URL: rawURL, StatusCode: resp.StatusCode, Err: errors.New("body is not valid JSON")}
		log.Warn(fe.Error())
		return nil, fe
	}
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": time.Since(started)}).Debug("request complete")
	return json.RawMessage(body), nil
}

// Search queries the service for papers matching text.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	raw, err := c.FetchJSON(ctx, c.SearchURL(query))
	if err != nil {
		return nil, err
	}
	return DecodeSearchResults(raw)
}

// Paper fetches one paper by identifier.
func (c *Client) Paper(ctx context.Context, id string) (Paper, error) {
	raw, err := c.FetchJSON(ctx, c.PaperURL(id))
	if err != nil {
		return Paper{}, err
	}
	return DecodePaper(raw)
}

// Recommendations fetches papers similar to id. Only transport and status
// failures are reported; a malformed body yields an empty list.
func (c *Client) Recommendations(ctx context.Context, id string) ([]Paper, error) {
	raw, err := c.FetchJSON(ctx, c.RecommendURL(id))
	if err != nil {
		return nil, err
	}
	recs, ok := DecodeRecommendations(raw)
	if !ok {
		c.log.WithField("paper_id", id).Warn("recommendation payload is not a list; treating as empty")
	}
	return recs, nil
}
