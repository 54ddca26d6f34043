// Package googlebooks implements the metadata lookup client for the
// Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// lookupResults counts lookups by outcome so a flaky upstream is
// visible on /metrics.
var lookupResults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "landobooks_lookup_results_total",
		Help: "External book lookups, by outcome.",
	},
	[]string{"outcome"},
)

const (
	// DefaultBaseURL is the public volumes API endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// requestTimeout bounds every lookup; a slow upstream fails the
	// request rather than hanging the handler.
	requestTimeout = 10 * time.Second
)

var (
	// ErrUnavailable indicates a network failure or a non-2xx response
	// from the volumes API.
	ErrUnavailable = errors.New("book search unavailable")
	// ErrParse indicates the API answered 2xx with a body that is not
	// valid JSON in the expected shape.
	ErrParse = errors.New("malformed book search response")
	// ErrBadField indicates an unsupported search field.
	ErrBadField = errors.New("search field must be title or isbn")
)

// Search fields accepted by Search.
const (
	FieldTitle = "title"
	FieldISBN  = "isbn"
)

// Candidate is a normalized book record returned from the lookup,
// not yet persisted.
type Candidate struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       string   `json:"authors"`
	PageCount     *int     `json:"page_count,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	ThumbnailURL  *string  `json:"thumbnail_url,omitempty"`
}

// volumeInfo mirrors the subset of a volume record we read.
type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PageCount           *int     `json:"pageCount"`
	AverageRating       *float64 `json:"averageRating"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

// Client queries the volumes API and normalizes results into Candidates.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a lookup client for the given API base URL.
// An empty baseURL uses the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Search queries the volumes API with q={field}:{query} and returns the
// ordered candidates. A successful response with zero matches returns
// an empty slice and a nil error.
func (c *Client) Search(ctx context.Context, query, field string) ([]Candidate, error) {
	if field != FieldTitle && field != FieldISBN {
		return nil, ErrBadField
	}

	searchURL := fmt.Sprintf("%s/volumes?q=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%s:%s", field, query)),
	)

	body, err := c.fetch(ctx, searchURL)
	if err != nil {
		lookupResults.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	var resp volumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		lookupResults.WithLabelValues("parse_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	candidates := make([]Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, normalize(item.VolumeInfo))
	}

	if len(candidates) == 0 {
		lookupResults.WithLabelValues("empty").Inc()
	} else {
		lookupResults.WithLabelValues("ok").Inc()
	}
	return candidates, nil
}

// fetch performs the GET and returns the raw body, keeping transport
// failures separate from decode failures.
func (c *Client) fetch(ctx context.Context, searchURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

// normalize maps a raw volume record onto a Candidate, applying the
// placeholder defaults for absent title and authors.
func normalize(info volumeInfo) Candidate {
	c := Candidate{
		Title:         info.Title,
		PageCount:     info.PageCount,
		AverageRating: info.AverageRating,
	}
	if c.Title == "" {
		c.Title = "Unknown Title"
	}

	if len(info.Authors) > 0 {
		c.Authors = strings.Join(info.Authors, ", ")
	} else {
		c.Authors = "N/A"
	}

	// Prefer ISBN_13, otherwise take the first identifier present.
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			c.ISBN = id.Identifier
			break
		}
		if c.ISBN == "" {
			c.ISBN = id.Identifier
		}
	}

	if info.ImageLinks.Thumbnail != "" {
		thumb := info.ImageLinks.Thumbnail
		c.ThumbnailURL = &thumb
	}

	return c
}
