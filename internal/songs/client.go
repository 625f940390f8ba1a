// Package songs provides the song catalog lookup adapter.
//
// The adapter consumes an iTunes-style search boundary and degrades to an
// empty result list on any boundary failure: the picker UI must never be
// crash-blocked by a failed lookup.
package songs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/harmos/intakebot/internal/metrics"
	"github.com/harmos/intakebot/internal/models"
)

// DefaultCatalogURL is the public iTunes search endpoint.
const DefaultCatalogURL = "https://itunes.apple.com"

// MinQueryLength bounds request volume: shorter queries are not sent to the
// catalog at all.
const MinQueryLength = 3

// ResultLimit caps the number of candidates requested from the catalog.
const ResultLimit = 10

// Client queries the song catalog boundary.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client used for catalog requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a catalog client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultCatalogURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// catalogResponse mirrors the boundary's wire format.
type catalogResponse struct {
	Results []struct {
		TrackName        string `json:"trackName"`
		ArtistName       string `json:"artistName"`
		PrimaryGenreName string `json:"primaryGenreName"`
	} `json:"results"`
}

// Search returns a bounded list of song candidates for a free-text query.
// Queries shorter than MinQueryLength return nil without a request. Any
// boundary error (network, non-200, malformed body) returns an empty list,
// never an error.
func (c *Client) Search(ctx context.Context, query string) []models.SongCandidate {
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	u := fmt.Sprintf("%s/search?term=%s&media=music&entity=song&limit=%d",
		c.baseURL, url.QueryEscape(query), ResultLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		slog.Error("Client.Search: failed to build catalog request", "error", err)
		c.metrics.RecordSongSearch(metrics.OutcomeFailure)
		return []models.SongCandidate{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Client.Search: catalog request failed", "query", query, "error", err)
		c.metrics.RecordSongSearch(metrics.OutcomeFailure)
		return []models.SongCandidate{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Client.Search: catalog returned non-200", "query", query, "status", resp.StatusCode)
		c.metrics.RecordSongSearch(metrics.OutcomeFailure)
		return []models.SongCandidate{}
	}

	var decoded catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		slog.Warn("Client.Search: malformed catalog response", "query", query, "error", err)
		c.metrics.RecordSongSearch(metrics.OutcomeFailure)
		return []models.SongCandidate{}
	}

	candidates := make([]models.SongCandidate, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		genre := r.PrimaryGenreName
		if genre == "" {
			genre = "Unknown"
		}
		candidates = append(candidates, models.SongCandidate{
			Title:  r.TrackName,
			Artist: r.ArtistName,
			Genre:  genre,
		})
	}
	c.metrics.RecordSongSearch(metrics.OutcomeSuccess)
	slog.Debug("Client.Search: catalog lookup completed", "query", query, "results", len(candidates))
	return candidates
}
