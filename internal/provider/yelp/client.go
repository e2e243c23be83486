// Package yelp is a small client for the Yelp Fusion business search endpoint.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
)

const (
	defaultBaseURL = "https://api.yelp.com"
	searchPath     = "/v3/businesses/search"
	defaultLimit   = 20
	maxLimit       = 50
)

// Client searches Yelp businesses. A client without an API key is disabled and returns no
// results instead of failing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL points the client at a different host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter throttles every call through limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// NewClient builds a Yelp client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     strings.TrimSpace(apiKey),
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type searchResponse struct {
	Businesses []business `json:"businesses"`
}

type business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	IsClosed    bool    `json:"is_closed"`
	ImageURL    string  `json:"image_url"`
	Phone       string  `json:"phone"`
	Coordinates struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		Address1       string   `json:"address1"`
		City           string   `json:"city"`
		State          string   `json:"state"`
		Country        string   `json:"country"`
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
}

// Search runs a business search for req.Term near req.Location.
func (c *Client) Search(ctx context.Context, req provider.SearchRequest) ([]provider.Candidate, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query := url.Values{}
	query.Set("term", strings.TrimSpace(req.Term))
	query.Set("location", strings.TrimSpace(req.Location))
	query.Set("limit", strconv.Itoa(limit))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create yelp request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yelp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("yelp error: status %d: %s", resp.StatusCode, extractError(resp.Body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode yelp response: %w", err)
	}

	out := make([]provider.Candidate, 0, len(payload.Businesses))
	for _, b := range payload.Businesses {
		out = append(out, b.toCandidate())
	}
	return out, nil
}

func (b business) toCandidate() provider.Candidate {
	c := provider.Candidate{
		Provider:       entity.ProviderYelp,
		ExternalID:     b.ID,
		Name:           b.Name,
		Address:        strings.Join(b.Location.DisplayAddress, ", "),
		City:           b.Location.City,
		State:          b.Location.State,
		Country:        b.Location.Country,
		Latitude:       b.Coordinates.Latitude,
		Longitude:      b.Coordinates.Longitude,
		RatingCount:    b.ReviewCount,
		Phone:          b.Phone,
		ImageURL:       b.ImageURL,
		BusinessStatus: provider.BusinessStatusOperational,
	}
	if c.Address == "" {
		c.Address = b.Location.Address1
	}
	if b.ReviewCount > 0 {
		rating := b.Rating
		c.Rating = &rating
	}
	if b.IsClosed {
		c.BusinessStatus = provider.BusinessStatusClosed
	}
	for _, cat := range b.Categories {
		if cat.Alias != "" {
			c.Categories = append(c.Categories, cat.Alias)
		}
		if cat.Title != "" {
			c.Categories = append(c.Categories, cat.Title)
		}
	}
	return c
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "yelp returned an error"
	}

	var payload struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Description != "" {
		return payload.Error.Description
	}
	return string(data)
}
