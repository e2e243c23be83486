// Package provider holds the types shared by the external place directory clients.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/octobees/places-sync/internal/entity"
)

var (
	// ErrMissingAPIKey is returned when a provider is used without credentials.
	ErrMissingAPIKey = errors.New("provider api key is not configured")
	// ErrNotFound is returned when a provider no longer knows an identifier.
	ErrNotFound = errors.New("place not found at provider")
)

// BusinessStatusOperational is the provider status of an open business.
const BusinessStatusOperational = "OPERATIONAL"

// BusinessStatusClosed is reported for businesses flagged as permanently closed.
const BusinessStatusClosed = "CLOSED_PERMANENTLY"

// BusinessStatusUnknown is recorded when a lookup failed entirely.
const BusinessStatusUnknown = "UNKNOWN"

// Viewport is a rectangular location bias.
type Viewport struct {
	North float64
	South float64
	East  float64
	West  float64
}

// SearchRequest describes a free text search.
type SearchRequest struct {
	Term     string
	Location string
	Viewport *Viewport
	Limit    int
}

// Text joins the term and location into a single query, for providers that take one string.
func (r SearchRequest) Text() string {
	term := strings.TrimSpace(r.Term)
	location := strings.TrimSpace(r.Location)
	switch {
	case location == "":
		return term
	case term == "":
		return location
	default:
		return term + " in " + location
	}
}

// Candidate is a provider record normalized into the fields the pipeline uses.
type Candidate struct {
	Provider       entity.Provider
	ExternalID     string
	Name           string
	Address        string
	City           string
	State          string
	Country        string
	Neighborhood   string
	Latitude       *float64
	Longitude      *float64
	Rating         *float64
	RatingCount    int
	Website        string
	Phone          string
	ImageURL       string
	// PhotoRef names a provider photo that must be resolved through a PhotoResolver before it
	// can be shown. Set only when ImageURL is empty.
	PhotoRef       string
	Categories     []string
	BusinessStatus string
}

// PhotoResolver is implemented by providers whose photos are referenced by name and need a
// lookup to produce an image URL that loads without credentials.
type PhotoResolver interface {
	PhotoURL(ctx context.Context, ref string) (string, error)
}

// Operational reports whether the provider considers the business open.
func (c Candidate) Operational() bool {
	return strings.EqualFold(c.BusinessStatus, BusinessStatusOperational)
}
