// Package geofence decides whether a provider search result belongs to the
// configured metro area and business domain.
package geofence

import (
	"strings"
)

// Bounds is a latitude/longitude rectangle. Antimeridian-crossing boxes are not supported.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the coordinate lies inside the box, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat <= b.North && lat >= b.South && lng <= b.East && lng >= b.West
}

// Result is the subset of a provider search hit the filter inspects.
type Result struct {
	Name       string
	Categories []string
	Latitude   *float64
	Longitude  *float64
	Country    string
	State      string
}

// Reason explains why a result was rejected.
type Reason string

const (
	Accepted          Reason = ""
	RejectNoLocation  Reason = "missing coordinates"
	RejectOutOfBounds Reason = "outside bounding box"
	RejectCountry     Reason = "country mismatch"
	RejectState       Reason = "state mismatch"
	RejectIrrelevant  Reason = "no keyword match"
)

// Filter is a pure accept/reject predicate. The zero value of Country, States and Keywords
// disables that check.
type Filter struct {
	Bounds   Bounds
	Country  string
	States   []string
	Keywords []string
}

// NewFilter normalizes the comparison lists once so Accept stays allocation-light.
func NewFilter(bounds Bounds, country string, states, keywords []string) *Filter {
	f := &Filter{Bounds: bounds, Country: strings.TrimSpace(country)}
	for _, s := range states {
		if s = strings.TrimSpace(s); s != "" {
			f.States = append(f.States, s)
		}
	}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			f.Keywords = append(f.Keywords, k)
		}
	}
	return f
}

// Accept reports whether the result passes every check.
func (f *Filter) Accept(r Result) bool {
	return f.Check(r) == Accepted
}

// Check runs the geofence first, so out-of-area results are rejected regardless of content.
func (f *Filter) Check(r Result) Reason {
	if reason := f.checkArea(r); reason != Accepted {
		return reason
	}
	if len(f.Keywords) > 0 && !f.relevant(r) {
		return RejectIrrelevant
	}
	return Accepted
}

// InArea applies only the location checks. Used when matching records already known to be
// relevant.
func (f *Filter) InArea(r Result) bool {
	return f.checkArea(r) == Accepted
}

func (f *Filter) checkArea(r Result) Reason {
	if r.Latitude == nil || r.Longitude == nil {
		return RejectNoLocation
	}
	if !f.Bounds.Contains(*r.Latitude, *r.Longitude) {
		return RejectOutOfBounds
	}
	if f.Country != "" && r.Country != "" && !strings.EqualFold(strings.TrimSpace(r.Country), f.Country) {
		return RejectCountry
	}
	if len(f.States) > 0 && r.State != "" && !matchesAny(r.State, f.States) {
		return RejectState
	}
	return Accepted
}

func (f *Filter) relevant(r Result) bool {
	haystacks := make([]string, 0, 1+len(r.Categories))
	haystacks = append(haystacks, strings.ToLower(r.Name))
	for _, c := range r.Categories {
		haystacks = append(haystacks, strings.ToLower(c))
	}
	for _, keyword := range f.Keywords {
		for _, h := range haystacks {
			if strings.Contains(h, keyword) {
				return true
			}
		}
	}
	return false
}

func matchesAny(value string, options []string) bool {
	value = strings.TrimSpace(value)
	for _, option := range options {
		if strings.EqualFold(value, option) {
			return true
		}
	}
	return false
}
