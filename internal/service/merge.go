package service

import (
	"strings"
	"time"

	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/service/scoring"
)

func featuresOf(p *entity.Place) scoring.PlaceFeatures {
	return scoring.PlaceFeatures{
		ID:            p.ID.String(),
		ImageURL:      deref(p.ImageURL),
		Website:       deref(p.Website),
		RatingCount:   p.RatingCount,
		GooglePlaceID: deref(p.GooglePlaceID),
		YelpID:        deref(p.YelpID),
	}
}

// pickWinner orders two duplicates by completeness.
func pickWinner(a, b *entity.Place) (winner, loser *entity.Place) {
	if scoring.Prefer(featuresOf(a), featuresOf(b)) {
		return a, b
	}
	return b, a
}

// absorb copies into winner whatever the loser knows that the winner does not.
// Rating data moves only with a strictly larger sample.
func absorb(winner, loser *entity.Place) {
	if winner.ImageURL == nil && loser.ImageURL != nil {
		winner.ImageURL = loser.ImageURL
		winner.PhotoSource = loser.PhotoSource
	}
	winner.Website = firstSet(winner.Website, loser.Website)
	winner.GooglePlaceID = firstSet(winner.GooglePlaceID, loser.GooglePlaceID)
	winner.YelpID = firstSet(winner.YelpID, loser.YelpID)
	winner.Phone = firstSet(winner.Phone, loser.Phone)
	winner.Address = firstSet(winner.Address, loser.Address)
	winner.City = firstSet(winner.City, loser.City)
	winner.Country = firstSet(winner.Country, loser.Country)
	winner.Neighborhood = firstSet(winner.Neighborhood, loser.Neighborhood)
	winner.BusinessStatus = firstSet(winner.BusinessStatus, loser.BusinessStatus)
	if !winner.HasCoordinates() && loser.HasCoordinates() {
		winner.Latitude, winner.Longitude = loser.Latitude, loser.Longitude
	}
	if loser.Rating != nil && loser.RatingCount > winner.RatingCount {
		winner.Rating = loser.Rating
		winner.RatingCount = loser.RatingCount
	}
	winner.Tags = mergeTags(winner.Tags, loser.Tags)
	if winner.Category == "" || winner.Category == entity.CategoryOther {
		if loser.Category != "" {
			winner.Category = loser.Category
		}
	}
	if loser.Status == entity.StatusActive && winner.Status == entity.StatusPending {
		winner.Status = entity.StatusActive
	}
	if loser.LastVerifiedAt != nil && (winner.LastVerifiedAt == nil || loser.LastVerifiedAt.After(*winner.LastVerifiedAt)) {
		winner.LastVerifiedAt = loser.LastVerifiedAt
	}
}

// applyCandidate writes provider data onto a place: the provider id always, descriptive fields
// only where the place has none.
func (s *PlacesSyncService) applyCandidate(p *entity.Place, c provider.Candidate, now time.Time) {
	p.SetExternalID(c.Provider, c.ExternalID)
	if c.Rating != nil && (p.Rating == nil || c.RatingCount > p.RatingCount) {
		rating := *c.Rating
		p.Rating = &rating
		p.RatingCount = c.RatingCount
	}
	if p.Website == nil {
		p.Website = optional(s.contacts.Website(c.Website))
	}
	if p.Phone == nil {
		p.Phone = optional(s.contacts.Phone(c.Phone))
	}
	if p.ImageURL == nil && c.ImageURL != "" {
		p.ImageURL = optional(c.ImageURL)
		p.PhotoSource = optional(string(c.Provider))
	}
	if !p.HasCoordinates() && c.Latitude != nil && c.Longitude != nil {
		lat, lng := *c.Latitude, *c.Longitude
		p.Latitude, p.Longitude = &lat, &lng
	}
	p.Address = firstSet(p.Address, optional(c.Address))
	p.City = firstSet(p.City, optional(c.City))
	p.Country = firstSet(p.Country, optional(c.Country))
	p.Neighborhood = firstSet(p.Neighborhood, optional(c.Neighborhood))

	authoritative := c.Provider == entity.ProviderGoogle
	if c.BusinessStatus != "" && (authoritative || p.BusinessStatus == nil) {
		p.BusinessStatus = optional(strings.ToUpper(c.BusinessStatus))
	}
	if p.Category == "" || p.Category == entity.CategoryOther {
		p.Category = s.classifier.Classify(p.Name, c.Categories)
	}
	p.Tags = mergeTags(p.Tags, s.classifier.Tags(p.Name, c.Categories))

	switch {
	case operational(c) && (authoritative || p.Status == entity.StatusPending || p.Status == ""):
		p.Status = entity.StatusActive
	case !operational(c) && (authoritative || p.Status == entity.StatusPending || p.Status == ""):
		p.Status = entity.StatusInactive
	}
	verified := now
	p.LastVerifiedAt = &verified
}

// operational treats a missing status as open; providers omit it for most listings.
func operational(c provider.Candidate) bool {
	return c.BusinessStatus == "" || c.Operational()
}

func mergeTags(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	merged := make([]string, 0, len(existing)+len(extra))
	for _, group := range [][]string{existing, extra} {
		for _, tag := range group {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

func firstSet(current, fallback *string) *string {
	if current != nil && strings.TrimSpace(*current) != "" {
		return current
	}
	if fallback != nil && strings.TrimSpace(*fallback) != "" {
		return fallback
	}
	return current
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
