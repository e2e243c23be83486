package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/repository"
	"github.com/octobees/places-sync/internal/service/geofence"
)

type importOutcome int

const (
	outcomeImported importOutcome = iota
	outcomeUpdated
)

// ImportFromGoogle searches every configured term in each city and upserts accepted results.
// Without a Google client the run records one configuration error and imports nothing.
func (s *PlacesSyncService) ImportFromGoogle(ctx context.Context, cities []string) (dto.ImportSummary, error) {
	if s.google == nil {
		return dto.ImportSummary{Errors: []string{"google: " + provider.ErrMissingAPIKey.Error()}}, nil
	}
	return s.importFrom(ctx, entity.ProviderGoogle, s.google, cities)
}

// ImportFromYelp is the Yelp counterpart of ImportFromGoogle. Yelp is optional, so a missing
// client yields an empty summary.
func (s *PlacesSyncService) ImportFromYelp(ctx context.Context, cities []string) (dto.ImportSummary, error) {
	if s.yelp == nil {
		log.Printf("sync=import provider=yelp skipped=not_configured")
		return dto.ImportSummary{Errors: errorList()}, nil
	}
	return s.importFrom(ctx, entity.ProviderYelp, s.yelp, cities)
}

func (s *PlacesSyncService) importFrom(ctx context.Context, prov entity.Provider, searcher Searcher, cities []string) (dto.ImportSummary, error) {
	summary := dto.ImportSummary{Errors: errorList()}
	release, err := s.locker.Acquire(ctx, LeaseIngest)
	if err != nil {
		return summary, err
	}
	defer release()

	if len(cities) == 0 {
		cities = s.cities
	}
	seen := make(map[string]struct{})
	for _, city := range cities {
		for _, term := range s.searchTerms {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			results, err := searcher.Search(ctx, provider.SearchRequest{
				Term:     term,
				Location: s.location(city),
				Viewport: s.viewport,
			})
			if err != nil {
				log.Printf("sync=import provider=%s city=%q term=%q err=%v", prov, city, term, err)
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s %q in %s: %v", prov, term, city, err))
				continue
			}
			for _, candidate := range results {
				if candidate.ExternalID == "" {
					summary.Skipped++
					continue
				}
				if _, dup := seen[candidate.ExternalID]; dup {
					continue
				}
				seen[candidate.ExternalID] = struct{}{}
				if reason := s.accepts(candidate); reason != geofence.Accepted {
					summary.Skipped++
					continue
				}
				outcome, err := s.importCandidate(ctx, searcher, candidate)
				if err != nil {
					log.Printf("sync=import provider=%s external_id=%s err=%v", prov, candidate.ExternalID, err)
					summary.Errors = append(summary.Errors, fmt.Sprintf("%s (%s): %v", candidate.Name, candidate.ExternalID, err))
					continue
				}
				if outcome == outcomeImported {
					summary.Imported++
				} else {
					summary.Updated++
				}
			}
		}
	}
	log.Printf("sync=import provider=%s imported=%d updated=%d skipped=%d errors=%d",
		prov, summary.Imported, summary.Updated, summary.Skipped, len(summary.Errors))
	return summary, nil
}

// importCandidate refreshes the place already holding the external id, else attaches the id to
// a local place that describes the same business, else creates a new place.
func (s *PlacesSyncService) importCandidate(ctx context.Context, searcher Searcher, c provider.Candidate) (importOutcome, error) {
	now := s.now()
	existing, err := s.repo.FindByExternalID(ctx, c.Provider, c.ExternalID)
	switch {
	case err == nil:
		s.resolvePhoto(ctx, searcher, existing, &c)
		s.applyCandidate(existing, c, now)
		return outcomeUpdated, s.repo.Upsert(ctx, existing)
	case !errors.Is(err, repository.ErrPlaceNotFound):
		return outcomeImported, err
	}

	local, err := s.findLocalMatch(ctx, c)
	if err != nil {
		return outcomeImported, err
	}
	if local != nil {
		s.resolvePhoto(ctx, searcher, local, &c)
		s.applyCandidate(local, c, now)
		return outcomeUpdated, s.repo.Upsert(ctx, local)
	}

	place := &entity.Place{Name: c.Name, Status: entity.StatusPending}
	s.resolvePhoto(ctx, searcher, place, &c)
	s.applyCandidate(place, c, now)
	return outcomeImported, s.repo.Upsert(ctx, place)
}

func (s *PlacesSyncService) findLocalMatch(ctx context.Context, c provider.Candidate) (*entity.Place, error) {
	locals, err := s.repo.FindCandidates(ctx, repository.CandidateQuery{
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		RadiusMeters: s.candidateRadius,
		City:         c.City,
		Limit:        defaultCandidateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	var (
		best      *entity.Place
		bestScore float64
	)
	incoming := candidateForScoring(c)
	for i := range locals {
		local := &locals[i]
		if local.Status == entity.StatusMerged || local.ExternalID(c.Provider) != nil {
			continue
		}
		score := s.scorer.Score(placeForScoring(local), incoming)
		if score < s.threshold {
			continue
		}
		if best == nil || score > bestScore {
			best, bestScore = local, score
		}
	}
	return best, nil
}
