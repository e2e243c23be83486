package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/repository"
)

type matchKind int

const (
	matchNone matchKind = iota
	matchAttached
	matchMerged
)

type matchStep struct {
	provider entity.Provider
	searcher Searcher
}

// MatchAndEnrichPlaces looks up each pending or provider-less place at Google then Yelp, attaches
// the best match, and merges the record into any other place already holding that provider id.
// Only configured providers select places, and every looked-up place is stamped so the next run
// starts with places not tried yet. A limit of zero uses the configured batch size.
func (s *PlacesSyncService) MatchAndEnrichPlaces(ctx context.Context, limit int) (dto.MatchSummary, error) {
	summary := dto.MatchSummary{Errors: errorList()}
	release, err := s.locker.Acquire(ctx, LeaseIngest)
	if err != nil {
		return summary, err
	}
	defer release()

	if limit <= 0 {
		limit = s.batchLimit
	}
	if s.google == nil {
		summary.Errors = append(summary.Errors, "google: "+provider.ErrMissingAPIKey.Error())
	}
	steps := []matchStep{
		{provider: entity.ProviderGoogle, searcher: s.searcherOrNil(s.google)},
		{provider: entity.ProviderYelp, searcher: s.yelp},
	}
	query := repository.MatchQuery{Limit: limit}
	for _, step := range steps {
		if step.searcher != nil {
			query.Providers = append(query.Providers, step.provider)
		}
	}
	places, err := s.repo.ListMatchCandidates(ctx, query)
	if err != nil {
		return summary, fmt.Errorf("list match candidates: %w", err)
	}

	for _, listed := range places {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.matchPlace(ctx, listed.ID, steps, &summary)
		if err := s.repo.MarkMatchAttempted(ctx, listed.ID, s.now()); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", listed.ID, err))
		}
	}
	log.Printf("sync=match processed=%d matched=%d enriched=%d merged=%d skipped=%d errors=%d",
		len(places), summary.Matched, summary.Enriched, summary.Merged, summary.Skipped, len(summary.Errors))
	return summary, nil
}

func (s *PlacesSyncService) searcherOrNil(g GoogleProvider) Searcher {
	if g == nil {
		return nil
	}
	return g
}

func (s *PlacesSyncService) matchPlace(ctx context.Context, id uuid.UUID, steps []matchStep, summary *dto.MatchSummary) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			summary.Skipped++
			return
		}
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", id, err))
		return
	}
	if current.Status != entity.StatusActive && current.Status != entity.StatusPending {
		summary.Skipped++
		return
	}

	matched, wrote := false, false
	for _, step := range steps {
		if step.searcher == nil || current.ExternalID(step.provider) != nil {
			continue
		}
		kind, survivor, err := s.matchWithProvider(ctx, current, step.provider, step.searcher)
		if err != nil {
			log.Printf("sync=match place_id=%s provider=%s err=%v", current.ID, step.provider, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s: %v", current.Name, step.provider, err))
			continue
		}
		switch kind {
		case matchAttached:
			summary.Matched++
			matched, wrote = true, true
		case matchMerged:
			summary.Matched++
			summary.Merged++
			matched = true
			if survivor.ID != current.ID {
				return
			}
			current = survivor
		}
	}
	switch {
	case wrote:
		summary.Enriched++
	case !matched:
		summary.Skipped++
	}
}

func (s *PlacesSyncService) matchWithProvider(ctx context.Context, current *entity.Place, prov entity.Provider, searcher Searcher) (matchKind, *entity.Place, error) {
	results, err := searcher.Search(ctx, s.matchQuery(current, prov))
	if err != nil {
		return matchNone, nil, err
	}
	best, score := s.bestCandidate(current, results)
	if best == nil {
		return matchNone, nil, nil
	}
	best.Provider = prov

	holder, err := s.repo.FindByExternalID(ctx, prov, best.ExternalID)
	switch {
	case err == nil && holder.ID != current.ID:
		survivor, err := s.mergeDuplicates(ctx, searcher, current, holder, *best)
		if err != nil {
			return matchNone, nil, err
		}
		return matchMerged, survivor, nil
	case err != nil && !errors.Is(err, repository.ErrPlaceNotFound):
		return matchNone, nil, err
	}

	s.resolvePhoto(ctx, searcher, current, best)
	s.applyCandidate(current, *best, s.now())
	if err := s.repo.Upsert(ctx, current); err != nil {
		return matchNone, nil, err
	}
	log.Printf("sync=match event=attach place_id=%s provider=%s external_id=%s score=%.3f", current.ID, prov, best.ExternalID, score)
	return matchAttached, current, nil
}

// mergeDuplicates folds the less complete of the two places into the other and returns the
// survivor as written.
func (s *PlacesSyncService) mergeDuplicates(ctx context.Context, searcher Searcher, current, holder *entity.Place, c provider.Candidate) (*entity.Place, error) {
	a, b := *current, *holder
	winner, loser := pickWinner(&a, &b)
	absorb(winner, loser)
	s.resolvePhoto(ctx, searcher, winner, &c)
	s.applyCandidate(winner, c, s.now())
	if err := s.repo.Merge(ctx, winner, loser.ID); err != nil {
		return nil, fmt.Errorf("merge %s into %s: %w", loser.ID, winner.ID, err)
	}
	log.Printf("sync=match event=merge winner=%s loser=%s provider=%s external_id=%s", winner.ID, loser.ID, c.Provider, c.ExternalID)
	return winner, nil
}

func (s *PlacesSyncService) matchQuery(p *entity.Place, prov entity.Provider) provider.SearchRequest {
	address := strings.TrimSpace(deref(p.Address))
	city := strings.TrimSpace(deref(p.City))
	if prov == entity.ProviderYelp {
		location := strings.TrimSpace(strings.Join(nonEmpty(address, city), ", "))
		if location == "" {
			location = s.location("")
		}
		return provider.SearchRequest{Term: p.Name, Location: location, Viewport: s.viewport, Limit: 5}
	}
	term := strings.Join(nonEmpty(p.Name, address), ", ")
	return provider.SearchRequest{Term: term, Location: s.location(city), Viewport: s.viewport, Limit: 5}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
