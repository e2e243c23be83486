package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/repository"
)

// ReverifyAllPlaces re-fetches every non-merged place holding a Google id and records its
// current operating status. Per-place failures are collected; the sweep keeps going.
func (s *PlacesSyncService) ReverifyAllPlaces(ctx context.Context) (dto.VerifySummary, error) {
	summary := dto.VerifySummary{Errors: errorList()}
	release, err := s.locker.Acquire(ctx, LeaseSweep)
	if err != nil {
		return summary, err
	}
	defer release()

	if s.google == nil {
		summary.Errors = append(summary.Errors, "google: "+provider.ErrMissingAPIKey.Error())
		return summary, nil
	}
	places, err := s.repo.ListVerifiable(ctx)
	if err != nil {
		return summary, fmt.Errorf("list verifiable places: %w", err)
	}

	for i := range places {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		place := &places[i]
		if place.GooglePlaceID == nil {
			continue
		}
		v, err := s.verify(ctx, place)
		if err != nil {
			log.Printf("sync=reverify place_id=%s err=%v", place.ID, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", place.Name, err))
			continue
		}
		if err := s.repo.UpdateVerification(ctx, v); err != nil {
			if errors.Is(err, repository.ErrPlaceMerged) {
				continue
			}
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", place.Name, err))
			continue
		}
		if v.Status == entity.StatusActive {
			summary.Verified++
		} else {
			summary.Deactivated++
		}
	}
	log.Printf("sync=reverify checked=%d verified=%d deactivated=%d errors=%d",
		len(places), summary.Verified, summary.Deactivated, len(summary.Errors))
	return summary, nil
}

func (s *PlacesSyncService) verify(ctx context.Context, place *entity.Place) (repository.Verification, error) {
	v := repository.Verification{ID: place.ID, VerifiedAt: s.now()}
	details, err := s.google.Details(ctx, *place.GooglePlaceID)
	switch {
	case errors.Is(err, provider.ErrNotFound):
		v.Status = entity.StatusInactive
		v.BusinessStatus = provider.BusinessStatusUnknown
		return v, nil
	case err != nil:
		return v, err
	}

	if !operational(*details) {
		v.Status = entity.StatusInactive
		v.BusinessStatus = strings.ToUpper(details.BusinessStatus)
		return v, nil
	}
	v.Status = entity.StatusActive
	v.BusinessStatus = provider.BusinessStatusOperational
	if details.Rating != nil && details.RatingCount >= place.RatingCount {
		rating, count := *details.Rating, details.RatingCount
		v.Rating, v.RatingCount = &rating, &count
	}
	return v, nil
}

// InactivateUnmatchedPlaces marks places that never gained a Google id and have gone unverified
// past the retention window as inactive, in a single statement.
func (s *PlacesSyncService) InactivateUnmatchedPlaces(ctx context.Context) (dto.DeactivateSummary, error) {
	summary := dto.DeactivateSummary{Errors: errorList()}
	release, err := s.locker.Acquire(ctx, LeaseSweep)
	if err != nil {
		return summary, err
	}
	defer release()

	cutoff := s.now().Add(-s.retention)
	count, err := s.repo.BulkUpdateStatus(ctx, repository.StatusFilter{
		MissingGooglePlaceID: true,
		VerifiedBefore:       &cutoff,
		ExcludeStatuses:      []entity.PlaceStatus{entity.StatusInactive},
	}, entity.StatusInactive)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, fmt.Errorf("inactivate unmatched places: %w", err)
	}
	summary.Deactivated = int(count)
	log.Printf("sync=inactivate cutoff=%s deactivated=%d", cutoff.Format(time.RFC3339), count)
	return summary, nil
}
