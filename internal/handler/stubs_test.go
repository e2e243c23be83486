package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/repository"
)

type stubPlacesRepository struct {
	list func(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error)
	bulk func(ctx context.Context, seeds []dto.PlaceSeed) (dto.ImportCSVResult, error)
}

func (s *stubPlacesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Place, error) {
	return nil, repository.ErrPlaceNotFound
}

func (s *stubPlacesRepository) FindByExternalID(ctx context.Context, provider entity.Provider, externalID string) (*entity.Place, error) {
	return nil, repository.ErrPlaceNotFound
}

func (s *stubPlacesRepository) FindCandidates(ctx context.Context, query repository.CandidateQuery) ([]entity.Place, error) {
	return nil, nil
}

func (s *stubPlacesRepository) ListMatchCandidates(ctx context.Context, query repository.MatchQuery) ([]entity.Place, error) {
	return nil, nil
}

func (s *stubPlacesRepository) MarkMatchAttempted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubPlacesRepository) ListVerifiable(ctx context.Context) ([]entity.Place, error) {
	return nil, nil
}

func (s *stubPlacesRepository) List(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error) {
	if s.list != nil {
		return s.list(ctx, filter)
	}
	return nil, nil
}

func (s *stubPlacesRepository) Upsert(ctx context.Context, place *entity.Place) error {
	return nil
}

func (s *stubPlacesRepository) Merge(ctx context.Context, winner *entity.Place, loserID uuid.UUID) error {
	return nil
}

func (s *stubPlacesRepository) UpdateVerification(ctx context.Context, v repository.Verification) error {
	return nil
}

func (s *stubPlacesRepository) BulkUpdateStatus(ctx context.Context, filter repository.StatusFilter, status entity.PlaceStatus) (int64, error) {
	return 0, nil
}

func (s *stubPlacesRepository) BulkImport(ctx context.Context, seeds []dto.PlaceSeed) (dto.ImportCSVResult, error) {
	if s.bulk != nil {
		return s.bulk(ctx, seeds)
	}
	return dto.ImportCSVResult{}, nil
}
