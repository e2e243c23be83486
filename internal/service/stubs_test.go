package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/repository"
	"github.com/octobees/places-sync/internal/service/geofence"
	"github.com/octobees/places-sync/internal/service/similarity"
)

// memoryRepository keeps places in a map and mirrors the uniqueness and tombstone rules of the
// Postgres implementation.
type memoryRepository struct {
	mu        sync.Mutex
	places    map[uuid.UUID]entity.Place
	order     []uuid.UUID
	clock     time.Time
	attempted map[uuid.UUID]time.Time

	findCandidatesErr error
	bulkUpdateFn      func(filter repository.StatusFilter, status entity.PlaceStatus) (int64, error)
	bulkImportFn      func(seeds []dto.PlaceSeed) (dto.ImportCSVResult, error)
	listFn            func(filter dto.PlaceListFilter) ([]entity.Place, error)
	merges            int
}

func newMemoryRepository(seed ...entity.Place) *memoryRepository {
	repo := &memoryRepository{
		places:    make(map[uuid.UUID]entity.Place),
		attempted: make(map[uuid.UUID]time.Time),
		clock:     fixedNow.Add(-time.Hour),
	}
	for _, p := range seed {
		if err := repo.Upsert(context.Background(), &p); err != nil {
			panic(err)
		}
	}
	return repo
}

func (m *memoryRepository) get(id uuid.UUID) entity.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.places[id]
}

func (m *memoryRepository) all() []entity.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Place, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.places[id])
	}
	return out
}

func (m *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.places[id]
	if !ok {
		return nil, repository.ErrPlaceNotFound
	}
	return clonePlace(p), nil
}

func (m *memoryRepository) FindByExternalID(ctx context.Context, prov entity.Provider, externalID string) (*entity.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		p := m.places[id]
		if p.Status == entity.StatusMerged {
			continue
		}
		if ext := p.ExternalID(prov); ext != nil && *ext == externalID {
			return clonePlace(p), nil
		}
	}
	return nil, repository.ErrPlaceNotFound
}

func (m *memoryRepository) FindCandidates(ctx context.Context, q repository.CandidateQuery) ([]entity.Place, error) {
	if m.findCandidatesErr != nil {
		return nil, m.findCandidatesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Place
	for _, id := range m.order {
		p := m.places[id]
		if p.Status == entity.StatusMerged {
			continue
		}
		switch {
		case p.HasCoordinates() && q.Latitude != nil && q.Longitude != nil:
			if similarity.DistanceMeters(*p.Latitude, *p.Longitude, *q.Latitude, *q.Longitude) <= q.RadiusMeters {
				out = append(out, *clonePlace(p))
			}
		case !p.HasCoordinates() && q.City != "" && strings.EqualFold(deref(p.City), q.City):
			out = append(out, *clonePlace(p))
		}
	}
	return out, nil
}

func (m *memoryRepository) ListMatchCandidates(ctx context.Context, q repository.MatchQuery) ([]entity.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Place
	for _, id := range m.order {
		p := m.places[id]
		if p.Status != entity.StatusActive && p.Status != entity.StatusPending {
			continue
		}
		missing := false
		for _, prov := range q.Providers {
			if p.ExternalID(prov) == nil {
				missing = true
			}
		}
		if missing {
			out = append(out, *clonePlace(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := m.attempted[out[i].ID]
		b, bok := m.attempted[out[j].ID]
		if aok != bok {
			return !aok
		}
		return a.Before(b)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memoryRepository) MarkMatchAttempted(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.places[id]; !ok || p.Status == entity.StatusMerged {
		return nil
	}
	m.attempted[id] = at
	return nil
}

func (m *memoryRepository) ListVerifiable(ctx context.Context) ([]entity.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Place
	for _, id := range m.order {
		p := m.places[id]
		if p.GooglePlaceID != nil && p.Status != entity.StatusMerged {
			out = append(out, *clonePlace(p))
		}
	}
	return out, nil
}

func (m *memoryRepository) List(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error) {
	if m.listFn != nil {
		return m.listFn(filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Place
	for _, id := range m.order {
		p := m.places[id]
		if len(filter.Statuses) == 0 && p.Status == entity.StatusMerged {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, p.Status) {
			continue
		}
		out = append(out, *clonePlace(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryRepository) Upsert(ctx context.Context, place *entity.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(place)
}

func (m *memoryRepository) upsertLocked(place *entity.Place) error {
	if place.ID == uuid.Nil {
		place.ID = uuid.New()
	}
	if place.Status == "" {
		place.Status = entity.StatusPending
	}
	if place.Category == "" {
		place.Category = entity.CategoryOther
	}
	existing, ok := m.places[place.ID]
	if ok && existing.Status == entity.StatusMerged {
		return repository.ErrPlaceMerged
	}
	for _, id := range m.order {
		other := m.places[id]
		if id == place.ID || other.Status == entity.StatusMerged {
			continue
		}
		for _, prov := range []entity.Provider{entity.ProviderGoogle, entity.ProviderYelp} {
			a, b := place.ExternalID(prov), other.ExternalID(prov)
			if a != nil && b != nil && *a == *b {
				return repository.ErrExternalIDConflict
			}
		}
	}
	stored := *clonePlace(*place)
	if !ok {
		m.clock = m.clock.Add(time.Second)
		stored.CreatedAt = m.clock
		m.order = append(m.order, place.ID)
	} else {
		stored.CreatedAt = existing.CreatedAt
	}
	m.places[place.ID] = stored
	return nil
}

func (m *memoryRepository) Merge(ctx context.Context, winner *entity.Place, loserID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loser, ok := m.places[loserID]
	if !ok || loser.Status == entity.StatusMerged {
		return repository.ErrPlaceMerged
	}
	previous := loser
	loser.Status = entity.StatusMerged
	winnerID := winner.ID
	loser.MergedInto = &winnerID
	m.places[loserID] = loser
	if err := m.upsertLocked(winner); err != nil {
		m.places[loserID] = previous
		return err
	}
	m.merges++
	return nil
}

func (m *memoryRepository) UpdateVerification(ctx context.Context, v repository.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.places[v.ID]
	if !ok || p.Status == entity.StatusMerged {
		return repository.ErrPlaceMerged
	}
	p.Status = v.Status
	status := v.BusinessStatus
	p.BusinessStatus = &status
	if v.Rating != nil {
		p.Rating = v.Rating
	}
	if v.RatingCount != nil {
		p.RatingCount = *v.RatingCount
	}
	verified := v.VerifiedAt
	p.LastVerifiedAt = &verified
	m.places[v.ID] = p
	return nil
}

func (m *memoryRepository) BulkUpdateStatus(ctx context.Context, filter repository.StatusFilter, status entity.PlaceStatus) (int64, error) {
	if m.bulkUpdateFn != nil {
		return m.bulkUpdateFn(filter, status)
	}
	return 0, errors.New("unexpected bulk update")
}

func (m *memoryRepository) BulkImport(ctx context.Context, seeds []dto.PlaceSeed) (dto.ImportCSVResult, error) {
	if m.bulkImportFn != nil {
		return m.bulkImportFn(seeds)
	}
	return dto.ImportCSVResult{}, errors.New("unexpected bulk import")
}

func clonePlace(p entity.Place) *entity.Place {
	c := p
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func containsStatus(statuses []entity.PlaceStatus, status entity.PlaceStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type stubSearcher struct {
	searchFn  func(ctx context.Context, req provider.SearchRequest) ([]provider.Candidate, error)
	detailsFn func(ctx context.Context, placeID string) (*provider.Candidate, error)
	photoFn   func(ctx context.Context, ref string) (string, error)
	calls     []provider.SearchRequest
}

func (s *stubSearcher) PhotoURL(ctx context.Context, ref string) (string, error) {
	if s.photoFn == nil {
		return "", provider.ErrNotFound
	}
	return s.photoFn(ctx, ref)
}

func (s *stubSearcher) Search(ctx context.Context, req provider.SearchRequest) ([]provider.Candidate, error) {
	s.calls = append(s.calls, req)
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, req)
}

func (s *stubSearcher) Details(ctx context.Context, placeID string) (*provider.Candidate, error) {
	if s.detailsFn == nil {
		return nil, provider.ErrNotFound
	}
	return s.detailsFn(ctx, placeID)
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func metroFilter() *geofence.Filter {
	return geofence.NewFilter(
		geofence.Bounds{North: 49.6, South: 48.9, East: -121.7, West: -123.4},
		"CA",
		[]string{"BC"},
		[]string{"indian", "punjabi", "restaurant", "sweets"},
	)
}

func newTestSync(repo repository.PlacesRepository, opts ...PlacesSyncOption) *PlacesSyncService {
	base := []PlacesSyncOption{
		WithFilter(metroFilter()),
		WithClock(func() time.Time { return fixedNow }),
		WithSearchTerms([]string{"Indian restaurant"}),
		WithCities([]string{"Surrey"}),
	}
	return NewPlacesSyncService(repo, append(base, opts...)...)
}

func strPtr(v string) *string {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func googleCandidate(id, name, address string, lat, lng float64) provider.Candidate {
	return provider.Candidate{
		Provider:       entity.ProviderGoogle,
		ExternalID:     id,
		Name:           name,
		Address:        address,
		City:           "Surrey",
		State:          "BC",
		Country:        "CA",
		Latitude:       floatPtr(lat),
		Longitude:      floatPtr(lng),
		Rating:         floatPtr(4.5),
		RatingCount:    120,
		Categories:     []string{"indian_restaurant", "restaurant"},
		BusinessStatus: provider.BusinessStatusOperational,
	}
}
