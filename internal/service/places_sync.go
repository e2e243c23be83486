package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/repository"
	"github.com/octobees/places-sync/internal/service/classify"
	"github.com/octobees/places-sync/internal/service/geofence"
	"github.com/octobees/places-sync/internal/service/similarity"
)

// Searcher runs provider text searches.
type Searcher interface {
	Search(ctx context.Context, req provider.SearchRequest) ([]provider.Candidate, error)
}

// GoogleProvider is the primary source of truth: it searches and re-fetches single places.
type GoogleProvider interface {
	Searcher
	Details(ctx context.Context, placeID string) (*provider.Candidate, error)
}

const (
	defaultBatchLimit      = 50
	defaultRetentionWindow = 14 * 24 * time.Hour
	defaultCandidateRadius = 500.0
	defaultCandidateLimit  = 25
)

// PlacesSyncService runs the ingestion pipeline: importers, matcher and lifecycle sweeps.
// Every run is sequential and holds a named lease for its whole duration.
type PlacesSyncService struct {
	repo       repository.PlacesRepository
	google     GoogleProvider
	yelp       Searcher
	filter     *geofence.Filter
	scorer     *similarity.Scorer
	classifier *classify.Classifier
	contacts   *ContactNormalizer
	locker     RunLocker
	now        func() time.Time

	threshold       float64
	batchLimit      int
	retention       time.Duration
	candidateRadius float64
	searchTerms     []string
	cities          []string
	viewport        *provider.Viewport
	regionSuffix    string
}

// PlacesSyncOption configures optional dependencies.
type PlacesSyncOption func(*PlacesSyncService)

// WithGoogle enables the Google provider.
func WithGoogle(client GoogleProvider) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		s.google = client
	}
}

// WithYelp enables the Yelp provider.
func WithYelp(client Searcher) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		s.yelp = client
	}
}

// WithFilter sets the geofence. Its bounds also bias provider searches.
func WithFilter(filter *geofence.Filter) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if filter == nil {
			return
		}
		s.filter = filter
		b := filter.Bounds
		s.viewport = &provider.Viewport{North: b.North, South: b.South, East: b.East, West: b.West}
		var parts []string
		if len(filter.States) > 0 {
			parts = append(parts, filter.States[0])
		}
		if filter.Country != "" {
			parts = append(parts, filter.Country)
		}
		s.regionSuffix = strings.Join(parts, ", ")
	}
}

// WithScorer overrides the similarity scorer.
func WithScorer(scorer *similarity.Scorer) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithClassifier overrides the category classifier.
func WithClassifier(classifier *classify.Classifier) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if classifier != nil {
			s.classifier = classifier
		}
	}
}

// WithRunLocker overrides the run lease implementation.
func WithRunLocker(locker RunLocker) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThreshold sets the minimum similarity score for a match.
func WithThreshold(threshold float64) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithBatchLimit sets the default matcher batch size.
func WithBatchLimit(limit int) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if limit > 0 {
			s.batchLimit = limit
		}
	}
}

// WithRetentionWindow sets how long an unmatched place may go unverified.
func WithRetentionWindow(window time.Duration) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		if window > 0 {
			s.retention = window
		}
	}
}

// WithSearchTerms sets the importer search terms.
func WithSearchTerms(terms []string) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		s.searchTerms = append([]string(nil), terms...)
	}
}

// WithCities sets the default importer cities.
func WithCities(cities []string) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		s.cities = append([]string(nil), cities...)
	}
}

// WithPhoneRegion sets the region used to parse national phone numbers.
func WithPhoneRegion(region string) PlacesSyncOption {
	return func(s *PlacesSyncService) {
		s.contacts = NewContactNormalizer(region)
	}
}

// NewPlacesSyncService builds the pipeline. Providers are optional; a missing Google provider
// is reported as a configuration error by each run that needs it.
func NewPlacesSyncService(repo repository.PlacesRepository, opts ...PlacesSyncOption) *PlacesSyncService {
	s := &PlacesSyncService{
		repo:            repo,
		scorer:          similarity.NewScorer(),
		classifier:      classify.NewClassifier(),
		contacts:        NewContactNormalizer(defaultPhoneRegion),
		locker:          NewLocalRunLocker(),
		now:             time.Now,
		threshold:       similarity.DefaultThreshold,
		batchLimit:      defaultBatchLimit,
		retention:       defaultRetentionWindow,
		candidateRadius: defaultCandidateRadius,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PlacesSyncService) location(city string) string {
	city = strings.TrimSpace(city)
	switch {
	case city == "":
		return s.regionSuffix
	case s.regionSuffix == "":
		return city
	default:
		return city + ", " + s.regionSuffix
	}
}

func (s *PlacesSyncService) inArea(c provider.Candidate) bool {
	if s.filter == nil {
		return true
	}
	return s.filter.InArea(geofenceResult(c))
}

func (s *PlacesSyncService) accepts(c provider.Candidate) geofence.Reason {
	if s.filter == nil {
		return geofence.Accepted
	}
	return s.filter.Check(geofenceResult(c))
}

// bestCandidate returns the highest scoring candidate at or above the threshold. Ties keep the
// first one seen.
func (s *PlacesSyncService) bestCandidate(place *entity.Place, candidates []provider.Candidate) (*provider.Candidate, float64) {
	var (
		best      *provider.Candidate
		bestScore float64
	)
	local := placeForScoring(place)
	for i := range candidates {
		c := &candidates[i]
		if c.ExternalID == "" || !s.inArea(*c) {
			continue
		}
		score := s.scorer.Score(local, candidateForScoring(*c))
		if score < s.threshold {
			continue
		}
		if best == nil || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

func geofenceResult(c provider.Candidate) geofence.Result {
	return geofence.Result{
		Name:       c.Name,
		Categories: c.Categories,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		Country:    c.Country,
		State:      c.State,
	}
}

// resolvePhoto turns c.PhotoRef into c.ImageURL when p still needs an image and the provider
// can resolve references. A failed lookup only costs the image.
func (s *PlacesSyncService) resolvePhoto(ctx context.Context, searcher Searcher, p *entity.Place, c *provider.Candidate) {
	if p.ImageURL != nil || c.ImageURL != "" || c.PhotoRef == "" {
		return
	}
	resolver, ok := searcher.(provider.PhotoResolver)
	if !ok {
		return
	}
	url, err := resolver.PhotoURL(ctx, c.PhotoRef)
	if err != nil {
		log.Printf("sync=photo provider=%s external_id=%s err=%v", c.Provider, c.ExternalID, err)
		return
	}
	c.ImageURL = url
}

func placeForScoring(p *entity.Place) similarity.Candidate {
	return similarity.Candidate{
		Name:      p.Name,
		Address:   deref(p.Address),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

func candidateForScoring(c provider.Candidate) similarity.Candidate {
	return similarity.Candidate{
		Name:      c.Name,
		Address:   c.Address,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func errorList() []string {
	return []string{}
}
