// Package similarity scores how likely two place records describe the same business.
//
// A score combines name similarity, address similarity and geographic proximity into a
// single value in [0,1]. Scores are symmetric and never increase as the distance between
// two records grows.
package similarity

import "math"

const (
	// DefaultThreshold is the minimum score treated as a confident match.
	DefaultThreshold = 0.85

	DefaultNearRadiusMeters = 50.0
	DefaultFarRadiusMeters  = 500.0
)

// Weights sets how much each signal contributes to the final score. Each set should sum to 1.
type Weights struct {
	Name      float64
	Address   float64
	Proximity float64
}

var (
	// DefaultWeights apply when both records carry coordinates.
	DefaultWeights = Weights{Name: 0.45, Address: 0.20, Proximity: 0.35}
	// DefaultFallbackWeights apply when either record lacks coordinates.
	DefaultFallbackWeights = Weights{Name: 0.65, Address: 0.35}
)

// Config tunes a Scorer. Zero fields take the package defaults.
type Config struct {
	Weights          Weights
	Fallback         Weights
	NearRadiusMeters float64
	FarRadiusMeters  float64
}

// Candidate is the subset of a place record the scorer looks at.
type Candidate struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

func (c Candidate) hasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Breakdown explains how a score was assembled.
type Breakdown struct {
	Name           float64 `json:"name"`
	Address        float64 `json:"address"`
	Proximity      float64 `json:"proximity"`
	DistanceMeters float64 `json:"distance_meters"`
	HasAddress     bool    `json:"has_address"`
	HasDistance    bool    `json:"has_distance"`
	Total          float64 `json:"total"`
}

// Scorer computes similarity scores. The zero value is not usable; call NewScorer.
type Scorer struct {
	cfg Config
}

// NewScorer returns a scorer using the default weights and distance bands.
func NewScorer() *Scorer {
	return NewScorerWithConfig(Config{})
}

// NewScorerWithConfig returns a scorer with cfg, filling unset fields with defaults.
func NewScorerWithConfig(cfg Config) *Scorer {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if cfg.Fallback == (Weights{}) {
		cfg.Fallback = DefaultFallbackWeights
	}
	if cfg.NearRadiusMeters <= 0 {
		cfg.NearRadiusMeters = DefaultNearRadiusMeters
	}
	if cfg.FarRadiusMeters <= 0 {
		cfg.FarRadiusMeters = DefaultFarRadiusMeters
	}
	if cfg.FarRadiusMeters <= cfg.NearRadiusMeters {
		cfg.FarRadiusMeters = cfg.NearRadiusMeters * 10
	}
	return &Scorer{cfg: cfg}
}

// Score returns the similarity of a and b in [0,1].
func (s *Scorer) Score(a, b Candidate) float64 {
	return s.Explain(a, b).Total
}

// Explain returns the per-signal breakdown behind Score.
//
// When neither record has an address, or both have coordinates, a missing address moves its
// weight onto the name signal. An address known on one side only, with nothing to locate the
// other, counts as zero.
func (s *Scorer) Explain(a, b Candidate) Breakdown {
	var bd Breakdown

	bd.Name = TextSimilarity(Normalize(a.Name), Normalize(b.Name))

	addrA, addrB := NormalizeAddress(a.Address), NormalizeAddress(b.Address)
	if addrA != "" && addrB != "" {
		bd.HasAddress = true
		bd.Address = TextSimilarity(addrA, addrB)
	}

	weights := s.cfg.Fallback
	if a.hasCoordinates() && b.hasCoordinates() {
		weights = s.cfg.Weights
		bd.HasDistance = true
		bd.DistanceMeters = DistanceMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		bd.Proximity = s.proximity(bd.DistanceMeters)
	}

	total := weights.Name * bd.Name
	switch {
	case bd.HasAddress:
		total += weights.Address * bd.Address
	case bd.HasDistance, addrA == "" && addrB == "":
		total += weights.Address * bd.Name
	}
	if bd.HasDistance {
		total += weights.Proximity * bd.Proximity
	}

	bd.Total = clamp(total)
	return bd
}

// proximity is 1 inside the near radius, 0 beyond the far radius and linear in between.
func (s *Scorer) proximity(meters float64) float64 {
	near, far := s.cfg.NearRadiusMeters, s.cfg.FarRadiusMeters
	switch {
	case meters <= near:
		return 1
	case meters >= far:
		return 0
	default:
		return 1 - (meters-near)/(far-near)
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
