// Package scoring ranks duplicate place records by how complete their data is.
package scoring

import "strings"

const (
	categoryMedia      = "media"
	categoryWebsite    = "website"
	categoryReputation = "reputation"
	categoryProvenance = "provenance"
)

const (
	imagePoints       = 3
	websitePoints     = 2
	ratingCountPoints = 1
	externalIDPoints  = 1
)

// PlaceFeatures captures the fields that make a place record worth keeping.
type PlaceFeatures struct {
	ID            string
	ImageURL      string
	Website       string
	RatingCount   int
	GooglePlaceID string
	YelpID        string
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// ComputeScore evaluates the provided features and returns the score breakdown.
func ComputeScore(input PlaceFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryMedia:      scoreMedia(input),
		categoryWebsite:    scoreWebsite(input),
		categoryReputation: scoreReputation(input),
		categoryProvenance: scoreProvenance(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

// Prefer reports whether a should survive a merge with b. Higher completeness wins, then the
// larger rating_count, then the lexicographically smaller id.
func Prefer(a, b PlaceFeatures) bool {
	sa, sb := ComputeScore(a).Total, ComputeScore(b).Total
	if sa != sb {
		return sa > sb
	}
	if a.RatingCount != b.RatingCount {
		return a.RatingCount > b.RatingCount
	}
	return a.ID < b.ID
}

func scoreMedia(input PlaceFeatures) int {
	if hasValue(input.ImageURL) {
		return imagePoints
	}
	return 0
}

func scoreWebsite(input PlaceFeatures) int {
	if hasValue(input.Website) {
		return websitePoints
	}
	return 0
}

func scoreReputation(input PlaceFeatures) int {
	if input.RatingCount > 0 {
		return ratingCountPoints
	}
	return 0
}

func scoreProvenance(input PlaceFeatures) int {
	score := 0
	if hasValue(input.GooglePlaceID) {
		score += externalIDPoints
	}
	if hasValue(input.YelpID) {
		score += externalIDPoints
	}
	return score
}

func hasValue(value string) bool {
	return strings.TrimSpace(value) != ""
}
