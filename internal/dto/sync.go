package dto

// ImportSummary reports the outcome of importing provider search results.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// MatchSummary reports a matcher pass. Errors are keyed by place name and provider.
type MatchSummary struct {
	Matched  int      `json:"matched"`
	Enriched int      `json:"enriched"`
	Merged   int      `json:"merged"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// VerifySummary reports a re-verification sweep.
type VerifySummary struct {
	Verified    int      `json:"verified"`
	Deactivated int      `json:"deactivated"`
	Errors      []string `json:"errors"`
}

// DeactivateSummary reports the retention sweep.
type DeactivateSummary struct {
	Deactivated int      `json:"deactivated"`
	Errors      []string `json:"errors"`
}

// SyncRequest is the optional body of the admin import and match triggers.
type SyncRequest struct {
	Cities []string `json:"cities"`
	Limit  int      `json:"limit"`
}
