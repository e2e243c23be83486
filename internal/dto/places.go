package dto

import "github.com/octobees/places-sync/internal/entity"

// PlaceListFilter contains query parameters for place listing endpoints.
type PlaceListFilter struct {
	Q         string
	Category  string
	City      string
	MinRating *float64
	// Statuses limits the result to the given lifecycle states. Empty means every status
	// except merged.
	Statuses []entity.PlaceStatus
	Page     int
	PerPage  int
	// Limit disables pagination when positive.
	Limit int
}

// PlaceSeed is one row of an admin CSV upload.
type PlaceSeed struct {
	Name     string
	Address  string
	City     string
	Country  *string
	Category entity.Category
	Phone    *string
	Website  *string
}

// ImportCSVResult summarises a CSV upload.
type ImportCSVResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}
