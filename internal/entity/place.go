package entity

import (
	"time"

	"github.com/google/uuid"
)

// PlaceStatus is the lifecycle state of a place record.
type PlaceStatus string

const (
	StatusActive   PlaceStatus = "active"
	StatusInactive PlaceStatus = "inactive"
	StatusPending  PlaceStatus = "pending"
	// StatusMerged marks a tombstone superseded by another place. Never surfaced to end users.
	StatusMerged PlaceStatus = "merged"
)

// Valid reports whether s is one of the known statuses.
func (s PlaceStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusMerged:
		return true
	}
	return false
}

// Category is the closed taxonomy used to group places.
type Category string

const (
	CategoryRestaurant  Category = "restaurant"
	CategoryCafeDessert Category = "cafe_dessert"
	CategoryGrocery     Category = "grocery"
	CategoryClothing    Category = "clothing"
	CategoryBeautySalon Category = "beauty_salon"
	CategoryTemple      Category = "temple"
	CategoryGurdwara    Category = "gurdwara"
	CategoryMosque      Category = "mosque"
	CategoryOther       Category = "other"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryCafeDessert,
	CategoryGrocery,
	CategoryClothing,
	CategoryBeautySalon,
	CategoryTemple,
	CategoryGurdwara,
	CategoryMosque,
	CategoryOther,
}

// ParseCategory maps free text onto the taxonomy, falling back to other.
func ParseCategory(value string) Category {
	for _, c := range Categories {
		if string(c) == value {
			return c
		}
	}
	return CategoryOther
}

// Provider identifies an external place directory.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderYelp   Provider = "yelp"
)

// Place is the canonical directory record.
type Place struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Category       Category    `json:"category"`
	Tags           []string    `json:"tags"`
	Address        *string     `json:"address,omitempty"`
	City           *string     `json:"city,omitempty"`
	Country        *string     `json:"country,omitempty"`
	Neighborhood   *string     `json:"neighborhood,omitempty"`
	Latitude       *float64    `json:"latitude,omitempty"`
	Longitude      *float64    `json:"longitude,omitempty"`
	Phone          *string     `json:"phone,omitempty"`
	Website        *string     `json:"website_url,omitempty"`
	GooglePlaceID  *string     `json:"google_place_id,omitempty"`
	YelpID         *string     `json:"yelp_id,omitempty"`
	Rating         *float64    `json:"rating,omitempty"`
	RatingCount    int         `json:"rating_count"`
	ImageURL       *string     `json:"image_url,omitempty"`
	PhotoSource    *string     `json:"photo_source,omitempty"`
	BusinessStatus *string     `json:"business_status,omitempty"`
	Status         PlaceStatus `json:"status"`
	MergedInto     *uuid.UUID  `json:"merged_into,omitempty"`
	LastVerifiedAt *time.Time  `json:"last_verified_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ExternalID returns the identifier the place holds for provider, if any.
func (p *Place) ExternalID(provider Provider) *string {
	switch provider {
	case ProviderGoogle:
		return p.GooglePlaceID
	case ProviderYelp:
		return p.YelpID
	}
	return nil
}

// SetExternalID attaches an identifier for provider.
func (p *Place) SetExternalID(provider Provider, id string) {
	value := id
	switch provider {
	case ProviderGoogle:
		p.GooglePlaceID = &value
	case ProviderYelp:
		p.YelpID = &value
	}
}

// HasCoordinates reports whether the place has been geocoded.
func (p *Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
