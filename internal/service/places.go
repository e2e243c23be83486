package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/repository"
	"github.com/octobees/places-sync/internal/service/classify"
)

const exportPageSize = 100

// PlacesService exposes the directory read side and the admin CSV upload.
type PlacesService struct {
	repo       repository.PlacesRepository
	classifier *classify.Classifier
	contacts   *ContactNormalizer
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// NewPlacesService creates a new instance of PlacesService.
func NewPlacesService(repo repository.PlacesRepository, contacts *ContactNormalizer) *PlacesService {
	if contacts == nil {
		contacts = NewContactNormalizer(defaultPhoneRegion)
	}
	return &PlacesService{repo: repo, classifier: classify.NewClassifier(), contacts: contacts}
}

// ListPlaces returns active places only. Merged, pending and inactive records never reach
// end users.
func (s *PlacesService) ListPlaces(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error) {
	filter.Statuses = []entity.PlaceStatus{entity.StatusActive}
	return s.repo.List(ctx, normalizePaging(filter))
}

// ListAdminPlaces returns places in any non-merged state unless the filter narrows it.
func (s *PlacesService) ListAdminPlaces(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error) {
	statuses := filter.Statuses[:0:0]
	for _, status := range filter.Statuses {
		if status != entity.StatusMerged {
			statuses = append(statuses, status)
		}
	}
	filter.Statuses = statuses
	return s.repo.List(ctx, normalizePaging(filter))
}

func normalizePaging(filter dto.PlaceListFilter) dto.PlaceListFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return filter
}

// ImportPlacesCSV seeds pending places from an uploaded CSV. The matcher picks them up later.
func (s *PlacesService) ImportPlacesCSV(ctx context.Context, r io.Reader) (dto.ImportCSVResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dto.ImportCSVResult{}, CSVValidationError{Message: "csv file is empty"}
		}
		return dto.ImportCSVResult{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return dto.ImportCSVResult{}, valErr
	}

	var (
		seeds  []dto.PlaceSeed
		rowNum = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.ImportCSVResult{}, fmt.Errorf("read csv row: %w", err)
		}
		rowNum++

		name := column(row, indexMap, "name")
		address := column(row, indexMap, "address")
		city := column(row, indexMap, "city")
		if name == "" || address == "" {
			continue
		}
		if city == "" {
			return dto.ImportCSVResult{}, CSVValidationError{Message: fmt.Sprintf("missing city on row %d", rowNum)}
		}

		category := entity.ParseCategory(column(row, indexMap, "category"))
		if category == entity.CategoryOther {
			category = s.classifier.Classify(name, nil)
		}
		seeds = append(seeds, dto.PlaceSeed{
			Name:     name,
			Address:  address,
			City:     city,
			Country:  optional(column(row, indexMap, "country")),
			Category: category,
			Phone:    optional(s.contacts.Phone(column(row, indexMap, "phone"))),
			Website:  optional(s.contacts.Website(column(row, indexMap, "website"))),
		})
	}

	return s.repo.BulkImport(ctx, seeds)
}

var exportHeader = []string{
	"id", "name", "category", "address", "city", "country", "latitude", "longitude",
	"phone", "website_url", "google_place_id", "yelp_id", "rating", "rating_count",
	"business_status", "last_verified_at",
}

// ExportActiveCSV streams every active place to w.
func (s *PlacesService) ExportActiveCSV(ctx context.Context, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for page := 1; ; page++ {
		places, err := s.repo.List(ctx, dto.PlaceListFilter{
			Statuses: []entity.PlaceStatus{entity.StatusActive},
			Page:     page,
			PerPage:  exportPageSize,
		})
		if err != nil {
			return err
		}
		for i := range places {
			if err := writer.Write(exportRow(&places[i])); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		if len(places) < exportPageSize {
			break
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportRow(p *entity.Place) []string {
	verified := ""
	if p.LastVerifiedAt != nil {
		verified = p.LastVerifiedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		p.ID.String(),
		p.Name,
		string(p.Category),
		deref(p.Address),
		deref(p.City),
		deref(p.Country),
		formatFloat(p.Latitude),
		formatFloat(p.Longitude),
		deref(p.Phone),
		deref(p.Website),
		deref(p.GooglePlaceID),
		deref(p.YelpID),
		formatFloat(p.Rating),
		strconv.Itoa(p.RatingCount),
		deref(p.BusinessStatus),
		verified,
	}
}

var requiredCSVHeaders = []string{"name", "address", "city"}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
