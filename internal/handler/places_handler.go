package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/service"
)

// PlacesHandler exposes the place directory endpoints.
type PlacesHandler struct {
	service *service.PlacesService
}

// NewPlacesHandler creates a new handler instance.
func NewPlacesHandler(service *service.PlacesService) *PlacesHandler {
	return &PlacesHandler{service: service}
}

// List handles GET /places requests. Only active places are returned.
func (h *PlacesHandler) List(c echo.Context) error {
	filter, err := parseListFilter(c, false)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}
	places, err := h.service.ListPlaces(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list places")
	}
	return Success(c, http.StatusOK, "places retrieved", places)
}

// ListAdmin handles GET /admin/places requests.
func (h *PlacesHandler) ListAdmin(c echo.Context) error {
	filter, err := parseListFilter(c, true)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}
	places, err := h.service.ListAdminPlaces(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list places")
	}
	return Success(c, http.StatusOK, "places retrieved", places)
}

// Export handles GET /admin/places/export requests.
func (h *PlacesHandler) Export(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="places.csv"`)
	res.WriteHeader(http.StatusOK)
	return h.service.ExportActiveCSV(c.Request().Context(), res)
}

func parseListFilter(c echo.Context, withStatus bool) (dto.PlaceListFilter, error) {
	filter := dto.PlaceListFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		City:    strings.TrimSpace(c.QueryParam("city")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		parsed := entity.ParseCategory(category)
		if parsed == entity.CategoryOther && !strings.EqualFold(category, string(entity.CategoryOther)) {
			return filter, fmt.Errorf("invalid category")
		}
		filter.Category = string(parsed)
	}

	if minRatingStr := strings.TrimSpace(c.QueryParam("min_rating")); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil {
			filter.MinRating = &minRating
		}
	}

	if withStatus {
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				status := entity.PlaceStatus(strings.ToLower(strings.TrimSpace(part)))
				if !status.Valid() {
					return filter, fmt.Errorf("invalid status %q", part)
				}
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	return filter, nil
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
