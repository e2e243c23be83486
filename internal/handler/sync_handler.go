package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/service"
)

// PlacesSyncer is implemented by service.PlacesSyncService.
type PlacesSyncer interface {
	ImportFromGoogle(ctx context.Context, cities []string) (dto.ImportSummary, error)
	ImportFromYelp(ctx context.Context, cities []string) (dto.ImportSummary, error)
	MatchAndEnrichPlaces(ctx context.Context, limit int) (dto.MatchSummary, error)
	ReverifyAllPlaces(ctx context.Context) (dto.VerifySummary, error)
	InactivateUnmatchedPlaces(ctx context.Context) (dto.DeactivateSummary, error)
}

// SyncHandler triggers pipeline runs on demand. Runs are synchronous; the response carries
// the run summary.
type SyncHandler struct {
	syncer PlacesSyncer
}

// NewSyncHandler creates a handler backed by syncer.
func NewSyncHandler(syncer PlacesSyncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// ImportGoogle handles POST /admin/sync/google.
func (h *SyncHandler) ImportGoogle(c echo.Context) error {
	req, err := bindSyncRequest(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}
	summary, err := h.syncer.ImportFromGoogle(c.Request().Context(), req.Cities)
	return respondRun(c, "google import", summary, err)
}

// ImportYelp handles POST /admin/sync/yelp.
func (h *SyncHandler) ImportYelp(c echo.Context) error {
	req, err := bindSyncRequest(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}
	summary, err := h.syncer.ImportFromYelp(c.Request().Context(), req.Cities)
	return respondRun(c, "yelp import", summary, err)
}

// Match handles POST /admin/sync/match.
func (h *SyncHandler) Match(c echo.Context) error {
	req, err := bindSyncRequest(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}
	if req.Limit < 0 {
		return Error(c, http.StatusBadRequest, "limit must be positive")
	}
	summary, err := h.syncer.MatchAndEnrichPlaces(c.Request().Context(), req.Limit)
	return respondRun(c, "match", summary, err)
}

// Reverify handles POST /admin/sync/reverify.
func (h *SyncHandler) Reverify(c echo.Context) error {
	summary, err := h.syncer.ReverifyAllPlaces(c.Request().Context())
	return respondRun(c, "reverify", summary, err)
}

// Inactivate handles POST /admin/sync/inactivate.
func (h *SyncHandler) Inactivate(c echo.Context) error {
	summary, err := h.syncer.InactivateUnmatchedPlaces(c.Request().Context())
	return respondRun(c, "inactivate", summary, err)
}

func bindSyncRequest(c echo.Context) (dto.SyncRequest, error) {
	var req dto.SyncRequest
	if c.Request().ContentLength == 0 {
		return req, nil
	}
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	cities := req.Cities[:0]
	for _, city := range req.Cities {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}
	req.Cities = cities
	return req, nil
}

func respondRun(c echo.Context, name string, summary any, err error) error {
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		return Error(c, http.StatusConflict, name+" already running")
	case err != nil:
		log.Printf("sync handler run=%q error=%v", name, err)
		return Error(c, http.StatusInternalServerError, name+" failed")
	}
	return Success(c, http.StatusOK, name+" completed", summary)
}
