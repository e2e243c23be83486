package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/places-sync/internal/auth"
	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/handler"
)

type noopSyncer struct{}

func (noopSyncer) ImportFromGoogle(ctx context.Context, cities []string) (dto.ImportSummary, error) {
	return dto.ImportSummary{Errors: []string{}}, nil
}

func (noopSyncer) ImportFromYelp(ctx context.Context, cities []string) (dto.ImportSummary, error) {
	return dto.ImportSummary{Errors: []string{}}, nil
}

func (noopSyncer) MatchAndEnrichPlaces(ctx context.Context, limit int) (dto.MatchSummary, error) {
	return dto.MatchSummary{}, nil
}

func (noopSyncer) ReverifyAllPlaces(ctx context.Context) (dto.VerifySummary, error) {
	return dto.VerifySummary{}, nil
}

func (noopSyncer) InactivateUnmatchedPlaces(ctx context.Context) (dto.DeactivateSummary, error) {
	return dto.DeactivateSummary{}, nil
}

func TestRegister_SyncRoutesRequireAdminToken(t *testing.T) {
	e := echo.New()
	manager := auth.NewJWTManager("secret", time.Hour)
	cfg := &config.Config{RateLimitSync: config.RateLimitConfig{Requests: 1, Interval: time.Minute}}
	Register(e, cfg, manager, Handlers{Sync: handler.NewSyncHandler(noopSyncer{})})

	serve := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/sync/match", nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve(""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	viewer, err := manager.GenerateToken("viewer", "viewer")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if code := serve(viewer); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}

	admin, err := manager.GenerateToken("ops", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if code := serve(admin); code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", code)
	}
	if code := serve(admin); code != http.StatusTooManyRequests {
		t.Fatalf("expected second trigger to be rate limited, got %d", code)
	}
}
