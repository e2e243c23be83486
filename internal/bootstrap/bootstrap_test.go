package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	region, err := config.LoadRegion("")
	if err != nil {
		t.Fatalf("load region: %v", err)
	}
	return &config.Config{
		MatchThreshold:  0.85,
		MatchBatchLimit: 10,
		RetentionWindow: 24 * time.Hour,
		ProviderTimeout: time.Second,
		PhoneRegion:     "CA",
		Cities:          []string{"Surrey"},
		Region:          region,
	}
}

func TestNewSyncService_WithoutKeys(t *testing.T) {
	svc, err := NewSyncService(context.Background(), testConfig(t), nil, service.NewLocalRunLocker())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.ImportFromGoogle(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("expected missing google key to be reported, got %v", summary.Errors)
	}

	yelpSummary, err := svc.ImportFromYelp(context.Background(), nil)
	if err != nil || len(yelpSummary.Errors) != 0 {
		t.Fatalf("expected yelp to be silently disabled, got %+v err=%v", yelpSummary, err)
	}
}

func TestNewSyncService_WithGoogleKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.GoogleAPIKey = "test-key"
	if _, err := NewSyncService(context.Background(), cfg, nil, service.NewLocalRunLocker()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
