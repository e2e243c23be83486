// Package bootstrap wires configuration, storage and providers into the services shared by the
// API server and the operator CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/places-sync/internal/auth"
	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/database"
	"github.com/octobees/places-sync/internal/provider"
	"github.com/octobees/places-sync/internal/provider/google"
	"github.com/octobees/places-sync/internal/provider/yelp"
	"github.com/octobees/places-sync/internal/repository"
	"github.com/octobees/places-sync/internal/service"
	"github.com/octobees/places-sync/internal/service/geofence"
	"github.com/octobees/places-sync/internal/service/similarity"
)

// App holds the wired services.
type App struct {
	Config *config.Config
	Pool   *pgxpool.Pool
	JWT    *auth.JWTManager
	Places *service.PlacesService
	Sync   *service.PlacesSyncService
}

// New connects to Postgres and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	repo := repository.NewPGXPlacesRepository(pool)
	locker := service.ChainRunLocker{
		service.NewLocalRunLocker(),
		service.NewAdvisoryRunLocker(repository.NewAdvisoryLocker(pool)),
	}
	syncService, err := NewSyncService(ctx, cfg, repo, locker)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Pool:   pool,
		JWT:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Places: service.NewPlacesService(repo, service.NewContactNormalizer(cfg.PhoneRegion)),
		Sync:   syncService,
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	if a != nil && a.Pool != nil {
		a.Pool.Close()
	}
}

// NewSyncService builds the pipeline from configuration. Providers without an API key are left
// out; the runs that need them report it.
func NewSyncService(ctx context.Context, cfg *config.Config, repo repository.PlacesRepository, locker service.RunLocker) (*service.PlacesSyncService, error) {
	opts := []service.PlacesSyncOption{
		service.WithRunLocker(locker),
		service.WithThreshold(cfg.MatchThreshold),
		service.WithBatchLimit(cfg.MatchBatchLimit),
		service.WithRetentionWindow(cfg.RetentionWindow),
		service.WithCities(cfg.Cities),
		service.WithPhoneRegion(cfg.PhoneRegion),
		service.WithScorer(similarity.NewScorer()),
	}

	if region := cfg.Region; region != nil {
		b := region.Bounds
		opts = append(opts,
			service.WithFilter(geofence.NewFilter(
				geofence.Bounds{North: b.North, South: b.South, East: b.East, West: b.West},
				region.Country, region.States, region.Keywords,
			)),
			service.WithSearchTerms(region.SearchTerms),
		)
	}

	googleClient, err := newGoogleClient(ctx, cfg)
	switch {
	case errors.Is(err, provider.ErrMissingAPIKey):
		log.Printf("provider=google enabled=false reason=%q", "GOOGLE_PLACES_API_KEY not set")
	case err != nil:
		return nil, fmt.Errorf("create google places client: %w", err)
	default:
		opts = append(opts, service.WithGoogle(googleClient))
	}

	yelpClient := yelp.NewClient(cfg.YelpAPIKey,
		yelp.WithHTTPClient(&http.Client{Timeout: cfg.ProviderTimeout}),
		yelp.WithLimiter(provider.NewLimiter(cfg.YelpRateLimit)),
	)
	if yelpClient.Enabled() {
		opts = append(opts, service.WithYelp(yelpClient))
	} else {
		log.Printf("provider=yelp enabled=false reason=%q", "YELP_API_KEY not set")
	}

	return service.NewPlacesSyncService(repo, opts...), nil
}

func newGoogleClient(ctx context.Context, cfg *config.Config) (*google.Client, error) {
	opts := []google.Option{
		google.WithLimiter(provider.NewLimiter(cfg.GoogleRateLimit)),
		google.WithTimeout(cfg.ProviderTimeout),
	}
	if cfg.Region != nil && cfg.Region.Country != "" {
		opts = append(opts, google.WithRegionCode(cfg.Region.Country))
	}
	return google.NewClient(ctx, cfg.GoogleAPIKey, opts...)
}
