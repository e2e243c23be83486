package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/places-sync/internal/auth"
	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/handler"
	middlewarepkg "github.com/octobees/places-sync/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Places      *handler.PlacesHandler
	AdminUpload *handler.AdminUploadHandler
	Sync        *handler.SyncHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.GET("/places", handlers.Places.List)

	admin := e.Group("/admin", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleAdmin))
	admin.GET("/places", handlers.Places.ListAdmin)
	admin.GET("/places/export", handlers.Places.Export)
	admin.POST("/places/upload-csv", handlers.AdminUpload.UploadCSV)

	if handlers.Sync != nil {
		sync := admin.Group("/sync", middlewarepkg.SyncRateLimiter(cfg.RateLimitSync))
		sync.POST("/google", handlers.Sync.ImportGoogle)
		sync.POST("/yelp", handlers.Sync.ImportYelp)
		sync.POST("/match", handlers.Sync.Match)
		sync.POST("/reverify", handlers.Sync.Reverify)
		sync.POST("/inactivate", handlers.Sync.Inactivate)
	}
}
