// Development stand-in for the maintenance portal's usage API:
//
//GET  /health                   # Liveness (public)
//GET  /aircraft/{serial}/usage  # List rows (auth)
//POST /aircraft/{serial}/usage  # Create row (auth)
//PUT  /aircraft/usage/{id}      # Update row, optimistic concurrency (auth)

package api

import (
	healthAPI "fleetlog/internal/app/server/api/http/health"
	"fleetlog/internal/app/server/api/http/middleware"
	"fleetlog/internal/app/server/api/http/middleware/auth"
	"fleetlog/internal/app/server/api/http/middleware/logger"
	usageAPI "fleetlog/internal/app/server/api/http/usage"
	"fleetlog/internal/app/server/config"
	"fleetlog/internal/domain/usage"
	"fleetlog/internal/infrastructure/storage/sqlite"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Usage  *usageAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(cfg *config.Config, storage *sqlite.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Fleetlog Stub API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, storage, log)
	h.Health.SetupRoutes(API)
	h.Usage.SetupRoutes(API)

	return mux
}

func handlers(cfg *config.Config, storage *sqlite.Storage, log *slog.Logger) *Handlers {
	authMW := auth.New(cfg.Server.Token, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	usageRepo := sqlite.NewUsageRepository(storage, log)
	usageService := usage.NewService(usageRepo, usage.CheckInterval{
		Hours: cfg.Check.Hours,
		Days:  cfg.Check.Days,
	}, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	usageHandler := usageAPI.NewHandler(usageService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Usage:  usageHandler,
	}
}
