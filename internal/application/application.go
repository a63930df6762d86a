package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/eugenenazirov/example-backend/internal/api"
	"github.com/eugenenazirov/example-backend/internal/config"
	"github.com/eugenenazirov/example-backend/internal/docs"
	"github.com/eugenenazirov/example-backend/internal/settings"
	"github.com/eugenenazirov/example-backend/internal/storage"
	"github.com/eugenenazirov/example-backend/internal/tags"
)

// Title is the API title shown in the generated documentation.
const Title = "Example Backend"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	settings settings.AppSettings
	registry *tags.Registry
	document *openapi3.T
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	appSettings := LoadSettings(cfg, logger)

	registry := tags.Catalog()
	if err := registry.CheckGrouping(tags.Separator); err != nil {
		logger.Warn("tag catalog has split groups", zap.Error(err))
	}

	handler := api.NewHandler(api.Dependencies{
		Customers: storage.NewCustomerStore(),
		Products:  storage.NewProductStore(),
		Orders:    storage.NewOrderStore(),
	}, api.WithHandlerLogger(logger))

	doc, err := BuildDocument(context.Background(), appSettings.Project.Version, registry, handler)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI document: %w", err)
	}
	docsHandler, err := docs.NewHandler(doc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to render OpenAPI document: %w", err)
	}

	metrics := api.NewMetrics()
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithMetrics(metrics),
		api.WithValidation(doc),
		api.WithRoutes(AuxiliaryRoutes(docsHandler, metrics.Handler())),
	)

	logger.Info("application configured",
		zap.String("version", appSettings.Project.Version),
		zap.String("version_source", string(appSettings.VersionSource())),
		zap.String("environment", appSettings.Environment),
		zap.Int("tags", registry.Len()),
	)

	return &App{
		settings: appSettings,
		registry: registry,
		document: doc,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, apiRouter),
	}, nil
}

// LoadSettings resolves the application settings for cfg.
func LoadSettings(cfg config.Config, logger *zap.Logger) settings.AppSettings {
	opts := append(cfg.SettingsOptions(), settings.WithLogger(logger))
	return settings.Load(opts...)
}

// BuildDocument renders the OpenAPI document for the handler's operations.
func BuildDocument(ctx context.Context, version string, registry *tags.Registry, handler *api.Handler) (*openapi3.T, error) {
	builder := docs.NewBuilder(docs.Info{Title: Title, Version: version}, registry)
	for _, op := range handler.Operations() {
		if err := builder.Add(op); err != nil {
			return nil, err
		}
	}
	return builder.Build(ctx)
}

// AuxiliaryRoutes registers the documentation pages, a redirect from the root
// to Swagger UI, and the metrics endpoint. Nil handlers are skipped.
func AuxiliaryRoutes(docsHandler *docs.Handler, metricsHandler http.Handler) func(*http.ServeMux) {
	return func(mux *http.ServeMux) {
		if docsHandler != nil {
			docsHandler.Register(mux)
			mux.Handle("GET /{$}", http.RedirectHandler(docs.SwaggerPath, http.StatusFound))
		}
		if metricsHandler != nil {
			mux.Handle("GET /metrics", metricsHandler)
		}
	}
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Settings returns the settings resolved at startup.
func (a *App) Settings() settings.AppSettings {
	return a.settings
}

// Registry returns the tag registry used for the documentation.
func (a *App) Registry() *tags.Registry {
	return a.registry
}
