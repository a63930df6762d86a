package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/example-backend/internal/application"
	"github.com/eugenenazirov/example-backend/internal/config"
	"github.com/eugenenazirov/example-backend/internal/logging"
	"github.com/eugenenazirov/example-backend/internal/tags"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("example-backend", "Example Backend - sample API illustrating OpenAPI documentation conventions")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	corsOrigins := kingpinApp.Flag("cors-origins", "Comma-separated allowed CORS origins").String()
	projectFile := kingpinApp.Flag("project-file", "Path to the project descriptor (project.toml)").String()
	secretsDir := kingpinApp.Flag("secrets-dir", "Directory holding secret files named after settings").String()
	version := kingpinApp.Flag("app-version", "Explicit application version, overrides every other source").String()
	environment := kingpinApp.Flag("environment", "Explicit deployment environment").String()

	serveCmd := kingpinApp.Command("serve", "Start the HTTP server").Default()
	tagsCmd := kingpinApp.Command("tags", "Print the ordered tag catalog")
	tagsNamesOnly := tagsCmd.Flag("names-only", "Print tag names without descriptions or links").Bool()
	versionCmd := kingpinApp.Command("version", "Print the resolved version and the source it came from")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	setIfNotEmpty(&overrides.Port, port)
	setIfNotEmpty(&overrides.LogLevel, logLevel)
	setIfNotEmpty(&overrides.CORSOrigins, corsOrigins)
	setIfNotEmpty(&overrides.ProjectFile, projectFile)
	setIfNotEmpty(&overrides.SecretsDir, secretsDir)
	setIfNotEmpty(&overrides.Version, version)
	setIfNotEmpty(&overrides.Environment, environment)

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case tagsCmd.FullCommand():
		if err := printTags(os.Stdout, tagMetadata(tags.Catalog(), *tagsNamesOnly)); err != nil {
			logger.Fatal("failed to print tags", zap.Error(err))
		}
	case versionCmd.FullCommand():
		printVersion(os.Stdout, application.LoadSettings(cfg, logger))
	case serveCmd.FullCommand():
		serve(cfg, logger)
	}
}

func serve(cfg config.Config, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func setIfNotEmpty(dst **string, value *string) {
	if value != nil && *value != "" {
		*dst = value
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
