package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/example-backend/internal/settings"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	LogLevel             string
	RateLimitRPS         float64
	RateLimitBurst       int
	CORSOrigins          []string

	// ProjectFile points at an explicit descriptor; empty means search from the
	// working directory up to ProjectSearchDepth parents.
	ProjectFile        string
	ProjectSearchDepth int
	SecretsDir         string
	// VersionOverride and Environment are passed to the settings loader as
	// explicit arguments when non-empty.
	VersionOverride string
	Environment     string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	LogLevel             string        `yaml:"log_level"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	CORS                 yamlCORS      `yaml:"cors"`
	Project              yamlProject   `yaml:"project"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type yamlCORS struct {
	Origins []string `yaml:"origins"`
}

type yamlProject struct {
	Descriptor  string `yaml:"descriptor"`
	SearchDepth *int   `yaml:"search_depth"`
	SecretsDir  string `yaml:"secrets_dir"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	CORSOrigins    *string
	ProjectFile    *string
	SecretsDir     *string
	Version        *string
	Environment    *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables first so YAML values can override them.
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SettingsOptions translates the project related fields into settings loader options.
func (c Config) SettingsOptions() []settings.Option {
	opts := []settings.Option{
		settings.WithSearch("", c.ProjectSearchDepth),
	}
	if c.ProjectFile != "" {
		opts = append(opts, settings.WithDescriptor(c.ProjectFile))
	}
	if c.SecretsDir != "" {
		opts = append(opts, settings.WithSecretsDir(c.SecretsDir))
	}
	if c.VersionOverride != "" {
		opts = append(opts, settings.WithVersion(c.VersionOverride))
	}
	if c.Environment != "" {
		opts = append(opts, settings.WithEnvironment(c.Environment))
	}
	return opts
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		LogLevel:             defaultLogLevel,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		CORSOrigins:          []string{"*"},
		ProjectSearchDepth:   settings.DefaultSearchDepth,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	applyDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if rps := yamlCfg.RateLimit.RPS; rps != nil && *rps >= 0 {
		cfg.RateLimitRPS = *rps
	}

	if burst := yamlCfg.RateLimit.Burst; burst != nil && *burst >= 0 {
		cfg.RateLimitBurst = *burst
	}

	if len(yamlCfg.CORS.Origins) > 0 {
		cfg.CORSOrigins = yamlCfg.CORS.Origins
	}

	project := yamlCfg.Project
	if project.Descriptor != "" {
		cfg.ProjectFile = project.Descriptor
	}
	if project.SearchDepth != nil && *project.SearchDepth >= 0 {
		cfg.ProjectSearchDepth = *project.SearchDepth
	}
	if project.SecretsDir != "" {
		cfg.SecretsDir = project.SecretsDir
	}
	if project.Version != "" {
		cfg.VersionOverride = project.Version
	}
	if project.Environment != "" {
		cfg.Environment = project.Environment
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration. VERSION and
// ENVIRONMENT belong to the settings loader, which ranks them below the
// project descriptor.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		if parsed := parseList(origins); len(parsed) > 0 {
			cfg.CORSOrigins = parsed
		}
	}

	if path := strings.TrimSpace(os.Getenv("PROJECT_FILE")); path != "" {
		cfg.ProjectFile = path
	}

	if dir := strings.TrimSpace(os.Getenv("SECRETS_DIR")); dir != "" {
		cfg.SecretsDir = dir
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.CORSOrigins != nil && *overrides.CORSOrigins != "" {
		origins := parseList(*overrides.CORSOrigins)
		if len(origins) == 0 {
			return fmt.Errorf("parse CORS origins: no origins in %q", *overrides.CORSOrigins)
		}
		cfg.CORSOrigins = origins
	}

	if overrides.ProjectFile != nil && *overrides.ProjectFile != "" {
		cfg.ProjectFile = *overrides.ProjectFile
	}

	if overrides.SecretsDir != nil && *overrides.SecretsDir != "" {
		cfg.SecretsDir = *overrides.SecretsDir
	}

	if overrides.Version != nil && *overrides.Version != "" {
		cfg.VersionOverride = *overrides.Version
	}

	if overrides.Environment != nil && *overrides.Environment != "" {
		cfg.Environment = *overrides.Environment
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.ProjectSearchDepth < 0 {
		return fmt.Errorf("project search depth must be >= 0")
	}
	return nil
}

// parseList splits a comma-separated string, dropping blank entries.
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
