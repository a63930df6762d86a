package settings

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultVersion matches the version OpenAPI tooling assumes when none is given.
	DefaultVersion = "0.1.0"
	// DefaultEnvironment is used when no source names the environment.
	DefaultEnvironment = "DEV"
	// DescriptorName is the file searched for when no explicit descriptor is set.
	DescriptorName = "project.toml"
	// DefaultSearchDepth is how many parent directories are searched for the descriptor.
	DefaultSearchDepth = 1
)

const (
	fieldVersion     = "version"
	fieldEnvironment = "environment"
)

// Source names where a resolved value came from.
type Source string

// Sources in descending priority.
const (
	SourceArgument   Source = "argument"
	SourceDescriptor Source = "descriptor"
	SourceEnv        Source = "env"
	SourceSecret     Source = "secret"
	SourceDefault    Source = "default"
)

// ProjectSettings holds values read from the descriptor's [project] table.
type ProjectSettings struct {
	Version string
}

// AppSettings is the resolved, read-only application configuration.
type AppSettings struct {
	Environment string
	Project     ProjectSettings

	versionSource     Source
	environmentSource Source
}

// VersionSource reports which source provided Project.Version.
func (s AppSettings) VersionSource() Source {
	return s.versionSource
}

// EnvironmentSource reports which source provided Environment.
func (s AppSettings) EnvironmentSource() Source {
	return s.environmentSource
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	version     string
	environment string
	descriptor  string
	searchDir   string
	searchDepth int
	envPrefix   string
	secretsDir  string
	environ     func() []string
	logger      *zap.Logger
}

// WithVersion sets the version explicitly, taking precedence over every other source.
func WithVersion(version string) Option {
	return func(l *loader) {
		l.version = strings.TrimSpace(version)
	}
}

// WithEnvironment sets the environment explicitly.
func WithEnvironment(environment string) Option {
	return func(l *loader) {
		l.environment = strings.TrimSpace(environment)
	}
}

// WithDescriptor reads the given descriptor file instead of searching for one.
func WithDescriptor(path string) Option {
	return func(l *loader) {
		l.descriptor = path
	}
}

// WithSearch starts the descriptor search in dir and walks up to depth parents.
func WithSearch(dir string, depth int) Option {
	return func(l *loader) {
		l.searchDir = dir
		if depth >= 0 {
			l.searchDepth = depth
		}
	}
}

// WithEnvPrefix prefixes the environment variable and secret file names.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithSecretsDir enables reading values from files in dir.
func WithSecretsDir(dir string) Option {
	return func(l *loader) {
		l.secretsDir = dir
	}
}

// WithLogger reports skipped sources to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load resolves the settings from all configured sources.
func Load(opts ...Option) AppSettings {
	l := &loader{
		searchDepth: DefaultSearchDepth,
		environ:     os.Environ,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	l.checkSecretsDir()
	project := l.loadDescriptor()

	out := AppSettings{}
	out.Project.Version, out.versionSource = l.resolve(fieldVersion, l.version, project, DefaultVersion)
	out.Environment, out.environmentSource = l.resolve(fieldEnvironment, l.environment, nil, DefaultEnvironment)

	l.logger.Debug("settings resolved",
		zap.String("version", out.Project.Version),
		zap.String("version_source", string(out.versionSource)),
		zap.String("environment", out.Environment),
		zap.String("environment_source", string(out.environmentSource)),
	)
	return out
}

func (l *loader) resolve(field, explicit string, descriptor map[string]string, fallback string) (string, Source) {
	if explicit != "" {
		return explicit, SourceArgument
	}
	if value, ok := descriptor[field]; ok {
		return value, SourceDescriptor
	}
	if value, ok := l.lookupEnv(field); ok {
		return value, SourceEnv
	}
	if value, ok := l.readSecret(field); ok {
		return value, SourceSecret
	}
	return fallback, SourceDefault
}

// lookupEnv matches variable names case-insensitively, preferring an exact match.
func (l *loader) lookupEnv(field string) (string, bool) {
	name := strings.ToUpper(l.envPrefix + field)

	var (
		found string
		ok    bool
	)
	for _, kv := range l.environ() {
		key, value, hasValue := strings.Cut(kv, "=")
		if !hasValue || !strings.EqualFold(key, name) {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key == name {
			return value, true
		}
		if !ok {
			found, ok = value, true
		}
	}
	return found, ok
}

// checkSecretsDir disables secret lookups when the configured directory is
// missing, warning once.
func (l *loader) checkSecretsDir() {
	if l.secretsDir == "" {
		return
	}
	info, err := os.Stat(l.secretsDir)
	if err != nil || !info.IsDir() {
		l.logger.Warn("secrets directory unavailable", zap.String("dir", l.secretsDir))
		l.secretsDir = ""
	}
}

func (l *loader) readSecret(field string) (string, bool) {
	if l.secretsDir == "" {
		return "", false
	}

	path := filepath.Join(l.secretsDir, strings.ToLower(l.envPrefix+field))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("secret file unreadable", zap.String("path", path), zap.Error(err))
		}
		return "", false
	}

	value := strings.TrimSpace(string(data))
	return value, value != ""
}
