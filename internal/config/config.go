package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/oven-ttta/oven-framework/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "oven.json"

	// EnvFileName is loaded from the project root when present.
	EnvFileName = ".env"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultDebounceMs is the default file watcher debounce in milliseconds.
	DefaultDebounceMs = 100
)

// Config represents the complete oven.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Host is the interface the server binds to.
	Host string `json:"host,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// AppDir is the route directory, relative to the project root.
	AppDir string `json:"appDir,omitempty"`

	// PublicDir is the static file directory, relative to the project root.
	PublicDir string `json:"publicDir,omitempty"`

	// BasePath mounts file routes under a URL prefix.
	BasePath string `json:"basePath,omitempty"`

	// Lang is the lang attribute of rendered pages.
	Lang string `json:"lang,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat,omitempty"`

	// AccessLog is the request log format: dev, short, common, combined,
	// structured or off.
	AccessLog string `json:"accessLog,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// CORS configures cross-origin headers.
	CORS CORSConfig `json:"cors,omitempty"`

	// Compress configures gzip responses.
	Compress CompressConfig `json:"compress,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Enabled turns on file watching and browser reload.
	Enabled bool `json:"enabled,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains glob patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`

	// DebounceMs coalesces bursts of file events.
	DebounceMs int `json:"debounceMs,omitempty"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Prefix is the URL prefix for static files (default: "/").
	Prefix string `json:"prefix,omitempty"`

	// CacheControl is none or production.
	CacheControl string `json:"cacheControl,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty"`
}

// CORSConfig contains cross-origin settings.
type CORSConfig struct {
	Enabled     bool     `json:"enabled,omitempty"`
	Origins     []string `json:"origins,omitempty"`
	Credentials bool     `json:"credentials,omitempty"`
}

// CompressConfig contains response compression settings.
type CompressConfig struct {
	Enabled bool `json:"enabled,omitempty"`
	MinSize int  `json:"minSize,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for oven.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path, then applies
// the .env file next to it and OVEN_* environment variables, and validates
// the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E140").
				WithDetail("No oven.json found in " + filepath.Dir(path)).
				WithSuggestion("Create oven.json at the project root, even if it only contains {}")
		}
		return nil, errors.New("E121").WithLocation(path, 0, 0).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithLocation(path, 0, 0).
			WithDetail("Failed to parse oven.json: " + err.Error()).
			WithSuggestion("Check that oven.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := LoadEnvFile(filepath.Join(filepath.Dir(path), EnvFileName)); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.New("E123").WithLocation(path, 0, 0).Wrap(err)
	}
	return nil
}

// ApplyEnv overrides fields from OVEN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("OVEN_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").WithDetail("OVEN_PORT must be a number, got " + strconv.Quote(v))
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("OVEN_DEV"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("E122").WithDetail("OVEN_DEV must be true or false, got " + strconv.Quote(v))
		}
		c.Dev.Enabled = dev
	}

	strs := map[string]*string{
		"OVEN_HOST":       &c.Host,
		"OVEN_APP_DIR":    &c.AppDir,
		"OVEN_PUBLIC_DIR": &c.PublicDir,
		"OVEN_BASE_PATH":  &c.BasePath,
		"OVEN_LOG_LEVEL":  &c.LogLevel,
		"OVEN_LOG_FORMAT": &c.LogFormat,
	}
	for key, field := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.AppDir == "" {
		c.AppDir = "app"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.AccessLog == "" {
		c.AccessLog = "dev"
	}

	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{c.AppDir, c.PublicDir}
	}
	if c.Dev.DebounceMs == 0 {
		c.Dev.DebounceMs = DefaultDebounceMs
	}

	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}
	if c.Static.CacheControl == "" {
		c.Static.CacheControl = "none"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "oven"
	}
	if c.Compress.MinSize == 0 {
		c.Compress.MinSize = 1024
	}
}

var (
	urlPrefix  = regexp.MustCompile(`^(/[^/\s]+)*/?$`)
	metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Validate checks if the configuration is valid. The first failing field
// is reported as an E122 error.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.AppDir, validation.Required),
		validation.Field(&c.BasePath, validation.Match(urlPrefix)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
		validation.Field(&c.AccessLog, validation.In("dev", "short", "common", "combined", "structured", "off")),
		validation.Field(&c.Dev),
		validation.Field(&c.Static),
		validation.Field(&c.Metrics),
		validation.Field(&c.Compress),
	)
	if err != nil {
		return errors.New("E122").Wrap(err)
	}
	return nil
}

// Validate checks the development settings.
func (c DevConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DebounceMs, validation.Min(0)),
	)
}

// Validate checks the static file settings.
func (c StaticConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Prefix, validation.Required, validation.Match(urlPrefix)),
		validation.Field(&c.CacheControl, validation.In("none", "production")),
	)
}

// Validate checks the metrics settings.
func (c MetricsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required, validation.Match(urlPrefix))),
		validation.Field(&c.Namespace, validation.Match(metricName)),
	)
}

// Validate checks the compression settings.
func (c CompressConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MinSize, validation.Min(0)),
	)
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address() + strings.TrimSuffix(c.BasePath, "/")
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AppPath returns the absolute path to the app directory.
func (c *Config) AppPath() string {
	return c.resolve(c.AppDir)
}

// PublicPath returns the absolute path to the public directory.
func (c *Config) PublicPath() string {
	return c.resolve(c.PublicDir)
}

// WatchPaths returns the absolute paths watched in dev mode.
func (c *Config) WatchPaths() []string {
	out := make([]string, 0, len(c.Dev.Watch))
	for _, p := range c.Dev.Watch {
		out = append(out, c.resolve(p))
	}
	return out
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing oven.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E140").
				WithDetail("No oven.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run oven from inside a project, or create oven.json at its root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the project containing the
// current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
