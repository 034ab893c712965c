package oven

import (
	"io/fs"
	"log/slog"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
	"github.com/oven-ttta/oven-framework/pkg/router"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the application configuration.
type Config struct {
	// AppDir is the directory walked for route files.
	// Default: "app".
	AppDir string

	// AppFS, when set, is walked instead of AppDir. Use it to serve an app
	// directory embedded with embed.FS.
	AppFS fs.FS

	// BasePath mounts every file route under a URL prefix (e.g. "/docs").
	// Routes registered with Get, Post and friends are not prefixed.
	// Default: "" (mounted at the root).
	BasePath string

	// Loader resolves route files to modules.
	// Default: router.NewTemplateLoader(nil), which handles html/template
	// files only. Chain it after a router.Registry to serve Go modules.
	Loader router.Loader

	// Lang is the lang attribute of rendered pages.
	// Default: "en".
	Lang string

	// Scripts are inline scripts appended to every rendered page. The dev
	// server uses this for its reload client.
	Scripts []string

	// StyleSheets are linked from every rendered page.
	StyleSheets []string

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files (e.g., "public").
	Dir string

	// FS, when set, is served instead of Dir.
	FS fs.FS

	// Prefix is the URL path prefix for static files (e.g., "/").
	// A file at public/styles.css with Prefix="/" is served at /styles.css.
	// Default: "/".
	Prefix string

	// Index is served for requests naming a directory.
	// Default: "index.html".
	Index string

	// CacheControl determines caching behavior for static files.
	// Default: CacheControlNone.
	CacheControl CacheControlStrategy

	// Headers are custom headers to add to all static file responses.
	Headers map[string]string
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone disables caching. Suited to development.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction caches fingerprinted files ("app.a1b2c3d4.css")
	// for a year and everything else for an hour with revalidation.
	CacheControlProduction
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AppDir: "app",
		Lang:   "en",
		Logger: slog.Default(),
	}
}

// DefaultStaticConfig returns the default static file configuration.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Dir:          "public",
		Prefix:       "/",
		Index:        "index.html",
		CacheControl: CacheControlNone,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AppDir == "" {
		c.AppDir = d.AppDir
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.Loader == nil {
		c.Loader = router.NewTemplateLoader(nil)
	}
	if c.BasePath != "" {
		c.BasePath = routepath.TrimTrailingSlash(c.BasePath)
	}
	if c.BasePath == "/" {
		c.BasePath = ""
	}
	return c
}
