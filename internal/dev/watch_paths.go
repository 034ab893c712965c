package dev

import (
	"path/filepath"

	"github.com/oven-ttta/oven-framework/internal/config"
)

// CollectWatchPaths returns a normalized list of watch paths for the
// project: dev.watch (which defaults to the app and public directories)
// plus the config file itself.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := cfg.WatchPaths()
	if p := cfg.Path(); p != "" {
		paths = append(paths, p)
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}

// IgnorePatterns returns DefaultIgnore extended with dev.ignore.
func IgnorePatterns(cfg *config.Config) []string {
	out := append([]string(nil), DefaultIgnore...)
	return append(out, cfg.Dev.Ignore...)
}
