package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rustyhook/rustyhook/gitcache"
	"github.com/rustyhook/rustyhook/rhconfig"
)

const (
	nativeConfigName = ".rustyhook.yaml"
	legacyConfigName = ".pre-commit-config.yaml"
)

// loadConfig resolves the config file to use (explicit path, else native,
// else legacy, in that order) and parses it with the matching loader.
// cacheRoot roots the gitcache used to fetch URL-kind legacy repos.
func loadConfig(explicitPath string, parallelism int, logger *slog.Logger, cacheRoot string) (*rhconfig.Configuration, error) {
	path := explicitPath
	if path == "" {
		if _, err := os.Stat(nativeConfigName); err == nil {
			path = nativeConfigName
		} else if _, err := os.Stat(legacyConfigName); err == nil {
			path = legacyConfigName
		} else {
			return nil, fmt.Errorf("no config file found: looked for %s and %s", nativeConfigName, legacyConfigName)
		}
	}

	if isLegacyConfig(path) {
		repoCache := gitcache.New(filepath.Join(cacheRoot, "repos"))
		cfg, err := rhconfig.LoadLegacy(path, parallelism, logger, repoCache)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return rhconfig.LoadNative(path)
}

func isLegacyConfig(path string) bool {
	return path == legacyConfigName || hasSuffix(path, "pre-commit-config.yaml") || hasSuffix(path, "pre-commit-config.yml")
}

func hasSuffix(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}
