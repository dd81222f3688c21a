// Package config loads the generator configuration document. The document
// names the base directory, the cache output directory, and the source
// artifacts to index; every relative path is resolved against the location
// of the configuration document itself.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const DefaultCacheDir = "cache_data"

// Config is the raw configuration document.
type Config struct {
	BasePath       string   `json:"base_path" toml:"base_path"`
	CacheDir       string   `json:"cache_dir" toml:"cache_dir"`
	SpecFile       string   `json:"spec_file" toml:"spec_file"`
	SchemaFile     string   `json:"schema_file" toml:"schema_file"`
	QueryFile      string   `json:"query_file" toml:"query_file"`
	GeneratedFiles []string `json:"generated_files" toml:"generated_files"`
}

// Resolved carries the configuration with every path made absolute.
type Resolved struct {
	BaseDir        string
	CacheDir       string
	SpecPath       string
	SchemaPath     string
	QueryPath      string
	GeneratedPaths []string
}

// Load reads and resolves a configuration document. The format is chosen by
// extension: .toml is parsed as TOML, anything else as JSON. A missing or
// unreadable document is fatal to the run.
func Load(path string) (*Resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	return resolve(path, cfg)
}

func resolve(configPath string, cfg Config) (*Resolved, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("config %s: base_path is required", configPath)
	}

	configDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	baseDir := cfg.BasePath
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(configDir, baseDir)
	}
	baseDir = filepath.Clean(baseDir)

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(baseDir, cacheDir)
	}

	r := &Resolved{
		BaseDir:  baseDir,
		CacheDir: cacheDir,
	}
	r.SpecPath = joinIfSet(baseDir, cfg.SpecFile)
	r.SchemaPath = joinIfSet(baseDir, cfg.SchemaFile)
	r.QueryPath = joinIfSet(baseDir, cfg.QueryFile)
	for _, gen := range cfg.GeneratedFiles {
		if p := joinIfSet(baseDir, gen); p != "" {
			r.GeneratedPaths = append(r.GeneratedPaths, p)
		}
	}
	return r, nil
}

func joinIfSet(baseDir, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Rel returns path relative to the base directory, with forward slashes, for
// use as a stable file key in fingerprints and bundles.
func (r *Resolved) Rel(path string) string {
	rel, err := filepath.Rel(r.BaseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// SourcePaths lists every configured source artifact, present or not.
func (r *Resolved) SourcePaths() []string {
	paths := make([]string, 0, 3+len(r.GeneratedPaths))
	for _, p := range []string{r.SpecPath, r.SchemaPath, r.QueryPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, r.GeneratedPaths...)
	return paths
}
