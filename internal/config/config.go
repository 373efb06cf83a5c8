// Package config carries the pipeline settings: where the corpus lives, which
// dataset to export, and the network build knobs. Defaults work out of the
// box; a YAML file and environment variables can override them, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/mapcache"
	"github.com/fmadore/IWAC-spatial-overview/pkg/network"
)

// Fetch configures the dataset export.
type Fetch struct {
	// RowsURL overrides the dataset rows endpoint, e.g. for a mirror.
	RowsURL           string  `yaml:"rows_url"`
	PageSize          int     `yaml:"page_size"`
	MaxTries          int     `yaml:"max_tries"`
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Config is the full pipeline configuration. Zero values are filled from
// defaults by Normalize, so partial YAML files are fine.
type Config struct {
	DatasetID string `yaml:"dataset_id"`

	// DataDir is the root for articles.json, index.json and every derived
	// directory below, each of which can also be set individually.
	DataDir         string `yaml:"data_dir"`
	EntitiesDir     string `yaml:"entities_dir"`
	NetworksDir     string `yaml:"networks_dir"`
	WorldCacheDir   string `yaml:"world_cache_dir"`
	CountryFocusDir string `yaml:"country_focus_dir"`
	WorldGeoJSON    string `yaml:"world_geojson"`

	WeightMin      int      `yaml:"weight_min"`
	TypePairs      []string `yaml:"type_pairs"`
	FocusCountries []string `yaml:"focus_countries"`
	Parallelism    int      `yaml:"parallelism"`

	Fetch Fetch `yaml:"fetch"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	cfg := Config{
		DatasetID:      corpus.DefaultDatasetID,
		DataDir:        "data",
		WeightMin:      2,
		FocusCountries: mapcache.DefaultFocusCountries(),
		Parallelism:    1,
	}
	cfg.Normalize()
	return cfg
}

// Normalize fills derived paths and zero values from their defaults.
func (c *Config) Normalize() {
	if c.DatasetID == "" {
		c.DatasetID = corpus.DefaultDatasetID
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.EntitiesDir == "" {
		c.EntitiesDir = filepath.Join(c.DataDir, "entities")
	}
	if c.NetworksDir == "" {
		c.NetworksDir = filepath.Join(c.DataDir, "networks")
	}
	if c.WorldCacheDir == "" {
		c.WorldCacheDir = filepath.Join(c.DataDir, "world_cache")
	}
	if c.CountryFocusDir == "" {
		c.CountryFocusDir = filepath.Join(c.DataDir, "country_focus")
	}
	if c.WorldGeoJSON == "" {
		c.WorldGeoJSON = filepath.Join(c.DataDir, "world_countries.geojson")
	}
	if c.WeightMin == 0 {
		c.WeightMin = 2
	}
	if len(c.FocusCountries) == 0 {
		c.FocusCountries = mapcache.DefaultFocusCountries()
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
}

// ArticlesPath returns the articles.json location under DataDir.
func (c *Config) ArticlesPath() string {
	return filepath.Join(c.DataDir, "articles.json")
}

// IndexPath returns the index.json location under DataDir.
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, "index.json")
}

// Rules resolves the configured type pairs, or the default cross-type rules
// when none are configured.
func (c *Config) Rules() ([]network.TypePair, error) {
	if len(c.TypePairs) == 0 {
		return network.DefaultTypePairs(), nil
	}
	return network.ParseTypePairs(c.TypePairs)
}

// Validate reports configuration a run cannot proceed with.
func (c *Config) Validate() error {
	if c.WeightMin < 1 {
		return fmt.Errorf("weight_min must be at least 1, got %d", c.WeightMin)
	}
	if _, err := c.Rules(); err != nil {
		return fmt.Errorf("invalid type_pairs: %w", err)
	}
	return nil
}

// Load builds the configuration: defaults, then the YAML file at path if one
// is given, then environment overrides. The file must exist when named.
func Load(path string) (Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides builds the configuration like Load, applying override
// after the environment pass but before normalization, so values set there
// (typically command-line flags) win and derived paths follow them.
func LoadWithOverrides(path string, override func(*Config)) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if override != nil {
		override(&cfg)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets the environment override file values, matching the names the
// server and worker are deployed with.
func (c *Config) applyEnv() {
	if v := util.GetEnv("DATASET_ID"); v != "" {
		c.DatasetID = v
	}
	if v := util.GetEnv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := util.GetEnv("WORLD_GEOJSON"); v != "" {
		c.WorldGeoJSON = v
	}
	if v := int(util.GetEnvNumeric("WEIGHT_MIN", 0)); v > 0 {
		c.WeightMin = v
	}
	if v := int(util.GetEnvNumeric("PARALLELISM", 0)); v > 0 {
		c.Parallelism = v
	}
}
