package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fmadore/IWAC-spatial-overview/pkg/network"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DatasetID == "" {
		t.Error("dataset id must have a default")
	}
	if cfg.WeightMin != 2 {
		t.Errorf("weight min = %d, want 2", cfg.WeightMin)
	}
	if cfg.EntitiesDir != filepath.Join("data", "entities") {
		t.Errorf("entities dir = %q", cfg.EntitiesDir)
	}
	if cfg.ArticlesPath() != filepath.Join("data", "articles.json") {
		t.Errorf("articles path = %q", cfg.ArticlesPath())
	}
	if len(cfg.FocusCountries) != 4 {
		t.Errorf("focus countries = %v", cfg.FocusCountries)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if !reflect.DeepEqual(rules, network.DefaultTypePairs()) {
		t.Error("empty type_pairs must fall back to the default rules")
	}
}

func TestLoad_YAMLOverridesAndDerivedPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	content := `
dataset_id: example/corpus
data_dir: /srv/iwac
weight_min: 3
parallelism: 4
type_pairs:
  - person-organization
  - person-location
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatasetID != "example/corpus" || cfg.WeightMin != 3 || cfg.Parallelism != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.NetworksDir != filepath.Join("/srv/iwac", "networks") {
		t.Errorf("networks dir = %q", cfg.NetworksDir)
	}
	if cfg.WorldGeoJSON != filepath.Join("/srv/iwac", "world_countries.geojson") {
		t.Errorf("world geojson = %q", cfg.WorldGeoJSON)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	want := []network.TypePair{
		{A: "person", B: "organization"},
		{A: "person", B: "location"},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Errorf("rules = %v, want %v", rules, want)
	}
}

func TestLoad_InvalidTypePairs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	if err := os.WriteFile(path, []byte("type_pairs: [person-person]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for a same-type pair")
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATASET_ID", "example/override")
	t.Setenv("WEIGHT_MIN", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatasetID != "example/override" || cfg.WeightMin != 5 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate_RejectsNonPositiveWeightMin(t *testing.T) {
	cfg := Default()
	cfg.WeightMin = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for weight_min < 1")
	}
}
