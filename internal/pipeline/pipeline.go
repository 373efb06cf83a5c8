// Package pipeline orchestrates the preprocessing steps: dataset export,
// country enrichment, entity extraction, network builds and the precomputed
// map caches. Steps are individually selectable and run in canonical order;
// each one reads its inputs from disk, so a partial run picks up where the
// previous artifacts left off.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/fmadore/IWAC-spatial-overview/internal/config"
	"github.com/fmadore/IWAC-spatial-overview/internal/storage"
	"github.com/fmadore/IWAC-spatial-overview/internal/timing"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/geo"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
	"github.com/fmadore/IWAC-spatial-overview/pkg/mapcache"
	"github.com/fmadore/IWAC-spatial-overview/pkg/network"
)

// Step names, in canonical execution order.
const (
	StepFetch        = "fetch"
	StepAddCountries = "add-countries"
	StepEntities     = "entities"
	StepNetworks     = "networks"
	StepWorldMap     = "worldmap"
	StepFocus        = "focus"
)

// AllSteps returns every step in canonical order.
func AllSteps() []string {
	return []string{StepFetch, StepAddCountries, StepEntities, StepNetworks, StepWorldMap, StepFocus}
}

// ValidateSteps rejects unknown step names.
func ValidateSteps(steps []string) error {
	known := make(map[string]struct{})
	for _, step := range AllSteps() {
		known[step] = struct{}{}
	}
	for _, step := range steps {
		if _, ok := known[step]; !ok {
			return fmt.Errorf("unknown step %q (valid: %s)", step, strings.Join(AllSteps(), ", "))
		}
	}
	return nil
}

// NewRunnerParams configures a Runner.
type NewRunnerParams struct {
	Config config.Config
	// Clock overrides the timestamp source for generated artifacts.
	Clock func() time.Time
}

// Runner executes pipeline steps against one configuration.
type Runner struct {
	cfg   config.Config
	clock func() time.Time
}

// NewRunner builds a Runner. A nil clock means wall time.
func NewRunner(params NewRunnerParams) *Runner {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Runner{cfg: params.Config, clock: clock}
}

// RunResult reports what one pipeline run produced.
type RunResult struct {
	RunID  string         `json:"runId"`
	Steps  []string       `json:"steps"`
	Totals map[string]int `json:"totals"`
}

// Run executes the given steps in the order given, or every step when none
// are named. The first failing step aborts the run.
func (r *Runner) Run(ctx context.Context, steps []string) (*RunResult, error) {
	if len(steps) == 0 {
		steps = AllSteps()
	}
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	result := &RunResult{RunID: runID, Steps: steps, Totals: make(map[string]int)}
	summary := timing.NewSummary()
	logger.Info("[Pipeline] Run starting", "runId", runID, "steps", strings.Join(steps, ","))

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		timer := summary.Start(step)
		var stepErr error
		switch step {
		case StepFetch:
			stepErr = r.runFetch(ctx, result)
		case StepAddCountries:
			stepErr = r.runAddCountries(ctx, result)
		case StepEntities:
			stepErr = r.runEntities(result)
		case StepNetworks:
			stepErr = r.runNetworks(result)
		case StepWorldMap:
			stepErr = r.runWorldMap(result)
		case StepFocus:
			stepErr = r.runFocus(result)
		}
		timer.Done()
		if stepErr != nil {
			return result, fmt.Errorf("step %s: %w", step, stepErr)
		}
	}

	summary.Log()
	totals, _ := json.Marshal(result.Totals)
	logger.Info("[Pipeline] All steps complete", "runId", runID, "totals", string(totals))
	return result, nil
}

// runFetch exports the two dataset subsets and writes articles.json and
// index.json under the data directory.
func (r *Runner) runFetch(ctx context.Context, result *RunResult) error {
	fetcher := corpus.NewFetcher(corpus.NewFetcherParams{
		DatasetID:         r.cfg.DatasetID,
		RowsURL:           r.cfg.Fetch.RowsURL,
		PageSize:          r.cfg.Fetch.PageSize,
		MaxTries:          r.cfg.Fetch.MaxTries,
		Concurrency:       r.cfg.Fetch.Concurrency,
		RequestsPerSecond: r.cfg.Fetch.RequestsPerSecond,
	})

	articles, err := fetcher.FetchArticles(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch articles: %w", err)
	}
	if err := util.WriteJSON(r.cfg.ArticlesPath(), articles); err != nil {
		return err
	}

	index, err := fetcher.FetchIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch index: %w", err)
	}
	if err := util.WriteJSON(r.cfg.IndexPath(), index); err != nil {
		return err
	}

	result.Totals["articles"] = len(articles)
	result.Totals["index"] = len(index)
	return nil
}

// runAddCountries resolves a country for every location row in index.json and
// rewrites the file in place, keeping a timestamped backup. A failed backup is
// only a warning; a missing index or world GeoJSON aborts the step.
func (r *Runner) runAddCountries(ctx context.Context, result *RunResult) error {
	entries, err := corpus.LoadIndex(r.cfg.IndexPath())
	if err != nil {
		return err
	}

	// A fresh deployment has no local world GeoJSON yet; pull it from the
	// bucket when object storage is configured.
	if _, err := os.Stat(r.cfg.WorldGeoJSON); os.IsNotExist(err) && util.GetEnv("AWS_ENDPOINT") != "" {
		client := storage.NewS3Client(ctx)
		if client == nil {
			return fmt.Errorf("failed to configure S3 client for world GeoJSON download")
		}
		key := util.GetEnvString("WORLD_GEOJSON_KEY", "assets/world_countries.geojson")
		if err := storage.FetchAsset(ctx, client, key, r.cfg.WorldGeoJSON); err != nil {
			return fmt.Errorf("failed to download world GeoJSON: %w", err)
		}
	}

	locator, err := geo.LoadCountryLocator(r.cfg.WorldGeoJSON)
	if err != nil {
		return err
	}

	if backup, err := util.BackupFile(r.cfg.IndexPath()); err != nil {
		logger.Warn("[Pipeline] Could not back up index before rewrite", "error", err)
	} else {
		logger.Info("[Pipeline] Index backup created", "path", backup)
	}

	enriched := geo.AddCountries(entries, locator)
	if err := util.WriteJSON(r.cfg.IndexPath(), entries); err != nil {
		return err
	}

	result.Totals["locationsProcessed"] = enriched.Processed
	result.Totals["countriesMatched"] = enriched.Matched
	result.Totals["nonLocationsSkipped"] = enriched.Skipped
	return nil
}

// runEntities builds the five entity collections from articles.json and
// index.json and writes them under the entities directory.
func (r *Runner) runEntities(result *RunResult) error {
	articles, err := corpus.LoadArticles(r.cfg.ArticlesPath())
	if err != nil {
		return err
	}
	entries, err := corpus.LoadIndex(r.cfg.IndexPath())
	if err != nil {
		return err
	}

	cat, built := catalog.Build(catalog.BuildParams{Articles: articles, Index: entries})
	if err := cat.Save(r.cfg.EntitiesDir); err != nil {
		return err
	}

	for collection, count := range built.Counts {
		result.Totals["entities_"+collection] = count
	}
	result.Totals["entitiesMalformed"] = built.Malformed
	return nil
}

// runNetworks builds the global cross-type network and the spatial network
// from the entity collections and writes them under the networks directory.
func (r *Runner) runNetworks(result *RunResult) error {
	cat, report := catalog.Load(r.cfg.EntitiesDir)
	result.Totals["catalogMalformed"] = report.Malformed

	rules, err := r.cfg.Rules()
	if err != nil {
		return err
	}

	snapshot := network.BuildSnapshot(network.BuildParams{
		Catalog:     cat,
		Rules:       rules,
		WeightMin:   r.cfg.WeightMin,
		Parallelism: r.cfg.Parallelism,
		Clock:       r.clock,
	})
	if err := util.WriteJSON(filepath.Join(r.cfg.NetworksDir, "global.json"), snapshot); err != nil {
		return err
	}

	articles, err := corpus.LoadArticles(r.cfg.ArticlesPath())
	if err != nil {
		return err
	}
	spatial := network.BuildSpatialSnapshot(network.BuildSpatialParams{
		Articles:  articles,
		Locations: cat.Locations(),
		WeightMin: r.cfg.WeightMin,
		Clock:     r.clock,
	})
	if err := util.WriteJSON(filepath.Join(r.cfg.NetworksDir, "spatial.json"), spatial); err != nil {
		return err
	}

	result.Totals["networkNodes"] = snapshot.Meta.TotalNodes
	result.Totals["networkEdges"] = snapshot.Meta.TotalEdges
	result.Totals["spatialNodes"] = spatial.Meta.TotalNodes
	result.Totals["spatialEdges"] = spatial.Meta.TotalEdges
	return nil
}

// runWorldMap precomputes the world map cache payloads.
func (r *Runner) runWorldMap(result *RunResult) error {
	articles, err := corpus.LoadArticles(r.cfg.ArticlesPath())
	if err != nil {
		return err
	}
	cat, _ := catalog.Load(r.cfg.EntitiesDir)

	written, err := mapcache.Write(mapcache.WriteParams{
		Dir:      r.cfg.WorldCacheDir,
		Articles: articles,
		Catalog:  cat,
		Clock:    r.clock,
	})
	if err != nil {
		return err
	}

	result.Totals["worldCacheFiles"] = written.Files
	result.Totals["coordinateClusters"] = written.Clusters
	return nil
}

// runFocus precomputes the per-admin counts for the focus countries.
func (r *Runner) runFocus(result *RunResult) error {
	cat, _ := catalog.Load(r.cfg.EntitiesDir)

	written, err := mapcache.WriteFocusCounts(r.cfg.CountryFocusDir, cat.Locations(), r.cfg.FocusCountries, r.clock)
	if err != nil {
		return err
	}

	result.Totals["focusFiles"] = written
	return nil
}
