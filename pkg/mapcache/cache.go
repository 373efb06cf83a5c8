package mapcache

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// CacheVersion identifies the cache layout. Bump it when file names or
// payload shapes change so the frontend can detect stale caches.
const CacheVersion = "1.0"

// Clock supplies the updatedAt timestamps. Injectable so tests can pin them.
type Clock func() time.Time

func timestamp(clock Clock) string {
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Format(time.RFC3339)
}

// Metadata describes the cache tree for consumers and debugging.
type Metadata struct {
	CacheVersion string            `json:"cache_version"`
	GeneratedAt  string            `json:"generated_at"`
	Generator    string            `json:"generator"`
	Description  string            `json:"description"`
	Structure    map[string]any    `json:"structure"`
	Usage        map[string]string `json:"usage"`
}

func buildMetadata(clock Clock) Metadata {
	return Metadata{
		CacheVersion: CacheVersion,
		GeneratedAt:  timestamp(clock),
		Generator:    "iwac-preprocess",
		Description:  "Precomputed world map data for fast rendering",
		Structure: map[string]any{
			"choropleth": map[string]string{
				"all_countries.json": "Global country counts for choropleth coloring",
				"by_year/":           "Yearly country counts",
				"by_entity/":         "Entity-type specific country counts",
			},
			"coordinates": map[string]string{
				"all_locations.json": "Pre-aggregated coordinate clusters for markers",
				"by_country/":        "Country-specific coordinate clusters",
			},
		},
		Usage: map[string]string{
			"choropleth":  "Load appropriate file based on current filters to color world map",
			"coordinates": "Load clusters to render map markers without real-time aggregation",
		},
	}
}

// WriteParams configures a full world cache build.
type WriteParams struct {
	// Dir is the cache root, typically <data>/world_cache.
	Dir      string
	Articles []corpus.Article
	Catalog  *catalog.Catalog
	Clock    Clock
}

// WriteResult summarizes what one cache build produced.
type WriteResult struct {
	Files     int
	Countries int
	Clusters  int
	Years     int
}

// Write builds every world cache payload and writes the tree under params.Dir:
// choropleth counts (global, per year, per entity type), coordinate clusters
// (global and per country) and the cache metadata. Payloads are compact JSON;
// only the metadata file is indented.
func Write(params WriteParams) (WriteResult, error) {
	result := WriteResult{}
	locations := params.Catalog.Locations()

	write := func(path string, payload any) error {
		if err := util.WriteJSONCompact(path, payload); err != nil {
			return fmt.Errorf("failed to write world cache file: %w", err)
		}
		result.Files++
		return nil
	}

	global, yearly := BuildGlobalChoropleth(params.Articles, locations, params.Clock)
	if err := write(filepath.Join(params.Dir, "choropleth", "all_countries.json"), global); err != nil {
		return result, err
	}
	result.Countries = global.TotalCountries
	logger.Info("[WorldMap] Built global choropleth",
		"countries", global.TotalCountries,
		"articleCountryPairs", global.TotalArticles,
		"uniqueArticles", global.UniqueArticlesProcessed)

	years := make([]int, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		path := filepath.Join(params.Dir, "choropleth", "by_year", fmt.Sprintf("%d.json", year))
		if err := write(path, yearly[year]); err != nil {
			return result, err
		}
	}
	result.Years = len(years)
	logger.Info("[WorldMap] Built yearly choropleth", "years", len(years))

	for _, entityType := range catalog.Types {
		if entityType.Collection == "locations" {
			continue
		}
		records := params.Catalog.Records(entityType.Collection)
		if len(records) == 0 {
			logger.Debug("[WorldMap] Skipping entity choropleth, no entities", "entityType", entityType.Collection)
			continue
		}
		payload := BuildEntityChoropleth(entityType.Collection, records, locations, params.Clock)
		path := filepath.Join(params.Dir, "choropleth", "by_entity", entityType.Collection+".json")
		if err := write(path, payload); err != nil {
			return result, err
		}
		logger.Info("[WorldMap] Built entity choropleth",
			"entityType", entityType.Collection,
			"countries", payload.TotalCountries,
			"articles", payload.TotalArticles)
	}

	clusters, byCountry := BuildClusters(locations, params.Clock)
	if err := write(filepath.Join(params.Dir, "coordinates", "all_locations.json"), clusters); err != nil {
		return result, err
	}
	result.Clusters = clusters.TotalClusters
	for _, country := range sortedCountries(byCountry) {
		path := filepath.Join(params.Dir, "coordinates", "by_country", util.CountrySlug(country)+".json")
		if err := write(path, byCountry[country]); err != nil {
			return result, err
		}
	}
	logger.Info("[WorldMap] Built coordinate clusters",
		"clusters", clusters.TotalClusters,
		"countries", len(byCountry))

	if err := util.WriteJSON(filepath.Join(params.Dir, "metadata.json"), buildMetadata(params.Clock)); err != nil {
		return result, fmt.Errorf("failed to write world cache metadata: %w", err)
	}
	result.Files++

	logger.Info("[WorldMap] Cache build complete", "dir", params.Dir, "files", result.Files)
	return result, nil
}
