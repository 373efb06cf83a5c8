package catalog

import (
	"sort"
	"strings"

	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/geo"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// Catalog holds the loaded entity collections, keyed by collection name.
// Locations are additionally available with their geographic fields.
type Catalog struct {
	records   map[string][]Record
	locations []LocationRecord
}

// Records returns the collection with the given plural name. Unknown or
// missing collections yield an empty slice.
func (c *Catalog) Records(collection string) []Record {
	return c.records[collection]
}

// Locations returns the locations collection with geographic fields.
func (c *Catalog) Locations() []LocationRecord {
	return c.locations
}

// BuildParams carries the corpus exports the collections are derived from.
type BuildParams struct {
	Articles []corpus.Article
	Index    []corpus.IndexEntry
}

// BuildResult reports what the build produced and what it had to skip.
type BuildResult struct {
	Counts            map[string]int
	Malformed         int
	ArticlesWithoutID int
}

// Build assembles the five entity collections from the articles and index
// exports. Every article's subject list is inverted into an entity-to-article
// map, then each index row of a supported type becomes a record carrying the
// sorted ids of the articles naming it. Entities no article mentions are
// dropped; index rows without a numeric id are counted as malformed and
// skipped.
func Build(params BuildParams) (*Catalog, BuildResult) {
	result := BuildResult{Counts: make(map[string]int, len(Types))}

	entityArticles := make(map[string]map[string]struct{})
	for _, article := range params.Articles {
		if article.ID == "" {
			result.ArticlesWithoutID++
			continue
		}
		for _, subject := range corpus.SplitPipeList(article.Subject) {
			set, ok := entityArticles[subject]
			if !ok {
				set = make(map[string]struct{})
				entityArticles[subject] = set
			}
			set[article.ID] = struct{}{}
		}
	}
	logger.Info("[Catalog] Entity mentions collected",
		"entities", len(entityArticles), "articlesWithoutId", result.ArticlesWithoutID)

	catalog := &Catalog{records: make(map[string][]Record, len(Types))}
	for _, t := range Types {
		catalog.records[t.Collection] = []Record{}
	}

	for _, entry := range params.Index {
		entityType, ok := typeByIndexLabel(entry.Type)
		if !ok {
			continue
		}

		id := entry.IDString()
		if id == "" {
			result.Malformed++
			logger.Warn("[Catalog] Skipping index row without id", "title", entry.Title, "type", entry.Type)
			continue
		}

		related := sortedArticleIDs(entityArticles[entry.Title])
		if len(related) == 0 {
			continue
		}

		record := Record{
			ID:                id,
			Name:              entry.Title,
			RelatedArticleIDs: related,
			ArticleCount:      len(related),
		}
		catalog.records[entityType.Collection] = append(catalog.records[entityType.Collection], record)

		if entityType.IndexLabel == corpus.TypeLocations {
			catalog.locations = append(catalog.locations, locationRecord(record, entry))
		}
	}

	for collection := range catalog.records {
		records := catalog.records[collection]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Name < records[j].Name
		})
		result.Counts[collection] = len(records)
	}
	sort.SliceStable(catalog.locations, func(i, j int) bool {
		return catalog.locations[i].Name < catalog.locations[j].Name
	})

	return catalog, result
}

func locationRecord(record Record, entry corpus.IndexEntry) LocationRecord {
	raw := strings.TrimSpace(entry.Coordinates)
	location := LocationRecord{
		Record:         record,
		CoordinatesRaw: raw,
	}
	if point, ok := geo.ParseCoordinates(raw); ok {
		location.Coordinates = []float64{point.Lat, point.Lng}
	}
	if country := strings.TrimSpace(entry.Country); country != "" {
		location.Country = &country
	}
	return location
}

func sortedArticleIDs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
