// Package mapcache precomputes the world map payloads served to the frontend:
// country-level choropleth counts, coordinate clusters for map markers and
// per-admin counts for the country focus view. Everything here is derived from
// the article corpus and the entity catalog, so a rebuild is cheap and the
// frontend never aggregates at render time.
package mapcache

import (
	"strings"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
)

// countryAliases maps the spellings that appear in article spatial fields to
// one canonical country name. Places not listed here are resolved through the
// location entities instead.
var countryAliases = map[string]string{
	"Bénin":         "Benin",
	"Benin":         "Benin",
	"Burkina Faso":  "Burkina Faso",
	"Côte d'Ivoire": "Côte d'Ivoire",
	"Togo":          "Togo",
	"Niger":         "Niger",
	"Nigéria":       "Nigeria",
	"Nigeria":       "Nigeria",
	"Cameroun":      "Cameroon",
	"Cameroon":      "Cameroon",
	"Tchad":         "Chad",
	"Chad":          "Chad",
}

// GlobalChoropleth is the country count payload behind the default world view.
// TotalArticles sums article-country pairs, so an article mentioning two
// countries contributes twice; UniqueArticlesProcessed counts it once.
type GlobalChoropleth struct {
	Type                    string         `json:"type"`
	Counts                  map[string]int `json:"counts"`
	TotalArticles           int            `json:"total_articles"`
	TotalCountries          int            `json:"total_countries"`
	UniqueArticlesProcessed int            `json:"unique_articles_processed"`
	UpdatedAt               string         `json:"updatedAt"`
}

// YearlyChoropleth holds the country counts for articles published in one year.
type YearlyChoropleth struct {
	Type           string         `json:"type"`
	Year           int            `json:"year"`
	Counts         map[string]int `json:"counts"`
	TotalArticles  int            `json:"total_articles"`
	TotalCountries int            `json:"total_countries"`
	UpdatedAt      string         `json:"updatedAt"`
}

// EntityChoropleth holds the country counts restricted to articles that
// mention at least one entity of a given type.
type EntityChoropleth struct {
	Type           string         `json:"type"`
	EntityType     string         `json:"entity_type"`
	Counts         map[string]int `json:"counts"`
	TotalArticles  int            `json:"total_articles"`
	TotalCountries int            `json:"total_countries"`
	UpdatedAt      string         `json:"updatedAt"`
}

// locationCountries maps location names to their country so spatial mentions
// can be resolved. Later entries win when names collide.
func locationCountries(locations []catalog.LocationRecord) map[string]string {
	byName := make(map[string]string, len(locations))
	for _, location := range locations {
		name := strings.TrimSpace(location.Name)
		country := strings.TrimSpace(location.CountryName())
		if name != "" && country != "" {
			byName[name] = country
		}
	}
	return byName
}

// articleCountries resolves the set of countries one article counts towards:
// its own country field plus every spatial mention that is either a known
// country spelling or a location with a resolved country.
func articleCountries(article corpus.Article, byName map[string]string) map[string]struct{} {
	countries := make(map[string]struct{})
	if direct := strings.TrimSpace(article.Country); direct != "" {
		countries[direct] = struct{}{}
	}
	for _, place := range corpus.SplitPipeList(article.Spatial) {
		if canonical, ok := countryAliases[place]; ok {
			countries[canonical] = struct{}{}
		} else if country, ok := byName[place]; ok {
			countries[country] = struct{}{}
		}
	}
	return countries
}

// BuildGlobalChoropleth aggregates country counts over the whole corpus and,
// keyed by publication year, per year. Each article counts once per country.
func BuildGlobalChoropleth(articles []corpus.Article, locations []catalog.LocationRecord, clock Clock) (GlobalChoropleth, map[int]YearlyChoropleth) {
	byName := locationCountries(locations)

	counts := make(map[string]int)
	countsByYear := make(map[int]map[string]int)
	processed := 0

	for _, article := range articles {
		if article.ID == "" {
			continue
		}
		processed++

		year, hasYear := corpus.YearOf(article.PubDate)
		for country := range articleCountries(article, byName) {
			counts[country]++
			if hasYear && year != 0 {
				if countsByYear[year] == nil {
					countsByYear[year] = make(map[string]int)
				}
				countsByYear[year][country]++
			}
		}
	}

	now := timestamp(clock)
	global := GlobalChoropleth{
		Type:                    "global_choropleth",
		Counts:                  counts,
		TotalArticles:           sumCounts(counts),
		TotalCountries:          len(counts),
		UniqueArticlesProcessed: processed,
		UpdatedAt:               now,
	}

	yearly := make(map[int]YearlyChoropleth, len(countsByYear))
	for year, yearCounts := range countsByYear {
		if len(yearCounts) == 0 {
			continue
		}
		yearly[year] = YearlyChoropleth{
			Type:           "yearly_choropleth",
			Year:           year,
			Counts:         yearCounts,
			TotalArticles:  sumCounts(yearCounts),
			TotalCountries: len(yearCounts),
			UpdatedAt:      now,
		}
	}
	return global, yearly
}

// BuildEntityChoropleth counts, per country, the location-backed articles that
// mention at least one entity of the given type. Each article-country pair
// counts once no matter how many locations link them.
func BuildEntityChoropleth(entityType string, records []catalog.Record, locations []catalog.LocationRecord, clock Clock) EntityChoropleth {
	mentioned := make(map[string]struct{})
	for _, record := range records {
		for _, articleID := range record.RelatedArticleIDs {
			mentioned[articleID] = struct{}{}
		}
	}

	counts := make(map[string]int)
	seenPairs := make(map[string]struct{})
	for _, location := range locations {
		country := strings.TrimSpace(location.CountryName())
		if country == "" {
			continue
		}
		for _, articleID := range location.RelatedArticleIDs {
			if _, ok := mentioned[articleID]; !ok {
				continue
			}
			pair := articleID + ":" + country
			if _, ok := seenPairs[pair]; ok {
				continue
			}
			seenPairs[pair] = struct{}{}
			counts[country]++
		}
	}

	return EntityChoropleth{
		Type:           "entity_choropleth",
		EntityType:     entityType,
		Counts:         counts,
		TotalArticles:  sumCounts(counts),
		TotalCountries: len(counts),
		UpdatedAt:      timestamp(clock),
	}
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, count := range counts {
		total += count
	}
	return total
}
