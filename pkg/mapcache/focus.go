package mapcache

import (
	"fmt"
	"path/filepath"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// DefaultFocusCountries are the countries with a dedicated focus view.
func DefaultFocusCountries() []string {
	return []string{"Benin", "Burkina Faso", "Côte d'Ivoire", "Togo"}
}

// FocusCounts aggregates article counts per administrative unit for one
// country, at either the region or the prefecture level. JSON marshalling
// sorts the map keys, which is the order the frontend expects.
type FocusCounts struct {
	Country        string         `json:"country"`
	Level          string         `json:"level"`
	CountsMentions map[string]int `json:"countsMentions"`
	CountsArticles map[string]int `json:"countsArticles"`
	UpdatedAt      string         `json:"updatedAt"`
}

// BuildFocusCounts sums location article counts per region and per prefecture
// for each focus country, in the order the countries were given. Locations
// outside the focus countries or without admin metadata are ignored.
func BuildFocusCounts(locations []catalog.LocationRecord, countries []string, clock Clock) []FocusCounts {
	focus := make(map[string]struct{}, len(countries))
	for _, country := range countries {
		focus[country] = struct{}{}
	}

	regions := make(map[string]map[string]int, len(countries))
	prefectures := make(map[string]map[string]int, len(countries))
	for _, country := range countries {
		regions[country] = make(map[string]int)
		prefectures[country] = make(map[string]int)
	}

	for _, location := range locations {
		country := location.CountryName()
		if _, ok := focus[country]; !ok {
			continue
		}
		if location.Region != "" {
			regions[country][location.Region] += location.ArticleCount
		}
		if location.Prefecture != "" {
			prefectures[country][location.Prefecture] += location.ArticleCount
		}
	}

	now := timestamp(clock)
	counts := make([]FocusCounts, 0, 2*len(countries))
	for _, country := range countries {
		counts = append(counts, FocusCounts{
			Country:        country,
			Level:          "regions",
			CountsMentions: regions[country],
			CountsArticles: regions[country],
			UpdatedAt:      now,
		}, FocusCounts{
			Country:        country,
			Level:          "prefectures",
			CountsMentions: prefectures[country],
			CountsArticles: prefectures[country],
			UpdatedAt:      now,
		})
	}
	return counts
}

// WriteFocusCounts builds the focus payloads and writes one file per country
// and level, named <country>_<level>_counts.json with the country slugged for
// the filename.
func WriteFocusCounts(dir string, locations []catalog.LocationRecord, countries []string, clock Clock) (int, error) {
	written := 0
	for _, counts := range BuildFocusCounts(locations, countries, clock) {
		name := fmt.Sprintf("%s_%s_counts.json", util.CountrySlug(counts.Country), counts.Level)
		if err := util.WriteJSON(filepath.Join(dir, name), counts); err != nil {
			return written, fmt.Errorf("failed to write focus counts: %w", err)
		}
		written++
	}
	logger.Info("[Focus] Wrote per-admin counts", "dir", dir, "files", written)
	return written, nil
}
