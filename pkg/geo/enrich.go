package geo

import (
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// EnrichResult summarizes one add-countries pass over the index.
type EnrichResult struct {
	Processed int
	Matched   int
	Skipped   int
}

// AddCountries fills in the Country field of every location entry whose
// coordinates fall inside a known country polygon. Location entries that
// cannot be resolved get an empty country; non-location entries are left
// untouched.
func AddCountries(entries []corpus.IndexEntry, locator *CountryLocator) EnrichResult {
	var res EnrichResult
	for i := range entries {
		if entries[i].Type != corpus.TypeLocations {
			res.Skipped++
			continue
		}

		entries[i].Country = ""
		if point, ok := ParseCoordinates(entries[i].Coordinates); ok {
			if name, found := locator.Locate(point); found {
				entries[i].Country = name
				res.Matched++
			}
		} else if entries[i].Coordinates != "" {
			logger.Debug("[Geo] Invalid coordinates", "title", entries[i].Title, "raw", entries[i].Coordinates)
		}
		res.Processed++
	}

	logger.Info("[Geo] Countries added to locations",
		"processed", res.Processed, "matched", res.Matched, "skipped", res.Skipped)
	return res
}
