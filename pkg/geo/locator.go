package geo

import (
	"fmt"
	"os"

	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// CountryLocator answers which country polygon contains a given point.
// Bounding boxes are checked before the full polygon test, so lookups stay
// fast across the full index.
type CountryLocator struct {
	countries []country
}

type country struct {
	name     string
	bound    orb.Bound
	geometry orb.Geometry
}

// NewCountryLocator builds a locator from world countries GeoJSON bytes.
// Features without a name property or geometry are skipped.
func NewCountryLocator(data []byte) (*CountryLocator, error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse world countries geojson: %w", err)
	}

	locator := &CountryLocator{}
	for _, feature := range collection.Features {
		name, _ := feature.Properties["name"].(string)
		if name == "" || feature.Geometry == nil {
			continue
		}
		locator.countries = append(locator.countries, country{
			name:     name,
			bound:    feature.Geometry.Bound(),
			geometry: feature.Geometry,
		})
	}

	logger.Info("[Geo] Loaded country polygons", "countries", len(locator.countries))
	return locator, nil
}

// LoadCountryLocator reads a world countries GeoJSON file into a locator.
func LoadCountryLocator(path string) (*CountryLocator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world countries geojson from %s: %w", path, err)
	}
	return NewCountryLocator(data)
}

// Locate returns the name of the first country whose polygon contains the
// point. The GeoJSON uses (lng, lat) axis order internally.
func (l *CountryLocator) Locate(p Point) (string, bool) {
	pt := orb.Point{p.Lng, p.Lat}
	for _, c := range l.countries {
		if !c.bound.Contains(pt) {
			continue
		}
		switch geom := c.geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(geom, pt) {
				return c.name, true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(geom, pt) {
				return c.name, true
			}
		}
	}
	return "", false
}
