// Package geo resolves raw coordinate strings from the authority index and
// assigns countries to locations through point-in-polygon tests against a
// world countries GeoJSON.
package geo

import (
	"strconv"
	"strings"
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

var coordCleaner = strings.NewReplacer("(", "", ")", "", "[", "", "]", "")

// ParseCoordinates parses a coordinate string like "6.5808, 1.6696" into a
// Point. Surrounding parentheses and brackets are tolerated. Reports false
// for anything that does not yield a valid latitude/longitude pair.
func ParseCoordinates(raw string) (Point, bool) {
	if strings.TrimSpace(raw) == "" {
		return Point{}, false
	}

	cleaned := strings.TrimSpace(coordCleaner.Replace(raw))
	parts := strings.Split(cleaned, ",")
	if len(parts) < 2 {
		return Point{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}
