package catalog

// Record is one entity in a collection file. RelatedArticleIDs carries the
// sorted ids of every article mentioning the entity; ArticleCount mirrors its
// length.
type Record struct {
	ID                string   `json:"id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	RelatedArticleIDs []string `json:"relatedArticleIds" validate:"required"`
	ArticleCount      int      `json:"articleCount"`
}

// LocationRecord extends Record with the geographic fields carried by the
// locations collection. Coordinates is [lat, lng] or null when the raw
// coordinate string could not be parsed. Region and Prefecture stay empty
// until an admin-level enrichment fills them.
type LocationRecord struct {
	Record
	Coordinates    []float64 `json:"coordinates"`
	Country        *string   `json:"country"`
	CoordinatesRaw string    `json:"coordinatesRaw"`
	Region         string    `json:"region,omitempty"`
	Prefecture     string    `json:"prefecture,omitempty"`
}

// CountryName returns the resolved country, or "" when none was found.
func (r LocationRecord) CountryName() string {
	if r.Country == nil {
		return ""
	}
	return *r.Country
}

// HasCoordinates reports whether the location carries a usable [lat, lng]
// pair.
func (r LocationRecord) HasCoordinates() bool {
	return len(r.Coordinates) == 2
}
