package mapcache

import (
	"sort"
	"strings"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

// Cluster is one map marker: a geocoded location with its article links.
type Cluster struct {
	ID                string    `json:"id"`
	Label             string    `json:"label"`
	Coordinates       []float64 `json:"coordinates"`
	Country           string    `json:"country"`
	Region            string    `json:"region"`
	Prefecture        string    `json:"prefecture"`
	ArticleCount      int       `json:"articleCount"`
	RelatedArticleIDs []string  `json:"relatedArticleIds"`
}

// ClusterSet is a marker payload, either global or restricted to one country.
type ClusterSet struct {
	Type          string    `json:"type"`
	Country       string    `json:"country,omitempty"`
	Clusters      []Cluster `json:"clusters"`
	TotalClusters int       `json:"total_clusters"`
	TotalArticles int       `json:"total_articles"`
	UpdatedAt     string    `json:"updatedAt"`
}

// BuildClusters turns geocoded locations into marker clusters: the global set
// plus one set per country, keyed by country name. Locations without valid
// coordinates are skipped.
func BuildClusters(locations []catalog.LocationRecord, clock Clock) (ClusterSet, map[string]ClusterSet) {
	now := timestamp(clock)

	clusters := make([]Cluster, 0, len(locations))
	byCountry := make(map[string][]Cluster)

	for _, location := range locations {
		if !location.HasCoordinates() {
			continue
		}
		lat, lng := location.Coordinates[0], location.Coordinates[1]
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}

		related := location.RelatedArticleIDs
		if related == nil {
			related = []string{}
		}
		cluster := Cluster{
			ID:                location.ID,
			Label:             location.Name,
			Coordinates:       []float64{lat, lng},
			Country:           strings.TrimSpace(location.CountryName()),
			Region:            strings.TrimSpace(location.Region),
			Prefecture:        strings.TrimSpace(location.Prefecture),
			ArticleCount:      location.ArticleCount,
			RelatedArticleIDs: related,
		}
		clusters = append(clusters, cluster)
		if cluster.Country != "" {
			byCountry[cluster.Country] = append(byCountry[cluster.Country], cluster)
		}
	}

	global := ClusterSet{
		Type:          "coordinate_clusters",
		Clusters:      clusters,
		TotalClusters: len(clusters),
		TotalArticles: sumClusterArticles(clusters),
		UpdatedAt:     now,
	}

	countrySets := make(map[string]ClusterSet, len(byCountry))
	for country, countryClusters := range byCountry {
		countrySets[country] = ClusterSet{
			Type:          "country_coordinates",
			Country:       country,
			Clusters:      countryClusters,
			TotalClusters: len(countryClusters),
			TotalArticles: sumClusterArticles(countryClusters),
			UpdatedAt:     now,
		}
	}
	return global, countrySets
}

func sumClusterArticles(clusters []Cluster) int {
	total := 0
	for _, cluster := range clusters {
		total += cluster.ArticleCount
	}
	return total
}

func sortedCountries(sets map[string]ClusterSet) []string {
	countries := make([]string, 0, len(sets))
	for country := range sets {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}
