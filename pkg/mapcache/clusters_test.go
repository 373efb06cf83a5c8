package mapcache

import (
	"reflect"
	"testing"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

func TestBuildClusters(t *testing.T) {
	cotonou := geocoded("10", "Cotonou", "Benin", []string{"A", "B"}, 5)
	cotonou.Coordinates = []float64{6.37, 2.42}
	cotonou.Region = "Littoral"
	cotonou.Prefecture = "Cotonou"

	lome := geocoded("11", "Lomé", "Togo", []string{"C"}, 3)
	lome.Coordinates = []float64{6.13, 1.22}

	outOfRange := geocoded("12", "Bad", "Benin", []string{"D"}, 1)
	outOfRange.Coordinates = []float64{100, 200}

	noCoords := geocoded("13", "NoCoords", "Benin", []string{"E"}, 1)
	noCoords.Coordinates = nil

	stateless := geocoded("14", "Stateless", "", []string{"F"}, 1)
	stateless.Coordinates = []float64{5.0, 0.0}

	locations := []catalog.LocationRecord{cotonou, lome, outOfRange, noCoords, stateless}

	global, byCountry := BuildClusters(locations, fixedClock)

	if global.Type != "coordinate_clusters" || global.Country != "" {
		t.Errorf("unexpected global header: %+v", global)
	}
	if global.TotalClusters != 3 || len(global.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(global.Clusters))
	}
	if global.TotalArticles != 9 {
		t.Errorf("total articles = %d, want 9", global.TotalArticles)
	}

	want := Cluster{
		ID:                "10",
		Label:             "Cotonou",
		Coordinates:       []float64{6.37, 2.42},
		Country:           "Benin",
		Region:            "Littoral",
		Prefecture:        "Cotonou",
		ArticleCount:      5,
		RelatedArticleIDs: []string{"A", "B"},
	}
	if !reflect.DeepEqual(global.Clusters[0], want) {
		t.Errorf("first cluster = %+v, want %+v", global.Clusters[0], want)
	}

	if len(byCountry) != 2 {
		t.Fatalf("expected clusters for 2 countries, got %v", sortedCountries(byCountry))
	}
	benin := byCountry["Benin"]
	if benin.Type != "country_coordinates" || benin.Country != "Benin" {
		t.Errorf("unexpected Benin header: %+v", benin)
	}
	if benin.TotalClusters != 1 || benin.Clusters[0].Label != "Cotonou" {
		t.Errorf("unexpected Benin clusters: %+v", benin.Clusters)
	}
	if byCountry["Togo"].TotalArticles != 3 {
		t.Errorf("Togo total = %d, want 3", byCountry["Togo"].TotalArticles)
	}
}

func TestBuildClusters_NilRelatedArticleIDs(t *testing.T) {
	location := geocoded("10", "Cotonou", "Benin", nil, 0)

	global, _ := BuildClusters([]catalog.LocationRecord{location}, fixedClock)

	if global.Clusters[0].RelatedArticleIDs == nil {
		t.Error("relatedArticleIds must serialize as an empty list, not null")
	}
}

func TestBuildClusters_Empty(t *testing.T) {
	global, byCountry := BuildClusters(nil, fixedClock)

	if global.Clusters == nil {
		t.Error("clusters must serialize as an empty list, not null")
	}
	if global.TotalClusters != 0 || len(byCountry) != 0 {
		t.Errorf("unexpected output: %+v, %v", global, byCountry)
	}
}
