package network

import (
	"math"
	"reflect"
	"testing"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
)

func strPtr(s string) *string { return &s }

func spatialLocation(id, name string, coords []float64, country string) catalog.LocationRecord {
	record := catalog.LocationRecord{
		Record: catalog.Record{
			ID:                id,
			Name:              name,
			RelatedArticleIDs: []string{"A"},
			ArticleCount:      1,
		},
		Coordinates: coords,
	}
	if country != "" {
		record.Country = strPtr(country)
	}
	return record
}

func TestBuildSpatialSnapshot(t *testing.T) {
	locations := []catalog.LocationRecord{
		spatialLocation("1", "Cotonou", []float64{6.37, 2.42}, "Benin"),
		spatialLocation("2", "Lomé", []float64{6.13, 1.22}, "Togo"),
		spatialLocation("3", "Accra", []float64{5.56, -0.20}, "Ghana"),
		spatialLocation("4", "Nowhere", nil, ""),
	}
	articles := []corpus.Article{
		{ID: "A", Spatial: "Cotonou | Lomé"},
		{ID: "B", Spatial: "cotonou | Lomé | Cotonou"},
		{ID: "C", Spatial: "Cotonou | Accra"},
		{ID: "D", Spatial: "Lomé"},
		{ID: "E", Spatial: "Cotonou | Nowhere"},
	}

	snapshot := BuildSpatialSnapshot(BuildSpatialParams{
		Articles:  articles,
		Locations: locations,
		WeightMin: 2,
		Clock:     fixedClock,
	})

	if len(snapshot.Edges) != 1 {
		t.Fatalf("expected 1 surviving edge, got %d", len(snapshot.Edges))
	}
	edge := snapshot.Edges[0]
	if edge.Source != "location:1" || edge.Target != "location:2" {
		t.Errorf("unexpected endpoints: %+v", edge)
	}
	if edge.Weight != 2 {
		t.Errorf("case-insensitive and duplicate mentions must still count one article each, weight = %d", edge.Weight)
	}
	if !reflect.DeepEqual(edge.ArticleIDs, []string{"A", "B"}) {
		t.Errorf("articleIds = %v, want [A B]", edge.ArticleIDs)
	}
	if edge.WeightNorm != 1.0 {
		t.Errorf("heaviest edge must normalize to 1, got %f", edge.WeightNorm)
	}

	if len(snapshot.Nodes) != 2 {
		t.Fatalf("isolated and coordinate-less locations must be dropped, got %d nodes", len(snapshot.Nodes))
	}
	for _, node := range snapshot.Nodes {
		if node.Degree != 1 || node.Strength != 2 {
			t.Errorf("node %s degree/strength = %d/%d, want 1/2", node.ID, node.Degree, node.Strength)
		}
		if node.Type != "location" {
			t.Errorf("node type = %q", node.Type)
		}
	}
	if snapshot.Nodes[0].Label != "Cotonou" || *snapshot.Nodes[0].Country != "Benin" {
		t.Errorf("unexpected first node: %+v", snapshot.Nodes[0])
	}

	meta := snapshot.Meta
	if meta.GeocodedLocations != 3 || meta.TotalLocationsInData != 4 {
		t.Errorf("unexpected geocoding counts: %+v", meta)
	}
	if meta.GeocodingSuccessRate != 75.0 {
		t.Errorf("success rate = %f, want 75.0", meta.GeocodingSuccessRate)
	}
	if meta.ArticlesWithMultipleLocations != 3 {
		t.Errorf("articlesWithMultipleLocations = %d, want 3", meta.ArticlesWithMultipleLocations)
	}
	if meta.TotalNodes != 2 || meta.TotalEdges != 1 || meta.WeightMin != 2 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestBuildSpatialSnapshot_Bounds(t *testing.T) {
	locations := []catalog.LocationRecord{
		spatialLocation("1", "North East", []float64{6.37, 2.42}, ""),
		spatialLocation("2", "South West", []float64{6.13, 1.22}, ""),
	}
	articles := []corpus.Article{
		{ID: "A", Spatial: "North East | South West"},
		{ID: "B", Spatial: "North East | South West"},
	}

	snapshot := BuildSpatialSnapshot(BuildSpatialParams{
		Articles: articles, Locations: locations, WeightMin: 2, Clock: fixedClock,
	})

	bounds := snapshot.Bounds
	if bounds == nil {
		t.Fatal("expected bounds for a connected network")
	}
	approx := func(got, want float64) bool { return math.Abs(got-want) < 1e-9 }
	if !approx(bounds.North, 6.37+0.024) || !approx(bounds.South, 6.13-0.024) {
		t.Errorf("latitude bounds = %+v", bounds)
	}
	if !approx(bounds.East, 2.42+0.12) || !approx(bounds.West, 1.22-0.12) {
		t.Errorf("longitude bounds = %+v", bounds)
	}
	if snapshot.Meta.Bounds == nil || *snapshot.Meta.Bounds != *bounds {
		t.Error("meta must carry the same bounds")
	}
}

func TestBuildSpatialSnapshot_ZeroSpanPadding(t *testing.T) {
	point := []float64{6.37, 2.42}
	locations := []catalog.LocationRecord{
		spatialLocation("1", "Twin A", point, ""),
		spatialLocation("2", "Twin B", point, ""),
	}
	articles := []corpus.Article{
		{ID: "A", Spatial: "Twin A | Twin B"},
		{ID: "B", Spatial: "Twin A | Twin B"},
	}

	snapshot := BuildSpatialSnapshot(BuildSpatialParams{
		Articles: articles, Locations: locations, WeightMin: 2, Clock: fixedClock,
	})

	bounds := snapshot.Bounds
	if bounds == nil {
		t.Fatal("expected bounds")
	}
	if math.Abs(bounds.North-bounds.South-0.2) > 1e-9 {
		t.Errorf("zero-span latitude must pad by 0.1 on both sides: %+v", bounds)
	}
	if math.Abs(bounds.East-bounds.West-0.2) > 1e-9 {
		t.Errorf("zero-span longitude must pad by 0.1 on both sides: %+v", bounds)
	}
}

func TestBuildSpatialSnapshot_Empty(t *testing.T) {
	locations := []catalog.LocationRecord{
		spatialLocation("1", "Cotonou", []float64{6.37, 2.42}, "Benin"),
	}

	snapshot := BuildSpatialSnapshot(BuildSpatialParams{
		Articles:  []corpus.Article{{ID: "A", Spatial: "Cotonou"}},
		Locations: locations,
		WeightMin: 2,
		Clock:     fixedClock,
	})

	if !snapshot.Empty() {
		t.Error("expected empty spatial snapshot")
	}
	if snapshot.Bounds != nil {
		t.Errorf("empty network must have nil bounds, got %+v", snapshot.Bounds)
	}
	if snapshot.Meta.GeocodedLocations != 1 || snapshot.Meta.TotalLocationsInData != 1 {
		t.Errorf("geocoding stats must still be reported: %+v", snapshot.Meta)
	}
	if snapshot.Meta.GeocodingSuccessRate != 100.0 {
		t.Errorf("success rate = %f", snapshot.Meta.GeocodingSuccessRate)
	}
}
