package network

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildSnapshot_TwoEntityExample(t *testing.T) {
	c := exampleCatalog(t)

	snapshot := BuildSnapshot(BuildParams{
		Catalog:   c,
		Rules:     []TypePair{{A: "person", B: "organization"}},
		WeightMin: 2,
		Clock:     fixedClock,
	})

	wantEdges := []Edge{{
		Source:     "organization:9",
		Target:     "person:1",
		Type:       "person-organization",
		Weight:     2,
		ArticleIDs: []string{"A", "B"},
	}}
	if !reflect.DeepEqual(snapshot.Edges, wantEdges) {
		t.Errorf("edges = %+v, want %+v", snapshot.Edges, wantEdges)
	}

	wantNodes := []Node{
		{ID: "organization:9", Type: "organization", Label: "ABC Org", Count: 3, Degree: 1},
		{ID: "person:1", Type: "person", Label: "Alice", Count: 2, Degree: 1},
	}
	if !reflect.DeepEqual(snapshot.Nodes, wantNodes) {
		t.Errorf("nodes = %+v, want %+v", snapshot.Nodes, wantNodes)
	}

	meta := snapshot.Meta
	if meta.TotalNodes != 2 || meta.TotalEdges != 1 || meta.WeightMin != 2 {
		t.Errorf("unexpected meta: %+v", meta)
	}
	if meta.GeneratedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("generatedAt = %q", meta.GeneratedAt)
	}
	wantTypes := []string{"person", "organization", "event", "subject", "location"}
	if !reflect.DeepEqual(meta.SupportedTypes, wantTypes) {
		t.Errorf("supportedTypes = %v", meta.SupportedTypes)
	}
	if !reflect.DeepEqual(meta.TypePairs, [][2]string{{"person", "organization"}}) {
		t.Errorf("typePairs = %v", meta.TypePairs)
	}
	if snapshot.Empty() {
		t.Error("snapshot with one edge must not be empty")
	}
}

func TestBuildSnapshot_ThresholdAboveSupport(t *testing.T) {
	snapshot := BuildSnapshot(BuildParams{
		Catalog:   exampleCatalog(t),
		Rules:     []TypePair{{A: "person", B: "organization"}},
		WeightMin: 3,
		Clock:     fixedClock,
	})

	if !snapshot.Empty() {
		t.Errorf("expected empty snapshot, got %d edges", len(snapshot.Edges))
	}
	if len(snapshot.Nodes) != 0 {
		t.Errorf("empty snapshot must have no nodes, got %d", len(snapshot.Nodes))
	}
	if snapshot.Meta.TotalNodes != 0 || snapshot.Meta.TotalEdges != 0 {
		t.Errorf("unexpected meta counts: %+v", snapshot.Meta)
	}
	if len(snapshot.Meta.SupportedTypes) != 5 {
		t.Error("empty snapshot still carries full metadata")
	}
}

func TestBuildSnapshot_NodeOrdering(t *testing.T) {
	// Bob appears with two organizations, Alice with one, so Bob's degree is
	// higher and he sorts first; equal degrees fall back to ascending id.
	articles := []corpus.Article{
		{ID: "A", Subject: "Bob | First Org"},
		{ID: "B", Subject: "Bob | First Org"},
		{ID: "C", Subject: "Bob | Second Org"},
		{ID: "D", Subject: "Bob | Second Org"},
		{ID: "E", Subject: "Alice | First Org"},
		{ID: "F", Subject: "Alice | First Org"},
	}
	index := []corpus.IndexEntry{
		{ID: intPtr(1), Title: "Alice", Type: corpus.TypePersons},
		{ID: intPtr(2), Title: "Bob", Type: corpus.TypePersons},
		{ID: intPtr(10), Title: "First Org", Type: corpus.TypeOrganizations},
		{ID: intPtr(11), Title: "Second Org", Type: corpus.TypeOrganizations},
	}
	c, _ := catalog.Build(catalog.BuildParams{Articles: articles, Index: index})

	snapshot := BuildSnapshot(BuildParams{
		Catalog:   c,
		Rules:     []TypePair{{A: "person", B: "organization"}},
		WeightMin: 2,
		Clock:     fixedClock,
	})

	gotIDs := make([]string, len(snapshot.Nodes))
	for i, node := range snapshot.Nodes {
		gotIDs[i] = node.ID
	}
	// Degrees: Bob 2, First Org 2, Alice 1, Second Org 1.
	want := []string{"organization:10", "person:2", "organization:11", "person:1"}
	if !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("node order = %v, want %v", gotIDs, want)
	}
}

func TestBuildSnapshot_Deterministic(t *testing.T) {
	c := largeCatalog(t, 40)
	params := BuildParams{Catalog: c, WeightMin: 2, Clock: fixedClock}

	first := BuildSnapshot(params)
	second := BuildSnapshot(params)
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds of the same inputs must be identical")
	}
}

func TestBuildSnapshot_ParallelMatchesSerial(t *testing.T) {
	c := largeCatalog(t, 60)

	serial := BuildSnapshot(BuildParams{Catalog: c, WeightMin: 2, Parallelism: 1, Clock: fixedClock})
	parallel := BuildSnapshot(BuildParams{Catalog: c, WeightMin: 2, Parallelism: 4, Clock: fixedClock})

	if !reflect.DeepEqual(serial, parallel) {
		t.Error("parallel build must be identical to the serial build")
	}
}

// largeCatalog builds a catalog where article i mentions person i%5, subject
// i%3, and one fixed organization, giving a mix of edge weights across types.
func largeCatalog(t *testing.T, articleCount int) *catalog.Catalog {
	t.Helper()

	var articles []corpus.Article
	for i := 0; i < articleCount; i++ {
		articles = append(articles, corpus.Article{
			ID: fmt.Sprintf("%03d", i),
			Subject: fmt.Sprintf("Person %d | Subject %d | Central Org",
				i%5, i%3),
		})
	}

	index := []corpus.IndexEntry{
		{ID: intPtr(100), Title: "Central Org", Type: corpus.TypeOrganizations},
	}
	for i := 0; i < 5; i++ {
		id := int64(i + 1)
		index = append(index, corpus.IndexEntry{
			ID: &id, Title: fmt.Sprintf("Person %d", i), Type: corpus.TypePersons,
		})
	}
	for i := 0; i < 3; i++ {
		id := int64(i + 50)
		index = append(index, corpus.IndexEntry{
			ID: &id, Title: fmt.Sprintf("Subject %d", i), Type: corpus.TypeSubjects,
		})
	}

	c, _ := catalog.Build(catalog.BuildParams{Articles: articles, Index: index})
	return c
}
