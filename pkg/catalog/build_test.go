package catalog

import (
	"reflect"
	"testing"

	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
)

func intPtr(n int64) *int64 { return &n }

func TestBuild(t *testing.T) {
	articles := []corpus.Article{
		{ID: "A", Subject: "Amadou Hampâté Bâ | ABC Org", Spatial: "Cotonou"},
		{ID: "B", Subject: "ABC Org | Amadou Hampâté Bâ"},
		{ID: "C", Subject: "ABC Org | Cotonou"},
		{ID: "", Subject: "ABC Org"},
	}
	index := []corpus.IndexEntry{
		{ID: intPtr(1), Title: "Amadou Hampâté Bâ", Type: corpus.TypePersons},
		{ID: intPtr(9), Title: "ABC Org", Type: corpus.TypeOrganizations},
		{ID: intPtr(44), Title: "Cotonou", Type: corpus.TypeLocations, Coordinates: "6.37, 2.42", Country: "Benin"},
		{ID: intPtr(7), Title: "Never Mentioned", Type: corpus.TypePersons},
		{ID: nil, Title: "No ID", Type: corpus.TypeSubjects},
		{ID: intPtr(3), Title: "Unknown Type", Type: "Autre"},
	}

	c, result := Build(BuildParams{Articles: articles, Index: index})

	if result.ArticlesWithoutID != 1 {
		t.Errorf("expected 1 article without id, got %d", result.ArticlesWithoutID)
	}
	if result.Malformed != 1 {
		t.Errorf("expected 1 malformed index row, got %d", result.Malformed)
	}

	persons := c.Records("persons")
	if len(persons) != 1 {
		t.Fatalf("expected 1 person, got %d", len(persons))
	}
	wantPerson := Record{
		ID:                "1",
		Name:              "Amadou Hampâté Bâ",
		RelatedArticleIDs: []string{"A", "B"},
		ArticleCount:      2,
	}
	if !reflect.DeepEqual(persons[0], wantPerson) {
		t.Errorf("person = %+v, want %+v", persons[0], wantPerson)
	}

	orgs := c.Records("organizations")
	if len(orgs) != 1 {
		t.Fatalf("expected 1 organization, got %d", len(orgs))
	}
	if !reflect.DeepEqual(orgs[0].RelatedArticleIDs, []string{"A", "B", "C"}) {
		t.Errorf("unexpected organization articles: %v", orgs[0].RelatedArticleIDs)
	}

	locations := c.Locations()
	if len(locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(locations))
	}
	loc := locations[0]
	if !reflect.DeepEqual(loc.Coordinates, []float64{6.37, 2.42}) {
		t.Errorf("unexpected coordinates: %v", loc.Coordinates)
	}
	if loc.CountryName() != "Benin" {
		t.Errorf("unexpected country: %q", loc.CountryName())
	}
	if loc.CoordinatesRaw != "6.37, 2.42" {
		t.Errorf("unexpected raw coordinates: %q", loc.CoordinatesRaw)
	}
	if !reflect.DeepEqual(c.Records("locations"), []Record{loc.Record}) {
		t.Error("locations must also be visible as plain records")
	}

	if result.Counts["persons"] != 1 || result.Counts["organizations"] != 1 ||
		result.Counts["locations"] != 1 || result.Counts["subjects"] != 0 || result.Counts["events"] != 0 {
		t.Errorf("unexpected counts: %v", result.Counts)
	}
}

func TestBuild_DropsEntitiesWithoutArticles(t *testing.T) {
	index := []corpus.IndexEntry{
		{ID: intPtr(1), Title: "Ghost", Type: corpus.TypePersons},
	}

	c, result := Build(BuildParams{Index: index})

	if len(c.Records("persons")) != 0 {
		t.Errorf("expected ghost entity to be dropped, got %v", c.Records("persons"))
	}
	if result.Malformed != 0 {
		t.Errorf("unmentioned entity is not malformed, got %d", result.Malformed)
	}
}

func TestBuild_SortsRecordsByName(t *testing.T) {
	articles := []corpus.Article{
		{ID: "A", Subject: "Zèta | Alpha | Milieu"},
	}
	index := []corpus.IndexEntry{
		{ID: intPtr(1), Title: "Zèta", Type: corpus.TypeSubjects},
		{ID: intPtr(2), Title: "Alpha", Type: corpus.TypeSubjects},
		{ID: intPtr(3), Title: "Milieu", Type: corpus.TypeSubjects},
	}

	c, _ := Build(BuildParams{Articles: articles, Index: index})

	subjects := c.Records("subjects")
	if len(subjects) != 3 {
		t.Fatalf("expected 3 subjects, got %d", len(subjects))
	}
	got := []string{subjects[0].Name, subjects[1].Name, subjects[2].Name}
	want := []string{"Alpha", "Milieu", "Zèta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("subjects order = %v, want %v", got, want)
	}
}

func TestBuild_LocationWithUnparsableCoordinates(t *testing.T) {
	articles := []corpus.Article{{ID: "A", Subject: "Somewhere"}}
	index := []corpus.IndexEntry{
		{ID: intPtr(5), Title: "Somewhere", Type: corpus.TypeLocations, Coordinates: "unknown"},
	}

	c, _ := Build(BuildParams{Articles: articles, Index: index})

	locations := c.Locations()
	if len(locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(locations))
	}
	if locations[0].Coordinates != nil {
		t.Errorf("expected nil coordinates, got %v", locations[0].Coordinates)
	}
	if locations[0].Country != nil {
		t.Errorf("expected nil country, got %v", *locations[0].Country)
	}
	if locations[0].CoordinatesRaw != "unknown" {
		t.Errorf("raw coordinate string must be preserved, got %q", locations[0].CoordinatesRaw)
	}
	if locations[0].HasCoordinates() {
		t.Error("HasCoordinates must be false without a parsed pair")
	}
}
