package network

import (
	"reflect"
	"testing"
)

func TestParseTypePairs(t *testing.T) {
	pairs, err := ParseTypePairs([]string{"person-organization", "subject-location"})
	if err != nil {
		t.Fatalf("ParseTypePairs returned error: %v", err)
	}
	want := []TypePair{
		{A: "person", B: "organization"},
		{A: "subject", B: "location"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("pairs = %v, want %v", pairs, want)
	}
}

func TestParseTypePairs_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
	}{
		{"unknown type", []string{"person-newspaper"}},
		{"self pair", []string{"person-person"}},
		{"missing separator", []string{"person"}},
		{"duplicate rule", []string{"person-organization", "person-organization"}},
		{"duplicate unordered rule", []string{"person-organization", "organization-person"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTypePairs(tt.specs); err == nil {
				t.Errorf("expected error for %v", tt.specs)
			}
		})
	}
}

func TestDefaultTypePairs(t *testing.T) {
	pairs := DefaultTypePairs()
	if len(pairs) != 10 {
		t.Fatalf("expected 10 default pairs, got %d", len(pairs))
	}
	if pairs[0] != (TypePair{A: "person", B: "organization"}) {
		t.Errorf("unexpected first pair: %v", pairs[0])
	}
	if pairs[len(pairs)-1] != (TypePair{A: "subject", B: "location"}) {
		t.Errorf("unexpected last pair: %v", pairs[len(pairs)-1])
	}
}

func TestRelationType(t *testing.T) {
	pair := TypePair{A: "person", B: "organization"}
	if got := pair.RelationType(); got != "person-organization" {
		t.Errorf("RelationType() = %q", got)
	}
}
