// Package catalog builds and loads the per-type entity collections that sit
// between the raw corpus exports and the network builders. Each collection
// holds the entities of one type together with the ids of the articles that
// mention them.
package catalog

import "github.com/fmadore/IWAC-spatial-overview/pkg/corpus"

// EntityType describes one supported entity collection: the French label the
// index export uses, the plural collection file name, and the singular label
// used in node ids.
type EntityType struct {
	IndexLabel string
	Collection string
	Singular   string
}

// Types lists the supported entity collections in canonical order. The order
// is part of the output contract: supportedTypes in network metadata follows
// it.
var Types = []EntityType{
	{IndexLabel: corpus.TypePersons, Collection: "persons", Singular: "person"},
	{IndexLabel: corpus.TypeOrganizations, Collection: "organizations", Singular: "organization"},
	{IndexLabel: corpus.TypeEvents, Collection: "events", Singular: "event"},
	{IndexLabel: corpus.TypeSubjects, Collection: "subjects", Singular: "subject"},
	{IndexLabel: corpus.TypeLocations, Collection: "locations", Singular: "location"},
}

// TypeByCollection resolves a plural collection name like "persons".
func TypeByCollection(name string) (EntityType, bool) {
	for _, t := range Types {
		if t.Collection == name {
			return t, true
		}
	}
	return EntityType{}, false
}

// TypeBySingular resolves a singular node type label like "person".
func TypeBySingular(label string) (EntityType, bool) {
	for _, t := range Types {
		if t.Singular == label {
			return t, true
		}
	}
	return EntityType{}, false
}

func typeByIndexLabel(label string) (EntityType, bool) {
	for _, t := range Types {
		if t.IndexLabel == label {
			return t, true
		}
	}
	return EntityType{}, false
}

// NodeID renders the canonical node id for an entity of this type,
// e.g. "person:123".
func (t EntityType) NodeID(id string) string {
	return t.Singular + ":" + id
}

// SingularLabels returns the singular type labels in canonical order.
func SingularLabels() []string {
	labels := make([]string, len(Types))
	for i, t := range Types {
		labels[i] = t.Singular
	}
	return labels
}
