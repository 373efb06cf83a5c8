// Package network builds the deduplicated, weighted co-occurrence networks
// from the entity catalog: a global cross-type graph and a coordinate-anchored
// spatial graph of locations. Edge weights count distinct articles, never raw
// mention pairs.
package network

import "time"

// Node is one entity surviving in the serialized network. Degree counts the
// edges incident to it after pruning.
type Node struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Degree int    `json:"degree"`
}

// Edge is one weighted relation between two entities of different types.
// Source and Target are ordered lexicographically, so an edge has exactly one
// spelling. ArticleIDs lists the distinct supporting articles in the order
// they were first seen; Weight always equals its length.
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Type       string   `json:"type"`
	Weight     int      `json:"weight"`
	ArticleIDs []string `json:"articleIds"`
}

// Meta describes a serialized network snapshot. GeneratedAt is the only
// field that varies between two builds of the same inputs.
type Meta struct {
	GeneratedAt    string      `json:"generatedAt"`
	TotalNodes     int         `json:"totalNodes"`
	TotalEdges     int         `json:"totalEdges"`
	SupportedTypes []string    `json:"supportedTypes"`
	WeightMin      int         `json:"weightMin"`
	TypePairs      [][2]string `json:"typePairs"`
}

// Snapshot is a fully serialized network.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Meta  Meta   `json:"meta"`
}

// Empty reports whether pruning left no edges in the snapshot.
func (s *Snapshot) Empty() bool {
	return len(s.Edges) == 0
}

// Clock supplies generation timestamps. Injectable so tests and comparisons
// can pin the only non-deterministic output field.
type Clock func() time.Time

func timestamp(clock Clock) string {
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Format(time.RFC3339)
}
