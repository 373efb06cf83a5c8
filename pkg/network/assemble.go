package network

import (
	"sort"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

// PruneEdges drops every edge lighter than weightMin. Pruning runs exactly
// once, after accumulation is complete; a pruned edge's supporting articles
// are gone for good.
func PruneEdges(edges []Edge, weightMin int) []Edge {
	kept := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if edge.Weight >= weightMin {
			kept = append(kept, edge)
		}
	}
	return kept
}

// AssembleNodes returns a node for every catalog entity that appears in at
// least one surviving edge. Degree counts incident surviving edges; Count
// carries the entity's article count.
func AssembleNodes(c *catalog.Catalog, edges []Edge) []Node {
	degree := make(map[string]int)
	for _, edge := range edges {
		degree[edge.Source]++
		degree[edge.Target]++
	}

	nodes := make([]Node, 0, len(degree))
	for _, t := range catalog.Types {
		for _, record := range c.Records(t.Collection) {
			nodeID := t.NodeID(record.ID)
			d, ok := degree[nodeID]
			if !ok {
				continue
			}
			count := record.ArticleCount
			if count == 0 {
				count = len(record.RelatedArticleIDs)
			}
			nodes = append(nodes, Node{
				ID:     nodeID,
				Type:   t.Singular,
				Label:  record.Name,
				Count:  count,
				Degree: d,
			})
		}
	}
	return nodes
}

// sortNodes orders nodes by descending degree, then ascending id.
func sortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Degree != nodes[j].Degree {
			return nodes[i].Degree > nodes[j].Degree
		}
		return nodes[i].ID < nodes[j].ID
	})
}
