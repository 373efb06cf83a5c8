package network

import (
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// BuildParams configures one global network build.
type BuildParams struct {
	Catalog *catalog.Catalog
	// Rules is the ordered cross-type pairing rule list. Empty means
	// DefaultTypePairs.
	Rules []TypePair
	// WeightMin is the minimum distinct-article weight an edge needs to
	// survive pruning.
	WeightMin int
	// Parallelism above one accumulates article chunks concurrently. The
	// output is identical to a serial build.
	Parallelism int
	// Clock overrides the timestamp source.
	Clock Clock
}

// BuildSnapshot runs the full network pipeline: article indexing, cross-type
// accumulation, pruning, node assembly, and deterministic ordering. An empty
// result is still a valid snapshot; it is logged as a warning, never an
// error.
func BuildSnapshot(params BuildParams) *Snapshot {
	rules := params.Rules
	if len(rules) == 0 {
		rules = DefaultTypePairs()
	}

	idx := BuildArticleIndex(params.Catalog)
	logger.Info("[Network] Article index built", "articles", idx.Len())

	acc := accumulate(idx, rules, params.Parallelism)
	logger.Info("[Network] Edges accumulated", "edges", acc.Len())

	edges := PruneEdges(acc.Edges(), params.WeightMin)
	nodes := AssembleNodes(params.Catalog, edges)
	sortNodes(nodes)

	snapshot := &Snapshot{
		Nodes: nodes,
		Edges: edges,
		Meta: Meta{
			GeneratedAt:    timestamp(params.Clock),
			TotalNodes:     len(nodes),
			TotalEdges:     len(edges),
			SupportedTypes: catalog.SingularLabels(),
			WeightMin:      params.WeightMin,
			TypePairs:      pairTuples(rules),
		},
	}

	if snapshot.Empty() {
		logger.Warn("[Network] Snapshot has no edges after pruning",
			"weightMin", params.WeightMin, "accumulated", acc.Len())
	} else {
		logger.Info("[Network] Snapshot built",
			"nodes", len(nodes), "edges", len(edges), "weightMin", params.WeightMin)
	}
	return snapshot
}
