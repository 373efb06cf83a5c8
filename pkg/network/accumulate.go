package network

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// EdgeKey canonically identifies an undirected edge by its lexicographically
// sorted endpoint ids. Two mentions of the same entity pair always collapse
// onto one key, whatever order they arrive in.
type EdgeKey struct {
	Low  string
	High string
}

// NewEdgeKey builds the canonical key for an entity pair.
func NewEdgeKey(a, b string) EdgeKey {
	if a < b {
		return EdgeKey{Low: a, High: b}
	}
	return EdgeKey{Low: b, High: a}
}

type edgeState struct {
	relationType string
	articleIDs   []string
	seen         map[string]struct{}
}

// Accumulator folds per-article cross-type co-mentions into weighted,
// deduplicated edges. Every edge keeps a seen set of contributing article
// ids: an article can raise an edge's weight at most once, no matter how many
// rule applications or mention pairs it produces for that edge.
type Accumulator struct {
	rules []TypePair
	edges map[EdgeKey]*edgeState
}

// NewAccumulator creates an empty accumulator for the given rule list.
func NewAccumulator(rules []TypePair) *Accumulator {
	return &Accumulator{
		rules: rules,
		edges: make(map[EdgeKey]*edgeState),
	}
}

// Observe records one article's co-mentions. For each rule (a, b), every
// mentioned node of type a is paired with every mentioned node of type b.
// The rule that first creates an edge names its relation type; later rules
// and articles never relabel it.
func (acc *Accumulator) Observe(articleID string, mentionsByType map[string][]string) {
	for _, rule := range acc.rules {
		as := mentionsByType[rule.A]
		bs := mentionsByType[rule.B]
		if len(as) == 0 || len(bs) == 0 {
			continue
		}
		for _, a := range as {
			for _, b := range bs {
				acc.observePair(articleID, rule, a, b)
			}
		}
	}
}

func (acc *Accumulator) observePair(articleID string, rule TypePair, a, b string) {
	key := NewEdgeKey(a, b)
	st, ok := acc.edges[key]
	if !ok {
		st = &edgeState{
			relationType: rule.RelationType(),
			seen:         make(map[string]struct{}),
		}
		acc.edges[key] = st
	}

	if _, dup := st.seen[articleID]; dup {
		return
	}
	st.seen[articleID] = struct{}{}
	st.articleIDs = append(st.articleIDs, articleID)
}

// Merge folds other into acc. Used by the parallel build: partitions are
// merged in partition order, so per-edge article order comes out identical to
// a serial pass over the same article sequence.
func (acc *Accumulator) Merge(other *Accumulator) {
	for key, incoming := range other.edges {
		st, ok := acc.edges[key]
		if !ok {
			acc.edges[key] = incoming
			continue
		}
		for _, articleID := range incoming.articleIDs {
			if _, dup := st.seen[articleID]; dup {
				continue
			}
			st.seen[articleID] = struct{}{}
			st.articleIDs = append(st.articleIDs, articleID)
		}
	}
}

// Edges returns the accumulated edges sorted by (source, target). Weight
// equals the article list length by construction.
func (acc *Accumulator) Edges() []Edge {
	edges := make([]Edge, 0, len(acc.edges))
	for key, st := range acc.edges {
		edges = append(edges, Edge{
			Source:     key.Low,
			Target:     key.High,
			Type:       st.relationType,
			Weight:     len(st.articleIDs),
			ArticleIDs: st.articleIDs,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Len returns the number of distinct edges accumulated so far.
func (acc *Accumulator) Len() int {
	return len(acc.edges)
}

// accumulate runs the accumulator over every indexed article. With
// parallelism above one, the article list is split into contiguous chunks
// processed concurrently; chunk accumulators are then merged in chunk order,
// which keeps the result identical to the serial pass.
func accumulate(idx *ArticleEntityIndex, rules []TypePair, parallelism int) *Accumulator {
	articles := idx.Articles()
	if parallelism <= 1 || len(articles) < 2*parallelism {
		acc := NewAccumulator(rules)
		for _, articleID := range articles {
			acc.Observe(articleID, idx.MentionsByType(articleID))
		}
		return acc
	}

	chunks := chunkArticles(articles, parallelism)
	partials := make([]*Accumulator, len(chunks))

	var group errgroup.Group
	group.SetLimit(parallelism)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		group.Go(func() error {
			acc := NewAccumulator(rules)
			for _, articleID := range chunk {
				acc.Observe(articleID, idx.MentionsByType(articleID))
			}
			partials[i] = acc
			return nil
		})
	}
	_ = group.Wait()

	merged := partials[0]
	for _, partial := range partials[1:] {
		merged.Merge(partial)
	}
	return merged
}

func chunkArticles(articles []string, parts int) [][]string {
	if parts > len(articles) {
		parts = len(articles)
	}
	chunks := make([][]string, 0, parts)
	size := (len(articles) + parts - 1) / parts
	for start := 0; start < len(articles); start += size {
		end := start + size
		if end > len(articles) {
			end = len(articles)
		}
		chunks = append(chunks, articles[start:end])
	}
	return chunks
}
