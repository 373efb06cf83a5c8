package network

import (
	"sort"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

// ArticleEntityIndex maps each article id to the node ids it mentions,
// bucketed by singular entity type. A node id appears at most once per
// bucket. Articles are iterated in ascending id order so every downstream
// pass is deterministic.
type ArticleEntityIndex struct {
	order    []string
	mentions map[string]map[string][]string
}

// BuildArticleIndex inverts the catalog's related-article lists into an
// article index.
func BuildArticleIndex(c *catalog.Catalog) *ArticleEntityIndex {
	idx := &ArticleEntityIndex{mentions: make(map[string]map[string][]string)}

	for _, t := range catalog.Types {
		for _, record := range c.Records(t.Collection) {
			nodeID := t.NodeID(record.ID)
			for _, articleID := range record.RelatedArticleIDs {
				byType, ok := idx.mentions[articleID]
				if !ok {
					byType = make(map[string][]string)
					idx.mentions[articleID] = byType
					idx.order = append(idx.order, articleID)
				}
				if !containsNode(byType[t.Singular], nodeID) {
					byType[t.Singular] = append(byType[t.Singular], nodeID)
				}
			}
		}
	}

	sort.Strings(idx.order)
	return idx
}

// Articles returns every indexed article id in ascending order.
func (idx *ArticleEntityIndex) Articles() []string {
	return idx.order
}

// MentionsByType returns the per-type node id lists for one article. The
// returned map is shared; callers must not mutate it.
func (idx *ArticleEntityIndex) MentionsByType(articleID string) map[string][]string {
	return idx.mentions[articleID]
}

// Len returns the number of indexed articles.
func (idx *ArticleEntityIndex) Len() int {
	return len(idx.order)
}

func containsNode(nodes []string, id string) bool {
	for _, n := range nodes {
		if n == id {
			return true
		}
	}
	return false
}
