package network

import (
	"math"
	"sort"
	"strings"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/corpus"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// SpatialNode is a geocoded location in the spatial network. Strength sums
// the weights of its incident edges, Degree counts them.
type SpatialNode struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	Label             string    `json:"label"`
	Count             int       `json:"count"`
	Coordinates       []float64 `json:"coordinates"`
	Country           *string   `json:"country"`
	Region            string    `json:"region"`
	Prefecture        string    `json:"prefecture"`
	RelatedArticleIDs []string  `json:"relatedArticleIds"`
	Degree            int       `json:"degree"`
	Strength          int       `json:"strength"`
}

// SpatialEdge is a location co-occurrence edge. WeightNorm scales the weight
// against the heaviest surviving edge for rendering.
type SpatialEdge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Weight     int      `json:"weight"`
	ArticleIDs []string `json:"articleIds"`
	WeightNorm float64  `json:"weightNorm"`
}

// Bounds is the padded geographic envelope of the surviving nodes, used for
// map initialization.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// SpatialMeta describes a spatial snapshot.
type SpatialMeta struct {
	GeneratedAt                   string  `json:"generatedAt"`
	TotalNodes                    int     `json:"totalNodes"`
	TotalEdges                    int     `json:"totalEdges"`
	WeightMin                     int     `json:"weightMin"`
	GeocodedLocations             int     `json:"geocodedLocations"`
	TotalLocationsInData          int     `json:"totalLocationsInData"`
	GeocodingSuccessRate          float64 `json:"geocodingSuccessRate"`
	Bounds                        *Bounds `json:"bounds"`
	ArticlesWithMultipleLocations int     `json:"articlesWithMultipleLocations"`
}

// SpatialSnapshot is the serialized spatial network.
type SpatialSnapshot struct {
	Nodes  []SpatialNode `json:"nodes"`
	Edges  []SpatialEdge `json:"edges"`
	Bounds *Bounds       `json:"bounds"`
	Meta   SpatialMeta   `json:"meta"`
}

// Empty reports whether pruning left no edges in the snapshot.
func (s *SpatialSnapshot) Empty() bool {
	return len(s.Edges) == 0
}

// BuildSpatialParams configures one spatial network build.
type BuildSpatialParams struct {
	Articles  []corpus.Article
	Locations []catalog.LocationRecord
	WeightMin int
	Clock     Clock
}

// BuildSpatialSnapshot builds the location co-occurrence network. Only
// locations with valid coordinates become nodes. Articles link locations
// through their spatial mention lists; each article raises an edge's weight
// at most once. Isolated nodes are dropped after pruning.
func BuildSpatialSnapshot(params BuildSpatialParams) *SpatialSnapshot {
	nodes := spatialCandidates(params.Locations)
	geocoded := len(nodes)
	logger.Info("[Network] Spatial candidates collected",
		"geocoded", geocoded, "total", len(params.Locations))

	// Articles match nodes by lowercased label. When two locations share a
	// label, the later one in catalog order wins, so lookups stay stable.
	nodeByLabel := make(map[string]int, len(nodes))
	for i, node := range nodes {
		nodeByLabel[strings.ToLower(node.Label)] = i
	}

	multiLocation := 0
	edges := make(map[EdgeKey]*edgeState)
	for _, article := range params.Articles {
		mentioned := mentionedNodes(article.Spatial, nodes, nodeByLabel)
		if len(mentioned) < 2 {
			continue
		}
		multiLocation++
		for i := 0; i < len(mentioned); i++ {
			for j := i + 1; j < len(mentioned); j++ {
				observeSpatialPair(edges, article.ID, mentioned[i], mentioned[j])
			}
		}
	}

	kept := make([]SpatialEdge, 0, len(edges))
	maxWeight := 0
	for key, st := range edges {
		weight := len(st.articleIDs)
		if weight < params.WeightMin {
			continue
		}
		if weight > maxWeight {
			maxWeight = weight
		}
		kept = append(kept, SpatialEdge{
			Source:     key.Low,
			Target:     key.High,
			Weight:     weight,
			ArticleIDs: st.articleIDs,
		})
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Source != kept[j].Source {
			return kept[i].Source < kept[j].Source
		}
		return kept[i].Target < kept[j].Target
	})
	for i := range kept {
		kept[i].WeightNorm = float64(kept[i].Weight) / float64(maxWeight)
	}

	degree := make(map[string]int)
	strength := make(map[string]int)
	for _, edge := range kept {
		degree[edge.Source]++
		degree[edge.Target]++
		strength[edge.Source] += edge.Weight
		strength[edge.Target] += edge.Weight
	}

	connected := make([]SpatialNode, 0, len(nodes))
	for _, node := range nodes {
		d, ok := degree[node.ID]
		if !ok {
			continue
		}
		node.Degree = d
		node.Strength = strength[node.ID]
		connected = append(connected, node)
	}

	bounds := spatialBounds(connected)
	snapshot := &SpatialSnapshot{
		Nodes:  connected,
		Edges:  kept,
		Bounds: bounds,
		Meta: SpatialMeta{
			GeneratedAt:                   timestamp(params.Clock),
			TotalNodes:                    len(connected),
			TotalEdges:                    len(kept),
			WeightMin:                     params.WeightMin,
			GeocodedLocations:             geocoded,
			TotalLocationsInData:          len(params.Locations),
			GeocodingSuccessRate:          successRate(geocoded, len(params.Locations)),
			Bounds:                        bounds,
			ArticlesWithMultipleLocations: multiLocation,
		},
	}

	if snapshot.Empty() {
		logger.Warn("[Network] Spatial snapshot has no edges after pruning",
			"weightMin", params.WeightMin, "accumulated", len(edges))
	} else {
		logger.Info("[Network] Spatial snapshot built",
			"nodes", len(connected), "edges", len(kept), "weightMin", params.WeightMin)
	}
	return snapshot
}

// spatialCandidates turns every location with a usable coordinate pair into
// a node, keeping catalog order.
func spatialCandidates(locations []catalog.LocationRecord) []SpatialNode {
	entityType, _ := catalog.TypeByCollection("locations")
	nodes := make([]SpatialNode, 0, len(locations))
	for _, location := range locations {
		label := strings.TrimSpace(location.Name)
		if label == "" || !location.HasCoordinates() {
			continue
		}
		lat, lng := location.Coordinates[0], location.Coordinates[1]
		if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
			continue
		}

		count := location.ArticleCount
		if count == 0 {
			count = len(location.RelatedArticleIDs)
		}
		nodes = append(nodes, SpatialNode{
			ID:                entityType.NodeID(location.ID),
			Type:              entityType.Singular,
			Label:             label,
			Count:             count,
			Coordinates:       []float64{lat, lng},
			Country:           location.Country,
			Region:            location.Region,
			Prefecture:        location.Prefecture,
			RelatedArticleIDs: location.RelatedArticleIDs,
		})
	}
	return nodes
}

// mentionedNodes resolves an article's spatial list to distinct node ids in
// first-mention order.
func mentionedNodes(spatial string, nodes []SpatialNode, nodeByLabel map[string]int) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, name := range corpus.SplitPipeList(spatial) {
		i, ok := nodeByLabel[strings.ToLower(name)]
		if !ok {
			continue
		}
		id := nodes[i].ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func observeSpatialPair(edges map[EdgeKey]*edgeState, articleID, a, b string) {
	key := NewEdgeKey(a, b)
	st, ok := edges[key]
	if !ok {
		st = &edgeState{seen: make(map[string]struct{})}
		edges[key] = st
	}
	if _, dup := st.seen[articleID]; dup {
		return
	}
	st.seen[articleID] = struct{}{}
	st.articleIDs = append(st.articleIDs, articleID)
}

// spatialBounds computes the node envelope padded by a tenth of each span,
// or a fixed 0.1 degrees when the span is zero.
func spatialBounds(nodes []SpatialNode) *Bounds {
	if len(nodes) == 0 {
		return nil
	}

	bounds := Bounds{
		North: nodes[0].Coordinates[0],
		South: nodes[0].Coordinates[0],
		East:  nodes[0].Coordinates[1],
		West:  nodes[0].Coordinates[1],
	}
	for _, node := range nodes[1:] {
		lat, lng := node.Coordinates[0], node.Coordinates[1]
		bounds.North = math.Max(bounds.North, lat)
		bounds.South = math.Min(bounds.South, lat)
		bounds.East = math.Max(bounds.East, lng)
		bounds.West = math.Min(bounds.West, lng)
	}

	latPad := (bounds.North - bounds.South) * 0.1
	if latPad == 0 {
		latPad = 0.1
	}
	lngPad := (bounds.East - bounds.West) * 0.1
	if lngPad == 0 {
		lngPad = 0.1
	}
	bounds.North += latPad
	bounds.South -= latPad
	bounds.East += lngPad
	bounds.West -= lngPad
	return &bounds
}

func successRate(geocoded, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(geocoded)/float64(total)*1000) / 10
}
