// Package intersection provides the street-crossing graph extracted
// from OpenStreetMap data: nearest-crossing lookup, shortest paths and
// street-name search.
package intersection

import (
	"container/heap"
	"math"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"

	"gridwalk/internal/model"
	"gridwalk/internal/util"
)

// nearestCandidates bounds how many R-tree hits get the precise
// great-circle ranking
const nearestCandidates = 8

// pointExtent gives point entries a tiny nonzero footprint; rtreego
// rejects zero-size rectangles
const pointExtent = 1e-9

// nodeSpatial adapts an intersection to the R-tree
type nodeSpatial struct {
	node *model.Intersection
}

// Bounds implements the rtreego.Spatial interface
func (n *nodeSpatial) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{n.node.Lng, n.node.Lat},
		[]float64{pointExtent, pointExtent},
	)
	return rect
}

// Graph is the immutable street graph built once at startup. Nodes keep
// their adjacency as neighbor IDs; edge lengths are computed on demand.
type Graph struct {
	nodes        map[int64]*model.Intersection
	spatialIndex *rtreego.Rtree
}

// NewGraph builds a graph over the given intersections
func NewGraph(nodes []*model.Intersection) *Graph {
	g := &Graph{
		nodes:        make(map[int64]*model.Intersection, len(nodes)),
		spatialIndex: rtreego.NewTree(2, 25, 50),
	}

	for _, node := range nodes {
		g.nodes[node.ID] = node
		g.spatialIndex.Insert(&nodeSpatial{node: node})
	}

	return g
}

// Count returns the number of intersections in the graph
func (g *Graph) Count() int {
	return len(g.nodes)
}

// Node returns an intersection by OSM node ID
func (g *Graph) Node(id int64) (*model.Intersection, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// Neighbors returns the intersections directly connected to the given one
func (g *Graph) Neighbors(id int64) []*model.Intersection {
	node, ok := g.nodes[id]
	if !ok {
		return nil
	}

	neighbors := make([]*model.Intersection, 0, len(node.Connections))
	for _, neighborID := range node.Connections {
		if neighbor, ok := g.nodes[neighborID]; ok {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// Nearest returns the intersection closest to the coordinate and its
// distance in meters. The R-tree narrows the field, then great-circle
// distance ranks the candidates precisely.
func (g *Graph) Nearest(lat, lng float64) (*model.Intersection, float64, bool) {
	if len(g.nodes) == 0 {
		return nil, 0, false
	}

	candidates := g.spatialIndex.NearestNeighbors(nearestCandidates, rtreego.Point{lng, lat})

	var best *model.Intersection
	bestDistance := math.Inf(1)
	for _, item := range candidates {
		if item == nil {
			continue
		}
		node := item.(*nodeSpatial).node

		distance := util.HaversineDistance(lat, lng, node.Lat, node.Lng)
		if distance < bestDistance {
			best = node
			bestDistance = distance
		}
	}

	if best == nil {
		return nil, 0, false
	}
	return best, bestDistance, true
}

// ShortestPath runs Dijkstra between two intersections and returns the
// route and its total length in meters. The third return is false when
// either endpoint is unknown or no route connects them.
func (g *Graph) ShortestPath(fromID, toID int64) ([]*model.Intersection, float64, bool) {
	if _, ok := g.nodes[fromID]; !ok {
		return nil, 0, false
	}
	if _, ok := g.nodes[toID]; !ok {
		return nil, 0, false
	}

	if fromID == toID {
		return []*model.Intersection{g.nodes[fromID]}, 0, true
	}

	distances := map[int64]float64{fromID: 0}
	previous := make(map[int64]int64)
	visited := make(map[int64]bool)

	queue := &pathQueue{{id: fromID, distance: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		current := heap.Pop(queue).(*pathItem)
		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		if current.id == toID {
			break
		}

		node := g.nodes[current.id]
		for _, neighborID := range node.Connections {
			neighbor, ok := g.nodes[neighborID]
			if !ok || visited[neighborID] {
				continue
			}

			step := util.HaversineDistance(node.Lat, node.Lng, neighbor.Lat, neighbor.Lng)
			candidate := current.distance + step

			known, seen := distances[neighborID]
			if !seen || candidate < known {
				distances[neighborID] = candidate
				previous[neighborID] = current.id
				heap.Push(queue, &pathItem{id: neighborID, distance: candidate})
			}
		}
	}

	if _, ok := previous[toID]; !ok {
		return nil, 0, false
	}

	// Reconstruct the route back to front
	var path []*model.Intersection
	current := toID
	for {
		path = append(path, g.nodes[current])
		if current == fromID {
			break
		}
		current = previous[current]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, distances[toID], true
}

// FindByStreet returns every intersection one of whose street names
// contains the query, case-insensitively, ordered by node ID
func (g *Graph) FindByStreet(name string) []*model.Intersection {
	query := strings.ToLower(name)

	var results []*model.Intersection
	for _, node := range g.nodes {
		for _, street := range node.Streets {
			if strings.Contains(strings.ToLower(street), query) {
				results = append(results, node)
				break
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// pathItem is one frontier entry of the Dijkstra queue
type pathItem struct {
	id       int64
	distance float64
}

type pathQueue []*pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool { return q[i].distance < q[j].distance }

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x interface{}) {
	*q = append(*q, x.(*pathItem))
}

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
