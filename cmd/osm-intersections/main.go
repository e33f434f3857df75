package main

import (
	"io"
	"log"
	"os"
	"runtime"
	"sort"

	"github.com/qedus/osmpbf"

	"gridwalk/internal/model"
)

// Manhattan bounding box, generous enough to cover the whole island
const (
	minLat = 40.70
	maxLat = 40.88
	minLng = -74.02
	maxLng = -73.91
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: program <path-to-osm.pbf> [output.geojson]")
	}

	osmFile := os.Args[1]
	outputFile := "manhattan_intersections.geojson"
	if len(os.Args) > 2 {
		outputFile = os.Args[2]
	}
	log.Printf("Processing file: %s", osmFile)

	f, err := os.Open(osmFile)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	decoder := osmpbf.NewDecoder(f)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	numProcs := runtime.GOMAXPROCS(-1)
	decoder.Start(numProcs)
	log.Printf("Decoder started with %d processors", numProcs)

	// Phase 1: cache the coordinates of every node inside the bounding box
	log.Println("Phase 1: Caching node coordinates...")

	nodeCoords := make(map[int64][2]float64)

	for {
		object, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error decoding: %v", err)
		}

		if node, ok := object.(*osmpbf.Node); ok {
			if node.Lat < minLat || node.Lat > maxLat || node.Lon < minLng || node.Lon > maxLng {
				continue
			}
			nodeCoords[node.ID] = [2]float64{node.Lat, node.Lon}
		}
	}

	log.Printf("Cached %d nodes inside the bounding box", len(nodeCoords))

	// Reset the decoder for the second pass
	f.Seek(0, 0)
	decoder = osmpbf.NewDecoder(f)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	decoder.Start(numProcs)

	// Phase 2: walk named roads and record which streets pass through each node
	log.Println("Phase 2: Collecting named road ways...")

	streetNames := make(map[int64]map[string]bool)
	var waySequences [][]int64
	wayCount := 0

	for {
		object, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error decoding: %v", err)
		}

		if way, ok := object.(*osmpbf.Way); ok {
			highway, isHighway := way.Tags["highway"]
			if !isHighway || !isRoadType(highway) {
				continue
			}

			name := way.Tags["name"]
			if name == "" {
				continue
			}

			// Keep only the nodes that fell inside the bounding box
			var sequence []int64
			for _, nodeID := range way.NodeIDs {
				if _, exists := nodeCoords[nodeID]; !exists {
					continue
				}
				if streetNames[nodeID] == nil {
					streetNames[nodeID] = make(map[string]bool)
				}
				streetNames[nodeID][name] = true
				sequence = append(sequence, nodeID)
			}

			if len(sequence) > 1 {
				waySequences = append(waySequences, sequence)
			}
			wayCount++
		}
	}

	log.Printf("Collected %d named road ways", wayCount)

	intersections := buildIntersections(nodeCoords, streetNames, waySequences)
	log.Printf("Found %d intersections", len(intersections))

	exportIntersectionsToGeoJSON(intersections, outputFile)

	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		saveIntersectionsToDB(dbURL, intersections)
	}

	log.Println("Processing complete!")
}

// isRoadType reports whether the highway value is a road that can form
// a street intersection
func isRoadType(highway string) bool {
	switch highway {
	case "motorway", "trunk", "primary", "secondary", "tertiary",
		"unclassified", "residential", "living_street", "pedestrian",
		"motorway_link", "trunk_link", "primary_link", "secondary_link", "tertiary_link":
		return true
	default:
		return false
	}
}

// buildIntersections keeps the nodes shared by at least two distinct
// streets and wires consecutive intersections along each way together
func buildIntersections(nodeCoords map[int64][2]float64, streetNames map[int64]map[string]bool, waySequences [][]int64) []*model.Intersection {
	isIntersection := make(map[int64]bool)
	for nodeID, names := range streetNames {
		if len(names) >= 2 {
			isIntersection[nodeID] = true
		}
	}

	connections := make(map[int64]map[int64]bool)
	link := func(a, b int64) {
		if connections[a] == nil {
			connections[a] = make(map[int64]bool)
		}
		connections[a][b] = true
	}

	// Consecutive intersections along a way are direct neighbors
	for _, sequence := range waySequences {
		previous := int64(-1)
		for _, nodeID := range sequence {
			if !isIntersection[nodeID] {
				continue
			}
			if previous >= 0 && previous != nodeID {
				link(previous, nodeID)
				link(nodeID, previous)
			}
			previous = nodeID
		}
	}

	var intersections []*model.Intersection
	for nodeID := range isIntersection {
		coords := nodeCoords[nodeID]

		names := make([]string, 0, len(streetNames[nodeID]))
		for name := range streetNames[nodeID] {
			names = append(names, name)
		}
		sort.Strings(names)

		var neighborIDs []int64
		for neighborID := range connections[nodeID] {
			neighborIDs = append(neighborIDs, neighborID)
		}
		sort.Slice(neighborIDs, func(i, j int) bool { return neighborIDs[i] < neighborIDs[j] })

		intersections = append(intersections, &model.Intersection{
			ID:          nodeID,
			Lat:         coords[0],
			Lng:         coords[1],
			Streets:     names,
			Connections: neighborIDs,
		})
	}

	sort.Slice(intersections, func(i, j int) bool { return intersections[i].ID < intersections[j].ID })

	return intersections
}
