package intersection

import (
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"

	"gridwalk/internal/model"
)

// LoadGeoJSON builds a graph from a FeatureCollection of intersection
// points, the format the OSM extractor writes
func LoadGeoJSON(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph file: %w", err)
	}

	var nodes []*model.Intersection
	skipped := 0
	for _, feature := range fc.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			skipped++
			continue
		}

		id, ok := propertyInt64(feature.Properties, "id")
		if !ok {
			skipped++
			continue
		}

		nodes = append(nodes, &model.Intersection{
			ID:          id,
			Lat:         point.Lat(),
			Lng:         point.Lon(),
			Streets:     propertyStrings(feature.Properties, "streets"),
			Connections: propertyInt64s(feature.Properties, "connections"),
		})
	}

	if skipped > 0 {
		log.Printf("Skipped %d malformed features in %s", skipped, path)
	}
	log.Printf("Loaded %d intersections from %s", len(nodes), path)

	return NewGraph(nodes), nil
}

// LoadPostgres builds a graph from the intersections table
func LoadPostgres(db *gorm.DB) (*Graph, error) {
	var pgNodes []*model.IntersectionPG
	if result := db.Find(&pgNodes); result.Error != nil {
		return nil, fmt.Errorf("failed to load intersections: %w", result.Error)
	}

	nodes := make([]*model.Intersection, len(pgNodes))
	for i, pgNode := range pgNodes {
		nodes[i] = model.IntersectionFromPG(pgNode)
	}

	log.Printf("Loaded %d intersections from PostgreSQL", len(nodes))
	return NewGraph(nodes), nil
}

// GeoJSON property values arrive as float64 and []interface{} after a
// round trip through encoding/json; collections built in-process carry
// the typed slices. Both shapes are accepted.

func propertyInt64(props geojson.Properties, key string) (int64, bool) {
	switch v := props[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func propertyStrings(props geojson.Properties, key string) []string {
	switch v := props[key].(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

func propertyInt64s(props geojson.Properties, key string) []int64 {
	switch v := props[key].(type) {
	case []int64:
		return v
	case []interface{}:
		result := make([]int64, 0, len(v))
		for _, item := range v {
			if f, ok := item.(float64); ok {
				result = append(result, int64(f))
			}
		}
		return result
	}
	return nil
}
