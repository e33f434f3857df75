package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"gridwalk/internal/model"
)

// exportIntersectionsToGeoJSON writes the intersections to a GeoJSON file
// in the shape the service loader reads back
func exportIntersectionsToGeoJSON(intersections []*model.Intersection, outputFile string) {
	log.Printf("Exporting %d intersections to GeoJSON file: %s", len(intersections), outputFile)

	// Create a GeoJSON FeatureCollection
	fc := geojson.NewFeatureCollection()

	for _, node := range intersections {
		// GeoJSON positions are [lon, lat]
		feature := geojson.NewFeature(orb.Point{node.Lng, node.Lat})
		feature.Properties["id"] = node.ID
		feature.Properties["name"] = node.Name()
		feature.Properties["streets"] = node.Streets
		feature.Properties["connections"] = node.Connections
		fc.Append(feature)
	}

	// Marshal the FeatureCollection to JSON
	jsonData, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal GeoJSON: %v", err)
	}

	// Write to file
	err = os.WriteFile(outputFile, jsonData, 0644)
	if err != nil {
		log.Fatalf("Failed to write GeoJSON file: %v", err)
	}

	log.Printf("Successfully exported intersections to %s", outputFile)
}
