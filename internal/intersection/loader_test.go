package intersection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwalk/internal/model"
)

const sampleGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-73.9860, 40.7480]},
			"properties": {
				"id": 1,
				"name": "West 34th Street & 7th Avenue",
				"streets": ["West 34th Street", "7th Avenue"],
				"connections": [2]
			}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-73.9865, 40.7487]},
			"properties": {
				"id": 2,
				"name": "West 35th Street & 7th Avenue",
				"streets": ["West 35th Street", "7th Avenue"],
				"connections": [1]
			}
		},
		{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[-73.98, 40.74], [-73.97, 40.75]]},
			"properties": {"id": 3}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-73.9800, 40.7500]},
			"properties": {"name": "missing id"}
		}
	]
}`

func writeGraphFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intersections.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGeoJSON(t *testing.T) {
	graph, err := LoadGeoJSON(writeGraphFile(t, sampleGeoJSON))
	require.NoError(t, err)

	// The line and the id-less point are skipped, the two corners load
	assert.Equal(t, 2, graph.Count())

	node, ok := graph.Node(1)
	require.True(t, ok)

	want := &model.Intersection{
		ID:          1,
		Lat:         40.7480,
		Lng:         -73.9860,
		Streets:     []string{"West 34th Street", "7th Avenue"},
		Connections: []int64{2},
	}
	if diff := cmp.Diff(want, node); diff != "" {
		t.Errorf("loaded intersection mismatch (-want +got):\n%s", diff)
	}

	neighbors := graph.Neighbors(1)
	require.Len(t, neighbors, 1)
	assert.Equal(t, int64(2), neighbors[0].ID)
}

func TestLoadGeoJSONMissingFile(t *testing.T) {
	_, err := LoadGeoJSON(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}

func TestLoadGeoJSONMalformed(t *testing.T) {
	_, err := LoadGeoJSON(writeGraphFile(t, "{not geojson"))
	assert.Error(t, err)
}
