package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		d := HaversineDistance(40.748817, -73.985428, 40.748817, -73.985428)
		assert.InDelta(t, 0, d, 0.001)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// One degree of latitude on the sphere is R * pi / 180
		d := HaversineDistance(40.0, -73.0, 41.0, -73.0)
		assert.InDelta(t, 6371000.0*math.Pi/180.0, d, 1.0)
	})

	t.Run("symmetric in its arguments", func(t *testing.T) {
		a := HaversineDistance(40.7580, -73.9855, 40.7484, -73.9857)
		b := HaversineDistance(40.7484, -73.9857, 40.7580, -73.9855)
		assert.InDelta(t, a, b, 0.001)
	})
}

func TestDestinationPoint(t *testing.T) {
	const lat, lng = 40.748817, -73.985428

	t.Run("north keeps longitude", func(t *testing.T) {
		dest := DestinationPoint(lat, lng, 0, 1000)
		assert.Greater(t, dest[0], lat)
		assert.InDelta(t, lng, dest[1], 1e-9)
	})

	t.Run("east keeps latitude almost unchanged", func(t *testing.T) {
		dest := DestinationPoint(lat, lng, 90, 1000)
		assert.Greater(t, dest[1], lng)
		assert.InDelta(t, lat, dest[0], 1e-5)
	})

	t.Run("distance is preserved in every direction", func(t *testing.T) {
		for bearing := 0.0; bearing < 360.0; bearing += 45.0 {
			dest := DestinationPoint(lat, lng, bearing, 500)
			d := HaversineDistance(lat, lng, dest[0], dest[1])
			assert.InDelta(t, 500, d, 0.01, "bearing %.0f", bearing)
		}
	})
}

func TestMetersToDegreesLat(t *testing.T) {
	metersPerDegree := 6371000.0 * math.Pi / 180.0
	assert.InDelta(t, 1.0, MetersToDegreesLat(metersPerDegree), 1e-9)
	assert.InDelta(t, 0.5, MetersToDegreesLat(metersPerDegree/2), 1e-9)
}

func TestMetersToDegreesLng(t *testing.T) {
	metersPerDegree := 6371000.0 * math.Pi / 180.0

	t.Run("matches latitude conversion at the equator", func(t *testing.T) {
		assert.InDelta(t, MetersToDegreesLat(1000), MetersToDegreesLng(1000, 0), 1e-9)
	})

	t.Run("degrees stretch at higher latitudes", func(t *testing.T) {
		// cos(60) = 0.5, so the same distance spans twice the degrees
		assert.InDelta(t, 2.0, MetersToDegreesLng(metersPerDegree, 60), 1e-6)
	})

	t.Run("survives the poles", func(t *testing.T) {
		assert.False(t, math.IsInf(MetersToDegreesLng(1000, 90), 1))
		assert.False(t, math.IsNaN(MetersToDegreesLng(1000, 90)))
	})
}

func TestNormalizeBearing(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{370, 10},
		{-10, 350},
		{-540, 180},
		{359.9, 359.9},
	}

	for _, tt := range tests {
		if got := NormalizeBearing(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeBearing(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
