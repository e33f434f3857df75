// Package grid maps discrete walking-grid positions onto geodesic
// coordinates and back, and names the intersections they fall on.
package grid

import (
	"math"
	"math/rand"

	"gridwalk/internal/model"
	"gridwalk/internal/util"
)

// Manhattan defaults. The origin anchors grid (0,0) at the corner of
// 5th Avenue and 34th Street; street blocks are short, avenue blocks long.
const (
	DefaultOriginLat = 40.748817
	DefaultOriginLng = -73.985428

	DefaultStreetBlockMeters = 80.0
	DefaultAvenueBlockMeters = 274.0
)

// DefaultBounds is the walkable midtown rectangle around the origin
var DefaultBounds = model.Bounds{
	MinStreet: -25,
	MaxStreet: 55,
	MinAvenue: -6,
	MaxAvenue: 6,
}

// Model converts between grid positions and geodesic coordinates.
// It is pure configuration plus math and carries no mutable state.
type Model struct {
	Origin            model.GeoPoint
	Bounds            model.Bounds
	StreetBlockMeters float64
	AvenueBlockMeters float64
}

// NewManhattan returns a grid model with the Manhattan defaults
func NewManhattan() *Model {
	return &Model{
		Origin:            model.GeoPoint{Lat: DefaultOriginLat, Lng: DefaultOriginLng},
		Bounds:            DefaultBounds,
		StreetBlockMeters: DefaultStreetBlockMeters,
		AvenueBlockMeters: DefaultAvenueBlockMeters,
	}
}

// GeoPoint converts a grid position to its geodesic coordinate by
// displacing from the origin along the street axis first, then along the
// avenue axis. The order is fixed so the conversion stays deterministic.
func (m *Model) GeoPoint(p model.Position) model.GeoPoint {
	lat, lng := m.Origin.Lat, m.Origin.Lng

	if p.Street != 0 {
		bearing := 0.0
		if p.Street < 0 {
			bearing = 180.0
		}
		distance := math.Abs(float64(p.Street)) * m.StreetBlockMeters
		moved := util.DestinationPoint(lat, lng, bearing, distance)
		lat, lng = moved[0], moved[1]
	}

	if p.Avenue != 0 {
		bearing := 90.0
		if p.Avenue < 0 {
			bearing = 270.0
		}
		distance := math.Abs(float64(p.Avenue)) * m.AvenueBlockMeters
		moved := util.DestinationPoint(lat, lng, bearing, distance)
		lat, lng = moved[0], moved[1]
	}

	return model.GeoPoint{Lat: lat, Lng: lng}
}

// Position converts a geodesic coordinate to the nearest grid position.
// Each axis is measured independently against the origin, divided by the
// axis block distance and rounded to the nearest block (ties away from
// zero). The second return is false when the result is out of bounds.
func (m *Model) Position(g model.GeoPoint) (model.Position, bool) {
	streetDistance := util.HaversineDistance(m.Origin.Lat, m.Origin.Lng, g.Lat, m.Origin.Lng)
	street := int(math.Round(streetDistance / m.StreetBlockMeters))
	if g.Lat < m.Origin.Lat {
		street = -street
	}

	avenueDistance := util.HaversineDistance(g.Lat, m.Origin.Lng, g.Lat, g.Lng)
	avenue := int(math.Round(avenueDistance / m.AvenueBlockMeters))
	if g.Lng < m.Origin.Lng {
		avenue = -avenue
	}

	p := model.Position{Street: street, Avenue: avenue}
	return p, m.Bounds.Contains(p)
}

// Contains reports whether the position is a walkable intersection
func (m *Model) Contains(p model.Position) bool {
	return m.Bounds.Contains(p)
}

// Clamp saturates the position into the walkable bounds
func (m *Model) Clamp(p model.Position) model.Position {
	return m.Bounds.Clamp(p)
}

// RandomPosition returns a uniformly random in-bounds position
func (m *Model) RandomPosition(r *rand.Rand) model.Position {
	b := m.Bounds
	return model.Position{
		Street: b.MinStreet + r.Intn(b.MaxStreet-b.MinStreet+1),
		Avenue: b.MinAvenue + r.Intn(b.MaxAvenue-b.MinAvenue+1),
	}
}
