package model

import (
	"encoding/json"
	"fmt"
)

// Heading represents one of the four cardinal walking directions
type Heading int

const (
	HeadingNorth Heading = iota
	HeadingEast
	HeadingSouth
	HeadingWest
)

var headingNames = [...]string{"north", "east", "south", "west"}

// String returns the lowercase name of the heading
func (h Heading) String() string {
	if h < HeadingNorth || h > HeadingWest {
		return "unknown"
	}
	return headingNames[h]
}

// RotateRight returns the heading one quarter turn clockwise
func (h Heading) RotateRight() Heading {
	return (h + 1) % 4
}

// RotateLeft returns the heading one quarter turn counterclockwise
func (h Heading) RotateLeft() Heading {
	return (h + 3) % 4
}

// Opposite returns the reversed heading
func (h Heading) Opposite() Heading {
	return (h + 2) % 4
}

// Bearing returns the compass bearing of the heading in degrees
// (north=0, east=90, south=180, west=270)
func (h Heading) Bearing() float64 {
	return float64(h) * 90.0
}

// Vector returns the grid displacement of a single block step along the
// heading: north increases the street index, east increases the avenue index
func (h Heading) Vector() (dStreet, dAvenue int) {
	switch h {
	case HeadingNorth:
		return 1, 0
	case HeadingEast:
		return 0, 1
	case HeadingSouth:
		return -1, 0
	case HeadingWest:
		return 0, -1
	}
	return 0, 0
}

// MarshalJSON encodes the heading as its lowercase name
func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a heading from its lowercase name
func (h *Heading) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseHeading(name)
	if !ok {
		return fmt.Errorf("unknown heading %q", name)
	}
	*h = parsed
	return nil
}

// ParseHeading resolves a lowercase heading name to its value
func ParseHeading(name string) (Heading, bool) {
	for i, n := range headingNames {
		if n == name {
			return Heading(i), true
		}
	}
	return HeadingNorth, false
}

// Position is a discrete intersection on the walking grid.
// Street grows northward, avenue grows eastward.
type Position struct {
	Street int `json:"street"`
	Avenue int `json:"avenue"`
}

// Step returns the position one block away along the given heading
func (p Position) Step(h Heading) Position {
	dStreet, dAvenue := h.Vector()
	return Position{Street: p.Street + dStreet, Avenue: p.Avenue + dAvenue}
}

// Bounds is the inclusive rectangular region of walkable intersections
type Bounds struct {
	MinStreet int `json:"minStreet"`
	MaxStreet int `json:"maxStreet"`
	MinAvenue int `json:"minAvenue"`
	MaxAvenue int `json:"maxAvenue"`
}

// Contains reports whether the position lies inside the bounds
func (b Bounds) Contains(p Position) bool {
	return p.Street >= b.MinStreet && p.Street <= b.MaxStreet &&
		p.Avenue >= b.MinAvenue && p.Avenue <= b.MaxAvenue
}

// Clamp saturates each axis of the position into the bounds independently
func (b Bounds) Clamp(p Position) Position {
	if p.Street < b.MinStreet {
		p.Street = b.MinStreet
	}
	if p.Street > b.MaxStreet {
		p.Street = b.MaxStreet
	}
	if p.Avenue < b.MinAvenue {
		p.Avenue = b.MinAvenue
	}
	if p.Avenue > b.MaxAvenue {
		p.Avenue = b.MaxAvenue
	}
	return p
}

// GeoPoint is a WGS84 coordinate pair in degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Label is the human-readable naming of a grid position
type Label struct {
	Street string `json:"street"`
	Avenue string `json:"avenue"`
}

// String formats the label the way a New Yorker would say it
func (l Label) String() string {
	return l.Street + " & " + l.Avenue
}
