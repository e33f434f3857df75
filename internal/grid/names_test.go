package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gridwalk/internal/model"
)

func TestDescribe(t *testing.T) {
	m := NewManhattan()

	tests := []struct {
		name     string
		position model.Position
		street   string
		avenue   string
	}{
		{
			name:     "origin is 34th and 5th",
			position: model.Position{Street: 0, Avenue: 0},
			street:   "West 34th Street",
			avenue:   "5th Avenue",
		},
		{
			name:     "west side keeps the West prefix",
			position: model.Position{Street: 8, Avenue: -2},
			street:   "West 42nd Street",
			avenue:   "7th Avenue",
		},
		{
			name:     "east of 5th flips the prefix",
			position: model.Position{Street: 8, Avenue: 3},
			street:   "East 42nd Street",
			avenue:   "Lexington Avenue",
		},
		{
			name:     "named avenues east of 5th",
			position: model.Position{Street: 23, Avenue: 1},
			street:   "East 57th Street",
			avenue:   "Madison Avenue",
		},
		{
			name:     "westernmost column by the Hudson",
			position: model.Position{Street: 0, Avenue: -6},
			street:   "West 34th Street",
			avenue:   "11th Avenue",
		},
		{
			name:     "easternmost column by the river",
			position: model.Position{Street: 0, Avenue: 6},
			street:   "East 34th Street",
			avenue:   "1st Avenue",
		},
		{
			name:     "southern edge",
			position: model.Position{Street: -25, Avenue: 0},
			street:   "West 9th Street",
			avenue:   "5th Avenue",
		},
		{
			name:     "northern edge",
			position: model.Position{Street: 55, Avenue: -4},
			street:   "West 89th Street",
			avenue:   "9th Avenue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := m.Describe(tt.position)
			assert.Equal(t, tt.street, label.Street)
			assert.Equal(t, tt.avenue, label.Avenue)
		})
	}
}

func TestDescribeIsTotalOverBounds(t *testing.T) {
	m := NewManhattan()

	for street := m.Bounds.MinStreet; street <= m.Bounds.MaxStreet; street++ {
		for avenue := m.Bounds.MinAvenue; avenue <= m.Bounds.MaxAvenue; avenue++ {
			label := m.Describe(model.Position{Street: street, Avenue: avenue})
			assert.NotEmpty(t, label.Street)
			assert.NotEmpty(t, label.Avenue)
		}
	}
}

func TestAvenueNameFallback(t *testing.T) {
	// Columns beyond the named range fall back to ordinal names
	assert.Equal(t, "7th Avenue", avenueName(7))
	assert.Equal(t, "12th Avenue", avenueName(-12))
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
		{34, "34th"},
		{101, "101st"},
		{111, "111th"},
		{-9, "9th"},
	}

	for _, tt := range tests {
		if got := ordinal(tt.n); got != tt.want {
			t.Errorf("ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
