package grid

import (
	"fmt"
	"strconv"

	"gridwalk/internal/model"
)

// streetNumberOffset aligns grid street 0 with 34th Street
const streetNumberOffset = 34

// avenueNameOffset is the index of grid avenue 0 (5th Avenue) in avenueNames
const avenueNameOffset = 6

// avenueNames lists the avenue columns west to east; grid avenue -6 is
// 11th Avenue by the Hudson, +6 is 1st Avenue by the East River
var avenueNames = [...]string{
	"11th Avenue",
	"10th Avenue",
	"9th Avenue",
	"8th Avenue",
	"7th Avenue",
	"6th Avenue",
	"5th Avenue",
	"Madison Avenue",
	"Park Avenue",
	"Lexington Avenue",
	"3rd Avenue",
	"2nd Avenue",
	"1st Avenue",
}

// Describe returns the street and avenue names of a grid position
func (m *Model) Describe(p model.Position) model.Label {
	return model.Label{
		Street: streetName(p),
		Avenue: avenueName(p.Avenue),
	}
}

// streetName formats the cross street of a position. Streets east of
// 5th Avenue carry the East prefix, the rest are West.
func streetName(p model.Position) string {
	side := "West"
	if p.Avenue > 0 {
		side = "East"
	}
	return fmt.Sprintf("%s %s Street", side, ordinal(p.Street+streetNumberOffset))
}

// avenueName resolves an avenue index to its name, falling back to an
// ordinal name outside the known columns
func avenueName(avenue int) string {
	idx := avenue + avenueNameOffset
	if idx >= 0 && idx < len(avenueNames) {
		return avenueNames[idx]
	}
	n := avenue
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%s Avenue", ordinal(n))
}

// ordinal formats n as an English ordinal (1st, 2nd, 3rd, 4th, 11th, ...)
func ordinal(n int) string {
	if n < 0 {
		n = -n
	}
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
