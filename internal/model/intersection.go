package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSONB column
type StringSlice []string

// Value implements driver.Valuer for JSONB storage
func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported type %T for StringSlice", value)
}

// Int64Slice stores a []int64 as a JSONB column
type Int64Slice []int64

// Value implements driver.Valuer for JSONB storage
func (s Int64Slice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage
func (s *Int64Slice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported type %T for Int64Slice", value)
}

// IntersectionPG is the PostgreSQL row for a street intersection
type IntersectionPG struct {
	ID          int64       `gorm:"primaryKey"`
	Lat         float64     `gorm:"not null"`
	Lng         float64     `gorm:"not null"`
	Streets     StringSlice `gorm:"type:jsonb"`
	Connections Int64Slice  `gorm:"type:jsonb"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name
func (IntersectionPG) TableName() string {
	return "intersections"
}

// Intersection is the in-memory model of a street crossing: an OSM node
// shared by two or more distinctly named streets. Connections hold the
// IDs of the neighboring intersections along those streets.
type Intersection struct {
	ID          int64    `json:"id"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Streets     []string `json:"streets"`
	Connections []int64  `json:"connections"`
}

// Name joins the crossing street names the way they would be spoken
func (i *Intersection) Name() string {
	name := ""
	for idx, street := range i.Streets {
		if idx > 0 {
			name += " & "
		}
		name += street
	}
	return name
}

// IntersectionFromPG creates an Intersection from its PostgreSQL row
func IntersectionFromPG(pg *IntersectionPG) *Intersection {
	return &Intersection{
		ID:          pg.ID,
		Lat:         pg.Lat,
		Lng:         pg.Lng,
		Streets:     pg.Streets,
		Connections: pg.Connections,
	}
}

// ToPG converts the intersection to its PostgreSQL row shape
func (i *Intersection) ToPG() *IntersectionPG {
	now := time.Now()
	return &IntersectionPG{
		ID:          i.ID,
		Lat:         i.Lat,
		Lng:         i.Lng,
		Streets:     i.Streets,
		Connections: i.Connections,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
