package imagery

import (
	"context"
	"log"
	"math"

	"github.com/paulmach/orb"

	"gridwalk/internal/mapillary"
	"gridwalk/internal/model"
	"gridwalk/internal/util"
)

const (
	// searchHalfWidthMeters is the half-width of the square query box
	// centered on the viewer
	searchHalfWidthMeters = 50.0

	// searchResultLimit bounds how many candidates one query may return
	searchResultLimit = 25
)

// ImageSource is the slice of the image index the selector needs.
// *mapillary.Client implements it.
type ImageSource interface {
	SearchImages(ctx context.Context, bound orb.Bound, limit int) ([]mapillary.Image, error)
}

// Selector turns a (lat, lng, bearing) query into an ordered frame list
// with a preferred index
type Selector struct {
	source ImageSource
}

// NewSelector creates a selector over the given image source
func NewSelector(source ImageSource) *Selector {
	return &Selector{source: source}
}

// Select queries the image index around the point and scores candidates
// by how closely their camera heading matches the requested bearing.
// Frames keep the order the index returned them in; only the preferred
// index reflects the scoring. Candidates without any thumbnail are
// dropped before scoring; a nil bearing skips scoring entirely.
func (s *Selector) Select(ctx context.Context, lat, lng float64, bearing *float64) (model.StreetViewPayload, error) {
	images, err := s.source.SearchImages(ctx, searchBound(lat, lng), searchResultLimit)
	if err != nil {
		return model.StreetViewPayload{}, err
	}

	frames := make([]model.StreetViewFrame, 0, len(images))
	dropped := 0
	for _, img := range images {
		thumb := img.BestThumbnail()
		if thumb == "" {
			dropped++
			continue
		}
		frames = append(frames, model.StreetViewFrame{
			ID:           img.ID,
			ImageURL:     thumb,
			CapturedAt:   img.CapturedAt,
			CompassAngle: img.CompassAngle,
		})
	}
	if dropped > 0 {
		log.Printf("Dropped %d image candidates without thumbnails near %.6f,%.6f", dropped, lat, lng)
	}

	return model.StreetViewPayload{
		Images:         frames,
		PreferredIndex: preferredIndex(frames, bearing),
	}, nil
}

// searchBound builds the axis-aligned query box around the point. The
// longitude half-width is corrected for latitude so the box stays
// roughly square in meters.
func searchBound(lat, lng float64) orb.Bound {
	latHalf := util.MetersToDegreesLat(searchHalfWidthMeters)
	lngHalf := util.MetersToDegreesLng(searchHalfWidthMeters, lat)

	return orb.Bound{
		Min: orb.Point{lng - lngHalf, lat - latHalf},
		Max: orb.Point{lng + lngHalf, lat + latHalf},
	}
}

// preferredIndex returns the position of the frame whose camera heading
// is closest to the bearing. An unknown bearing keeps index 0; frames
// without a compass angle rank last, ties keep the earliest frame, and
// an empty or angle-less list keeps index 0.
func preferredIndex(frames []model.StreetViewFrame, bearing *float64) int {
	if bearing == nil {
		return 0
	}

	best := 0
	bestDiff := math.Inf(1)

	for i, frame := range frames {
		diff := math.Inf(1)
		if frame.CompassAngle != nil {
			diff = bearingDiff(*frame.CompassAngle, *bearing)
		}
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	return best
}

// bearingDiff returns the smallest angular difference in degrees between
// two bearings, always in [0, 180]
func bearingDiff(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360.0)
	if diff > 180.0 {
		diff = 360.0 - diff
	}
	return diff
}
