package imagery

import (
	"context"
	"log"
	"sync"
	"time"

	"gridwalk/internal/config"
	"gridwalk/internal/model"
)

// Viewer holds the frames currently presented for one walking session
// and the background work that keeps them fresh. Every navigation change
// maps to one Refresh call; at most one fetch is in flight at a time.
type Viewer struct {
	service *Service

	mu          sync.Mutex
	frames      []model.StreetViewFrame
	displayed   int
	lastErr     error
	cancel      context.CancelFunc
	advanceStop chan struct{}
	gen         uint64

	interval time.Duration
}

// NewViewer creates a viewer backed by the imagery service
func NewViewer(service *Service) *Viewer {
	return &Viewer{
		service:  service,
		interval: config.AutoAdvanceInterval,
	}
}

// Refresh points the viewer at a new location. The in-flight fetch, if
// any, is cancelled, displayed frames are cleared immediately, and the
// replacement fetch starts in the background. Refresh never blocks on
// the network.
func (v *Viewer) Refresh(lat, lng, bearing float64) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.stopAdvanceLocked()
	v.frames = nil
	v.displayed = 0
	v.lastErr = nil
	v.gen++
	gen := v.gen

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.mu.Unlock()

	go v.fetch(ctx, gen, lat, lng, bearing)
}

// fetch resolves the lookup and installs the result unless a later
// refresh superseded this generation. The walker always faces somewhere,
// so the bearing is always known here.
func (v *Viewer) fetch(ctx context.Context, gen uint64, lat, lng, bearing float64) {
	payload, err := v.service.Lookup(ctx, lat, lng, &bearing)
	if err != nil {
		if IsCancellation(err) {
			return
		}
		log.Printf("Imagery lookup failed: %v", err)

		v.mu.Lock()
		if gen == v.gen {
			v.lastErr = err
		}
		v.mu.Unlock()
		return
	}

	v.install(gen, payload)
}

// install replaces the displayed frame list and restarts the
// auto-advance task for it
func (v *Viewer) install(gen uint64, payload model.StreetViewPayload) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		// A later refresh owns the display now
		return
	}

	v.frames = payload.Images
	v.displayed = payload.PreferredIndex
	if v.displayed < 0 || v.displayed >= len(v.frames) {
		v.displayed = 0
	}

	v.stopAdvanceLocked()
	if len(v.frames) > 1 {
		stop := make(chan struct{})
		v.advanceStop = stop
		go v.autoAdvance(gen, stop)
	}
}

// autoAdvance cycles the displayed index until stopped. The generation
// check keeps a late tick from indexing a replaced frame list.
func (v *Viewer) autoAdvance(gen uint64, stop chan struct{}) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.mu.Lock()
			if gen == v.gen && len(v.frames) > 1 {
				v.displayed = (v.displayed + 1) % len(v.frames)
			}
			v.mu.Unlock()
		}
	}
}

func (v *Viewer) stopAdvanceLocked() {
	if v.advanceStop != nil {
		close(v.advanceStop)
		v.advanceStop = nil
	}
}

// Frames returns a copy of the displayed frame list and the index of
// the frame currently shown
func (v *Viewer) Frames() ([]model.StreetViewFrame, int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	frames := make([]model.StreetViewFrame, len(v.frames))
	copy(frames, v.frames)
	return frames, v.displayed
}

// LastError returns the failure of the most recent fetch, or nil when
// it succeeded, was cancelled, or is still running
func (v *Viewer) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Stop cancels any in-flight fetch and the auto-advance task. The
// viewer shows nothing afterwards.
func (v *Viewer) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.stopAdvanceLocked()
	v.frames = nil
	v.displayed = 0
	v.gen++
}
