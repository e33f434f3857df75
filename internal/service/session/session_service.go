// Package session manages the registry of live walking sessions, each
// owning a navigation engine and an imagery viewer.
package session

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"gridwalk/internal/grid"
	"gridwalk/internal/mapillary"
	"gridwalk/internal/model"
	"gridwalk/internal/navigation"
	"gridwalk/internal/service/imagery"
	"gridwalk/internal/service/storage"
	"gridwalk/internal/util"
)

// Session binds one walker's navigation state to its imagery viewer.
// The mutex serializes transitions so the engine never sees concurrent
// callers; imagery fetches run outside the lock.
type Session struct {
	ID string

	mu     sync.Mutex
	engine *navigation.Engine
	viewer *imagery.Viewer
	grid   *grid.Model
}

// State is the API-facing snapshot of a session
type State struct {
	ID             string                  `json:"id"`
	Position       model.Position          `json:"position"`
	Heading        model.Heading           `json:"heading"`
	Status         string                  `json:"status"`
	Intersection   string                  `json:"intersection"`
	Location       model.GeoPoint          `json:"location"`
	Images         []model.StreetViewFrame `json:"images"`
	DisplayedIndex int                     `json:"displayedIndex"`
	ImageryError   string                  `json:"imageryError,omitempty"`
}

// Apply runs one navigation action: forward, backward, left or right.
// The transition completes synchronously; when it changed the position
// or heading, the imagery refresh is kicked off in the background.
func (s *Session) Apply(action string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	beforePosition := s.engine.Position()
	beforeHeading := s.engine.Heading()

	switch action {
	case "forward":
		s.engine.MoveForward()
	case "backward":
		s.engine.MoveBackward()
	case "left":
		s.engine.TurnLeft()
	case "right":
		s.engine.TurnRight()
	default:
		return State{}, fmt.Errorf("unknown action %q", action)
	}

	if s.engine.Position() != beforePosition || s.engine.Heading() != beforeHeading {
		s.refreshLocked()
	}

	return s.stateLocked(), nil
}

// State returns the current snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// refreshLocked points the viewer at the current position and heading
func (s *Session) refreshLocked() {
	geo := s.grid.GeoPoint(s.engine.Position())
	s.viewer.Refresh(geo.Lat, geo.Lng, s.engine.Heading().Bearing())
}

func (s *Session) stateLocked() State {
	frames, displayed := s.viewer.Frames()

	state := State{
		ID:             s.ID,
		Position:       s.engine.Position(),
		Heading:        s.engine.Heading(),
		Status:         s.engine.Status(),
		Intersection:   s.engine.Label().String(),
		Location:       s.grid.GeoPoint(s.engine.Position()),
		Images:         frames,
		DisplayedIndex: displayed,
	}

	if err := s.viewer.LastError(); err != nil {
		if errors.Is(err, mapillary.ErrNoToken) {
			state.ImageryError = "street view is not configured"
		} else {
			state.ImageryError = "street view is unavailable right now"
		}
	}

	return state
}

// SessionService owns the set of live sessions
type SessionService struct {
	storage storage.Storage[string, *Session]
	grid    *grid.Model
	imagery *imagery.Service

	rngMutex sync.Mutex
	rng      *rand.Rand
}

// NewSessionService creates an empty session registry
func NewSessionService(g *grid.Model, imageryService *imagery.Service) *SessionService {
	return &SessionService{
		storage: storage.NewMemoryStorage[string, *Session](),
		grid:    g,
		imagery: imageryService,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateSession spawns a walker at a random in-bounds intersection
// facing north and starts its first imagery fetch
func (s *SessionService) CreateSession() *Session {
	s.rngMutex.Lock()
	start := s.grid.RandomPosition(s.rng)
	s.rngMutex.Unlock()

	sess := &Session{
		ID:     util.ShortUUID(),
		engine: navigation.New(s.grid, start),
		viewer: imagery.NewViewer(s.imagery),
		grid:   s.grid,
	}
	s.storage.Set(sess.ID, sess)

	sess.mu.Lock()
	sess.refreshLocked()
	sess.mu.Unlock()

	log.Printf("Session %s started at %s", sess.ID, s.grid.Describe(start))
	return sess
}

// GetSession returns a session by ID
func (s *SessionService) GetSession(id string) (*Session, bool) {
	return s.storage.Get(id)
}

// DeleteSession stops the session's imagery work and removes it
func (s *SessionService) DeleteSession(id string) bool {
	sess, ok := s.storage.Get(id)
	if !ok {
		return false
	}

	sess.viewer.Stop()
	return s.storage.Delete(id)
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	return s.storage.Count()
}
