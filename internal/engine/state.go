package engine

import "sync"

// State is the synchronization data shared between the observer and the
// run loop. Every accessor touches a single field under the lock; no
// caller needs a multi-field transaction.
//
// The resync request is level-triggered: the observer sets it, the run
// loop observes and clears it. Redundant sets are harmless and only cost
// an extra resync pass.
type State struct {
	mu sync.Mutex

	position    float64
	hasPosition bool
	resync      bool
	title       string
	paused      bool
}

func NewState() *State {
	return &State{}
}

// Position reports the last position the observer (or the loop itself)
// recorded, and whether one has been recorded at all.
func (s *State) Position() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position, s.hasPosition
}

func (s *State) SetPosition(pos float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	s.hasPosition = true
}

func (s *State) ResyncRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resync
}

func (s *State) RequestResync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resync = true
}

func (s *State) ClearResync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resync = false
}

// Title is the title of the track the loop is currently synced to, empty
// before the first lyric set is resolved.
func (s *State) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *State) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

func (s *State) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *State) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}
