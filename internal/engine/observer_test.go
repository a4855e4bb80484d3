package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lrcvis/internal/track"
)

type fakeOracle struct {
	mu       sync.Mutex
	pos      float64
	posErr   error
	status   Status
	id       track.Identity
	trackErr error
	path     string
}

func (f *fakeOracle) Position(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, f.posErr
}

func (f *fakeOracle) Status(context.Context) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeOracle) Track(context.Context) (track.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id, f.trackErr
}

func (f *fakeOracle) TrackPath(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path, nil
}

func (f *fakeOracle) set(fn func(*fakeOracle)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func playingOracle(pos float64) *fakeOracle {
	return &fakeOracle{
		pos:    pos,
		status: StatusPlaying,
		id:     track.Identity{Artist: "artist", Title: "song"},
	}
}

// seed anchors the observer with one playing sample at t0.
func seedObserver(t *testing.T, o *observer, oracle *fakeOracle, t0 time.Time) {
	t.Helper()
	o.step(context.Background(), t0)
	require.True(t, o.hasAnchor)
	require.False(t, o.state.ResyncRequested())
}

func TestObserverDriftDetection(t *testing.T) {
	tests := []struct {
		name       string
		noise      float64
		wantResync bool
	}{
		{"no noise", 0, false},
		{"small positive noise", 0.5, false},
		{"at threshold", 1.0, false},
		{"seek forward", 1.5, true},
		{"seek backward", -2.0, true},
		{"large jump", 37.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := playingOracle(10.0)
			state := NewState()
			state.SetTitle("song")
			state.SetPosition(10.0)

			o := newObserver(oracle, state)
			t0 := time.Now()
			seedObserver(t, o, oracle, t0)

			elapsed := 0.2
			oracle.set(func(f *fakeOracle) { f.pos = 10.0 + elapsed + tt.noise })
			o.step(context.Background(), t0.Add(200*time.Millisecond))

			assert.Equal(t, tt.wantResync, state.ResyncRequested())
			if tt.wantResync {
				pos, ok := state.Position()
				require.True(t, ok)
				assert.Equal(t, 10.0+elapsed+tt.noise, pos)
			}
		})
	}
}

func TestObserverAnchorResetEveryCycle(t *testing.T) {
	// per-cycle re-anchoring keeps prediction error bounded by one
	// polling interval, so slow constant drift never triggers
	oracle := playingOracle(10.0)
	state := NewState()
	state.SetTitle("song")
	state.SetPosition(10.0)

	o := newObserver(oracle, state)
	now := time.Now()
	seedObserver(t, o, oracle, now)

	pos := 10.0
	for i := 0; i < 10; i++ {
		now = now.Add(200 * time.Millisecond)
		pos += 0.2 + 0.5 // each cycle runs 0.5s fast, cumulative 5s
		oracle.set(func(f *fakeOracle) { f.pos = pos })
		o.step(context.Background(), now)
		assert.False(t, state.ResyncRequested(), "cycle %d", i)
	}
}

func TestObserverPauseSemantics(t *testing.T) {
	oracle := playingOracle(10.0)
	state := NewState()
	state.SetTitle("song")
	state.SetPosition(10.0)

	o := newObserver(oracle, state)
	t0 := time.Now()
	seedObserver(t, o, oracle, t0)

	oracle.set(func(f *fakeOracle) {
		f.status = StatusPaused
		f.pos = 12.3
	})
	o.step(context.Background(), t0.Add(200*time.Millisecond))

	assert.True(t, state.ResyncRequested())
	assert.True(t, state.Paused())
	assert.False(t, o.hasAnchor)
	pos, ok := state.Position()
	require.True(t, ok)
	assert.Equal(t, 12.3, pos)

	// resync stays set until the loop consumes it
	o.step(context.Background(), t0.Add(400*time.Millisecond))
	assert.True(t, state.ResyncRequested())

	// first sample after resume re-seeds the anchor, not a seek
	state.ClearResync()
	oracle.set(func(f *fakeOracle) {
		f.status = StatusPlaying
		f.pos = 12.3
	})
	o.step(context.Background(), t0.Add(600*time.Millisecond))
	assert.False(t, state.ResyncRequested())
	assert.False(t, state.Paused())
	assert.True(t, o.hasAnchor)
}

func TestObserverTrackChangeRequestsResync(t *testing.T) {
	oracle := playingOracle(10.0)
	state := NewState()
	state.SetTitle("song")
	state.SetPosition(10.0)

	o := newObserver(oracle, state)
	t0 := time.Now()
	seedObserver(t, o, oracle, t0)

	oracle.set(func(f *fakeOracle) {
		f.id = track.Identity{Artist: "artist", Title: "another song"}
		f.pos = 999 // must not be evaluated as drift this cycle
	})
	o.step(context.Background(), t0.Add(200*time.Millisecond))

	assert.True(t, state.ResyncRequested())
	pos, _ := state.Position()
	assert.Equal(t, 10.0, pos, "position must not be touched on track change")
}

func TestObserverSkipsWithoutLoopAnchor(t *testing.T) {
	oracle := playingOracle(10.0)
	state := NewState()
	state.SetTitle("song")
	// no SetPosition: the loop has not started timing yet

	o := newObserver(oracle, state)
	o.step(context.Background(), time.Now())

	assert.False(t, o.hasAnchor)
	assert.False(t, state.ResyncRequested())
}

func TestObserverSkipsOnOracleFailure(t *testing.T) {
	oracle := playingOracle(10.0)
	state := NewState()
	state.SetTitle("song")
	state.SetPosition(10.0)

	o := newObserver(oracle, state)
	t0 := time.Now()
	seedObserver(t, o, oracle, t0)

	oracle.set(func(f *fakeOracle) { f.posErr = errors.New("player went away") })
	o.step(context.Background(), t0.Add(200*time.Millisecond))

	assert.False(t, state.ResyncRequested())
}
