package engine

import (
	"context"
	"math"
	"time"
)

const (
	pollInterval   = 200 * time.Millisecond
	driftThreshold = 1.0 // seconds between predicted and reported position
)

// observer polls the oracle in the background and keeps a drift model:
// a predicted position advanced by wall-clock time since the previous
// sample. When the reported position disagrees by more than
// driftThreshold the user seeked, and the run loop is asked to resync.
type observer struct {
	oracle Oracle
	state  *State

	anchor    float64
	hasAnchor bool
	lastCheck time.Time
}

func newObserver(oracle Oracle, state *State) *observer {
	return &observer{
		oracle:    oracle,
		state:     state,
		lastCheck: time.Now(),
	}
}

func (o *observer) run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.step(ctx, time.Now())
		}
	}
}

// step evaluates one poll cycle at the given instant. Oracle failures
// contribute nothing; the next cycle proceeds on schedule.
func (o *observer) step(ctx context.Context, now time.Time) {
	id, err := o.oracle.Track(ctx)
	if err == nil && o.state.Title() != "" && id.Title != o.state.Title() {
		// the loop is about to reload everything, drift is meaningless
		o.state.RequestResync()
		return
	}

	if _, ok := o.state.Position(); !ok {
		// the loop has not anchored yet
		return
	}

	actual, err := o.oracle.Position(ctx)
	if err != nil {
		return
	}

	if o.oracle.Status(ctx) == StatusPaused {
		o.state.SetPosition(actual)
		o.state.RequestResync()
		o.state.SetPaused(true)
		o.hasAnchor = false
		return
	}

	o.state.SetPaused(false)

	if !o.hasAnchor {
		// first sample after an idle or paused stretch is not a seek
		o.anchor = actual
		o.hasAnchor = true
		o.lastCheck = now
		return
	}

	predicted := o.anchor + now.Sub(o.lastCheck).Seconds()
	if math.Abs(actual-predicted) > driftThreshold {
		o.state.SetPosition(actual)
		o.state.RequestResync()
	}

	// re-anchor every cycle so prediction error never compounds beyond
	// one polling interval
	o.anchor = actual
	o.lastCheck = now
}
