// Package engine keeps a cursor over a set of timed lyric lines in sync
// with a media player that can only be sampled, never subscribed to.
//
// Two goroutines run for the lifetime of one engine: a background
// observer that polls the player and detects seeks, pauses and track
// changes, and the foreground run loop that integrates position over
// wall-clock time and drives the renderer. They share nothing but State.
package engine

import (
	"context"
	"sync"
	"time"

	"karolbroda.com/lrcvis/internal/lrc"
	"karolbroda.com/lrcvis/internal/track"
)

// Status is the playback state an oracle reports.
type Status int

const (
	StatusUnknown Status = iota
	StatusPlaying
	StatusPaused
	StatusStopped
)

func (st Status) String() string {
	switch st {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Oracle is the external source of truth for playback. Implementations
// must bound each query (around half a second) and report failure via
// the error; the engine treats any failure as "no information" and never
// surfaces it.
type Oracle interface {
	Position(ctx context.Context) (float64, error)
	Status(ctx context.Context) Status
	Track(ctx context.Context) (track.Identity, error)
	TrackPath(ctx context.Context) (string, error)
}

// Resolver turns a track identity, plus an optional source-file hint,
// into an ordered lyric set.
type Resolver interface {
	Resolve(ctx context.Context, id track.Identity, pathHint string) ([]lrc.Line, error)
}

// Renderer draws display states. It carries no timing responsibility and
// must tolerate repeated calls with identical input; the loop redraws
// the active line on every refresh.
type Renderer interface {
	Line(text string)
	Waiting()
	Track(id track.Identity)
}

const (
	defaultRefresh = 50 * time.Millisecond
	idleSleep      = time.Second
	seekWaitSleep  = 100 * time.Millisecond
	seekWaitCycles = 20
	restartWindow  = 5.0 // seconds; below this a track counts as freshly started
)

type Engine struct {
	oracle   Oracle
	resolver Resolver
	renderer Renderer
	state    *State
	refresh  time.Duration
	now      func() time.Time
}

type Options struct {
	// Refresh is the redraw cadence while synced. Zero means the 50ms
	// default.
	Refresh time.Duration
}

func New(oracle Oracle, resolver Resolver, renderer Renderer, opts Options) *Engine {
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	return &Engine{
		oracle:   oracle,
		resolver: resolver,
		renderer: renderer,
		state:    NewState(),
		refresh:  refresh,
		now:      time.Now,
	}
}

// State exposes the shared sync state.
func (e *Engine) State() *State {
	return e.state
}

// Run drives the display until ctx is cancelled, which is the only way
// it terminates. The observer goroutine is joined before Run returns so
// the caller can restore the terminal without racing a live poller.
func (e *Engine) Run(ctx context.Context) error {
	obs := newObserver(e.oracle, e.state)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		obs.run(ctx)
	}()
	defer wg.Wait()

	e.renderer.Waiting()

	lastTitle := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, err := e.oracle.Track(ctx)
		if err != nil || !id.Valid() {
			if err := sleep(ctx, idleSleep); err != nil {
				return err
			}
			continue
		}

		songChanged := lastTitle != "" && id.Title != lastTitle
		lastTitle = id.Title

		pathHint, _ := e.oracle.TrackPath(ctx)

		lines, err := e.resolver.Resolve(ctx, id, pathHint)
		if err != nil || len(lines) == 0 {
			e.renderer.Waiting()
			if err := sleep(ctx, idleSleep); err != nil {
				return err
			}
			continue
		}

		e.state.SetTitle(id.Title)
		e.renderer.Track(id)

		pos, err := e.oracle.Position(ctx)
		if err != nil {
			if err := sleep(ctx, idleSleep); err != nil {
				return err
			}
			continue
		}

		if songChanged && pos > restartWindow {
			pos, err = e.awaitRestart(ctx)
			if err != nil {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				if err := sleep(ctx, idleSleep); err != nil {
					return err
				}
				continue
			}
		}

		if err := e.playLines(ctx, id.Title, lines, pos); err != nil {
			return err
		}
	}
}

// awaitRestart waits out the gap between a track-change notification and
// the player actually restarting position near zero. The wait is bounded
// to seekWaitCycles; after that the current position is used as-is.
func (e *Engine) awaitRestart(ctx context.Context) (float64, error) {
	for i := 0; i < seekWaitCycles; i++ {
		pos, err := e.oracle.Position(ctx)
		if err == nil && pos < restartWindow {
			break
		}
		if err := sleep(ctx, seekWaitSleep); err != nil {
			return 0, err
		}
	}

	return e.oracle.Position(ctx)
}

// playLines is the synced loop for one lyric set. The current position
// is the resync anchor plus wall-clock time elapsed since it was taken;
// the oracle is not consulted here except to confirm the track identity
// when a resync fires. Returning nil sends the caller back to track
// resolution.
func (e *Engine) playLines(ctx context.Context, title string, lines []lrc.Line, pos float64) error {
	idx := lrc.IndexAt(lines, pos)
	anchorPos := pos
	anchorAt := e.now()
	e.state.SetPosition(pos)

	for idx < len(lines) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.state.ResyncRequested() {
			id, err := e.oracle.Track(ctx)
			if err != nil || id.Title != title {
				// track moved on; reload everything
				return nil
			}

			if p, ok := e.state.Position(); ok {
				anchorPos = p
				anchorAt = e.now()
				idx = lrc.IndexAt(lines, p)
			}
			e.state.ClearResync()
		}

		current := anchorPos + e.now().Sub(anchorAt).Seconds()

		e.renderer.Line(lines[idx].Text)

		if idx+1 < len(lines) && current >= lines[idx+1].Time {
			idx++
			continue
		}

		if err := sleep(ctx, e.refresh); err != nil {
			return err
		}
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
