package routing

import (
	"fmt"

	"github.com/zetetos/rl-motion/internal/behavior"
)

// Route is an ordered chain of continuous segments. It is itself a
// SegmentPlan, so routes nest.
type Route struct {
	segments []SegmentPlan
}

// NewRoute chains prebuilt segments, verifying continuity between each pair.
func NewRoute(segments ...SegmentPlan) (*Route, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyRoute
	}

	for i := 1; i < len(segments); i++ {
		err := CheckContinuity(segments[i-1].End(), segments[i].Start())
		if err != nil {
			return nil, fmt.Errorf("between %s and %s: %w", segments[i-1].Name(), segments[i].Name(), err)
		}
	}

	return &Route{segments: segments}, nil
}

func (r *Route) Name() string {
	return "Route"
}

func (r *Route) Segments() []SegmentPlan {
	return r.segments
}

func (r *Route) Start() CarState {
	return r.segments[0].Start()
}

func (r *Route) End() CarState {
	return r.segments[len(r.segments)-1].End()
}

func (r *Route) Duration() float64 {
	total := 0.0
	for _, s := range r.segments {
		total += s.Duration()
	}

	return total
}

func (r *Route) Run() SegmentRunner {
	return &routeRunner{segments: r.segments}
}

type routeRunner struct {
	segments []SegmentPlan
	index    int
	current  SegmentRunner
}

func (r *routeRunner) Name() string {
	return "RouteRunner"
}

// Execute advances to the next segment in the same tick when one succeeds.
func (r *routeRunner) Execute(ctx *behavior.Context) SegmentRunAction {
	for r.index < len(r.segments) {
		if r.current == nil {
			r.current = r.segments[r.index].Run()
		}

		action := r.current.Execute(ctx)
		if action.Kind != RunSuccess {
			if action.Kind == RunFailure {
				ctx.Log.Debug().
					Str("segment", r.segments[r.index].Name()).
					Int("index", r.index).
					Msg("segment failed")
			}

			return action
		}

		ctx.Log.Debug().
			Str("segment", r.segments[r.index].Name()).
			Int("index", r.index).
			Msg("segment complete")

		r.index++
		r.current = nil
	}

	return Success()
}
