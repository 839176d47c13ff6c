package routing

import (
	"github.com/zetetos/rl-motion/internal/behavior"
)

// FollowRoute is the behavior that plans from the live car state on its first
// tick and then drives the plan to completion.
type FollowRoute struct {
	planner  Planner
	priority behavior.Priority
	plan     SegmentPlan
	runner   SegmentRunner
}

func NewFollowRoute(planner Planner) *FollowRoute {
	return &FollowRoute{planner: planner}
}

// WithPriority sets the priority used when competing with other behaviors.
func (f *FollowRoute) WithPriority(p behavior.Priority) *FollowRoute {
	f.priority = p

	return f
}

func (f *FollowRoute) Name() string {
	return "FollowRoute"
}

func (f *FollowRoute) Priority() behavior.Priority {
	return f.priority
}

// Plan returns the plan being followed, or nil before the first tick.
func (f *FollowRoute) Plan() SegmentPlan {
	return f.plan
}

func (f *FollowRoute) Execute(ctx *behavior.Context) behavior.Action {
	me := ctx.Me()
	state := CarStateFromPhysics(me.Physics, me.Boost)

	err := state.Validate()
	if err != nil {
		ctx.Log.Error().Err(err).Str("behavior", f.Name()).Msg("halting plan")

		return behavior.Abort()
	}

	if f.runner == nil {
		plan, err := f.planner.Plan(state)
		if err != nil {
			ctx.Log.Warn().Err(err).Str("behavior", f.Name()).Msg("planning failed")

			return behavior.Abort()
		}

		f.plan = plan
		f.runner = plan.Run()

		ctx.Log.Debug().
			Str("behavior", f.Name()).
			Str("plan", plan.Name()).
			Float64("duration", plan.Duration()).
			Msg("planned")
	}

	return fromRunAction(f.runner.Execute(ctx))
}

func fromRunAction(action SegmentRunAction) behavior.Action {
	switch action.Kind {
	case RunYield:
		return behavior.Yield(action.Input)
	case RunSuccess:
		return behavior.Return()
	default:
		return behavior.Abort()
	}
}
