// Package segments provides the primitive motions routes are built from.
package segments

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/pkg/models"
)

var (
	ErrVelocityTooLow = errors.New("velocity too low")
	ErrWrongGeometry  = errors.New("start and end are not on the same circle")
)

const (
	// MinArcSpeed is the slowest entry speed an arc will plan for. Below it the
	// constant speed duration estimate is meaningless.
	MinArcSpeed = 100.0
	// ArcRadiusTolerance is how much the start and end radii may differ.
	ArcRadiusTolerance = 1.0
)

var arcLookahead = mgl64.DegToRad(15)

// SimpleArc drives around a circle at roughly constant speed, entering along
// the tangent given by the start velocity.
type SimpleArc struct {
	center     mgl64.Vec2
	radius     float64
	startLoc   mgl64.Vec2
	startVel   mgl64.Vec2
	startBoost float64
	sweep      float64
}

func NewSimpleArc(
	center mgl64.Vec2,
	radius float64,
	startLoc mgl64.Vec2,
	startVel mgl64.Vec2,
	startBoost float64,
	endLoc mgl64.Vec2,
) (*SimpleArc, error) {
	if startVel.Len() < MinArcSpeed {
		return nil, ErrVelocityTooLow
	}

	startRadius := startLoc.Sub(center).Len()
	endRadius := endLoc.Sub(center).Len()

	if math.Abs(startRadius-endRadius) >= ArcRadiusTolerance {
		return nil, ErrWrongGeometry
	}

	// Entering along a tangent, the center is 90° to one side of the velocity.
	// That side fixes the direction of travel.
	positive := geometry.AngleTo(startVel, startLoc.Sub(center)) < 0

	// Go the long way around when needed; reversing on the circle is not an
	// option.
	sweep := geometry.AngleTo(startLoc.Sub(center), endLoc.Sub(center))
	if positive && sweep < 0 {
		sweep += 2 * math.Pi
	} else if !positive && sweep >= 0 {
		sweep -= 2 * math.Pi
	}

	return &SimpleArc{
		center:     center,
		radius:     radius,
		startLoc:   startLoc,
		startVel:   startVel,
		startBoost: startBoost,
		sweep:      sweep,
	}, nil
}

func (a *SimpleArc) Name() string {
	return "SimpleArc"
}

// Sweep is the signed angle traveled around the center. Positive is
// counter-clockwise.
func (a *SimpleArc) Sweep() float64 {
	return a.sweep
}

func (a *SimpleArc) Center() mgl64.Vec2 {
	return a.center
}

func (a *SimpleArc) Radius() float64 {
	return a.radius
}

func (a *SimpleArc) Start() routing.CarState {
	return routing.CarState2D{
		Loc:   a.startLoc,
		Yaw:   geometry.Heading(a.startVel),
		Vel:   a.startVel,
		Boost: a.startBoost,
	}.To3D()
}

func (a *SimpleArc) End() routing.CarState {
	endVel := geometry.Rotate2D(a.startVel, a.sweep)

	return routing.CarState2D{
		Loc:   a.center.Add(geometry.Rotate2D(a.startLoc.Sub(a.center), a.sweep)),
		Yaw:   geometry.Heading(endVel),
		Vel:   endVel,
		Boost: a.startBoost,
	}.To3D()
}

func (a *SimpleArc) Duration() float64 {
	return a.radius * math.Abs(a.sweep) / a.startVel.Len()
}

func (a *SimpleArc) Run() routing.SegmentRunner {
	return &simpleArcRunner{plan: a, last: a.startLoc}
}

// aheadOf returns the point on the circle angle further along than loc.
func (a *SimpleArc) aheadOf(loc mgl64.Vec2, angle float64) mgl64.Vec2 {
	radial := geometry.Rotate2D(loc.Sub(a.center), angle*geometry.Signum(a.sweep))

	return a.center.Add(geometry.SafeNormalize(radial).Mul(a.radius))
}

// simpleArcRunner tracks progress as the sum of the angles covered between
// ticks. A car covers far less than half a lap per tick.
type simpleArcRunner struct {
	plan *SimpleArc
	last mgl64.Vec2
	// progress is the angle covered in the direction of travel.
	progress float64
}

func (r *simpleArcRunner) Name() string {
	return "SimpleArcRunner"
}

func (r *simpleArcRunner) Execute(ctx *behavior.Context) routing.SegmentRunAction {
	me := ctx.Me()

	if !behavior.OnFlatGround(me) {
		ctx.Log.Debug().Str("segment", r.Name()).Msg("not on flat ground")

		return routing.Failure()
	}

	loc := me.Physics.Location.Vec2()

	step := geometry.AngleTo(r.last.Sub(r.plan.center), loc.Sub(r.plan.center))
	r.progress += step * geometry.Signum(r.plan.sweep)
	r.last = loc

	if r.progress >= math.Abs(r.plan.sweep) {
		return routing.Success()
	}

	target := r.plan.aheadOf(loc, arcLookahead)
	forward := geometry.UnitFromAngle(me.Physics.Rotation.Yaw)

	return routing.Yield(models.ControlCommand{
		Throttle: 1,
		Steer:    geometry.Clamp(geometry.AngleTo(forward, target.Sub(loc))),
	})
}

// ArcPlanner plans a SimpleArc from wherever the previous segment ended.
type ArcPlanner struct {
	Center mgl64.Vec2
	Radius float64
	End    mgl64.Vec2
}

func (p ArcPlanner) Plan(start routing.CarState) (routing.SegmentPlan, error) {
	return NewSimpleArc(p.Center, p.Radius, start.Loc.Vec2(), start.Vel.Vec2(), start.Boost, p.End)
}
