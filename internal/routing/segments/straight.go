package segments

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/plan"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/simulate"
)

var (
	ErrTargetTooClose    = errors.New("target too close")
	ErrTargetUnreachable = errors.New("target unreachable")
)

const (
	// MinStraightDistance is the shortest straight worth planning.
	MinStraightDistance = 10.0
	// MaxStraightTime bounds the planning simulation.
	MaxStraightTime = 10.0
	// StraightTimeoutSlack is how long a straight may overrun its planned
	// duration before the runner gives up.
	StraightTimeoutSlack = 1.0

	straightDT = 1.0 / 60.0
)

// StraightMode selects which inputs a straight may use to reach its speed.
type StraightMode int

const (
	StraightThrottle StraightMode = iota
	StraightBoost
)

func (m StraightMode) String() string {
	switch m {
	case StraightThrottle:
		return "throttle"
	case StraightBoost:
		return "boost"
	default:
		return "unknown"
	}
}

// ParseStraightMode is the inverse of StraightMode.String.
func ParseStraightMode(s string) (StraightMode, error) {
	switch s {
	case "", "throttle":
		return StraightThrottle, nil
	case "boost":
		return StraightBoost, nil
	default:
		return 0, fmt.Errorf("unknown straight mode %q", s)
	}
}

// Straight drives directly at a ground target, accelerating toward a target
// speed and coasting whenever faster than it.
type Straight struct {
	start       routing.CarState
	target      mgl64.Vec2
	targetSpeed float64
	mode        StraightMode
	dir         mgl64.Vec2
	distance    float64
	duration    float64
	endSpeed    float64
	endBoost    float64
}

func NewStraight(
	tables *simulate.Tables,
	start routing.CarState,
	target mgl64.Vec2,
	targetSpeed float64,
	mode StraightMode,
) (*Straight, error) {
	err := start.Validate()
	if err != nil {
		return nil, err
	}

	if math.IsNaN(target[0]) || math.IsNaN(target[1]) || math.IsNaN(targetSpeed) {
		return nil, fmt.Errorf("%w: NaN straight target", routing.ErrInvalidState)
	}

	offset := target.Sub(start.Loc.Vec2())
	distance := offset.Len()

	if distance < MinStraightDistance {
		return nil, fmt.Errorf("%w: %.1f uu", ErrTargetTooClose, distance)
	}

	targetSpeed = mgl64.Clamp(targetSpeed, 0, rl.CarMaxSpeed)

	car := simulate.NewCar1D(tables, start.Vel.Len()).WithBoost(start.Boost)
	for car.DistanceTraveled() < distance {
		if car.Time() >= MaxStraightTime {
			return nil, fmt.Errorf("%w: %.0f of %.0f uu after %.1fs",
				ErrTargetUnreachable, car.DistanceTraveled(), distance, car.Time())
		}

		throttle, boost := straightInput(car.Speed(), targetSpeed, mode)
		car.Step(straightDT, throttle, boost)
	}

	return &Straight{
		start:       start,
		target:      target,
		targetSpeed: targetSpeed,
		mode:        mode,
		dir:         offset.Mul(1 / distance),
		distance:    distance,
		duration:    car.Time(),
		endSpeed:    car.Speed(),
		endBoost:    max(car.Boost(), 0),
	}, nil
}

// straightInput is the longitudinal control law shared by planning and
// execution.
func straightInput(speed, targetSpeed float64, mode StraightMode) (float64, bool) {
	if speed < targetSpeed {
		return 1, mode == StraightBoost
	}

	return 0, false
}

func (s *Straight) Name() string {
	return "Straight"
}

func (s *Straight) Target() mgl64.Vec2 {
	return s.target
}

func (s *Straight) Direction() mgl64.Vec2 {
	return s.dir
}

func (s *Straight) Distance() float64 {
	return s.distance
}

func (s *Straight) Start() routing.CarState {
	return s.start
}

func (s *Straight) End() routing.CarState {
	return routing.CarState2D{
		Loc:   s.target,
		Yaw:   geometry.Heading(s.dir),
		Vel:   s.dir.Mul(s.endSpeed),
		Boost: s.endBoost,
	}.To3D()
}

func (s *Straight) Duration() float64 {
	return s.duration
}

func (s *Straight) Run() routing.SegmentRunner {
	return &straightRunner{plan: s}
}

type straightRunner struct {
	plan    *Straight
	start   float64
	started bool
}

func (r *straightRunner) Name() string {
	return "StraightRunner"
}

func (r *straightRunner) Execute(ctx *behavior.Context) routing.SegmentRunAction {
	me := ctx.Me()

	if !behavior.OnFlatGround(me) {
		ctx.Log.Debug().Str("segment", r.Name()).Msg("not on flat ground")

		return routing.Failure()
	}

	now := ctx.Time()
	if !r.started {
		r.start = now
		r.started = true
	}

	loc := me.Physics.Location.Vec2()
	if r.plan.target.Sub(loc).Dot(r.plan.dir) <= 0 {
		return routing.Success()
	}

	if elapsed := now - r.start; elapsed > r.plan.duration+StraightTimeoutSlack {
		ctx.Log.Debug().
			Str("segment", r.Name()).
			Float64("elapsed", elapsed).
			Float64("planned", r.plan.duration).
			Msg("timed out")

		return routing.Failure()
	}

	input := behavior.DriveTowardsInput(me, r.plan.target)
	input.Throttle, input.Boost = straightInput(me.Physics.Velocity.Len(), r.plan.targetSpeed, r.plan.mode)

	return routing.Yield(input)
}

// StraightPlanner plans a straight to Target. With AllowDodge it finishes with
// a forward dodge instead when that gets there sooner.
type StraightPlanner struct {
	Tables      *simulate.Tables
	Target      mgl64.Vec2
	TargetSpeed float64
	Mode        StraightMode
	AllowDodge  bool
}

func (p StraightPlanner) Plan(start routing.CarState) (routing.SegmentPlan, error) {
	straight, err := NewStraight(p.Tables, start, p.Target, p.TargetSpeed, p.Mode)
	if err != nil {
		return nil, err
	}

	if !p.AllowDodge {
		return straight, nil
	}

	route, ok := p.withTerminalDodge(start, straight)
	if !ok {
		return straight, nil
	}

	return route, nil
}

// withTerminalDodge shortens the straight so that a dodge started at its end
// lands on the target.
func (p StraightPlanner) withTerminalDodge(start routing.CarState, full *Straight) (*routing.Route, bool) {
	dodgeFrom := p.Target.Sub(full.Direction().Mul(dodgeDistance(full.endSpeed)))
	if dodgeFrom.Sub(start.Loc.Vec2()).Dot(full.Direction()) < MinStraightDistance {
		return nil, false
	}

	approach, err := NewStraight(p.Tables, start, dodgeFrom, p.TargetSpeed, p.Mode)
	if err != nil {
		return nil, false
	}

	end := approach.End()
	if !plan.DodgeSavesTime(p.Tables, plan.CarFromState(end.Loc, end.Rot, end.Vel, end.Boost), p.Target) {
		return nil, false
	}

	dodge, err := NewJumpAndDodge(end, 0)
	if err != nil {
		return nil, false
	}

	route, err := routing.NewRoute(approach, dodge)
	if err != nil {
		return nil, false
	}

	return route, true
}

var (
	_ routing.SegmentPlan = (*SimpleArc)(nil)
	_ routing.SegmentPlan = (*JumpAndDodge)(nil)
	_ routing.SegmentPlan = (*Straight)(nil)
	_ routing.Planner     = StraightPlanner{}
	_ routing.Planner     = ArcPlanner{}
	_ routing.Planner     = DodgePlanner{}
)
