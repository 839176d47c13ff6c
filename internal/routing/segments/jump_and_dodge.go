package segments

import (
	"fmt"
	"math"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/pkg/models"
)

// Jump-and-dodge phase timings.
const (
	JumpTime  = 6.0 / 120.0
	WaitTime  = 6.0 / 120.0
	DodgeTime = 6.0 / 120.0
	FloatTime = 1.333333
)

// JumpAndDodge jumps, waits, dodges in a direction relative to the car's
// facing, then floats until landing.
//
// The end state assumes a dodge impulse of rl.DodgeImpulse, which is a lower
// bound on the real impulse.
type JumpAndDodge struct {
	start     routing.CarState
	direction float64
}

// NewJumpAndDodge plans a dodge. Direction is relative to the car's nose; 0
// dodges straight forward and positive angles turn counter-clockwise.
func NewJumpAndDodge(start routing.CarState, direction float64) (*JumpAndDodge, error) {
	err := start.Validate()
	if err != nil {
		return nil, err
	}

	if math.IsNaN(direction) {
		return nil, fmt.Errorf("%w: NaN dodge direction", routing.ErrInvalidState)
	}

	return &JumpAndDodge{
		start:     start,
		direction: direction,
	}, nil
}

func (j *JumpAndDodge) Name() string {
	return "JumpAndDodge"
}

func (j *JumpAndDodge) Start() routing.CarState {
	return j.start
}

func (j *JumpAndDodge) End() routing.CarState {
	start := j.start.To2D()

	impulse := geometry.Rotate2D(start.Forward(), j.direction).Mul(rl.DodgeImpulse)
	dodgeVel := start.Vel.Add(impulse)
	loc := start.Loc.
		Add(start.Vel.Mul(JumpTime + WaitTime)).
		Add(dodgeVel.Mul(FloatTime))

	return routing.CarState2D{
		Loc:   loc,
		Yaw:   start.Yaw,
		Vel:   dodgeVel,
		Boost: start.Boost,
	}.To3D()
}

func (j *JumpAndDodge) Duration() float64 {
	return JumpTime + WaitTime + FloatTime
}

func (j *JumpAndDodge) Run() routing.SegmentRunner {
	chain := behavior.NewChain(behavior.PriorityIdle,
		behavior.NewYielder(JumpTime, models.ControlCommand{Jump: true}),
		behavior.NewYielder(WaitTime, models.ControlCommand{}),
		behavior.NewYielder(DodgeTime, DodgeInput(j.direction)),
		behavior.NewYielder(FloatTime-DodgeTime, models.ControlCommand{}),
	)

	return &jumpAndDodgeRunner{behavior: chain}
}

// DodgeInput is the stick position that dodges in direction relative to the
// car's nose.
func DodgeInput(direction float64) models.ControlCommand {
	return models.ControlCommand{
		Pitch: -math.Cos(direction),
		Yaw:   math.Sin(direction),
		Jump:  true,
	}
}

// DodgeDirection recovers the relative dodge direction from a stick position.
func DodgeDirection(cmd models.ControlCommand) float64 {
	return math.Atan2(cmd.Yaw, -cmd.Pitch)
}

type jumpAndDodgeRunner struct {
	behavior behavior.Behavior
}

func (r *jumpAndDodgeRunner) Name() string {
	return "JumpAndDodgeRunner"
}

func (r *jumpAndDodgeRunner) Execute(ctx *behavior.Context) routing.SegmentRunAction {
	return routing.FromBehavior(r.behavior.Execute(ctx))
}

// dodgeDistance is how far a dodge started at speed travels before landing.
func dodgeDistance(speed float64) float64 {
	return speed*(JumpTime+WaitTime) + (speed+rl.DodgeImpulse)*FloatTime
}

// DodgePlanner plans a dodge from wherever the previous segment ended.
type DodgePlanner struct {
	Direction float64
}

func (p DodgePlanner) Plan(start routing.CarState) (routing.SegmentPlan, error) {
	return NewJumpAndDodge(start, p.Direction)
}
