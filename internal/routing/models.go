// Package routing turns target kinematic states into continuous, steppable
// plans built from primitive segments.
package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/pkg/models"
)

var ErrInvalidState = errors.New("invalid car state")

// CarState is an immutable kinematic snapshot of a car.
type CarState struct {
	Loc   mgl64.Vec3
	Rot   mgl64.Quat
	Vel   mgl64.Vec3
	Boost float64
}

// CarStateFromPhysics builds a CarState from a world snapshot entry.
func CarStateFromPhysics(physics models.Physics, boost float64) CarState {
	rot := physics.Rotation

	return CarState{
		Loc:   physics.Location,
		Rot:   geometry.RotatorToQuat(rot.Pitch, rot.Yaw, rot.Roll),
		Vel:   physics.Velocity,
		Boost: boost,
	}
}

// To2D projects the state onto the ground plane.
func (s CarState) To2D() CarState2D {
	return CarState2D{
		Loc:   s.Loc.Vec2(),
		Yaw:   geometry.QuatYaw(s.Rot),
		Vel:   s.Vel.Vec2(),
		Boost: s.Boost,
	}
}

// Forward2D is the planar direction of the car's nose.
func (s CarState) Forward2D() mgl64.Vec2 {
	return geometry.UnitFromAngle(geometry.QuatYaw(s.Rot))
}

// Validate rejects states carrying NaN.
func (s CarState) Validate() error {
	values := []float64{s.Boost, s.Rot.W}
	values = append(values, s.Loc[:]...)
	values = append(values, s.Vel[:]...)
	values = append(values, s.Rot.V[:]...)

	for _, v := range values {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN in %+v", ErrInvalidState, s)
		}
	}

	return nil
}

// CarState2D is the ground-plane projection of a CarState. Height, pitch and
// roll are implied by resting flat on the floor.
type CarState2D struct {
	Loc   mgl64.Vec2
	Yaw   float64
	Vel   mgl64.Vec2
	Boost float64
}

// To3D lifts the state back into 3D at the car's resting height.
func (s CarState2D) To3D() CarState {
	return CarState{
		Loc:   s.Loc.Vec3(rl.OctaneNeutralZ),
		Rot:   geometry.YawQuat(s.Yaw),
		Vel:   s.Vel.Vec3(0),
		Boost: s.Boost,
	}
}

func (s CarState2D) Forward() mgl64.Vec2 {
	return geometry.UnitFromAngle(s.Yaw)
}

// SegmentPlan describes one primitive motion. Plans are immutable; Run creates
// a fresh runner each time it is called.
type SegmentPlan interface {
	Name() string
	Start() CarState
	End() CarState
	Duration() float64
	Run() SegmentRunner
}

// SegmentRunner executes one plan, one tick at a time.
type SegmentRunner interface {
	Name() string
	Execute(ctx *behavior.Context) SegmentRunAction
}

type SegmentRunKind int

const (
	RunYield SegmentRunKind = iota
	RunSuccess
	RunFailure
)

func (k SegmentRunKind) String() string {
	switch k {
	case RunYield:
		return "yield"
	case RunSuccess:
		return "success"
	case RunFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// SegmentRunAction is the outcome of one runner tick.
type SegmentRunAction struct {
	Kind  SegmentRunKind
	Input models.ControlCommand
}

func Yield(input models.ControlCommand) SegmentRunAction {
	return SegmentRunAction{Kind: RunYield, Input: input}
}

func Success() SegmentRunAction {
	return SegmentRunAction{Kind: RunSuccess}
}

func Failure() SegmentRunAction {
	return SegmentRunAction{Kind: RunFailure}
}

// FromBehavior maps a behavior action onto a runner outcome. Runners built
// from behaviors resolve their own tail calls, so a stray one is a failure.
func FromBehavior(action behavior.Action) SegmentRunAction {
	switch action.Kind {
	case behavior.ActionYield:
		return Yield(action.Input)
	case behavior.ActionReturn:
		return Success()
	default:
		return Failure()
	}
}
