package behavior

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/pkg/models"
)

var flatGroundTolerance = mgl64.DegToRad(15)

// OnFlatGround reports whether the car has its wheels on the floor.
func OnFlatGround(car models.PlayerInfo) bool {
	return car.OnGround &&
		math.Abs(car.Physics.Rotation.Pitch) < flatGroundTolerance &&
		math.Abs(car.Physics.Rotation.Roll) < flatGroundTolerance
}

// DriveTowardsInput steers a grounded car at target with full throttle,
// pulling the handbrake for sharp turns.
func DriveTowardsInput(car models.PlayerInfo, target mgl64.Vec2) models.ControlCommand {
	loc := car.Physics.Location.Vec2()
	yawDiff := geometry.YawDiff(loc, car.Physics.Rotation.Yaw, target)

	handbrakeCutoff := geometry.LinearInterpolate(
		[]float64{0, rl.CarNormalSpeed},
		[]float64{math.Pi * 0.25, math.Pi * 0.5},
		car.Physics.Velocity.Len(),
	)

	return models.ControlCommand{
		Throttle:  1,
		Steer:     geometry.Clamp(yawDiff * 2),
		Handbrake: math.Abs(yawDiff) >= handbrakeCutoff,
	}
}

// DriveTowards naively drives at a location forever. It never finishes on its
// own and must be bounded by its composer.
type DriveTowards struct {
	target mgl64.Vec2
}

func NewDriveTowards(target mgl64.Vec2) *DriveTowards {
	return &DriveTowards{target: target}
}

func (d *DriveTowards) Name() string {
	return "DriveTowards"
}

func (d *DriveTowards) Execute(ctx *Context) Action {
	return Yield(DriveTowardsInput(ctx.Me(), d.target))
}

// Yielder emits a fixed input for a duration of game time, then returns.
type Yielder struct {
	duration float64
	input    models.ControlCommand
	start    float64
	started  bool
}

func NewYielder(duration float64, input models.ControlCommand) *Yielder {
	return &Yielder{
		duration: duration,
		input:    input,
	}
}

func (y *Yielder) Name() string {
	return "Yielder"
}

func (y *Yielder) Execute(ctx *Context) Action {
	now := ctx.Time()
	if !y.started {
		y.start = now
		y.started = true
	}

	if now-y.start < y.duration {
		return Yield(y.input)
	}

	return Return()
}

// NullBehavior yields a neutral command forever.
type NullBehavior struct{}

func (NullBehavior) Name() string {
	return "NullBehavior"
}

func (NullBehavior) Execute(*Context) Action {
	return Yield(models.ControlCommand{})
}
