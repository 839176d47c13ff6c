// Package plan holds rough feasibility estimates used to choose between
// candidate maneuvers before committing to one.
package plan

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/pkg/models"
)

// Car is the subset of a car's state the estimates look at.
type Car struct {
	Loc      mgl64.Vec2
	Yaw      float64
	Pitch    float64
	Speed    float64
	Boost    float64
	OnGround bool
}

// CarFromPlayer reads a Car out of a world snapshot entry.
func CarFromPlayer(player models.PlayerInfo) Car {
	return Car{
		Loc:      player.Physics.Location.Vec2(),
		Yaw:      player.Physics.Rotation.Yaw,
		Pitch:    player.Physics.Rotation.Pitch,
		Speed:    player.Physics.Velocity.Len(),
		Boost:    player.Boost,
		OnGround: player.OnGround,
	}
}

// CarFromState reads a Car out of a planned kinematic state. Planned states
// always rest on the ground.
func CarFromState(loc mgl64.Vec3, rot mgl64.Quat, vel mgl64.Vec3, boost float64) Car {
	return Car{
		Loc:      loc.Vec2(),
		Yaw:      geometry.QuatYaw(rot),
		Pitch:    geometry.QuatPitch(rot),
		Speed:    vel.Len(),
		Boost:    boost,
		OnGround: true,
	}
}

func (c Car) yawDiff(target mgl64.Vec2) float64 {
	return geometry.YawDiff(c.Loc, c.Yaw, target)
}
