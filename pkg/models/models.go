package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidCommand = errors.New("invalid control command")

// Rotator represents the orientation of a body as Unreal-style Euler angles
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Physics is the kinematic state of a car or the ball at one tick
type Physics struct {
	Location        mgl64.Vec3
	Rotation        Rotator
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// PlayerInfo is one vehicle in the world snapshot
type PlayerInfo struct {
	Physics  Physics
	Boost    float64
	OnGround bool
	Team     int
}

// BallInfo is the ball in the world snapshot
type BallInfo struct {
	Physics Physics
}

// GameInfo carries the game clock
type GameInfo struct {
	TimeSeconds float64
}

// WorldSnapshot is the full world state delivered once per tick. It is
// treated as read-only.
type WorldSnapshot struct {
	Players  []PlayerInfo
	Ball     BallInfo
	GameInfo GameInfo
}

// Player returns the vehicle at index, if present.
func (w *WorldSnapshot) Player(index int) (PlayerInfo, bool) {
	if w == nil || index < 0 || index >= len(w.Players) {
		return PlayerInfo{}, false
	}

	return w.Players[index], true
}

// ControlCommand is the single output produced per tick. Analog inputs range
// over [-1, 1].
type ControlCommand struct {
	Throttle  float64
	Steer     float64
	Pitch     float64
	Yaw       float64
	Roll      float64
	Jump      bool
	Boost     bool
	Handbrake bool
}

// Validate rejects commands carrying NaN, which indicate an upstream planning
// bug rather than a controllable situation.
func (c ControlCommand) Validate() error {
	for name, value := range map[string]float64{
		"throttle": c.Throttle,
		"steer":    c.Steer,
		"pitch":    c.Pitch,
		"yaw":      c.Yaw,
		"roll":     c.Roll,
	} {
		if math.IsNaN(value) {
			return fmt.Errorf("%w: %s is NaN", ErrInvalidCommand, name)
		}
	}

	return nil
}

// Clamped returns the command with every analog input limited to [-1, 1].
func (c ControlCommand) Clamped() ControlCommand {
	c.Throttle = mgl64.Clamp(c.Throttle, -1, 1)
	c.Steer = mgl64.Clamp(c.Steer, -1, 1)
	c.Pitch = mgl64.Clamp(c.Pitch, -1, 1)
	c.Yaw = mgl64.Clamp(c.Yaw, -1, 1)
	c.Roll = mgl64.Clamp(c.Roll, -1, 1)

	return c
}
