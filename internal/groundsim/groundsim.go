// Package groundsim is a coarse flat-ground kinematic stand-in for the game,
// good enough to drive plans end to end without it.
//
// Longitudinal speed follows Car1D. The car turns at steer times the tightest
// curvature available at its speed and never slides. A dodge keeps the car in
// the air until rl.GroundDodgeTime after the jump plus the jump and wait
// phases, roughly mirroring the jump-and-dodge plan.
package groundsim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/simulate"
	"github.com/zetetos/rl-motion/pkg/models"
)

const (
	Gravity      = 650.0
	JumpVelocity = 292.0
	// DodgeWindow is how long after a jump a dodge is still available.
	DodgeWindow = 1.25
	// dodgeFlight is the time from jump to landing after a dodge. It lands a
	// few ticks before a jump-and-dodge plan ends.
	dodgeFlight = 12.0/120.0 + rl.GroundDodgeTime - 0.05
)

// Sim holds one car.
type Sim struct {
	tables *simulate.Tables

	time  float64
	loc   mgl64.Vec2
	yaw   float64
	speed float64
	boost float64

	onGround  bool
	height    float64
	vz        float64
	airVel    mgl64.Vec2
	jumpStart float64
	dodged    bool
	prevJump  bool

	ball models.BallInfo
}

// New places a car at rest on the ground in the given planar state. Only the
// component of the velocity along the car's nose is kept.
func New(tables *simulate.Tables, state routing.CarState2D) *Sim {
	return &Sim{
		tables:   tables,
		loc:      state.Loc,
		yaw:      state.Yaw,
		speed:    max(state.Vel.Dot(state.Forward()), 0),
		boost:    state.Boost,
		onGround: true,
	}
}

// WithBall sets the ball reported by Snapshot.
func (s *Sim) WithBall(ball models.BallInfo) *Sim {
	s.ball = ball

	return s
}

func (s *Sim) Time() float64 {
	return s.time
}

func (s *Sim) OnGround() bool {
	return s.onGround
}

// Step applies cmd for dt seconds.
func (s *Sim) Step(cmd models.ControlCommand, dt float64) {
	jumpPressed := cmd.Jump && !s.prevJump
	s.prevJump = cmd.Jump

	if s.onGround {
		if jumpPressed {
			s.takeOff()
		} else {
			s.drive(cmd, dt)
		}
	} else if jumpPressed {
		s.dodge(cmd)
	}

	if !s.onGround {
		s.fly(dt)
	}

	s.time += dt
}

func (s *Sim) drive(cmd models.ControlCommand, dt float64) {
	throttle := 0.0
	if cmd.Throttle > 0.5 || cmd.Boost {
		throttle = 1
	}

	car := simulate.NewCar1D(s.tables, s.speed).WithBoost(s.boost)
	car.Step(dt, throttle, cmd.Boost)

	s.yaw = geometry.NormalizeAngle(s.yaw + cmd.Steer*geometry.MaxCurvature(s.speed)*s.speed*dt)
	s.loc = s.loc.Add(geometry.UnitFromAngle(s.yaw).Mul(s.speed * dt))
	s.speed = car.Speed()
	s.boost = car.Boost()
}

func (s *Sim) takeOff() {
	s.onGround = false
	s.height = 0
	s.vz = JumpVelocity
	s.airVel = geometry.UnitFromAngle(s.yaw).Mul(s.speed)
	s.jumpStart = s.time
	s.dodged = false
}

func (s *Sim) dodge(cmd models.ControlCommand) {
	if s.dodged || s.time-s.jumpStart > DodgeWindow {
		return
	}

	dir := math.Atan2(cmd.Yaw, -cmd.Pitch)
	s.airVel = s.airVel.Add(geometry.Rotate2D(geometry.UnitFromAngle(s.yaw), dir).Mul(rl.DodgeImpulse))
	s.dodged = true

	// Pick the vertical speed that lands exactly at the end of the flight.
	remaining := s.jumpStart + dodgeFlight - s.time
	if remaining > 0 {
		s.vz = (0.5*Gravity*remaining*remaining - s.height) / remaining
	}
}

func (s *Sim) fly(dt float64) {
	s.loc = s.loc.Add(s.airVel.Mul(dt))
	s.height += s.vz * dt
	s.vz -= Gravity * dt

	if s.height > 0 || s.vz > 0 {
		return
	}

	s.onGround = true
	s.height = 0
	s.vz = 0

	s.speed = min(s.airVel.Len(), rl.CarMaxSpeed)
	if s.speed > 1 {
		s.yaw = geometry.Heading(s.airVel)
	}
}

// State returns the car as a planar state.
func (s *Sim) State() routing.CarState2D {
	return routing.CarState2D{
		Loc:   s.loc,
		Yaw:   s.yaw,
		Vel:   s.velocity(),
		Boost: max(s.boost, 0),
	}
}

func (s *Sim) velocity() mgl64.Vec2 {
	if s.onGround {
		return geometry.UnitFromAngle(s.yaw).Mul(s.speed)
	}

	return s.airVel
}

// Snapshot renders the sim as a single-player world snapshot.
func (s *Sim) Snapshot() *models.WorldSnapshot {
	vz := 0.0
	if !s.onGround {
		vz = s.vz
	}

	return &models.WorldSnapshot{
		Players: []models.PlayerInfo{{
			Physics: models.Physics{
				Location: s.loc.Vec3(rl.OctaneNeutralZ + s.height),
				Rotation: models.Rotator{Yaw: s.yaw},
				Velocity: s.velocity().Vec3(vz),
			},
			Boost:    max(s.boost, 0),
			OnGround: s.onGround,
		}},
		Ball:     s.ball,
		GameInfo: models.GameInfo{TimeSeconds: s.time},
	}
}
