package plan

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/internal/simulate"
)

const (
	simDT        = 1.0 / 60.0
	reactionTime = 2.0 / 120.0
	// maxDriveTime bounds the drive simulation; nothing on the field is
	// further away than this at full boost.
	maxDriveTime = 10.0
)

// Dodge preconditions.
const (
	dodgeMinSpeed     = 1300.0
	dodgeMaxBoost     = 1.0
	dodgeMaxPitch     = math.Pi / 12
	dodgeMaxMisalign  = math.Pi / 60
	dodgeSpeedGainEst = rl.DodgeImpulse
)

// RoughTimeDriveToLoc estimates how long the car needs to reach target at
// full throttle and boost, including a guess at the time spent turning.
func RoughTimeDriveToLoc(tables *simulate.Tables, car Car, target mgl64.Vec2) float64 {
	dist := target.Sub(car.Loc).Len()
	t := reactionTime + steerPenalty(car.yawDiff(target))

	sim := simulate.NewCar1D(tables, car.Speed).WithBoost(car.Boost)
	for sim.Time() < maxDriveTime {
		sim.Step(simDT, 1, true)

		if sim.DistanceTraveled() >= dist {
			break
		}
	}

	return t + sim.Time()
}

// steerPenalty is a very rough guess at the time lost turning by yawDiff.
func steerPenalty(yawDiff float64) float64 {
	return math.Abs(yawDiff) * 3 / 4
}

// DodgeSavesTime reports whether a ground dodge toward target gets there
// sooner than driving.
func DodgeSavesTime(tables *simulate.Tables, car Car, target mgl64.Vec2) bool {
	if car.Boost > dodgeMaxBoost || !car.OnGround {
		return false
	}

	if car.Pitch >= dodgeMaxPitch || math.Abs(car.yawDiff(target)) >= dodgeMaxMisalign {
		return false
	}

	// Below this it is faster to accelerate; above it the dodge adds nothing.
	if car.Speed < dodgeMinSpeed || car.Speed >= rl.CarAlmostMaxSpeed {
		return false
	}

	dist := target.Sub(car.Loc).Len()
	dodgeTime := dist / (car.Speed + dodgeSpeedGainEst)

	if dodgeTime < rl.GroundDodgeTime {
		return false
	}

	return dodgeTime < RoughTimeDriveToLoc(tables, car, target)
}
