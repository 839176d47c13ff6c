package plan

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/simulate"
)

// MaxRaceTime is how far ahead RaceToBall looks.
const MaxRaceTime = 6.0

// BallPredictor predicts where the ball is t seconds from now.
type BallPredictor interface {
	Predict(t float64) (loc, vel mgl64.Vec3)
}

// LinearBallPredictor assumes the ball keeps its current velocity.
type LinearBallPredictor struct {
	Loc mgl64.Vec3
	Vel mgl64.Vec3
}

func (p LinearBallPredictor) Predict(t float64) (mgl64.Vec3, mgl64.Vec3) {
	return p.Loc.Add(p.Vel.Mul(t)), p.Vel
}

// RaceResult holds the arrival times of both cars. A time is +Inf when that
// car does not reach the ball within MaxRaceTime.
type RaceResult struct {
	MeTime    float64
	EnemyTime float64
	// BallLoc is where the ball is when the first car reaches it.
	BallLoc mgl64.Vec3
}

// Ratio compares the arrival times; below 1 means we get there first.
func (r RaceResult) Ratio() float64 {
	return r.MeTime / r.EnemyTime
}

// RaceToBall naively simulates both cars driving straight at the ball at full
// throttle and boost, ignoring any turning.
func RaceToBall(tables *simulate.Tables, me, enemy Car, ball BallPredictor) RaceResult {
	result := RaceResult{MeTime: math.Inf(1), EnemyTime: math.Inf(1)}
	intercepted := false

	simMe := simulate.NewCar1D(tables, me.Speed).WithBoost(me.Boost)
	simEnemy := simulate.NewCar1D(tables, enemy.Speed).WithBoost(enemy.Boost)

	for t := simDT; t <= MaxRaceTime; t += simDT {
		ballLoc, _ := ball.Predict(t)
		target := ballLoc.Vec2()

		if math.IsInf(result.MeTime, 1) {
			simMe.Step(simDT, 1, true)

			if simMe.DistanceTraveled() >= target.Sub(me.Loc).Len() {
				result.MeTime = t
			}
		}

		if math.IsInf(result.EnemyTime, 1) {
			simEnemy.Step(simDT, 1, true)

			if simEnemy.DistanceTraveled() >= target.Sub(enemy.Loc).Len() {
				result.EnemyTime = t
			}
		}

		arrived := !math.IsInf(result.MeTime, 1) || !math.IsInf(result.EnemyTime, 1)
		if arrived && !intercepted {
			result.BallLoc = ballLoc
			intercepted = true
		}

		if !math.IsInf(result.MeTime, 1) && !math.IsInf(result.EnemyTime, 1) {
			return result
		}
	}

	if !intercepted {
		result.BallLoc, _ = ball.Predict(MaxRaceTime)
	}

	return result
}
