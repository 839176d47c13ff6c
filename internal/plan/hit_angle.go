package plan

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zetetos/rl-motion/internal/geometry"
)

// FeasibleHitAngleToward returns the point the ball can realistically be sent
// toward when aiming at idealAim. The shot may deviate from the car's approach
// direction by at most maxAngleDiff; within that, idealAim itself is returned.
//
// Outside that cone the result lies at the same distance from the ball as
// idealAim, along the approach direction turned by ±maxAngleDiff toward it.
// The turn is measured from the approach, so the result never swings past
// idealAim.
func FeasibleHitAngleToward(ballLoc, carLoc, idealAim mgl64.Vec2, maxAngleDiff float64) mgl64.Vec2 {
	approach := ballLoc.Sub(carLoc)
	aim := idealAim.Sub(ballLoc)
	turn := geometry.AngleTo(approach, aim)

	if turn >= -maxAngleDiff && turn <= maxAngleDiff {
		return idealAim
	}

	limited := mgl64.Clamp(turn, -maxAngleDiff, maxAngleDiff)
	dir := geometry.Rotate2D(geometry.SafeNormalize(approach), limited)

	return ballLoc.Add(dir.Mul(aim.Len()))
}

// FeasibleHitAngleAway returns a shot target that turns away from avoidLoc by
// maxAngleAdjust, toward the side the car approaches from.
//
// The result is avoidLoc rotated about the ball by exactly maxAngleAdjust
// toward the approach direction, whichever side avoidLoc is on. How far
// avoidLoc already is from the approach does not change the size of the turn.
func FeasibleHitAngleAway(ballLoc, carLoc, avoidLoc mgl64.Vec2, maxAngleAdjust float64) mgl64.Vec2 {
	approach := ballLoc.Sub(carLoc)
	avoid := avoidLoc.Sub(ballLoc)
	offset := geometry.AngleTo(approach, avoid)

	return ballLoc.Add(geometry.Rotate2D(avoid, -geometry.Signum(offset)*maxAngleAdjust))
}
