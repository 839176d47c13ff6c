// Package rl holds measured and published constants of the arena and the
// default vehicle. Distances are in unreal units (uu), time in seconds.
package rl

// BoostDepletion is the boost reserve consumed per second of boosting.
const BoostDepletion = 100.0 / 3.0

// BoostMax is the size of a full boost reserve.
const BoostMax = 100.0

// CarNormalSpeed is the top speed reachable with throttle alone.
const CarNormalSpeed = 1410.0

// CarMaxSpeed is the top speed reachable while boosting.
const CarMaxSpeed = 2299.98

// CarAlmostMaxSpeed stands in for boost hysteresis where behaviors need to
// stop boosting slightly before the cap.
const CarAlmostMaxSpeed = CarMaxSpeed - 10.0

// OctaneNeutralZ is the resting height of the car's origin above flat ground.
const OctaneNeutralZ = 17.01

// DodgeImpulse is the planar speed gained from a ground dodge. Known to be a
// lower bound; the real impulse is larger at low speed.
const DodgeImpulse = 500.0

// GroundDodgeTime is the rough time from jump to landing for a ground dodge.
const GroundDodgeTime = 1.33333333

const (
	FieldMaxX = 4096.0
	FieldMaxY = 5120.0
	CrossbarZ = 642.775
	GoalpostX = 892.755
)
