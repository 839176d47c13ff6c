// Package geometry provides the planar and spatial primitives shared by the
// physics simulator, the segment plans and the behaviors.
//
// Angles are radians. Positive planar angles are counter-clockwise when viewed
// from above (+Z).
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	UnitX = mgl64.Vec3{1, 0, 0}
	UnitY = mgl64.Vec3{0, 1, 0}
	UnitZ = mgl64.Vec3{0, 0, 1}
)

// CarForwardAxis2D is the car's nose direction in its own planar frame.
var CarForwardAxis2D = mgl64.Vec2{1, 0}

// AngleTo returns the signed angle that rotates a onto b.
func AngleTo(a, b mgl64.Vec2) float64 {
	return math.Atan2(a[0]*b[1]-a[1]*b[0], a.Dot(b))
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle <= -math.Pi {
		angle += 2 * math.Pi
	}

	return angle
}

// Signum returns 1 for positive values (including +0) and -1 for negative
// values (including -0).
func Signum(x float64) float64 {
	return math.Copysign(1, x)
}

// Clamp limits x to [-1, 1], the range of every analog control input.
func Clamp(x float64) float64 {
	return mgl64.Clamp(x, -1, 1)
}

// Rotate2D rotates v by angle around the origin.
func Rotate2D(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// UnitFromAngle returns the unit vector pointing at the given heading.
func UnitFromAngle(angle float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
}

// Heading returns the angle of v measured from +X.
func Heading(v mgl64.Vec2) float64 {
	return math.Atan2(v[1], v[0])
}

// SafeNormalize returns the unit vector of v, or zero when v has no length.
func SafeNormalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}

	return v.Mul(1 / l)
}

// RotatorToQuat converts Unreal-style pitch/yaw/roll into a quaternion.
// Positive pitch raises the nose; positive yaw turns counter-clockwise.
func RotatorToQuat(pitch, yaw, roll float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, UnitZ).
		Mul(mgl64.QuatRotate(-pitch, UnitY)).
		Mul(mgl64.QuatRotate(-roll, UnitX)).
		Normalize()
}

// ForwardAxis returns the car's nose direction in world space.
func ForwardAxis(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(UnitX)
}

// QuatYaw extracts the planar heading of the nose from an orientation.
func QuatYaw(q mgl64.Quat) float64 {
	f := ForwardAxis(q)

	return math.Atan2(f[1], f[0])
}

// QuatPitch extracts how far the nose points above the ground plane.
func QuatPitch(q mgl64.Quat) float64 {
	f := ForwardAxis(q)

	return math.Asin(mgl64.Clamp(f[2], -1, 1))
}

// YawQuat is the orientation of a car sitting flat on the ground facing yaw.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, UnitZ)
}

// YawDiff returns the signed turn needed for a car at loc facing yaw to point
// its nose at target.
func YawDiff(loc mgl64.Vec2, yaw float64, target mgl64.Vec2) float64 {
	return AngleTo(UnitFromAngle(yaw), target.Sub(loc))
}
