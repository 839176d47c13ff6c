package geometry

// LinearInterpolate maps x through the piecewise-linear curve defined by the
// breakpoints xs (ascending) and ys. Values outside the curve are clamped to
// its endpoints.
func LinearInterpolate(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0
	}

	if x <= xs[0] {
		return ys[0]
	}

	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}

	for i := 1; i <= last; i++ {
		if x > xs[i] {
			continue
		}

		span := xs[i] - xs[i-1]
		if span == 0 {
			return ys[i]
		}

		frac := (x - xs[i-1]) / span

		return ys[i-1] + frac*(ys[i]-ys[i-1])
	}

	return ys[last]
}

// Turning curvature (1/radius) at full steer, sampled by speed.
var (
	curvatureSpeeds = []float64{0, 500, 1000, 1500, 1750, 2300}
	curvatureValues = []float64{0.0069, 0.00398, 0.00235, 0.001375, 0.0011, 0.00088}
)

// MaxCurvature returns the tightest turn a grounded car can make at speed.
func MaxCurvature(speed float64) float64 {
	return LinearInterpolate(curvatureSpeeds, curvatureValues, speed)
}
