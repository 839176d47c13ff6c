package simulate

import (
	"errors"
	"fmt"

	"github.com/zetetos/rl-motion/internal/rl"
)

var ErrUnsupportedInput = errors.New("unsupported car1d input")

// Car1D simulates a car driving in a straight line on flat ground.
//
// Car1D is a plain value: copying it forks an independent simulation, which is
// how divergent futures are explored (for example two cars racing to the same
// point).
type Car1D struct {
	tables *Tables
	time   float64
	loc    float64
	vel    float64
	boost  float64
}

// NewCar1D starts a simulation at the given speed with a full boost reserve.
func NewCar1D(tables *Tables, speed float64) Car1D {
	return Car1D{
		tables: tables,
		vel:    speed,
		boost:  rl.BoostMax,
	}
}

// WithBoost overrides the starting boost reserve.
func (c Car1D) WithBoost(boost float64) Car1D {
	c.boost = boost

	return c
}

// Clone returns an independent copy of the simulation.
func (c Car1D) Clone() Car1D {
	return c
}

func (c *Car1D) Time() float64 {
	return c.time
}

func (c *Car1D) DistanceTraveled() float64 {
	return c.loc
}

func (c *Car1D) Speed() float64 {
	return c.vel
}

func (c *Car1D) Boost() float64 {
	return c.boost
}

// Step advances the simulation by dt with the given inputs. Throttle must be
// 0 or 1, and boost requires full throttle. A boost request with an empty
// reserve silently becomes a plain throttle.
func (c *Car1D) Step(dt, throttle float64, boost bool) {
	if boost {
		boost = c.boost > 0
	}

	newVel := c.computeNewVel(dt, throttle, boost)

	c.time += dt
	c.loc += c.vel * dt
	c.vel = newVel

	if boost {
		c.boost -= rl.BoostDepletion * dt
	}
}

// StepRev runs time backwards, given the inputs of the previous frame: the
// returned speed is the one the car must have had dt earlier. Time and
// distance still accumulate forwards.
//
// Boost is consumed rather than regenerated so that it runs out at the same
// point as in Step. A single Car1D must not switch between Step and StepRev.
func (c *Car1D) StepRev(dt, throttle float64, boost bool) {
	if boost {
		boost = c.boost > 0
	}

	newVel := c.computeNewVel(-dt, throttle, boost)

	c.time += dt
	c.vel = newVel
	c.loc += c.vel * dt

	if boost {
		c.boost -= rl.BoostDepletion * dt
	}
}

func (c *Car1D) computeNewVel(dt, throttle float64, boost bool) float64 {
	if c.vel >= rl.CarNormalSpeed && throttle == 1 {
		return c.vel
	}

	var curve *Curve

	switch {
	case !boost && throttle == 0:
		curve = &c.tables.Coast
	case !boost && throttle == 1:
		curve = &c.tables.Throttle
	case boost && throttle == 1:
		curve = &c.tables.Boost
	default:
		panic(fmt.Errorf("%w: throttle=%v boost=%v", ErrUnsupportedInput, throttle, boost))
	}

	speeds, times := curve.bySpeed()
	oldTime := lookup(speeds, times, c.vel)

	return lookup(curve.Time, curve.Speed, oldTime+dt)
}
