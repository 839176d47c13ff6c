package routing

import (
	"errors"
	"fmt"
)

var (
	ErrSegmentInfeasible = errors.New("segment infeasible")
	ErrDiscontinuous     = errors.New("discontinuous segments")
	ErrEmptyRoute        = errors.New("route has no segments")
)

// Continuity tolerances between the end of one segment and the start of the
// next.
const (
	LocationTolerance = 1.0
	VelocityTolerance = 1.0
	BoostTolerance    = 0.5
)

// Planner builds a plan that starts at the given state.
type Planner interface {
	Plan(start CarState) (SegmentPlan, error)
}

type PlannerFunc func(start CarState) (SegmentPlan, error)

func (f PlannerFunc) Plan(start CarState) (SegmentPlan, error) {
	return f(start)
}

// CheckContinuity verifies that next can follow prev without a jump in
// location, velocity or boost.
func CheckContinuity(prevEnd, nextStart CarState) error {
	if d := prevEnd.Loc.Sub(nextStart.Loc).Len(); d > LocationTolerance {
		return fmt.Errorf("%w: location off by %.3f", ErrDiscontinuous, d)
	}

	if d := prevEnd.Vel.Sub(nextStart.Vel).Len(); d > VelocityTolerance {
		return fmt.Errorf("%w: velocity off by %.3f", ErrDiscontinuous, d)
	}

	if d := prevEnd.Boost - nextStart.Boost; d > BoostTolerance || d < -BoostTolerance {
		return fmt.Errorf("%w: boost off by %.3f", ErrDiscontinuous, d)
	}

	return nil
}

// Compose plans each segment in order, threading every segment's end state
// into the next planner. Any failure fails the whole composition.
func Compose(start CarState, planners ...Planner) (*Route, error) {
	err := start.Validate()
	if err != nil {
		return nil, err
	}

	if len(planners) == 0 {
		return nil, ErrEmptyRoute
	}

	segments := make([]SegmentPlan, 0, len(planners))
	current := start

	for i, planner := range planners {
		plan, err := planner.Plan(current)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", ErrSegmentInfeasible, i, err)
		}

		err = CheckContinuity(current, plan.Start())
		if err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i, plan.Name(), err)
		}

		end := plan.End()

		err = end.Validate()
		if err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i, plan.Name(), err)
		}

		segments = append(segments, plan)
		current = end
	}

	return NewRoute(segments...)
}

// ChainPlanners composes several planners into one.
func ChainPlanners(planners ...Planner) Planner {
	return PlannerFunc(func(start CarState) (SegmentPlan, error) {
		return Compose(start, planners...)
	})
}

// Fixed returns a planner that always hands out a prebuilt plan, provided it
// starts where the car actually is.
func Fixed(plan SegmentPlan) Planner {
	return PlannerFunc(func(start CarState) (SegmentPlan, error) {
		err := CheckContinuity(start, plan.Start())
		if err != nil {
			return nil, fmt.Errorf("fixed %s: %w", plan.Name(), err)
		}

		return plan, nil
	})
}
