package segments_test

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/groundsim"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/pkg/models"
)

const dt = 1.0 / 60.0

type driveResult struct {
	outcome routing.SegmentRunKind
	ticks   int
	inputs  []models.ControlCommand
}

// drive runs runner against sim until it stops yielding or maxTicks pass.
func drive(sim *groundsim.Sim, runner routing.SegmentRunner, maxTicks int) driveResult {
	var result driveResult

	for result.ticks = 0; result.ticks < maxTicks; result.ticks++ {
		ctx := behavior.NewContext(sim.Snapshot(), 0, zerolog.Nop())

		action := runner.Execute(ctx)
		if action.Kind != routing.RunYield {
			result.outcome = action.Kind

			return result
		}

		result.inputs = append(result.inputs, action.Input)
		sim.Step(action.Input, dt)
	}

	result.outcome = routing.RunYield

	return result
}

// contextAt builds a context for a single grounded car.
func contextAt(t float64, player models.PlayerInfo) *behavior.Context {
	return behavior.NewContext(&models.WorldSnapshot{
		Players:  []models.PlayerInfo{player},
		GameInfo: models.GameInfo{TimeSeconds: t},
	}, 0, zerolog.Nop())
}

func inRange(values []float64, lo, hi float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			return false
		}
	}

	return true
}
