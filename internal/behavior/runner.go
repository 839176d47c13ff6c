package behavior

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zetetos/rl-motion/pkg/models"
)

var ErrTailCallLimit = errors.New("tail call limit exceeded")

// DefaultMaxTailCalls bounds how many tail calls may happen within one tick.
const DefaultMaxTailCalls = 16

type Status int

const (
	// StatusIdle means there was no behavior to run.
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TickResult is the outcome of one Runner tick.
type TickResult struct {
	Input     models.ControlCommand
	Status    Status
	TailCalls int
}

// Runner drives a single active behavior, once per tick. Tail calls are
// resolved in a loop within the tick rather than by recursion.
type Runner struct {
	log          zerolog.Logger
	current      Behavior
	maxTailCalls int
}

func NewRunner(root Behavior, maxTailCalls int, log zerolog.Logger) *Runner {
	if maxTailCalls <= 0 {
		maxTailCalls = DefaultMaxTailCalls
	}

	return &Runner{
		log:          log,
		current:      root,
		maxTailCalls: maxTailCalls,
	}
}

// Current returns the active behavior, or nil once it has finished.
func (r *Runner) Current() Behavior {
	return r.current
}

// Set replaces the active behavior unconditionally. The previous behavior is
// simply never invoked again.
func (r *Runner) Set(b Behavior) {
	r.current = b
}

// Propose replaces the active behavior if the candidate has a strictly higher
// priority, or if nothing is running.
func (r *Runner) Propose(candidate Behavior) bool {
	if candidate == nil {
		return false
	}

	if r.current != nil && PriorityOf(candidate) <= PriorityOf(r.current) {
		return false
	}

	if r.current != nil {
		r.log.Info().
			Str("from", r.current.Name()).
			Str("to", candidate.Name()).
			Stringer("priority", PriorityOf(candidate)).
			Msg("behavior preempted")
	}

	r.current = candidate

	return true
}

// Tick executes the active behavior for one tick and returns exactly one
// command. Once the behavior returns or aborts the runner becomes idle.
func (r *Runner) Tick(ctx *Context) (TickResult, error) {
	if r.current == nil {
		return TickResult{Status: StatusIdle}, nil
	}

	ctx.MaxTailCalls = r.maxTailCalls

	for tailCalls := 0; ; tailCalls++ {
		if tailCalls > r.maxTailCalls {
			name := r.current.Name()
			r.current = nil

			r.log.Error().Str("behavior", name).Int("tail_calls", tailCalls).Msg("tail call limit exceeded")

			return TickResult{Status: StatusFailed, TailCalls: tailCalls},
				fmt.Errorf("%w: %d tail calls, last %s", ErrTailCallLimit, tailCalls, name)
		}

		action := r.current.Execute(ctx)

		switch action.Kind {
		case ActionYield:
			err := action.Input.Validate()
			if err != nil {
				name := r.current.Name()
				r.current = nil

				r.log.Error().Err(err).Str("behavior", name).Msg("halting behavior")

				return TickResult{Status: StatusFailed, TailCalls: tailCalls}, fmt.Errorf("behavior %s: %w", name, err)
			}

			return TickResult{Input: action.Input.Clamped(), Status: StatusRunning, TailCalls: tailCalls}, nil
		case ActionTailCall:
			if action.Next == nil {
				r.log.Error().Str("behavior", r.current.Name()).Msg("tail call to nil behavior")
				r.current = nil

				return TickResult{Status: StatusFailed, TailCalls: tailCalls}, nil
			}

			r.log.Trace().Str("from", r.current.Name()).Str("to", action.Next.Name()).Msg("tail call")
			r.current = action.Next
		case ActionReturn:
			r.log.Debug().Str("behavior", r.current.Name()).Msg("behavior returned")
			r.current = nil

			return TickResult{Status: StatusSucceeded, TailCalls: tailCalls}, nil
		default:
			r.log.Debug().Str("behavior", r.current.Name()).Msg("behavior aborted")
			r.current = nil

			return TickResult{Status: StatusFailed, TailCalls: tailCalls}, nil
		}
	}
}
