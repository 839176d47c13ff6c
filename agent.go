// Package rlmotion drives a car one tick at a time: it runs the active
// behavior against each world snapshot and returns exactly one control
// command.
package rlmotion

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/simulate"
	"github.com/zetetos/rl-motion/pkg/models"
)

var ErrPlayerNotFound = errors.New("controlled player not in snapshot")

// DefaultTickBudget is the compute time allowed per tick at 120 Hz with room
// to spare.
const DefaultTickBudget = 8 * time.Millisecond

type statistics struct {
	enabled        bool
	tickTimeLast   time.Duration
	TickTimeAvg    time.Duration
	TickTimeMax    time.Duration
	Ticks          int
	BudgetOverruns int
	TailCalls      int
	Completions    int
	Failures       int
}

type Options struct {
	LogLevel string
	Logger   *zerolog.Logger
	// Tables overrides the lookup tables. When nil they are loaded from
	// TablesDir, or from the embedded defaults when that is empty too.
	Tables       *simulate.Tables
	TablesDir    string
	PlayerIndex  int
	MaxTailCalls int
	TickBudget   time.Duration
	StatsEnabled bool
}

type Agent struct {
	log         zerolog.Logger
	behaviorLog zerolog.Logger
	tables      *simulate.Tables
	playerIndex int
	tickBudget  time.Duration
	runner      *behavior.Runner
	lastStatus  behavior.Status
	Statistics  *statistics
}

func New(opts Options) (*Agent, error) {
	log := newLogger(opts)

	if opts.TickBudget <= 0 {
		opts.TickBudget = DefaultTickBudget
	}

	if opts.MaxTailCalls <= 0 {
		opts.MaxTailCalls = behavior.DefaultMaxTailCalls
	}

	tables := opts.Tables
	if tables == nil {
		var err error

		if opts.TablesDir != "" {
			tables, err = simulate.LoadTables(os.DirFS(opts.TablesDir))
		} else {
			tables, err = simulate.DefaultTables()
		}

		if err != nil {
			return nil, fmt.Errorf("loading lookup tables: %w", err)
		}
	}

	return &Agent{
		log:         log,
		behaviorLog: log.With().Str("component", "behavior").Logger(),
		tables:      tables,
		playerIndex: opts.PlayerIndex,
		tickBudget:  opts.TickBudget,
		runner:      behavior.NewRunner(nil, opts.MaxTailCalls, log),
		lastStatus:  behavior.StatusIdle,
		Statistics: &statistics{
			enabled: opts.StatsEnabled,
		},
	}, nil
}

func newLogger(opts Options) zerolog.Logger {
	if opts.Logger != nil {
		return *opts.Logger
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	switch opts.LogLevel {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		log.Warn().Str("log_level", opts.LogLevel).Msg("unknown log level, setting level to warn")
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return log
}

// Tables returns the lookup tables shared by every simulation the agent runs.
func (a *Agent) Tables() *simulate.Tables {
	return a.tables
}

// SetBehavior replaces the active behavior regardless of priority.
func (a *Agent) SetBehavior(b behavior.Behavior) {
	a.runner.Set(b)
}

// Propose activates b if it outranks the active behavior.
func (a *Agent) Propose(b behavior.Behavior) bool {
	return a.runner.Propose(b)
}

// Active returns the running behavior, or nil when idle.
func (a *Agent) Active() behavior.Behavior {
	return a.runner.Current()
}

// Status is the outcome of the most recent tick.
func (a *Agent) Status() behavior.Status {
	return a.lastStatus
}

// Tick runs the active behavior against packet. It always returns a command;
// on error that command is neutral.
func (a *Agent) Tick(packet *models.WorldSnapshot) (models.ControlCommand, error) {
	start := time.Now()

	if _, ok := packet.Player(a.playerIndex); !ok {
		return models.ControlCommand{}, fmt.Errorf("%w: index %d", ErrPlayerNotFound, a.playerIndex)
	}

	ctx := behavior.NewContext(packet, a.playerIndex, a.behaviorLog)
	result, err := a.runner.Tick(ctx)

	a.lastStatus = result.Status
	a.Statistics.tickTimeLast = time.Since(start)
	a.collectStats(result)

	if err != nil {
		return models.ControlCommand{}, err
	}

	return result.Input, nil
}

func (a *Agent) collectStats(result behavior.TickResult) {
	if !a.Statistics.enabled {
		return
	}

	a.Statistics.Ticks++
	a.Statistics.TailCalls += result.TailCalls

	switch result.Status {
	case behavior.StatusSucceeded:
		a.Statistics.Completions++
	case behavior.StatusFailed:
		a.Statistics.Failures++
	}

	if a.Statistics.Ticks == 1 {
		a.Statistics.TickTimeAvg = a.Statistics.tickTimeLast
	} else {
		a.Statistics.TickTimeAvg = (a.Statistics.TickTimeAvg + a.Statistics.tickTimeLast) / 2
	}

	if a.Statistics.tickTimeLast > a.Statistics.TickTimeMax {
		a.Statistics.TickTimeMax = a.Statistics.tickTimeLast
	}

	if a.Statistics.tickTimeLast > a.tickBudget {
		a.log.Warn().
			Dur("tick_time", a.Statistics.tickTimeLast).
			Dur("budget", a.tickBudget).
			Msg("tick over budget")
		a.Statistics.BudgetOverruns++
	}
}
