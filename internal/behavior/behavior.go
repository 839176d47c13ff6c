// Package behavior is the per-tick control-flow substrate. A behavior is asked
// for exactly one Action per invocation; the Runner turns those actions into
// one control command per tick.
package behavior

import (
	"github.com/rs/zerolog"

	"github.com/zetetos/rl-motion/pkg/models"
)

// Priority orders competing behaviors. A higher priority preempts a lower one.
type Priority int

const (
	PriorityIdle Priority = iota
	PriorityDefense
	PriorityStrike
	PriorityEmergency
)

func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "idle"
	case PriorityDefense:
		return "defense"
	case PriorityStrike:
		return "strike"
	case PriorityEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Behavior produces one Action each time it is executed.
type Behavior interface {
	// Name is a short identifier, usually the type name.
	Name() string
	Execute(ctx *Context) Action
}

// Prioritized is implemented by behaviors that are not idle priority.
type Prioritized interface {
	Priority() Priority
}

// PriorityOf returns the priority of b, defaulting to idle.
func PriorityOf(b Behavior) Priority {
	if p, ok := b.(Prioritized); ok {
		return p.Priority()
	}

	return PriorityIdle
}

// Context is what a behavior sees during one tick: the world snapshot, which
// car it controls, and a debug channel.
type Context struct {
	Packet      *models.WorldSnapshot
	PlayerIndex int
	Log         zerolog.Logger
	// MaxTailCalls caps same-tick tail calls for composers such as Chain. The
	// Runner overwrites it with its own cap.
	MaxTailCalls int
}

func NewContext(packet *models.WorldSnapshot, playerIndex int, log zerolog.Logger) *Context {
	return &Context{
		Packet:       packet,
		PlayerIndex:  playerIndex,
		Log:          log,
		MaxTailCalls: DefaultMaxTailCalls,
	}
}

// Me returns the controlled car.
func (c *Context) Me() models.PlayerInfo {
	me, _ := c.Packet.Player(c.PlayerIndex)

	return me
}

// Time returns the game clock in seconds.
func (c *Context) Time() float64 {
	if c.Packet == nil {
		return 0
	}

	return c.Packet.GameInfo.TimeSeconds
}
