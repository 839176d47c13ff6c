package behavior

import (
	"slices"
)

// Chain runs its children in order. A child that returns hands over to the
// next child within the same tick; an abort aborts the whole chain.
type Chain struct {
	priority Priority
	children []Behavior
}

func NewChain(priority Priority, children ...Behavior) *Chain {
	return &Chain{
		priority: priority,
		children: slices.Clone(children),
	}
}

func (c *Chain) Name() string {
	return "Chain"
}

// Priority is the higher of the assigned priority and that of any remaining
// child.
func (c *Chain) Priority() Priority {
	p := c.priority
	for _, child := range c.children {
		p = max(p, PriorityOf(child))
	}

	return p
}

// Len returns the number of children not yet finished.
func (c *Chain) Len() int {
	return len(c.children)
}

// Execute runs the current child. Returns only ever shorten the chain, so the
// loop is bounded by the children left plus ctx.MaxTailCalls tail calls.
func (c *Chain) Execute(ctx *Context) Action {
	limit := ctx.MaxTailCalls
	if limit <= 0 {
		limit = DefaultMaxTailCalls
	}

	tailCalls := 0

	for len(c.children) > 0 {
		child := c.children[0]
		action := child.Execute(ctx)

		switch action.Kind {
		case ActionYield:
			return action
		case ActionTailCall:
			if action.Next == nil {
				return Abort()
			}

			tailCalls++
			if tailCalls > limit {
				ctx.Log.Error().
					Str("behavior", c.Name()).
					Str("child", child.Name()).
					Int("tail_calls", tailCalls).
					Msg("tail call limit exceeded")

				return Abort()
			}

			c.children[0] = action.Next
		case ActionReturn:
			c.children = c.children[1:]
		default:
			ctx.Log.Debug().Str("behavior", c.Name()).Str("child", child.Name()).Msg("child aborted")

			return Abort()
		}
	}

	return Return()
}
