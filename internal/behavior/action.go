package behavior

import "github.com/zetetos/rl-motion/pkg/models"

type ActionKind int

const (
	// ActionYield emits Input for this tick; the behavior runs again next tick.
	ActionYield ActionKind = iota
	// ActionTailCall replaces the behavior with Next and runs Next this tick.
	ActionTailCall
	// ActionReturn finishes the behavior successfully.
	ActionReturn
	// ActionAbort finishes the behavior with a failure.
	ActionAbort
)

func (k ActionKind) String() string {
	switch k {
	case ActionYield:
		return "yield"
	case ActionTailCall:
		return "tail_call"
	case ActionReturn:
		return "return"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Action is the result of executing a behavior for one tick.
type Action struct {
	Kind  ActionKind
	Input models.ControlCommand
	Next  Behavior
}

func Yield(input models.ControlCommand) Action {
	return Action{Kind: ActionYield, Input: input}
}

func TailCall(next Behavior) Action {
	return Action{Kind: ActionTailCall, Next: next}
}

func Return() Action {
	return Action{Kind: ActionReturn}
}

func Abort() Action {
	return Action{Kind: ActionAbort}
}
