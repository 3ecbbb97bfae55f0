package sim

import "fmt"

// ActionKind is the closed set of turn actions. New actions are added
// here and in the engine's dispatch switch, never via string lookup.
type ActionKind int

const (
	ActionTrain ActionKind = iota
	ActionRest
	ActionTournament
	ActionAgentChat
)

func (k ActionKind) String() string {
	switch k {
	case ActionTrain:
		return "train"
	case ActionRest:
		return "rest"
	case ActionTournament:
		return "tournament"
	case ActionAgentChat:
		return "agent_chat"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// ParseActionKind maps a wire-level action name onto its variant. Unknown
// names fail with ErrInvalidAction.
func ParseActionKind(name string) (ActionKind, error) {
	switch name {
	case "train":
		return ActionTrain, nil
	case "rest":
		return ActionRest, nil
	case "tournament":
		return ActionTournament, nil
	case "agent_chat":
		return ActionAgentChat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, name)
	}
}

// Payload carries the optional per-action parameters. Train reads Skill;
// agent chat may override its configured magnitudes within the bounds the
// rules allow.
type Payload struct {
	Skill           string
	MotivationDelta *int
	MentalRecovery  *int
}
