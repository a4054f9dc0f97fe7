package domain

// Concrete state values shared by every subject.
// The active state has no shared value: it is the subject's own action label.
const (
	StateDormant = "dormant"
	StateIdle    = "idle"

	// AliasAction is client-facing shorthand for the subject's action label.
	// It is resolved before validation and never stored.
	AliasAction = "action"
)

// Class is the logical lifecycle class of a state value.
type Class int

const (
	ClassDormant Class = iota
	ClassIdle
	ClassActive
)

func (c Class) String() string {
	switch c {
	case ClassDormant:
		return "Dormant"
	case ClassIdle:
		return "Idle"
	case ClassActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Classes lists every class in lifecycle order.
func Classes() []Class {
	return []Class{ClassDormant, ClassIdle, ClassActive}
}

// Resolve replaces the "action" alias with the subject's action label.
// Any other value is returned unchanged.
func Resolve(requested, actionLabel string) string {
	if requested == AliasAction {
		return actionLabel
	}
	return requested
}

// Classify maps a concrete state value to its class for a subject with the given action label.
// The action label is checked first, so a label that collides with a shared literal
// always classifies as Active for that subject.
// The boolean is false when the value is not one of the subject's three legal states.
func Classify(value, actionLabel string) (Class, bool) {
	switch value {
	case actionLabel:
		return ClassActive, true
	case StateDormant:
		return ClassDormant, true
	case StateIdle:
		return ClassIdle, true
	default:
		return 0, false
	}
}

// ValueOf returns the concrete state value of a class for the given action label.
func ValueOf(c Class, actionLabel string) string {
	switch c {
	case ClassDormant:
		return StateDormant
	case ClassIdle:
		return StateIdle
	default:
		return actionLabel
	}
}
