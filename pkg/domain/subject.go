package domain

// Subject is a registered entity with a custom active designation.
type Subject struct {
	// ID identifies the subject for its whole lifetime.
	ID string `json:"id" yaml:"id"`

	// ActionLabel is the concrete value of the subject's active state (e.g. "barks").
	// It is assigned on connect and never changes afterwards.
	ActionLabel string `json:"action" yaml:"action"`

	// State is always StateDormant, StateIdle or ActionLabel.
	State string `json:"state" yaml:"state"`
}

// NewSubject creates a subject in its initial dormant state.
func NewSubject(id, actionLabel string) Subject {
	return Subject{
		ID:          id,
		ActionLabel: actionLabel,
		State:       StateDormant,
	}
}

// Class returns the lifecycle class of the subject's current state.
// The boolean is false when the stored state is not one of the subject's legal values.
func (s Subject) Class() (Class, bool) {
	return Classify(s.State, s.ActionLabel)
}
