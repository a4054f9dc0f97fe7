package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a subject ID has no record in the registry.
var ErrNotFound = errors.New("subject not found")

// ErrInvalidTransition is returned when a state change would jump directly between dormant and active.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidState is returned when the requested value is not one of the subject's legal states.
var ErrInvalidState = errors.New("invalid state")

// ErrCorruptRecord is returned by stores that find a record whose state is outside its lifecycle.
var ErrCorruptRecord = errors.New("corrupt subject record")

// TransitionError describes a rejected state change.
// It unwraps to ErrInvalidTransition or ErrInvalidState.
type TransitionError struct {
	SubjectID string
	From      string
	To        string
	Err       error
}

func (e *TransitionError) Error() string {
	if e.SubjectID == "" {
		return fmt.Sprintf("%v: %q -> %q", e.Err, e.From, e.To)
	}
	return fmt.Sprintf("%v for subject %q: %q -> %q", e.Err, e.SubjectID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
