package domain

// Edge is a legal move between two lifecycle classes.
type Edge struct {
	From Class `json:"from"`
	To   Class `json:"to"`
}

// transitions is the exhaustive table of legal edges.
// Dormant and Active are never adjacent: a subject must pass through Idle.
// Self-loops are accepted as no-op transitions.
var transitions = map[Class][]Class{
	ClassDormant: {ClassDormant, ClassIdle},
	ClassIdle:    {ClassDormant, ClassIdle, ClassActive},
	ClassActive:  {ClassIdle, ClassActive},
}

// Edges returns every legal edge in lifecycle order.
func Edges() []Edge {
	var edges []Edge
	for _, from := range Classes() {
		for _, to := range transitions[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Allowed reports whether the table contains the edge from -> to.
func Allowed(from, to Class) bool {
	for _, c := range transitions[from] {
		if c == to {
			return true
		}
	}
	return false
}

// Validate decides whether a subject in state current may move to requested.
// It resolves the "action" alias, rejects edges missing from the table with
// ErrInvalidTransition and values outside the subject's three legal states with
// ErrInvalidState. Direction is checked first, so a forbidden edge is reported
// even when the target is also unusual.
// On success it returns the concrete state to store.
func Validate(current, actionLabel, requested string) (string, error) {
	target := Resolve(requested, actionLabel)

	from, fromOK := Classify(current, actionLabel)
	to, toOK := Classify(target, actionLabel)

	if fromOK && toOK && !Allowed(from, to) {
		return "", &TransitionError{From: current, To: target, Err: ErrInvalidTransition}
	}

	if !toOK {
		return "", &TransitionError{From: current, To: target, Err: ErrInvalidState}
	}

	return target, nil
}
