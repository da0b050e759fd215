package domain

// Lifecycle is a directed edge set over a status type. Both the profile and
// the job-posting workflows are instances of it: a transition is legal only
// if it is an explicit edge, everything else fails with ErrInvalidTransition.
type Lifecycle[S ~string] struct {
	edges map[S][]S
}

func NewLifecycle[S ~string](edges map[S][]S) *Lifecycle[S] {
	return &Lifecycle[S]{edges: edges}
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func (l *Lifecycle[S]) CanTransition(from, to S) bool {
	for _, next := range l.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the requested edge. It never mutates anything; the
// caller performs the actual state change (and its history append) only after
// a nil return.
func (l *Lifecycle[S]) Transition(from, to S) error {
	if !l.CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}
