package dispatcher

// State names a step of the action lifecycle.
type State string

// Action lifecycle states.
const (
	StateIdle       State = State("idle")
	StateValidating State = State("validating")
	StateExecuting  State = State("executing")
	StateCompleted  State = State("completed")
	StateRejected   State = State("rejected")
)

// TransitionObserver is notified about every lifecycle transition.
type TransitionObserver interface {
	Transition(actionName ActionName, from State, to State)
}

// TransitionObserverFunc adapts a function to TransitionObserver.
type TransitionObserverFunc func(actionName ActionName, from State, to State)

// Transition implements TransitionObserver.
func (observerFunc TransitionObserverFunc) Transition(actionName ActionName, from State, to State) {
	observerFunc(actionName, from, to)
}
