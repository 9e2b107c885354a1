package domain

// StateObserver receives fetch state transitions.
// Called with the orchestrator's lock held: implementations must not block
// or call back into the orchestrator.
type StateObserver interface {
	OnState(name string, state FetchState)
}

// NoOpObserver discards state updates (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnState(string, FetchState) {}

// ObserverFunc adapts a function to StateObserver
type ObserverFunc func(name string, state FetchState)

func (f ObserverFunc) OnState(name string, state FetchState) { f(name, state) }
