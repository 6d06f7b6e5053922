package obj

import "errors"

var (
	// ErrNoWatchSupport indicates a dispatcher that cannot carry watch
	// callback registrations.
	ErrNoWatchSupport = errors.New("obj: dispatcher cannot bind watch callbacks")

	// ErrNilCallback indicates a watch registration without a callback.
	ErrNilCallback = errors.New("obj: nil watch callback")
)
