package engine

// Event is a multi-cast event. Listeners are invoked in subscription order.
type Event struct {
	listeners []func()
	fired     bool
	oneShot   bool
}

// NewOneShotEvent returns an event that fires at most once. Listeners added
// after the event has fired are invoked immediately, so late subscribers to a
// "ready" signal never wait forever.
func NewOneShotEvent() *Event {
	return &Event{oneShot: true}
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event) AddListener(callback func()) {
	if callback == nil {
		return
	}
	if e.oneShot && e.fired {
		callback()
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *Event) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners. A one-shot event invokes each
// listener at most once and drops them afterwards.
func (e *Event) Invoke() {
	if e.oneShot && e.fired {
		return
	}
	e.fired = true
	listeners := e.listeners
	if e.oneShot {
		e.listeners = nil
	}
	for _, listener := range listeners {
		if listener != nil {
			listener()
		}
	}
}

// Fired reports whether the event has been invoked at least once.
func (e *Event) Fired() bool {
	return e.fired
}

// GetListenerCount returns the number of registered listeners (for debugging)
func (e *Event) GetListenerCount() int {
	return len(e.listeners)
}

// EventWithArg is a generic event with one argument
type EventWithArg[T any] struct {
	listeners []func(T)
}

func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		if listener != nil {
			listener(arg)
		}
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
