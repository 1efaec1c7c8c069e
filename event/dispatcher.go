package event

// Dispatcher routes a single event to handlers of a matching kind. It holds
// the event by reference and never copies it.
type Dispatcher struct {
	event *Event
}

func NewDispatcher(e *Event) *Dispatcher {
	return &Dispatcher{event: e}
}

// Event returns the event being dispatched.
func (d *Dispatcher) Event() *Event {
	return d.event
}

// Dispatch invokes fn if the event is of T's kind. It returns false without
// calling fn on a mismatch. On a match, a true result from fn marks the event
// handled, and Dispatch returns true.
//
// T must be a payload value type such as WindowClose, since its kind is read
// from the zero value.
func Dispatch[T Payload](d *Dispatcher, fn func(T) bool) bool {
	var zero T
	if d.event.Kind() != zero.Kind() {
		return false
	}
	p, ok := d.event.payload.(T)
	if !ok {
		return false
	}
	if fn(p) {
		d.event.MarkHandled()
	}
	return true
}
