// Package event contains the event model of the framework.
//
// Events are blocking: an event is dispatched and handled immediately when it
// occurs, and is never stored beyond one dispatch cycle.
package event

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete type of an event.
type Kind int

const (
	KindNone Kind = iota
	KindWindowClose
	KindWindowResize
	KindWindowFocus
	KindWindowLostFocus
	KindWindowMoved
	KindAppTick
	KindAppUpdate
	KindAppRender
	KindKeyPressed
	KindKeyReleased
	KindMouseButtonPressed
	KindMouseButtonReleased
	KindMouseMoved
	KindMouseScrolled
)

var kindNames = [...]string{
	KindNone:                "None",
	KindWindowClose:         "WindowClose",
	KindWindowResize:        "WindowResize",
	KindWindowFocus:         "WindowFocus",
	KindWindowLostFocus:     "WindowLostFocus",
	KindWindowMoved:         "WindowMoved",
	KindAppTick:             "AppTick",
	KindAppUpdate:           "AppUpdate",
	KindAppRender:           "AppRender",
	KindKeyPressed:          "KeyPressed",
	KindKeyReleased:         "KeyReleased",
	KindMouseButtonPressed:  "MouseButtonPressed",
	KindMouseButtonReleased: "MouseButtonReleased",
	KindMouseMoved:          "MouseMoved",
	KindMouseScrolled:       "MouseScrolled",
}

var kindCategories = [...]Category{
	KindWindowClose:         CategoryApplication,
	KindWindowResize:        CategoryApplication,
	KindWindowFocus:         CategoryApplication,
	KindWindowLostFocus:     CategoryApplication,
	KindWindowMoved:         CategoryApplication,
	KindAppTick:             CategoryApplication,
	KindAppUpdate:           CategoryApplication,
	KindAppRender:           CategoryApplication,
	KindKeyPressed:          CategoryKeyboard | CategoryInput,
	KindKeyReleased:         CategoryKeyboard | CategoryInput,
	KindMouseButtonPressed:  CategoryMouse | CategoryMouseButton | CategoryInput,
	KindMouseButtonReleased: CategoryMouse | CategoryMouseButton | CategoryInput,
	KindMouseMoved:          CategoryMouse | CategoryInput,
	KindMouseScrolled:       CategoryMouse | CategoryInput,
}

// Kinds returns all defined kinds except KindNone.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := KindWindowClose; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Category returns the category flags that are fixed for the kind.
func (k Kind) Category() Category {
	if k < 0 || int(k) >= len(kindCategories) {
		return 0
	}
	return kindCategories[k]
}

// Category is a bitmask classifying events along orthogonal axes.
type Category uint8

const (
	CategoryApplication Category = 1 << iota
	CategoryInput
	CategoryKeyboard
	CategoryMouse
	CategoryMouseButton
)

var categoryNames = []struct {
	c    Category
	name string
}{
	{CategoryApplication, "Application"},
	{CategoryInput, "Input"},
	{CategoryKeyboard, "Keyboard"},
	{CategoryMouse, "Mouse"},
	{CategoryMouseButton, "MouseButton"},
}

func (c Category) String() string {
	if c == 0 {
		return "None"
	}
	var names []string
	for _, n := range categoryNames {
		if c&n.c != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Payload is the kind-specific data of an event. Every payload type reports
// the same kind for all of its values, including its zero value.
type Payload interface {
	Kind() Kind
}

// Event is a single occurrence. Its kind is fixed by the payload, and the
// handled flag can only be set, never reset.
type Event struct {
	payload Payload
	handled bool
}

// New creates an unhandled event carrying the given payload.
func New(payload Payload) *Event {
	if payload == nil {
		panic("event: nil payload")
	}
	return &Event{payload: payload}
}

// Kind returns the kind of the event.
func (e *Event) Kind() Kind {
	return e.payload.Kind()
}

// Name returns the name of the event's kind.
func (e *Event) Name() string {
	return e.Kind().String()
}

// Category returns the category flags of the event's kind.
func (e *Event) Category() Category {
	return e.Kind().Category()
}

// IsInCategory reports whether the event shares at least one flag with c.
func (e *Event) IsInCategory(c Category) bool {
	return e.Category()&c != 0
}

// Payload returns the kind-specific data.
func (e *Event) Payload() Payload {
	return e.payload
}

// Handled reports whether a handler has claimed the event.
func (e *Event) Handled() bool {
	return e.handled
}

// MarkHandled claims the event. Layers below the claiming one will not see it.
func (e *Event) MarkHandled() {
	e.handled = true
}

// String returns the diagnostic form: the payload's own description if it
// has one, otherwise the kind name.
func (e *Event) String() string {
	if s, ok := e.payload.(fmt.Stringer); ok {
		return s.String()
	}
	return e.Name()
}
