package layer

import (
	"time"

	"github.com/jbensmann/kiln/event"
)

// Layer is one participant in the update and event pipeline. Layers are
// compared by identity, so implementations should be pointer types.
type Layer interface {
	// Name is used for diagnostics only.
	Name() string
	OnAttach()
	OnDetach()
	OnUpdate(dt time.Duration)
	// OnEvent may claim the event by marking it handled.
	OnEvent(e *event.Event)
}

// Base implements every hook as a no-op. Embed it and override what is needed.
type Base struct {
	name string
}

func NewBase(name string) Base {
	return Base{name: name}
}

func (b Base) Name() string {
	if b.name == "" {
		return "Layer"
	}
	return b.name
}

func (Base) OnAttach() {}

func (Base) OnDetach() {}

func (Base) OnUpdate(time.Duration) {}

func (Base) OnEvent(*event.Event) {}
