package layers

import (
	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/kiln/layer"
)

// InputState keeps track of pressed keys and buttons and of the cursor, so
// that other code can poll the input state. It never claims events, so it
// only sees what the layers above it let through; push it as the top
// overlay to see all input.
type InputState struct {
	layer.Base
	keys    map[event.Key]struct{}
	buttons map[event.MouseButton]struct{}
	x, y    float32
}

func NewInputState() *InputState {
	return &InputState{
		Base:    layer.NewBase("input state"),
		keys:    make(map[event.Key]struct{}),
		buttons: make(map[event.MouseButton]struct{}),
	}
}

func (s *InputState) OnEvent(e *event.Event) {
	switch p := e.Payload().(type) {
	case event.KeyPressed:
		s.keys[p.Key] = struct{}{}
	case event.KeyReleased:
		delete(s.keys, p.Key)
	case event.MouseButtonPressed:
		s.buttons[p.Button] = struct{}{}
	case event.MouseButtonReleased:
		delete(s.buttons, p.Button)
	case event.MouseMoved:
		s.x, s.y = p.X, p.Y
	case event.WindowLostFocus:
		// releases that happen while unfocused are never seen
		s.reset()
	}
}

func (s *InputState) OnDetach() {
	s.reset()
}

func (s *InputState) reset() {
	s.keys = make(map[event.Key]struct{})
	s.buttons = make(map[event.MouseButton]struct{})
}

func (s *InputState) IsKeyPressed(key event.Key) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *InputState) IsMouseButtonPressed(button event.MouseButton) bool {
	_, ok := s.buttons[button]
	return ok
}

// MousePosition returns the last known cursor position.
func (s *InputState) MousePosition() (x, y float32) {
	return s.x, s.y
}
