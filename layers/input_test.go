package layers

import (
	"testing"

	"github.com/jbensmann/kiln/event"
)

func TestInputState(t *testing.T) {
	s := NewInputState()
	for _, p := range []event.Payload{
		event.KeyPressed{Key: 30},
		event.KeyPressed{Key: 31},
		event.KeyReleased{Key: 31},
		event.MouseButtonPressed{Button: event.ButtonRight},
		event.MouseMoved{X: 10.5, Y: 20},
	} {
		e := event.New(p)
		s.OnEvent(e)
		if e.Handled() {
			t.Errorf("expected %v not to be handled", e)
		}
	}

	if !s.IsKeyPressed(30) || s.IsKeyPressed(31) {
		t.Errorf("unexpected key state")
	}
	if !s.IsMouseButtonPressed(event.ButtonRight) || s.IsMouseButtonPressed(event.ButtonLeft) {
		t.Errorf("unexpected button state")
	}
	if x, y := s.MousePosition(); x != 10.5 || y != 20 {
		t.Errorf("unexpected position %g, %g", x, y)
	}

	s.OnEvent(event.New(event.MouseButtonReleased{Button: event.ButtonRight}))
	if s.IsMouseButtonPressed(event.ButtonRight) {
		t.Errorf("expected the button to be released")
	}

	s.OnEvent(event.New(event.WindowLostFocus{}))
	if s.IsKeyPressed(30) {
		t.Errorf("expected losing focus to release all keys")
	}
	if x, y := s.MousePosition(); x != 10.5 || y != 20 {
		t.Errorf("expected the position to be kept, got %g, %g", x, y)
	}
}
