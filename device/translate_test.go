package device

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	evdev "github.com/gvalkov/golang-evdev"
	"github.com/jbensmann/kiln/event"
)

func key(code uint16, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

func rel(code uint16, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_REL, Code: code, Value: value}
}

func syn() evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
}

func translateAll(t *Translator, events ...evdev.InputEvent) []event.Payload {
	var payloads []event.Payload
	for _, ev := range events {
		payloads = append(payloads, t.Translate(ev)...)
	}
	return payloads
}

func TestTranslateKeys(t *testing.T) {
	tr := NewTranslator(100, 100)
	got := translateAll(tr,
		key(evdev.KEY_A, 1), syn(),
		key(evdev.KEY_A, 2), syn(),
		key(evdev.KEY_A, 2), syn(),
		key(evdev.KEY_A, 0), syn(),
		key(evdev.KEY_A, 1),
	)
	expected := []event.Payload{
		event.KeyPressed{Key: evdev.KEY_A},
		event.KeyPressed{Key: evdev.KEY_A, RepeatCount: 1},
		event.KeyPressed{Key: evdev.KEY_A, RepeatCount: 2},
		event.KeyReleased{Key: evdev.KEY_A},
		event.KeyPressed{Key: evdev.KEY_A},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateButtons(t *testing.T) {
	tr := NewTranslator(100, 100)
	got := translateAll(tr,
		key(evdev.BTN_LEFT, 1),
		key(evdev.BTN_MIDDLE, 1),
		key(evdev.BTN_MIDDLE, 2),
		key(evdev.BTN_RIGHT, 1),
		key(evdev.BTN_LEFT, 0),
	)
	expected := []event.Payload{
		event.MouseButtonPressed{Button: event.ButtonLeft},
		event.MouseButtonPressed{Button: event.ButtonMiddle},
		event.MouseButtonPressed{Button: event.ButtonRight},
		event.MouseButtonReleased{Button: event.ButtonLeft},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateMotion(t *testing.T) {
	tr := NewTranslator(200, 100)
	if x, y := tr.Cursor(); x != 100 || y != 50 {
		t.Fatalf("expected a centered cursor, got %v, %v", x, y)
	}
	got := translateAll(tr,
		rel(evdev.REL_X, 10), rel(evdev.REL_Y, -5), syn(),
		syn(),
		rel(evdev.REL_X, 500), syn(),
		rel(evdev.REL_Y, -500), syn(),
	)
	expected := []event.Payload{
		event.MouseMoved{X: 110, Y: 45},
		event.MouseMoved{X: 200, Y: 45},
		event.MouseMoved{X: 200, Y: 0},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	tr.SetBounds(50, 50)
	if x, y := tr.Cursor(); x != 50 || y != 0 {
		t.Errorf("expected the cursor to be clamped, got %v, %v", x, y)
	}
}

func TestTranslateMotionIsNotClamped(t *testing.T) {
	tr := NewTranslator(100, 100)
	tests := []struct {
		events []evdev.InputEvent
		dx, dy int32
	}{
		{[]evdev.InputEvent{rel(evdev.REL_X, 10), rel(evdev.REL_Y, 3), syn()}, 10, 3},
		// the cursor stops at the edge, the device motion does not
		{[]evdev.InputEvent{rel(evdev.REL_X, 100), syn()}, 100, 0},
		{[]evdev.InputEvent{rel(evdev.REL_X, 20), rel(evdev.REL_X, 5), syn()}, 25, 0},
	}
	for i, test := range tests {
		translateAll(tr, test.events...)
		if dx, dy := tr.Motion(); dx != test.dx || dy != test.dy {
			t.Errorf("%d: expected motion %d, %d, got %d, %d", i, test.dx, test.dy, dx, dy)
		}
	}
	if x, _ := tr.Cursor(); x != 100 {
		t.Errorf("expected the cursor at the right edge, got %v", x)
	}
}

func TestTranslateScroll(t *testing.T) {
	tr := NewTranslator(100, 100)
	got := translateAll(tr, rel(evdev.REL_WHEEL, -1), rel(evdev.REL_HWHEEL, 2), syn())
	expected := []event.Payload{
		event.MouseScrolled{YOffset: -1},
		event.MouseScrolled{XOffset: 2},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}
