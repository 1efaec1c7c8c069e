package device

import (
	evdev "github.com/gvalkov/golang-evdev"
	"github.com/jbensmann/kiln/event"
)

var mouseButtons = map[uint16]event.MouseButton{
	evdev.BTN_LEFT:   event.ButtonLeft,
	evdev.BTN_RIGHT:  event.ButtonRight,
	evdev.BTN_MIDDLE: event.ButtonMiddle,
}

// Translator turns raw evdev input into event payloads. Relative motion moves
// a virtual cursor that is clamped to the window bounds. A Translator is not
// safe for concurrent use.
type Translator struct {
	width, height float32
	x, y          float32
	moved         bool
	repeats       map[uint16]int

	// unclamped motion collected since the last report, and of the last report
	dx, dy           int32
	motionX, motionY int32
}

// NewTranslator creates a translator with the cursor centered in a window of
// the given size.
func NewTranslator(width, height int) *Translator {
	t := Translator{repeats: make(map[uint16]int)}
	t.SetBounds(width, height)
	t.x = t.width / 2
	t.y = t.height / 2
	return &t
}

// SetBounds changes the window size, moving the cursor back inside if needed.
func (t *Translator) SetBounds(width, height int) {
	t.width = float32(width)
	t.height = float32(height)
	t.x = clamp(t.x, t.width)
	t.y = clamp(t.y, t.height)
}

// Cursor returns the current cursor position.
func (t *Translator) Cursor() (x, y float32) {
	return t.x, t.y
}

// Motion returns the relative device motion behind the last MouseMoved,
// before clamping to the window bounds.
func (t *Translator) Motion() (dx, dy int32) {
	return t.motionX, t.motionY
}

// Translate returns the payloads for a single raw event. Cursor motion is
// collected until the next SYN_REPORT, so a diagonal move yields one event.
func (t *Translator) Translate(ev evdev.InputEvent) []event.Payload {
	switch ev.Type {
	case evdev.EV_KEY:
		if button, ok := mouseButtons[ev.Code]; ok {
			return t.translateButton(button, ev.Value)
		}
		return t.translateKey(ev.Code, ev.Value)
	case evdev.EV_REL:
		switch ev.Code {
		case evdev.REL_X:
			t.x = clamp(t.x+float32(ev.Value), t.width)
			t.dx += ev.Value
			t.moved = true
		case evdev.REL_Y:
			t.y = clamp(t.y+float32(ev.Value), t.height)
			t.dy += ev.Value
			t.moved = true
		case evdev.REL_WHEEL:
			return []event.Payload{event.MouseScrolled{YOffset: float32(ev.Value)}}
		case evdev.REL_HWHEEL:
			return []event.Payload{event.MouseScrolled{XOffset: float32(ev.Value)}}
		}
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT && t.moved {
			t.moved = false
			t.motionX, t.motionY = t.dx, t.dy
			t.dx, t.dy = 0, 0
			return []event.Payload{event.MouseMoved{X: t.x, Y: t.y}}
		}
	}
	return nil
}

func (t *Translator) translateKey(code uint16, value int32) []event.Payload {
	key := event.Key(code)
	switch value {
	case 0:
		delete(t.repeats, code)
		return []event.Payload{event.KeyReleased{Key: key}}
	case 1:
		t.repeats[code] = 0
		return []event.Payload{event.KeyPressed{Key: key}}
	case 2:
		t.repeats[code]++
		return []event.Payload{event.KeyPressed{Key: key, RepeatCount: t.repeats[code]}}
	}
	return nil
}

func (t *Translator) translateButton(button event.MouseButton, value int32) []event.Payload {
	switch value {
	case 0:
		return []event.Payload{event.MouseButtonReleased{Button: button}}
	case 1:
		return []event.Payload{event.MouseButtonPressed{Button: button}}
	}
	return nil
}

func clamp(v, max float32) float32 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
