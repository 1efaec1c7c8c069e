// Package virtual forwards input that the application did not handle to
// virtual uinput devices, so that grabbed devices keep working for the rest
// of the system.
package virtual

import (
	"github.com/jbensmann/kiln/event"
)

// Forwarder re-emits events on a virtual keyboard and mouse.
//
// Presses, motion and scrolling are forwarded only when no layer handled
// them. Releases are forwarded whenever the matching press was forwarded,
// handled or not, so that no virtual key stays pressed.
type Forwarder struct {
	keyboard *Keyboard
	mouse    *Mouse
}

// NewForwarder creates the virtual devices.
func NewForwarder() (*Forwarder, error) {
	keyboard, err := NewKeyboard()
	if err != nil {
		return nil, err
	}
	mouse, err := NewMouse()
	if err != nil {
		_ = keyboard.Close()
		return nil, err
	}
	return &Forwarder{keyboard: keyboard, mouse: mouse}, nil
}

// Forward must be called with every event after it went through the
// application. For a MouseMoved event, motionX and motionY are the relative
// device motion behind it; MouseMoved only carries the clamped cursor.
func (f *Forwarder) Forward(e *event.Event, motionX, motionY int32) {
	switch p := e.Payload().(type) {
	case event.KeyReleased:
		f.keyboard.KeyUp(uint16(p.Key))
	case event.MouseButtonReleased:
		f.mouse.ButtonUp(p.Button)
	}
	if e.Handled() {
		return
	}
	switch p := e.Payload().(type) {
	case event.KeyPressed:
		if p.RepeatCount == 0 {
			f.keyboard.KeyDown(uint16(p.Key))
		}
	case event.MouseButtonPressed:
		f.mouse.ButtonDown(p.Button)
	case event.MouseMoved:
		f.mouse.Move(motionX, motionY)
	case event.MouseScrolled:
		f.mouse.Scroll(p.XOffset, p.YOffset)
	}
}

// Close releases everything that is still pressed and closes the devices.
func (f *Forwarder) Close() error {
	errKeyboard := f.keyboard.Close()
	errMouse := f.mouse.Close()
	if errKeyboard != nil {
		return errKeyboard
	}
	return errMouse
}
