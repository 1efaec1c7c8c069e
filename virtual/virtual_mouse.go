package virtual

import (
	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/uinput"
	log "github.com/sirupsen/logrus"
)

type pointerDevice interface {
	Move(x, y int32) error
	Wheel(horizontal bool, delta int32) error
	LeftPress() error
	LeftRelease() error
	RightPress() error
	RightRelease() error
	MiddlePress() error
	MiddleRelease() error
	Close() error
}

type Mouse struct {
	device          pointerDevice
	isButtonPressed map[event.MouseButton]bool
}

func NewMouse() (*Mouse, error) {
	device, err := uinput.CreateMouse("/dev/uinput", []byte(NamePrefix+" mouse"))
	if err != nil {
		return nil, err
	}
	return newMouse(device), nil
}

func newMouse(device pointerDevice) *Mouse {
	return &Mouse{
		device:          device,
		isButtonPressed: make(map[event.MouseButton]bool),
	}
}

func (m *Mouse) ButtonDown(button event.MouseButton) {
	if m.isButtonPressed[button] {
		return
	}
	var err error
	log.Debugf("Mouse: pressing %v", button)
	switch button {
	case event.ButtonLeft:
		err = m.device.LeftPress()
	case event.ButtonMiddle:
		err = m.device.MiddlePress()
	case event.ButtonRight:
		err = m.device.RightPress()
	default:
		log.Warnf("Mouse: unknown button: %v", button)
		return
	}
	if err != nil {
		log.Warnf("Mouse: button press failed: %v", err)
	}
	m.isButtonPressed[button] = true
}

// ButtonUp releases the button if it has been pressed with ButtonDown before
// and reports whether it did.
func (m *Mouse) ButtonUp(button event.MouseButton) bool {
	if !m.isButtonPressed[button] {
		return false
	}
	var err error
	log.Debugf("Mouse: releasing %v", button)
	switch button {
	case event.ButtonLeft:
		err = m.device.LeftRelease()
	case event.ButtonMiddle:
		err = m.device.MiddleRelease()
	case event.ButtonRight:
		err = m.device.RightRelease()
	}
	if err != nil {
		log.Warnf("Mouse: button release failed: %v", err)
	}
	delete(m.isButtonPressed, button)
	return true
}

// IsButtonPressed reports whether the button is held down on the virtual mouse.
func (m *Mouse) IsButtonPressed(button event.MouseButton) bool {
	return m.isButtonPressed[button]
}

func (m *Mouse) Move(dx, dy int32) {
	if dx == 0 && dy == 0 {
		return
	}
	if err := m.device.Move(dx, dy); err != nil {
		log.Warnf("Mouse: failed to move: %v", err)
	}
}

func (m *Mouse) Scroll(x, y float32) {
	if steps := int32(x); steps != 0 {
		if err := m.device.Wheel(true, steps); err != nil {
			log.Warnf("Mouse: failed to scroll: %v", err)
		}
	}
	if steps := int32(y); steps != 0 {
		if err := m.device.Wheel(false, steps); err != nil {
			log.Warnf("Mouse: failed to scroll: %v", err)
		}
	}
}

// Close releases all pressed buttons and closes the device.
func (m *Mouse) Close() error {
	for button := range m.isButtonPressed {
		m.ButtonUp(button)
	}
	return m.device.Close()
}
