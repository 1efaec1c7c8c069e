package virtual

import (
	"github.com/jbensmann/kiln/config"
	"github.com/jbensmann/uinput"
	log "github.com/sirupsen/logrus"
)

// NamePrefix starts the name of every virtual device, so that the input
// detection can skip them.
const NamePrefix = "kiln"

type keyDevice interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

type Keyboard struct {
	device    keyDevice
	isPressed map[uint16]bool
}

func NewKeyboard() (*Keyboard, error) {
	device, err := uinput.CreateKeyboard("/dev/uinput", []byte(NamePrefix+" keyboard"))
	if err != nil {
		return nil, err
	}
	return newKeyboard(device), nil
}

func newKeyboard(device keyDevice) *Keyboard {
	return &Keyboard{
		device:    device,
		isPressed: make(map[uint16]bool),
	}
}

func (v *Keyboard) KeyDown(code uint16) {
	if v.isPressed[code] {
		return
	}
	alias, _ := config.GetKeyAlias(code)
	log.Debugf("Keyboard: pressing %v (%v)", alias, code)
	if err := v.device.KeyDown(int(code)); err != nil {
		log.Warnf("Keyboard: failed to press the key %v: %v", code, err)
	}
	v.isPressed[code] = true
}

// KeyUp releases the key if it has been pressed with KeyDown before and
// reports whether it did.
func (v *Keyboard) KeyUp(code uint16) bool {
	if !v.isPressed[code] {
		return false
	}
	alias, _ := config.GetKeyAlias(code)
	log.Debugf("Keyboard: releasing %v (%v)", alias, code)
	if err := v.device.KeyUp(int(code)); err != nil {
		log.Warnf("Keyboard: failed to release the key %v: %v", code, err)
	}
	delete(v.isPressed, code)
	return true
}

// IsPressed reports whether the key is held down on the virtual keyboard.
func (v *Keyboard) IsPressed(code uint16) bool {
	return v.isPressed[code]
}

// Close releases all pressed keys and closes the device.
func (v *Keyboard) Close() error {
	for code := range v.isPressed {
		v.KeyUp(code)
	}
	return v.device.Close()
}
