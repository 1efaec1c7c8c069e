// Package device reads raw input from Linux evdev devices and translates it
// into framework events.
package device

import (
	"fmt"
	"strings"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"
	log "github.com/sirupsen/logrus"
)

type DeviceState int

const (
	StateNotOpen DeviceState = iota
	StateOpenFailed
	StateOpen
)

func (s DeviceState) String() string {
	switch s {
	case StateNotOpen:
		return "not open"
	case StateOpenFailed:
		return "open failed"
	case StateOpen:
		return "open"
	}
	return fmt.Sprintf("DeviceState(%d)", int(s))
}

// Device is a single evdev input device. Once opened, it reads in its own
// goroutine and sends every batch of input events to the events channel.
type Device struct {
	deviceName string
	grab       bool
	events     chan<- []evdev.InputEvent

	mu            sync.Mutex
	device        *evdev.InputDevice
	state         DeviceState
	lastOpenError string
	done          chan struct{}
}

// NewDevice creates a device for the given path, e.g. /dev/input/event3. If
// grab is set, the device is grabbed exclusively so that no other program
// receives its input.
func NewDevice(deviceName string, grab bool, events chan<- []evdev.InputEvent) *Device {
	d := Device{
		deviceName: deviceName,
		grab:       grab,
		events:     events,
		state:      StateNotOpen,
	}
	return &d
}

// Open opens the device and starts reading from it.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateOpen {
		return nil
	}
	log.Debugf("Device: opening %v", d.deviceName)

	device, err := evdev.Open(d.deviceName)
	if err != nil {
		d.openFailed(err)
		return err
	}
	if d.grab {
		if err = device.Grab(); err != nil {
			_ = device.File.Close()
			d.openFailed(err)
			return err
		}
	}

	log.Debugf("Device name: %s", device.Name)
	log.Debugf("Evdev protocol version: %d", device.EvdevVersion)
	info := fmt.Sprintf("bus 0x%04x, vendor 0x%04x, product 0x%04x, version 0x%04x",
		device.Bustype, device.Vendor, device.Product, device.Version)
	log.Debugf("Device info: %s", info)

	d.device = device
	d.state = StateOpen
	d.done = make(chan struct{})
	go d.readLoop(device, d.done)
	return nil
}

func (d *Device) openFailed(err error) {
	d.state = StateOpenFailed
	d.lastOpenError = err.Error()
}

// readLoop reads from the device until it is closed or disconnects.
func (d *Device) readLoop(device *evdev.InputDevice, done <-chan struct{}) {
	for {
		events, err := device.Read()
		if err != nil {
			select {
			case <-done:
			default:
				log.Warnf("Device: failed to read %s: %v", d.deviceName, err)
				d.mu.Lock()
				if d.device == device {
					d.state = StateNotOpen
				}
				d.mu.Unlock()
			}
			return
		}
		select {
		case d.events <- events:
		case <-done:
			return
		}
	}
}

// Close releases and closes the device. The read loop exits on its own.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return nil
	}
	close(d.done)
	if d.grab {
		_ = d.device.Release()
	}
	err := d.device.File.Close()
	d.device = nil
	d.state = StateNotOpen
	return err
}

// DeviceName returns the path of the device.
func (d *Device) DeviceName() string {
	return d.deviceName
}

// State returns the current state of the device.
func (d *Device) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// IsOpen returns true if the device has been opened successfully.
func (d *Device) IsOpen() bool {
	return d.State() == StateOpen
}

// LastOpenError returns the last error on opening the device.
func (d *Device) LastOpenError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastOpenError
}

// FindInputDevices finds all keyboards and mice. A keyboard has at least an A
// key or a keypad 1 key, a mouse has a relative X axis. Devices whose name
// starts with one of the excluded prefixes are skipped.
func FindInputDevices(excludePrefixes ...string) []*evdev.InputDevice {
	devices, err := evdev.ListInputDevices("/dev/input/event*")
	if err != nil {
		log.Warnf("Device: failed to list input devices: %v", err)
	}

	var inputDevices []*evdev.InputDevice
	for _, dev := range devices {
		if hasPrefix(dev.Name, excludePrefixes) {
			continue
		}
		if isKeyboard(dev) || isMouse(dev) {
			inputDevices = append(inputDevices, dev)
		}
	}

	log.Debugf("Auto detected input devices:")
	for _, dev := range inputDevices {
		log.Debugf("- %s: %s", dev.Fn, dev.Name)
	}
	return inputDevices
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func isKeyboard(dev *evdev.InputDevice) bool {
	return hasCapability(dev, evdev.EV_KEY, evdev.KEY_A, evdev.KEY_KP1)
}

func isMouse(dev *evdev.InputDevice) bool {
	return hasCapability(dev, evdev.EV_REL, evdev.REL_X)
}

func hasCapability(dev *evdev.InputDevice, capType int, codes ...int) bool {
	for t, caps := range dev.Capabilities {
		if t.Type != capType {
			continue
		}
		for _, c := range caps {
			for _, code := range codes {
				if c.Code == code {
					return true
				}
			}
		}
	}
	return false
}
