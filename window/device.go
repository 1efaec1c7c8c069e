package window

import (
	"errors"
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/jbensmann/kiln/device"
	"github.com/jbensmann/kiln/virtual"
	log "github.com/sirupsen/logrus"
)

var ErrNoDevices = errors.New("no input device could be opened")

type DeviceOptions struct {
	// Paths of the evdev devices. If empty, keyboards and mice are detected.
	Paths []string
	// PassThrough grabs the devices and forwards all unhandled input to
	// virtual devices.
	PassThrough bool
}

// Device is a window whose input comes from evdev devices. The devices are
// read in their own goroutines, but events are only raised while pumping.
type Device struct {
	core

	devices    []*device.Device
	events     chan []evdev.InputEvent
	translator *device.Translator
	forwarder  *virtual.Forwarder
	closed     bool
}

func NewDevice(props Props, opts DeviceOptions) (*Device, error) {
	w := &Device{events: make(chan []evdev.InputEvent, 64)}
	w.init(props)
	w.translator = device.NewTranslator(w.props.Width, w.props.Height)
	log.Infof("Creating window %s (%d, %d)", w.props.Title, w.props.Width, w.props.Height)

	paths := opts.Paths
	if len(paths) == 0 {
		for _, dev := range device.FindInputDevices(virtual.NamePrefix) {
			paths = append(paths, dev.Fn)
			_ = dev.File.Close()
		}
	}

	var lastErr error
	for _, path := range paths {
		d := device.NewDevice(path, opts.PassThrough, w.events)
		if err := d.Open(); err != nil {
			log.Warnf("Failed to open %v: %v", path, err)
			lastErr = err
			continue
		}
		w.devices = append(w.devices, d)
	}
	if len(w.devices) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDevices, lastErr)
		}
		return nil, ErrNoDevices
	}

	if opts.PassThrough {
		forwarder, err := virtual.NewForwarder()
		if err != nil {
			w.closeDevices()
			return nil, fmt.Errorf("create virtual devices: %w", err)
		}
		w.forwarder = forwarder
	}
	return w, nil
}

// OnUpdate raises the events of all input read so far, then a pending close
// request, then presents the frame.
func (w *Device) OnUpdate() {
	if !w.beginPump() {
		return
	}
	defer w.endPump()

	// input arriving while draining waits for the next pump
	for n := len(w.events); n > 0; n-- {
		batch := <-w.events
		for _, raw := range batch {
			for _, p := range w.translator.Translate(raw) {
				e := w.deliver(p)
				if w.forwarder != nil {
					dx, dy := w.translator.Motion()
					w.forwarder.Forward(e, dx, dy)
				}
			}
		}
	}
	w.deliverCloseRequest()
	w.swap()
}

// Devices returns the opened input devices.
func (w *Device) Devices() []*device.Device {
	return w.devices
}

func (w *Device) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	log.Debugf("Destroying window %s", w.props.Title)
	err := w.closeDevices()
	if w.forwarder != nil {
		if ferr := w.forwarder.Close(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}

func (w *Device) closeDevices() error {
	var firstErr error
	for _, d := range w.devices {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
