// Package window abstracts the platform window. A window owns the native
// event source and turns every raw occurrence into an event that it hands to
// the registered callback, synchronously and on the thread that pumps it.
package window

import (
	"sync/atomic"
	"time"

	"github.com/jbensmann/kiln/event"
	log "github.com/sirupsen/logrus"
)

// Props are the properties a window is created with.
type Props struct {
	Title  string
	Width  int
	Height int
	// RefreshRate is the number of frames per second that vsync paces to.
	RefreshRate int
}

// DefaultProps returns the default window properties.
func DefaultProps() Props {
	return Props{
		Title:       "Kiln Engine",
		Width:       1280,
		Height:      720,
		RefreshRate: 60,
	}
}

// EventCallback receives every event raised by a window.
type EventCallback func(e *event.Event)

// Window is the platform window as seen by the application loop.
type Window interface {
	// SetEventCallback registers the receiver of all window events.
	SetEventCallback(callback EventCallback)
	// OnUpdate pumps pending input, raising events through the callback
	// before it returns, and presents the frame. It must not be called from
	// inside the callback.
	OnUpdate()
	SetVSync(enabled bool)
	IsVSync() bool
	Title() string
	Width() int
	Height() int
	// RequestClose raises a window-close event during the next pump. It is
	// safe to call from any goroutine.
	RequestClose()
	// Close destroys the window.
	Close() error
}

// core holds the state and the pump logic shared by all windows.
type core struct {
	props    Props
	vsync    bool
	callback EventCallback

	pumping        bool
	closeRequested atomic.Bool
	frames         uint64
	lastSwap       time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func (c *core) init(props Props) {
	defaults := DefaultProps()
	if props.Width <= 0 || props.Height <= 0 {
		props.Width, props.Height = defaults.Width, defaults.Height
	}
	if props.RefreshRate <= 0 {
		props.RefreshRate = defaults.RefreshRate
	}
	c.props = props
	c.vsync = true
	c.now = time.Now
	c.sleep = time.Sleep
}

func (c *core) SetEventCallback(callback EventCallback) {
	c.callback = callback
}

func (c *core) SetVSync(enabled bool) {
	log.Debugf("Window: vsync %v", enabled)
	c.vsync = enabled
}

func (c *core) IsVSync() bool {
	return c.vsync
}

func (c *core) Title() string {
	return c.props.Title
}

func (c *core) Width() int {
	return c.props.Width
}

func (c *core) Height() int {
	return c.props.Height
}

// Frames returns the number of presented frames.
func (c *core) Frames() uint64 {
	return c.frames
}

func (c *core) RequestClose() {
	c.closeRequested.Store(true)
}

// beginPump guards against pumping from inside the event callback, which
// would grow the call stack without bound.
func (c *core) beginPump() bool {
	if c.pumping {
		log.Warnf("Window: ignoring re-entrant pump from inside an event callback")
		return false
	}
	c.pumping = true
	return true
}

func (c *core) endPump() {
	c.pumping = false
}

// deliver raises one event. The window state is updated before the callback
// runs, so handlers of a resize already see the new size.
func (c *core) deliver(p event.Payload) *event.Event {
	if r, ok := p.(event.WindowResize); ok {
		c.props.Width = r.Width
		c.props.Height = r.Height
	}
	e := event.New(p)
	if c.callback != nil {
		c.callback(e)
	}
	return e
}

func (c *core) deliverCloseRequest() {
	if c.closeRequested.Swap(false) {
		c.deliver(event.WindowClose{})
	}
}

// swap presents the frame. With vsync it waits for the next refresh.
func (c *core) swap() {
	c.frames++
	if c.vsync {
		interval := time.Second / time.Duration(c.props.RefreshRate)
		if wait := c.lastSwap.Add(interval).Sub(c.now()); wait > 0 {
			c.sleep(wait)
		}
	}
	c.lastSwap = c.now()
}
