// Package app contains the application loop. An Application owns the layer
// stack and one window, receives every window event through a callback and
// drives the per-frame update until the window is closed.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/kiln/layer"
	"github.com/jbensmann/kiln/window"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jbensmann/kiln/app"

var (
	ErrAlreadyActive       = errors.New("another application is already active")
	ErrShutdownInTraversal = errors.New("cannot shut down from inside a layer callback")
)

// active is set while an application exists, to allow at most one per process.
var active atomic.Bool

type State int

const (
	StateConstructed State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RenderFunc is invoked once at the start of every tick.
type RenderFunc func()

type Option func(*Application)

// WithRenderFunc sets the per-frame render hook.
func WithRenderFunc(render RenderFunc) Option {
	return func(a *Application) {
		a.render = render
	}
}

type Application struct {
	window  window.Window
	layers  *layer.Stack
	render  RenderFunc
	tracer  trace.Tracer
	running bool
	state   State
	closed  bool

	ticks    uint64
	lastTick time.Time
	now      func() time.Time
}

// New creates the application around the given window and registers itself
// as the window's event callback. It fails if another application is active.
func New(win window.Window, opts ...Option) (*Application, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, ErrAlreadyActive
	}
	a := &Application{
		window:  win,
		layers:  layer.NewStack(),
		render:  func() {},
		tracer:  otel.Tracer(tracerName),
		running: true,
		state:   StateConstructed,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	win.SetEventCallback(a.OnEvent)
	return a, nil
}

func (a *Application) Window() window.Window {
	return a.window
}

// Layers returns the layer stack. It must only be used from the loop thread.
func (a *Application) Layers() *layer.Stack {
	return a.layers
}

func (a *Application) PushLayer(l layer.Layer) {
	a.layers.PushLayer(l)
}

func (a *Application) PushOverlay(l layer.Layer) {
	a.layers.PushOverlay(l)
}

func (a *Application) PopLayer(l layer.Layer) bool {
	return a.layers.PopLayer(l)
}

func (a *Application) PopOverlay(l layer.Layer) bool {
	return a.layers.PopOverlay(l)
}

// Running reports whether the loop keeps going after the current tick.
func (a *Application) Running() bool {
	return a.running
}

func (a *Application) State() State {
	return a.state
}

// Ticks returns the number of completed ticks.
func (a *Application) Ticks() uint64 {
	return a.ticks
}

// OnEvent is the window's event callback. The application's own handlers see
// the event first, then the layers from the top down until one handles it.
func (a *Application) OnEvent(e *event.Event) {
	d := event.NewDispatcher(e)
	event.Dispatch(d, a.onWindowClose)

	log.Tracef("%v", e)

	a.layers.Propagate(e)
}

func (a *Application) onWindowClose(event.WindowClose) bool {
	log.Debugf("Application: window close requested")
	a.running = false
	return true
}

// Run drives the loop until a window-close event is handled, then tears the
// application down. It blocks the calling goroutine, which must be the one
// that created the window.
func (a *Application) Run() error {
	if a.state != StateConstructed {
		return fmt.Errorf("application cannot run in state %v", a.state)
	}
	log.Info("Application started")
	a.state = StateRunning
	a.lastTick = a.now()
	for a.running {
		a.tick()
	}
	a.state = StateStopped
	log.Infof("Application stopped after %d ticks", a.ticks)
	return a.Shutdown()
}

// tick runs one iteration: render, update all layers, pump the window.
func (a *Application) tick() {
	_, span := a.tracer.Start(context.Background(), "tick",
		trace.WithAttributes(attribute.Int64("kiln.tick", int64(a.ticks))))
	defer span.End()

	now := a.now()
	dt := now.Sub(a.lastTick)
	a.lastTick = now

	a.render()
	a.layers.Update(dt)
	a.window.OnUpdate()
	a.ticks++
}

// Shutdown detaches all layers and destroys the window. It may be called
// more than once, and also on an application that never ran.
//
// Called from a layer callback, it only stops the loop and returns
// ErrShutdownInTraversal; Run tears the application down once the tick ends.
func (a *Application) Shutdown() error {
	if a.closed {
		return nil
	}
	if a.layers.Traversing() {
		log.Warnf("Application: shutdown requested from a layer, stopping the loop instead")
		a.running = false
		return ErrShutdownInTraversal
	}
	a.closed = true
	a.running = false
	a.state = StateStopped
	a.layers.Clear()
	err := a.window.Close()
	active.Store(false)
	if err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	return nil
}

// CreateFunc builds the application of an embedding program.
type CreateFunc func() (*Application, error)

// Main creates the application, runs it until it stops and disposes it.
func Main(create CreateFunc) error {
	a, err := create()
	if err != nil {
		return err
	}
	defer a.Shutdown()
	return a.Run()
}
