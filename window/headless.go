package window

import (
	"sync"

	"github.com/jbensmann/kiln/event"
	log "github.com/sirupsen/logrus"
)

// Headless is a window without a native surface. Occurrences are posted to
// it, from any goroutine, and raised as events during the next pump.
type Headless struct {
	core

	mu     sync.Mutex
	queue  []event.Payload
	closed bool
}

func NewHeadless(props Props) *Headless {
	w := &Headless{}
	w.init(props)
	log.Infof("Creating window %s (%d, %d)", w.props.Title, w.props.Width, w.props.Height)
	return w
}

// Post queues occurrences for the next pump.
func (w *Headless) Post(payloads ...event.Payload) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, payloads...)
}

// Pending returns the number of queued occurrences.
func (w *Headless) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// OnUpdate raises all occurrences posted before the call, then a pending close
// request, then presents the frame. Occurrences posted by event handlers are
// raised during the following pump.
func (w *Headless) OnUpdate() {
	if !w.beginPump() {
		return
	}
	defer w.endPump()

	w.mu.Lock()
	queue := w.queue
	w.queue = nil
	w.mu.Unlock()

	for _, p := range queue {
		w.deliver(p)
	}
	w.deliverCloseRequest()
	w.swap()
}

func (w *Headless) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	log.Debugf("Destroying window %s", w.props.Title)
	w.closed = true
	w.queue = nil
	return nil
}
