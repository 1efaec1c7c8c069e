package layers

import (
	"time"

	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/kiln/layer"
	log "github.com/sirupsen/logrus"
)

// EventLog logs the events of the given categories at debug level and counts
// them per kind. It never claims events.
type EventLog struct {
	layer.Base
	categories event.Category
	counts     map[event.Kind]int
	frames     int
	elapsed    time.Duration
}

func NewEventLog(categories event.Category) *EventLog {
	return &EventLog{
		Base:       layer.NewBase("event log"),
		categories: categories,
		counts:     make(map[event.Kind]int),
	}
}

func (l *EventLog) OnAttach() {
	log.Debugf("%s: logging %v events", l.Name(), l.categories)
}

func (l *EventLog) OnDetach() {
	log.WithFields(log.Fields{
		"frames":  l.frames,
		"elapsed": l.elapsed,
	}).Debugf("%s: seen %v", l.Name(), l.counts)
}

func (l *EventLog) OnUpdate(dt time.Duration) {
	l.frames++
	l.elapsed += dt
}

func (l *EventLog) OnEvent(e *event.Event) {
	if !e.IsInCategory(l.categories) {
		return
	}
	l.counts[e.Kind()]++
	log.WithField("category", e.Category()).Debugf("%s: %v", l.Name(), e)
}

// Count returns how many events of the kind have been logged.
func (l *EventLog) Count(kind event.Kind) int {
	return l.counts[kind]
}
