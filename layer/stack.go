package layer

import (
	"time"

	"github.com/jbensmann/kiln/event"
	log "github.com/sirupsen/logrus"
)

// Stack is an ordered sequence of layers split into two contiguous regions:
// regular layers in push order, followed by overlays in push order.
//
// Update traversal is front to back, event propagation back to front, so the
// most recently pushed overlay gets the first chance to claim an event.
//
// The stack is not safe for concurrent use. Pushes and pops issued by a layer
// while a traversal is running are queued and applied once the outermost
// traversal returns.
type Stack struct {
	layers      []Layer
	insertIndex int

	traversing int
	pending    []func()
}

func NewStack() *Stack {
	return &Stack{}
}

// PushLayer inserts l at the end of the regular region and attaches it.
func (s *Stack) PushLayer(l Layer) {
	if s.traversing > 0 {
		log.Debugf("LayerStack: deferring push of layer %s", l.Name())
		s.pending = append(s.pending, func() { s.PushLayer(l) })
		return
	}
	if s.index(l, 0, len(s.layers)) >= 0 {
		log.Warnf("LayerStack: layer %s is already in the stack", l.Name())
		return
	}
	log.Debugf("LayerStack: pushing layer %s", l.Name())
	s.layers = append(s.layers, nil)
	copy(s.layers[s.insertIndex+1:], s.layers[s.insertIndex:])
	s.layers[s.insertIndex] = l
	s.insertIndex++
	l.OnAttach()
}

// PushOverlay appends l after all other layers and attaches it.
func (s *Stack) PushOverlay(l Layer) {
	if s.traversing > 0 {
		log.Debugf("LayerStack: deferring push of overlay %s", l.Name())
		s.pending = append(s.pending, func() { s.PushOverlay(l) })
		return
	}
	if s.index(l, 0, len(s.layers)) >= 0 {
		log.Warnf("LayerStack: layer %s is already in the stack", l.Name())
		return
	}
	log.Debugf("LayerStack: pushing overlay %s", l.Name())
	s.layers = append(s.layers, l)
	l.OnAttach()
}

// PopLayer detaches and removes l from the regular region. It returns false
// and changes nothing if l is not a regular layer of the stack.
func (s *Stack) PopLayer(l Layer) bool {
	i := s.index(l, 0, s.insertIndex)
	if i < 0 {
		return false
	}
	if s.traversing > 0 {
		log.Debugf("LayerStack: deferring pop of layer %s", l.Name())
		s.pending = append(s.pending, func() { s.PopLayer(l) })
		return true
	}
	log.Debugf("LayerStack: popping layer %s", l.Name())
	l.OnDetach()
	s.remove(i)
	s.insertIndex--
	return true
}

// PopOverlay detaches and removes l from the overlay region. It returns false
// and changes nothing if l is not an overlay of the stack.
func (s *Stack) PopOverlay(l Layer) bool {
	i := s.index(l, s.insertIndex, len(s.layers))
	if i < 0 {
		return false
	}
	if s.traversing > 0 {
		log.Debugf("LayerStack: deferring pop of overlay %s", l.Name())
		s.pending = append(s.pending, func() { s.PopOverlay(l) })
		return true
	}
	log.Debugf("LayerStack: popping overlay %s", l.Name())
	l.OnDetach()
	s.remove(i)
	return true
}

// Update calls OnUpdate on every layer, regular layers first.
func (s *Stack) Update(dt time.Duration) {
	s.begin()
	defer s.end()
	for _, l := range s.layers {
		l.OnUpdate(dt)
	}
}

// Propagate hands e to the layers from the top down until one of them marks
// it handled. An event that is already handled is not propagated at all.
func (s *Stack) Propagate(e *event.Event) {
	s.begin()
	defer s.end()
	for i := len(s.layers) - 1; i >= 0 && !e.Handled(); i-- {
		s.layers[i].OnEvent(e)
	}
}

// Clear detaches all layers in forward order and empties the stack.
func (s *Stack) Clear() {
	if s.traversing > 0 {
		s.pending = append(s.pending, s.Clear)
		return
	}
	for _, l := range s.layers {
		log.Debugf("LayerStack: detaching %s", l.Name())
		l.OnDetach()
	}
	s.layers = nil
	s.insertIndex = 0
}

// Layers returns a snapshot of the stack in update order.
func (s *Stack) Layers() []Layer {
	layers := make([]Layer, len(s.layers))
	copy(layers, s.layers)
	return layers
}

// Len returns the number of layers including overlays.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Traversing reports whether an update or a propagation is running.
func (s *Stack) Traversing() bool {
	return s.traversing > 0
}

// Overlays returns the number of overlays.
func (s *Stack) Overlays() int {
	return len(s.layers) - s.insertIndex
}

func (s *Stack) begin() {
	s.traversing++
}

func (s *Stack) end() {
	s.traversing--
	if s.traversing > 0 {
		return
	}
	// applying an operation may not queue new ones since traversing is zero
	for len(s.pending) > 0 {
		op := s.pending[0]
		s.pending = s.pending[1:]
		op()
	}
	s.pending = nil
}

func (s *Stack) index(l Layer, from, to int) int {
	for i := from; i < to; i++ {
		if s.layers[i] == l {
			return i
		}
	}
	return -1
}

func (s *Stack) remove(i int) {
	copy(s.layers[i:], s.layers[i+1:])
	s.layers[len(s.layers)-1] = nil
	s.layers = s.layers[:len(s.layers)-1]
}
