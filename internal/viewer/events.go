package viewer

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventQueue carries work from background goroutines to the main thread.
// Post is safe from any goroutine; Drain runs queued work on the caller's
// goroutine in FIFO order.
type EventQueue struct {
	mu      sync.Mutex
	pending []func()
	notify  chan struct{}
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{notify: make(chan struct{}, 1)}
}

// Post queues fn to run on the next Drain.
func (q *EventQueue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain runs everything queued so far and returns how many tasks ran.
// Tasks posted while draining run on the next call.
func (q *EventQueue) Drain() int {
	q.mu.Lock()
	tasks := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Len returns the number of queued tasks.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Notify returns a channel that receives after Post. Wakeups coalesce.
func (q *EventQueue) Notify() <-chan struct{} {
	return q.notify
}

// EventKind is the kind of a UI event.
type EventKind int

const (
	EventToggleAxes EventKind = iota
	EventToggleWireframe
	EventToggleNormals
	EventSetShadingMode
	EventSetOverlayScale
	EventSetFixLightsToCamera
	EventSetNumericUniform
)

var eventNames = [...]string{
	"toggleAxes", "toggleWireframe", "toggleNormals", "setShadingMode",
	"setOverlayScale", "setFixLightsToCamera", "setNumericUniform",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// UIEvent is a discrete user action. Only the fields used by Kind are read.
type UIEvent struct {
	Kind  EventKind
	On    bool        // toggles
	Mode  ShadingMode // setShadingMode
	Value float32     // setOverlayScale, setNumericUniform (log value)
	Name  string      // setNumericUniform
}

// Handle applies a UI event to the context.
func (c *Context) Handle(ev UIEvent) error {
	c.log.Debug("ui event", zap.Stringer("kind", ev.Kind))

	switch ev.Kind {
	case EventToggleAxes:
		c.SetAxesVisible(ev.On)
	case EventToggleWireframe:
		c.SetWireframeVisible(ev.On)
	case EventToggleNormals:
		c.SetNormalsVisible(ev.On)
	case EventSetShadingMode:
		return c.SetShadingMode(ev.Mode)
	case EventSetOverlayScale:
		c.SetNormalOverlayScale(ev.Value)
	case EventSetFixLightsToCamera:
		c.SetFixLightsToCamera(ev.On)
	case EventSetNumericUniform:
		c.SetNumericUniform(ev.Name, ev.Value)
	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	return nil
}
