package quadworld

import (
	"sync"
	"time"
)

// geometryLock is a manual-reset event: Set stays signalled until Reset is
// called, unlike a stdlib sync.Cond broadcast which only wakes whoever is
// already waiting. Go's standard library has no manual-reset event type,
// so it is built here from a replaceable channel guarded by a mutex — the
// one piece of this package with no library in the retrieved pack to
// ground it on (see DESIGN.md).
type geometryLock struct {
	mu    sync.Mutex
	ready chan struct{}
}

func newGeometryLock() *geometryLock {
	return &geometryLock{ready: make(chan struct{})}
}

// set marks the event signalled, waking every current and future waiter
// until the next reset.
func (l *geometryLock) set() {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.ready:
	default:
		close(l.ready)
	}
}

// reset marks the event unsignalled again.
func (l *geometryLock) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.ready:
		l.ready = make(chan struct{})
	default:
	}
}

// wait blocks until the event is signalled or timeout elapses, returning
// false on timeout.
func (l *geometryLock) wait(timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.ready
	l.mu.Unlock()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Handoff publishes the result of a single writer's (logic tick) changes
// to a single reader (render frame) without either side touching the
// other's working set directly. The writer calls Tick once per logic step;
// the reader calls Drain once per frame. Only a dirty flag and two outbound
// modification slices are ever shared.
type Handoff[T Tile] struct {
	cfg  HandoffConfig
	lock *geometryLock

	mu         sync.Mutex
	dirty      bool
	nodeMods   []ArrayModification[QuadtreeNode]
	dataMods   []ArrayModification[T]
}

// NewHandoff constructs a Handoff with the given configuration. A zero
// LockTimeout falls back to RenderLockTimeoutDefault.
func NewHandoff[T Tile](cfg HandoffConfig) *Handoff[T] {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = RenderLockTimeoutDefault
	}
	return &Handoff[T]{cfg: cfg, lock: newGeometryLock()}
}

// Tick drains qt's accumulated node and data modification logs into the
// handoff's outbound buffers and signals the reader. It is the writer
// side's only point of contact with Handoff; it must be called from the
// same goroutine that mutates qt (the logic tick), never concurrently with
// itself.
func (h *Handoff[T]) Tick(qt *Quadtree[T]) error {
	nodeMods, err := qt.nodes.GetModifications(nil)
	if err != nil {
		return wrapError(StoredModificationsDisabled, "Handoff.Tick", "tree node log disabled", err)
	}
	dataMods, err := qt.data.GetModifications(nil)
	if err != nil {
		return wrapError(StoredModificationsDisabled, "Handoff.Tick", "tree data log disabled", err)
	}
	if len(nodeMods) == 0 && len(dataMods) == 0 {
		return nil
	}

	h.mu.Lock()
	h.nodeMods = append(h.nodeMods, nodeMods...)
	h.dataMods = append(h.dataMods, dataMods...)
	h.dirty = true
	h.mu.Unlock()

	qt.nodes.ClearModifications()
	qt.data.ClearModifications()
	h.lock.set()
	return nil
}

// Drain waits up to the configured LockTimeout for pending changes, then
// returns and clears them. ok is false if the wait timed out with nothing
// pending; err is a LockTimeout *Error in that case. It is the reader
// side's only point of contact with Handoff and must not be called
// concurrently with itself.
func (h *Handoff[T]) Drain() (nodeMods []ArrayModification[QuadtreeNode], dataMods []ArrayModification[T], ok bool, err error) {
	if !h.lock.wait(h.cfg.LockTimeout) {
		h.mu.Lock()
		dirty := h.dirty
		h.mu.Unlock()
		if !dirty {
			return nil, nil, false, newError(LockTimeout, "Handoff.Drain", "no update available before timeout")
		}
	}

	h.mu.Lock()
	nodeMods = h.nodeMods
	dataMods = h.dataMods
	h.nodeMods = nil
	h.dataMods = nil
	h.dirty = false
	h.mu.Unlock()

	h.lock.reset()
	return nodeMods, dataMods, true, nil
}
