package nav

// Listener receives the canonical location and action of a committed
// navigation.
type Listener func(Location, Action)

// listenerHandle wraps a subscriber so it has an identity; func values are
// not comparable, the handle pointer is.
type listenerHandle struct {
	fn     Listener
	active bool
}

// listenerRegistry is the ordered subscriber set. Insertion order is
// broadcast order.
type listenerRegistry struct {
	handles []*listenerHandle
}

// add appends fn and returns its remover. The remover only ever removes its
// own handle, so calling it twice, or removing mid-broadcast, is safe.
func (r *listenerRegistry) add(fn Listener) func() {
	h := &listenerHandle{fn: fn, active: true}
	r.handles = append(r.handles, h)
	return func() { r.remove(h) }
}

func (r *listenerRegistry) remove(h *listenerHandle) {
	h.active = false
	for i, cur := range r.handles {
		if cur == h {
			r.handles = append(r.handles[:i], r.handles[i+1:]...)
			return
		}
	}
}

// broadcast invokes every subscriber in order with the same pair. It
// iterates a snapshot, so listeners that add or remove subscribers during
// the broadcast cannot corrupt the walk: a listener removed mid-broadcast is
// skipped, one added mid-broadcast waits for the next. Panics are not
// recovered; they abort the remaining notifications and travel up to
// whoever drove the navigation.
func (r *listenerRegistry) broadcast(loc Location, action Action) {
	if len(r.handles) == 0 {
		return
	}
	snapshot := make([]*listenerHandle, len(r.handles))
	copy(snapshot, r.handles)
	for _, h := range snapshot {
		if h.active {
			h.fn(loc, action)
		}
	}
}
