// Package event provides a synchronous broadcast channel used for lifecycle
// notifications and container mutation records.
//
// A Channel is not a Go channel: Publish calls every listener in
// registration order on the caller's goroutine and returns once all of them
// have run. Listeners added or cancelled while a Publish is in progress take
// effect from the next Publish.
package event

// Channel broadcasts values of type E to subscribed listeners. The zero value
// is ready to use. A Channel is not safe for concurrent use.
type Channel[E any] struct {
	nextID    int
	listeners []listener[E]
}

// listener pairs a callback with the id used to cancel it.
type listener[E any] struct {
	id int
	fn func(E)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (c *Channel[E]) Subscribe(fn func(E)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener[E]{id: id, fn: fn})

	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every listener registered at the time of the call.
func (c *Channel[E]) Publish(e E) {
	if len(c.listeners) == 0 {
		return
	}
	snapshot := make([]listener[E], len(c.listeners))
	copy(snapshot, c.listeners)
	for _, l := range snapshot {
		l.fn(e)
	}
}

// Len returns the number of registered listeners.
func (c *Channel[E]) Len() int {
	return len(c.listeners)
}
