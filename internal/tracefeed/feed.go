package tracefeed

import (
	"github.com/vk/recalcgo/internal/engine"
)

// EventName is the socket.io event every engine event is emitted as.
const EventName = "node_event"

// EmitFunc sends one socket.io message.
type EmitFunc func(event string, payload any)

// Feed forwards engine events through an EmitFunc.
type Feed struct {
	emit   EmitFunc
	filter map[engine.EventType]bool
}

// NewFeed returns a feed emitting through emit. If only is not empty just
// those event types are forwarded.
func NewFeed(emit EmitFunc, only ...engine.EventType) *Feed {
	f := &Feed{emit: emit}
	if len(only) > 0 {
		f.filter = make(map[engine.EventType]bool, len(only))
		for _, t := range only {
			f.filter[t] = true
		}
	}
	return f
}

// Handle is the engine event callback.
func (f *Feed) Handle(ev engine.Event) {
	if f.filter != nil && !f.filter[ev.Type] {
		return
	}
	f.emit(EventName, Encode(ev))
}
