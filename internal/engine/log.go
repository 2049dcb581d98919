package engine

import (
	"context"
	"log/slog"
)

// LogListener returns an event listener that writes every event to logger at
// debug level.
func LogListener(logger *slog.Logger) func(Event) {
	return func(ev Event) {
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		attrs := []any{"event", ev.Type.String(), "node", ev.Node.Label()}
		switch ev.Type {
		case StateChanged:
			attrs = append(attrs, "from", ev.OldState.String(), "to", ev.NewState.String())
		case ValueChanged:
			attrs = append(attrs, "old", FormatValue(ev.OldValue), "new", FormatValue(ev.NewValue))
		case ArgAdded, ArgRemoved:
			attrs = append(attrs, "slot", ev.Slot(), "parent", ev.Parent.Label())
		case StackPushed:
			attrs = append(attrs, "depth", ev.Depth)
		case StackPopped:
			attrs = append(attrs, "depth", ev.Depth)
			if ev.Err != nil {
				attrs = append(attrs, "error", ev.Err)
			}
		}
		logger.Debug("Node event.", attrs...)
	}
}
