package tracing

import (
	"context"

	"github.com/vk/recalcgo/internal/engine"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on recomputation spans.
const (
	AttrNodeKey   = attribute.Key("recalc.node.key")
	AttrNodeName  = attribute.Key("recalc.node.name")
	AttrNodeKind  = attribute.Key("recalc.node.kind")
	AttrDepth     = attribute.Key("recalc.stack.depth")
	AttrValue     = attribute.Key("recalc.node.value")
	AttrOldValue  = attribute.Key("recalc.value.old")
	AttrNewValue  = attribute.Key("recalc.value.new")
	spanEventName = "value_changed"
)

type frame struct {
	node *engine.Node
	ctx  context.Context
	span trace.Span
}

// Listener mirrors the engine's evaluation stack as a stack of spans.
// Like the engine, it must be used from a single goroutine.
type Listener struct {
	root   context.Context
	tracer trace.Tracer
	frames []frame
}

// NewListener returns a listener whose outermost spans are children of the
// span in ctx, if any.
func NewListener(ctx context.Context, tracer trace.Tracer) *Listener {
	return &Listener{root: ctx, tracer: tracer}
}

// Handle is the engine event callback.
func (l *Listener) Handle(ev engine.Event) {
	switch ev.Type {
	case engine.StackPushed:
		l.push(ev)
	case engine.StackPopped:
		l.pop(ev)
	case engine.ValueChanged:
		if f, ok := l.top(); ok && f.node == ev.Node {
			f.span.AddEvent(spanEventName, trace.WithAttributes(
				AttrOldValue.String(engine.FormatValue(ev.OldValue)),
				AttrNewValue.String(engine.FormatValue(ev.NewValue)),
			))
		}
	}
}

// Open returns the number of spans started but not yet ended.
func (l *Listener) Open() int {
	return len(l.frames)
}

func (l *Listener) push(ev engine.Event) {
	parent := l.root
	if f, ok := l.top(); ok {
		parent = f.ctx
	}
	ctx, span := l.tracer.Start(parent, "recompute "+ev.Node.Kind().Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrNodeKey.String(ev.Node.Key().String()),
			AttrNodeName.String(ev.Node.Label()),
			AttrNodeKind.String(ev.Node.Kind().Name),
			AttrDepth.Int(ev.Depth),
		),
	)
	l.frames = append(l.frames, frame{node: ev.Node, ctx: ctx, span: span})
}

func (l *Listener) pop(ev engine.Event) {
	f, ok := l.top()
	if !ok || f.node != ev.Node {
		// Subscribed in the middle of an evaluation.
		return
	}
	l.frames = l.frames[:len(l.frames)-1]

	if ev.Err != nil {
		f.span.RecordError(ev.Err)
		f.span.SetStatus(codes.Error, ev.Err.Error())
	} else if v, ok := ev.Node.Cached(); ok {
		f.span.SetAttributes(AttrValue.String(engine.FormatValue(v)))
		f.span.SetStatus(codes.Ok, "")
	}
	f.span.End()
}

func (l *Listener) top() (frame, bool) {
	if len(l.frames) == 0 {
		return frame{}, false
	}
	return l.frames[len(l.frames)-1], true
}
