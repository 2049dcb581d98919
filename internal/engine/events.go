package engine

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// EventType identifies a lifecycle event.
type EventType int

const (
	// Created fires after a node is registered and before its Init runs.
	Created EventType = iota
	// StateChanged fires on every state transition.
	StateChanged
	// ValueChanged fires when a node's cached value is replaced.
	ValueChanged
	// ArgAdded fires when a parent is added to a node's arguments.
	ArgAdded
	// ArgRemoved fires when a parent is removed from a node's arguments.
	ArgRemoved
	// StackPushed fires when a node starts recomputing.
	StackPushed
	// StackPopped fires when a node stops recomputing, successfully or not.
	StackPopped
)

// String implements fmt.Stringer.
func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case StateChanged:
		return "state_changed"
	case ValueChanged:
		return "value_changed"
	case ArgAdded:
		return "arg_added"
	case ArgRemoved:
		return "arg_removed"
	case StackPushed:
		return "stack_pushed"
	case StackPopped:
		return "stack_popped"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a lifecycle notification. Only the fields relevant to Type are set.
type Event struct {
	Type EventType
	Node *Node

	// StateChanged.
	OldState State
	NewState State

	// ValueChanged. OldValue is cty.NilVal on the first assignment.
	OldValue cty.Value
	NewValue cty.Value

	// ArgAdded and ArgRemoved. Index is the positional index, or -1 for a
	// keyword argument, in which case Name is set.
	Index  int
	Name   string
	Parent *Node

	// StackPopped. Err is the error the frame ended with, if any.
	Err error

	// StackPushed and StackPopped. Depth is the stack depth including Node.
	Depth int
}

// String renders the event on a single line.
func (ev Event) String() string {
	switch ev.Type {
	case StateChanged:
		return fmt.Sprintf("%s %s: %s -> %s", ev.Type, ev.Node.Label(), ev.OldState, ev.NewState)
	case ValueChanged:
		return fmt.Sprintf("%s %s: %s -> %s", ev.Type, ev.Node.Label(), FormatValue(ev.OldValue), FormatValue(ev.NewValue))
	case ArgAdded, ArgRemoved:
		return fmt.Sprintf("%s %s[%s]: %s", ev.Type, ev.Node.Label(), ev.Slot(), ev.Parent.Label())
	case StackPopped:
		if ev.Err != nil {
			return fmt.Sprintf("%s %s (depth %d): %v", ev.Type, ev.Node.Label(), ev.Depth, ev.Err)
		}
		return fmt.Sprintf("%s %s (depth %d)", ev.Type, ev.Node.Label(), ev.Depth)
	case StackPushed:
		return fmt.Sprintf("%s %s (depth %d)", ev.Type, ev.Node.Label(), ev.Depth)
	default:
		return fmt.Sprintf("%s %s", ev.Type, ev.Node.Label())
	}
}

// Slot names the argument position of an ArgAdded or ArgRemoved event.
func (ev Event) Slot() string {
	if ev.Index < 0 {
		return ev.Name
	}
	return fmt.Sprint(ev.Index)
}

// Subscribe registers fn to receive every subsequent event of this engine.
// Events are delivered synchronously, in the order they happen.
func (e *Engine) Subscribe(fn func(Event)) (cancel func()) {
	return e.events.Subscribe(fn)
}

func (e *Engine) publish(ev Event) {
	e.events.Publish(ev)
}
