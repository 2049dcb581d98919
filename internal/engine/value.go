package engine

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Value returns the node's value, recomputing it first unless the node is
// Valid. Parents are evaluated in argument order, positional then keyword.
//
// Reading a node that is already recomputing fails with a *CycleError. An
// error from Compute or from a parent is returned unchanged; the node is
// left Invalid and its stack frame is released either way.
func (n *Node) Value() (cty.Value, error) {
	if n.state == Valid {
		return n.value, nil
	}
	if n.engine.stack.Contains(n) {
		return cty.NilVal, n.engine.cycleError(n)
	}
	if n.kind.Compute == nil {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrNoValue, n.Label())
	}
	return n.recompute()
}

func (n *Node) recompute() (v cty.Value, err error) {
	e := n.engine
	if err := e.pushFrame(n); err != nil {
		return cty.NilVal, err
	}
	n.setState(Pending)

	completed := false
	defer func() {
		if !completed {
			n.setState(Invalid)
		}
		e.popFrame(n, err)
	}()

	call, err := n.call()
	if err != nil {
		return cty.NilVal, err
	}
	v, err = n.kind.Compute(call)
	if err != nil {
		return cty.NilVal, err
	}
	if v.Type() == cty.NilType {
		return cty.NilVal, fmt.Errorf("%s computed no value", n.Label())
	}
	n.store(v)
	completed = true
	return v, nil
}

// call gathers the current values of the arguments.
func (n *Node) call() (*Call, error) {
	c := &Call{Node: n, Kwargs: make(map[string]cty.Value, n.kwargs.Len())}
	for _, p := range n.args.Items() {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, v)
	}
	for _, entry := range n.kwargs.Entries() {
		v, err := entry.Value.Value()
		if err != nil {
			return nil, err
		}
		c.Kwargs[entry.Key] = v
	}
	return c, nil
}

// SetValue assigns v from outside. It is allowed for independent kinds and
// for the first assignment of a single-assignment kind. The node's
// dependents are invalidated before the value is stored.
func (n *Node) SetValue(v cty.Value) error {
	switch {
	case n.sealed:
		return &MutationError{Node: n, Op: "set value", Reason: "single-assignment node already has a value"}
	case !n.kind.Independent && !n.kind.SingleAssignment:
		return &MutationError{Node: n, Op: "set value", Reason: "value is computed from the arguments"}
	case v.Type() == cty.NilType:
		return errors.New("cannot assign cty.NilVal")
	}

	if n.kind.Equality == SkipUnchanged && n.state == Valid && rawEqual(n.value, v) {
		return nil
	}
	n.invalidate()
	n.store(v)
	return nil
}

// Invalidate marks the node's value stale and cascades to every transitive
// dependent. It fails for a single-assignment node that has its value.
func (n *Node) Invalidate() error {
	if n.sealed {
		return &MutationError{Node: n, Op: "invalidate", Reason: "single-assignment node already has a value"}
	}
	n.invalidate()
	return nil
}

// invalidate is the cascade. Only Valid nodes are affected, so each node is
// visited at most once per cascade. Independent nodes keep their value and
// only pass the invalidation on; sealed nodes ignore it.
func (n *Node) invalidate() {
	if n.sealed || n.state != Valid {
		return
	}
	if !n.kind.Independent {
		n.setState(Invalid)
	}
	for _, d := range n.Dependents() {
		d.invalidate()
	}
}

func (n *Node) store(v cty.Value) {
	old, had := n.value, n.hasValue
	n.value, n.hasValue = v, true
	if n.kind.SingleAssignment {
		n.sealed = true
	}
	n.setState(Valid)

	if had && n.kind.Equality != NotifyAlways && rawEqual(old, v) {
		return
	}
	n.engine.publish(Event{Type: ValueChanged, Node: n, OldValue: old, NewValue: v})
}

// rawEqual is cty.Value.RawEquals, tolerating cty.NilVal.
func rawEqual(a, b cty.Value) bool {
	if a.Type() == cty.NilType || b.Type() == cty.NilType {
		return a.Type() == cty.NilType && b.Type() == cty.NilType
	}
	return a.RawEquals(b)
}
