package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/recalcgo/internal/observable"
)

// Args returns the positional arguments.
func (n *Node) Args() []*Node {
	return n.args.Items()
}

// Kwargs returns the keyword arguments in insertion order.
func (n *Node) Kwargs() []observable.Entry[string, *Node] {
	return n.kwargs.Entries()
}

// Kwarg returns the keyword argument name.
func (n *Node) Kwarg(name string) (*Node, bool) {
	return n.kwargs.Get(name)
}

// SetArgs replaces all arguments. Every old argument is removed before any
// new one is added. Keyword arguments are added in name order.
func (n *Node) SetArgs(args []*Node, kwargs map[string]*Node) error {
	if err := n.checkArgsMutable("set arguments"); err != nil {
		return err
	}
	if err := checkParents(args...); err != nil {
		return err
	}
	entries := make([]observable.Entry[string, *Node], 0, len(kwargs))
	for _, name := range sortedNames(kwargs) {
		if kwargs[name] == nil {
			return fmt.Errorf("keyword argument %q is nil", name)
		}
		entries = append(entries, observable.Entry[string, *Node]{Key: name, Value: kwargs[name]})
	}
	return n.replaceArgs(args, entries)
}

// SetArg replaces the positional argument at index i.
func (n *Node) SetArg(i int, parent *Node) error {
	if err := n.checkArgsMutable("set argument"); err != nil {
		return err
	}
	if err := checkParents(parent); err != nil {
		return err
	}
	return n.args.Set(i, parent)
}

// InsertArg inserts a positional argument before index i.
func (n *Node) InsertArg(i int, parent *Node) error {
	if err := n.checkArgsMutable("insert argument"); err != nil {
		return err
	}
	if err := checkParents(parent); err != nil {
		return err
	}
	n.args.Insert(i, parent)
	return nil
}

// AppendArgs appends positional arguments.
func (n *Node) AppendArgs(parents ...*Node) error {
	if err := n.checkArgsMutable("append arguments"); err != nil {
		return err
	}
	if err := checkParents(parents...); err != nil {
		return err
	}
	n.args.Append(parents...)
	return nil
}

// DeleteArg removes the positional argument at index i.
func (n *Node) DeleteArg(i int) error {
	if err := n.checkArgsMutable("delete argument"); err != nil {
		return err
	}
	return n.args.Delete(i)
}

// SetArgSlice assigns parents to the positional arguments selected by s.
func (n *Node) SetArgSlice(s observable.Slice, parents []*Node) error {
	if err := n.checkArgsMutable("set argument slice"); err != nil {
		return err
	}
	if err := checkParents(parents...); err != nil {
		return err
	}
	return n.args.SetSlice(s, parents)
}

// DeleteArgSlice removes the positional arguments selected by s.
func (n *Node) DeleteArgSlice(s observable.Slice) error {
	if err := n.checkArgsMutable("delete argument slice"); err != nil {
		return err
	}
	return n.args.DeleteSlice(s)
}

// SetKwarg sets the keyword argument name.
func (n *Node) SetKwarg(name string, parent *Node) error {
	if err := n.checkArgsMutable("set keyword argument"); err != nil {
		return err
	}
	if err := checkParents(parent); err != nil {
		return err
	}
	n.kwargs.Set(name, parent)
	return nil
}

// DeleteKwarg removes the keyword argument name, if present.
func (n *Node) DeleteKwarg(name string) error {
	if err := n.checkArgsMutable("delete keyword argument"); err != nil {
		return err
	}
	n.kwargs.Delete(name)
	return nil
}

func (n *Node) checkArgsMutable(op string) error {
	if n.frozen {
		return &MutationError{Node: n, Op: op, Reason: "arguments of " + n.kind.Name + " nodes are frozen"}
	}
	return nil
}

func checkParents(parents ...*Node) error {
	for i, p := range parents {
		if p == nil {
			return fmt.Errorf("argument %d is nil", i)
		}
	}
	return nil
}

// replaceArgs clears both containers and then fills them, bypassing the
// frozen check so Init can use it.
func (n *Node) replaceArgs(args []*Node, kwargs []observable.Entry[string, *Node]) error {
	n.args.Clear()
	n.kwargs.Clear()
	n.args.Append(args...)
	n.kwargs.Update(kwargs...)
	return nil
}

func (n *Node) onArgsMutation(m observable.ListMutation[*Node]) {
	n.invalidate()
	// Additions go first so that replacing a parent with itself never drops
	// the dependent edge.
	for i, p := range m.Added {
		n.link(p)
		n.engine.publish(Event{Type: ArgAdded, Node: n, Index: m.Index + i, Parent: p})
	}
	for i, p := range m.Removed {
		n.unlink(p)
		n.engine.publish(Event{Type: ArgRemoved, Node: n, Index: m.Index + i, Parent: p})
	}
}

func (n *Node) onKwargsMutation(m observable.MapMutation[string, *Node]) {
	n.invalidate()
	for _, name := range sortedNames(m.Added) {
		p := m.Added[name]
		n.link(p)
		n.engine.publish(Event{Type: ArgAdded, Node: n, Index: -1, Name: name, Parent: p})
	}
	for _, name := range sortedNames(m.Removed) {
		p := m.Removed[name]
		n.unlink(p)
		n.engine.publish(Event{Type: ArgRemoved, Node: n, Index: -1, Name: name, Parent: p})
	}
}

// link records one more occurrence of parent among the arguments.
func (n *Node) link(parent *Node) {
	n.refs[parent]++
	if n.refs[parent] == 1 {
		parent.dependents = append(parent.dependents, n)
	}
}

// unlink records one occurrence fewer of parent among the arguments.
func (n *Node) unlink(parent *Node) {
	n.refs[parent]--
	if n.refs[parent] > 0 {
		return
	}
	delete(n.refs, parent)
	if i := slices.Index(parent.dependents, n); i >= 0 {
		parent.dependents = slices.Delete(parent.dependents, i, i+1)
	}
}

func sortedNames[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
