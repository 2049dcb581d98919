package engine

import (
	"github.com/vk/recalcgo/internal/nodekey"
	"github.com/vk/recalcgo/internal/observable"
	"github.com/zclconf/go-cty/cty"
)

// Node is a memoized unit of computation in an Engine.
type Node struct {
	engine *Engine
	kind   *Kind
	key    nodekey.Key
	name   string

	state State
	// value survives invalidation so a recomputed value can be compared
	// with it. It is only trustworthy while state is Valid.
	value    cty.Value
	hasValue bool
	// sealed is set once a single-assignment node has a value.
	sealed bool
	// frozen is set once Init returned for a kind with FrozenArgs.
	frozen bool

	args   *observable.List[*Node]
	kwargs *observable.Map[string, *Node]

	// refs counts the occurrences of each distinct parent among the
	// arguments. A parent is in refs iff this node is among its dependents.
	refs       map[*Node]int
	dependents []*Node

	createdBy *Node
}

func newNode(e *Engine, kind *Kind, key nodekey.Key) *Node {
	n := &Node{
		engine: e,
		kind:   kind,
		key:    key,
		state:  Invalid,
		args:   observable.NewList[*Node](),
		kwargs: observable.NewMap[string, *Node](),
		refs:   make(map[*Node]int),
	}
	n.args.Listen(n.onArgsMutation)
	n.kwargs.Listen(n.onKwargsMutation)
	return n
}

// Key returns the node's structural key.
func (n *Node) Key() nodekey.Key {
	return n.key
}

// Kind returns the node's kind.
func (n *Node) Kind() *Kind {
	return n.kind
}

// Engine returns the engine that owns the node.
func (n *Node) Engine() *Engine {
	return n.engine
}

// State returns the node's lifecycle state.
func (n *Node) State() State {
	return n.state
}

// Name returns the display name set with SetName, if any.
func (n *Node) Name() string {
	return n.name
}

// SetName sets a display name. It does not affect the key.
func (n *Node) SetName(name string) {
	n.name = name
}

// Label returns the display name, falling back to the key.
func (n *Node) Label() string {
	if n == nil {
		return "<nil>"
	}
	if n.name != "" {
		return n.name
	}
	return n.key.String()
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return n.Label()
}

// Cached returns the cached value without recomputing. ok is false unless
// the node is Valid.
func (n *Node) Cached() (v cty.Value, ok bool) {
	return n.value, n.state == Valid
}

// Sealed reports whether a single-assignment node has received its value.
func (n *Node) Sealed() bool {
	return n.sealed
}

// CreatedBy returns the node whose Init constructed this node, or nil.
func (n *Node) CreatedBy() *Node {
	return n.createdBy
}

// Dependents returns the nodes that have this node among their arguments,
// in the order the edges were created.
func (n *Node) Dependents() []*Node {
	return append([]*Node(nil), n.dependents...)
}

// RefCount returns how many times parent occurs among the arguments.
func (n *Node) RefCount(parent *Node) int {
	return n.refs[parent]
}

func (n *Node) setState(s State) {
	if n.state == s {
		return
	}
	old := n.state
	n.state = s
	n.engine.publish(Event{Type: StateChanged, Node: n, OldState: old, NewState: s})
}
