package engine

import (
	"fmt"
	"log/slog"

	"github.com/vk/recalcgo/internal/callstack"
	"github.com/vk/recalcgo/internal/event"
	"github.com/vk/recalcgo/internal/nodekey"
	"github.com/vk/recalcgo/internal/observable"
	"github.com/vk/recalcgo/internal/registry"
)

// Engine owns a node graph: the registry of nodes by key, the evaluation
// stack, and the event channel. Independent engines share nothing.
type Engine struct {
	logger *slog.Logger
	nodes  *registry.Registry[nodekey.Key, *Node]
	stack  callstack.Stack[*Node]
	events event.Channel[Event]

	// initializing holds the nodes whose Init is running, innermost last.
	initializing []*Node
	serial       int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		nodes:  registry.New[nodekey.Key, *Node](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// NextSerial returns a number never returned before by this engine. Kinds
// that must never be memoized use it as key data.
func (e *Engine) NextSerial() int {
	e.serial++
	return e.serial
}

// Construct returns the node of the given kind for params, creating it if
// needed.
//
// If a node with the same key exists and both its kind and the requested
// kind allow reuse, the existing node is returned and Init is not run again.
// Otherwise the collision is a *DuplicateKeyError. A new node is registered,
// announced with a Created event and initialized; if Init fails the
// registration is rolled back and the error returned. A node that gained
// dependents during its failed Init is kept registered instead.
func (e *Engine) Construct(kind *Kind, params Params) (*Node, error) {
	key, err := e.keyFor(kind, params)
	if err != nil {
		return nil, fmt.Errorf("deriving key for %s: %w", kind, err)
	}

	if existing, ok := e.nodes.Lookup(key); ok {
		if existing.kind != kind || existing.kind.Policy == Exclusive {
			return nil, &DuplicateKeyError{Key: key, Existing: existing.kind, Requested: kind}
		}
		return existing, nil
	}

	n := newNode(e, kind, key)
	if len(e.initializing) > 0 {
		n.createdBy = e.initializing[len(e.initializing)-1]
	}
	if err := e.nodes.Register(key, n); err != nil {
		return nil, err
	}
	e.logger.Debug("Constructing node.", "key", key.String())
	e.publish(Event{Type: Created, Node: n})

	if err := e.initialize(n, params); err != nil {
		e.rollback(n)
		return nil, fmt.Errorf("initializing %s: %w", n.Label(), err)
	}
	n.frozen = kind.FrozenArgs
	return n, nil
}

// Lookup returns the node registered under key.
func (e *Engine) Lookup(key nodekey.Key) (*Node, bool) {
	return e.nodes.Lookup(key)
}

// Nodes returns every node in construction order.
func (e *Engine) Nodes() []*Node {
	return e.nodes.All()
}

// CallStack returns the nodes currently recomputing, outermost first.
func (e *Engine) CallStack() []*Node {
	return e.stack.Items()
}

func (e *Engine) keyFor(kind *Kind, params Params) (nodekey.Key, error) {
	var (
		data string
		err  error
	)
	if kind.KeyData != nil {
		data, err = kind.KeyData(e, params)
	} else {
		data, err = nodekey.Encode(params.Positional, params.Keyword)
	}
	if err != nil {
		return nodekey.Key{}, err
	}
	return nodekey.New(kind.keySpace(), data), nil
}

func (e *Engine) initialize(n *Node, params Params) error {
	e.initializing = append(e.initializing, n)
	defer func() {
		e.initializing = e.initializing[:len(e.initializing)-1]
	}()

	if n.kind.Init != nil {
		return n.kind.Init(n, params)
	}
	return defaultInit(n, params)
}

// defaultInit makes every *Node parameter an argument, keeping positions
// and keyword names. Other parameters only contribute to the key.
func defaultInit(n *Node, params Params) error {
	var args []*Node
	for _, p := range params.Positional {
		if parent, ok := p.(*Node); ok {
			args = append(args, parent)
		}
	}
	var kwargs []observable.Entry[string, *Node]
	for _, name := range sortedNames(params.Keyword) {
		if parent, ok := params.Keyword[name].(*Node); ok {
			kwargs = append(kwargs, observable.Entry[string, *Node]{Key: name, Value: parent})
		}
	}
	return n.replaceArgs(args, kwargs)
}

// rollback undoes the registration of a node whose Init failed. A node
// that already has dependents stays registered, Invalid and with the
// arguments Init gave it, so its key keeps naming the instance they hold.
func (e *Engine) rollback(n *Node) {
	if len(n.dependents) != 0 {
		e.logger.Debug("Kept partially initialized node with dependents.", "key", n.key.String())
		return
	}
	n.args.Clear()
	n.kwargs.Clear()
	e.nodes.Forget(n.key)
	e.logger.Debug("Rolled back node after failed initialization.", "key", n.key.String())
}

// pushFrame puts n on the evaluation stack.
func (e *Engine) pushFrame(n *Node) error {
	if err := e.stack.Push(n); err != nil {
		return err
	}
	e.publish(Event{Type: StackPushed, Node: n, Depth: e.stack.Len()})
	return nil
}

// popFrame removes n from the evaluation stack. A mismatch means a frame
// was left behind and the engine can no longer be trusted.
func (e *Engine) popFrame(n *Node, cause error) {
	depth := e.stack.Len()
	if err := e.stack.Pop(n); err != nil {
		panic(fmt.Sprintf("engine: corrupt evaluation stack: %v", err))
	}
	e.publish(Event{Type: StackPopped, Node: n, Err: cause, Depth: depth})
}

// cycleError builds the error for re-entering n, which is on the stack.
func (e *Engine) cycleError(n *Node) *CycleError {
	return &CycleError{Cycle: e.stack.From(e.stack.IndexOf(n))}
}
