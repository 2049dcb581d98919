package engine

import (
	"maps"

	"github.com/zclconf/go-cty/cty"
)

// Policy decides what Construct does when the key already exists.
type Policy int

const (
	// Reuse returns the existing node. This is what makes construction memoizing.
	Reuse Policy = iota
	// Exclusive fails with a DuplicateKeyError.
	Exclusive
)

// Equality decides how a node reacts to being given a value equal to the
// one it already holds.
type Equality int

const (
	// NotifyOnChange suppresses the ValueChanged event when the new value is
	// exactly equal to the old one.
	NotifyOnChange Equality = iota
	// NotifyAlways fires ValueChanged for every assignment.
	NotifyAlways
	// SkipUnchanged makes SetValue of an equal value on a Valid node a
	// complete no-op: no invalidation, no events.
	SkipUnchanged
)

// Kind describes a family of nodes. Behavior is selected by the capability
// fields below rather than by embedding; the zero value of every field is a
// sensible default.
type Kind struct {
	// Name identifies the kind in keys, errors and logs.
	Name string

	// KeySpace overrides the key space, which defaults to Name. Kinds that
	// share a key space collide on equal key data.
	KeySpace string

	// KeyData overrides derivation of the key data from the parameters.
	KeyData func(e *Engine, p Params) (string, error)

	// Init runs once, when a node is first constructed. The default sets the
	// node's arguments to the *Node parameters.
	Init func(n *Node, p Params) error

	// Compute derives the value from the argument values. Independent kinds
	// leave it nil.
	Compute func(c *Call) (cty.Value, error)

	Policy   Policy
	Equality Equality

	// Independent nodes get their value from SetValue, never from Compute.
	// Once Valid they stay Valid; invalidating them only reaches their
	// dependents.
	Independent bool

	// SingleAssignment nodes accept one value. After their first Valid
	// transition they ignore invalidation and reject SetValue.
	SingleAssignment bool

	// FrozenArgs rejects argument changes once Init has returned.
	FrozenArgs bool
}

// keySpace returns the effective key space.
func (k *Kind) keySpace() string {
	if k.KeySpace != "" {
		return k.KeySpace
	}
	return k.Name
}

// String implements fmt.Stringer.
func (k *Kind) String() string {
	if k == nil {
		return "<nil kind>"
	}
	return k.Name
}

// Params are the constructor parameters of a node.
type Params struct {
	Positional []any
	Keyword    map[string]any
}

// Args returns positional parameters.
func Args(positional ...any) Params {
	return Params{Positional: positional}
}

// With returns a copy of p with the keyword parameter name set to v.
func (p Params) With(name string, v any) Params {
	kw := make(map[string]any, len(p.Keyword)+1)
	maps.Copy(kw, p.Keyword)
	kw[name] = v
	p.Keyword = kw
	return p
}

// Call carries the argument values into a Compute function.
type Call struct {
	Node   *Node
	Args   []cty.Value
	Kwargs map[string]cty.Value
}
