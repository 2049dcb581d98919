package nodes

import (
	"errors"

	"github.com/vk/recalcgo/internal/engine"
)

// ConstKind is the kind of constant nodes. Constants are keyed by their
// value, so equal constants are the same node.
var ConstKind = &engine.Kind{
	Name:             "Const",
	Independent:      true,
	SingleAssignment: true,
	FrozenArgs:       true,
	Init: func(n *engine.Node, p engine.Params) error {
		if len(p.Positional) != 1 || len(p.Keyword) != 0 {
			return errors.New("a constant takes exactly one value")
		}
		v, err := ToValue(p.Positional[0])
		if err != nil {
			return err
		}
		n.SetName("Const[" + engine.FormatValue(v) + "]")
		return n.SetValue(v)
	},
}

// Const returns the constant node holding v.
func Const(e *engine.Engine, v any) (*engine.Node, error) {
	return e.Construct(ConstKind, engine.Args(v))
}
