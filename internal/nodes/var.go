package nodes

import (
	"fmt"
	"strconv"

	"github.com/vk/recalcgo/internal/engine"
)

// VarKind is the kind of variable nodes. Every construction creates a new
// node. Assigning a variable the value it already holds does nothing.
var VarKind = &engine.Kind{
	Name:        "Var",
	Independent: true,
	FrozenArgs:  true,
	Equality:    engine.SkipUnchanged,
	KeyData: func(e *engine.Engine, _ engine.Params) (string, error) {
		return strconv.Itoa(e.NextSerial()), nil
	},
	Init: func(n *engine.Node, p engine.Params) error {
		if name, ok := p.Keyword["name"].(string); ok && name != "" {
			n.SetName(name)
		} else {
			n.SetName("Var[" + n.Key().Data + "]")
		}
		switch len(p.Positional) {
		case 0:
			return nil
		case 1:
			if p.Positional[0] == nil {
				return nil
			}
			v, err := ToValue(p.Positional[0])
			if err != nil {
				return err
			}
			return n.SetValue(v)
		default:
			return fmt.Errorf("a variable takes at most one initial value, got %d", len(p.Positional))
		}
	},
}

// Var creates a variable. A nil v leaves it unassigned.
func Var(e *engine.Engine, v any) (*engine.Node, error) {
	return e.Construct(VarKind, engine.Args(v))
}

// NamedVar creates a variable with a display name.
func NamedVar(e *engine.Engine, name string, v any) (*engine.Node, error) {
	return e.Construct(VarKind, engine.Args(v).With("name", name))
}
