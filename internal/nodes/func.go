package nodes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/recalcgo/internal/engine"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ErrUnknownFunction is returned for a function name missing from the table.
var ErrUnknownFunction = errors.New("unknown function")

// FuncKind binds nodes to the functions returned by Functions.
var FuncKind = NewFuncKind("Func", Functions())

// NewFuncKind returns a kind whose nodes call a function from table. The
// first argument of such a node is a constant holding the function name;
// the remaining arguments are passed to the function in order.
func NewFuncKind(name string, table map[string]function.Function) *engine.Kind {
	return &engine.Kind{
		Name: name,
		Init: func(n *engine.Node, p engine.Params) error {
			if len(p.Keyword) != 0 {
				return errors.New("function nodes take positional arguments only")
			}
			if len(p.Positional) == 0 {
				return errors.New("function name is missing")
			}
			fname, ok := p.Positional[0].(string)
			if !ok {
				return fmt.Errorf("function name must be a string, got %T", p.Positional[0])
			}
			if _, ok := table[fname]; !ok {
				return fmt.Errorf("%w %q", ErrUnknownFunction, fname)
			}

			fnode, err := Const(n.Engine(), fname)
			if err != nil {
				return err
			}
			args := []*engine.Node{fnode}
			labels := make([]string, 0, len(p.Positional)-1)
			for i, param := range p.Positional[1:] {
				arg, ok := param.(*engine.Node)
				if !ok {
					return fmt.Errorf("argument %d of %s must be a node, got %T", i, fname, param)
				}
				args = append(args, arg)
				labels = append(labels, arg.Label())
			}
			n.SetName(fmt.Sprintf("%s[%s(%s)]", name, fname, strings.Join(labels, ", ")))
			return n.SetArgs(args, nil)
		},
		Compute: func(c *engine.Call) (cty.Value, error) {
			if len(c.Args) == 0 {
				return cty.NilVal, errors.New("function name is missing")
			}
			fname, err := functionName(c.Args[0])
			if err != nil {
				return cty.NilVal, err
			}
			fn, ok := table[fname]
			if !ok {
				return cty.NilVal, fmt.Errorf("%w %q", ErrUnknownFunction, fname)
			}
			v, err := fn.Call(c.Args[1:])
			if err != nil {
				return cty.NilVal, fmt.Errorf("calling %s: %w", fname, err)
			}
			return v, nil
		},
	}
}

// functionName checks that v can name a function.
func functionName(v cty.Value) (string, error) {
	switch {
	case v.Type() != cty.String:
		return "", fmt.Errorf("function name must be a string, got %s", v.Type().FriendlyName())
	case !v.IsKnown() || v.IsNull():
		return "", errors.New("function name is not set")
	}
	return v.AsString(), nil
}

// Func returns the node applying the named function to args.
func Func(e *engine.Engine, name string, args ...*engine.Node) (*engine.Node, error) {
	params := make([]any, 0, len(args)+1)
	params = append(params, name)
	for _, a := range args {
		params = append(params, a)
	}
	return e.Construct(FuncKind, engine.Args(params...))
}
