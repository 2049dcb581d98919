package nodes

import (
	"fmt"

	"github.com/vk/recalcgo/internal/engine"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

type binaryOp func(a, b cty.Value) (cty.Value, error)

// reduceKind folds its arguments left to right with op.
func reduceKind(name string, op binaryOp) *engine.Kind {
	return &engine.Kind{
		Name: name,
		Compute: func(c *engine.Call) (cty.Value, error) {
			if len(c.Args) == 0 {
				return cty.NilVal, fmt.Errorf("%s needs at least one argument", name)
			}
			acc := c.Args[0]
			for _, v := range c.Args[1:] {
				var err error
				if acc, err = op(acc, v); err != nil {
					return cty.NilVal, fmt.Errorf("%s: %w", name, err)
				}
			}
			return acc, nil
		},
	}
}

// binaryKind applies op to exactly two arguments.
func binaryKind(name string, op binaryOp) *engine.Kind {
	return &engine.Kind{
		Name: name,
		Compute: func(c *engine.Call) (cty.Value, error) {
			if len(c.Args) != 2 {
				return cty.NilVal, fmt.Errorf("%s needs exactly two arguments, got %d", name, len(c.Args))
			}
			v, err := op(c.Args[0], c.Args[1])
			if err != nil {
				return cty.NilVal, fmt.Errorf("%s: %w", name, err)
			}
			return v, nil
		},
	}
}

// Arithmetic kinds. Add and Mul accept any number of arguments; Sub, Div and
// Pow take exactly two.
var (
	AddKind = reduceKind("Add", stdlib.Add)
	MulKind = reduceKind("Mul", stdlib.Multiply)
	SubKind = binaryKind("Sub", stdlib.Subtract)
	DivKind = binaryKind("Div", stdlib.Divide)
	PowKind = binaryKind("Pow", stdlib.Pow)
)

// Add returns the node summing args.
func Add(e *engine.Engine, args ...*engine.Node) (*engine.Node, error) {
	return e.Construct(AddKind, nodeArgs(args))
}

// Mul returns the node multiplying args.
func Mul(e *engine.Engine, args ...*engine.Node) (*engine.Node, error) {
	return e.Construct(MulKind, nodeArgs(args))
}

// Sub returns the node computing a - b.
func Sub(e *engine.Engine, a, b *engine.Node) (*engine.Node, error) {
	return e.Construct(SubKind, engine.Args(a, b))
}

// Div returns the node computing a / b.
func Div(e *engine.Engine, a, b *engine.Node) (*engine.Node, error) {
	return e.Construct(DivKind, engine.Args(a, b))
}

// Pow returns the node computing a to the power of b.
func Pow(e *engine.Engine, a, b *engine.Node) (*engine.Node, error) {
	return e.Construct(PowKind, engine.Args(a, b))
}

func nodeArgs(args []*engine.Node) engine.Params {
	params := make([]any, len(args))
	for i, a := range args {
		params[i] = a
	}
	return engine.Args(params...)
}
