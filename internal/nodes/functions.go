package nodes

import (
	"maps"

	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions returns the function table available to Func nodes and
// workbook formulas.
func Functions() map[string]function.Function {
	return maps.Clone(functions)
}

var functions = map[string]function.Function{
	"abs":      stdlib.AbsoluteFunc,
	"add":      stdlib.AddFunc,
	"ceil":     stdlib.CeilFunc,
	"coalesce": stdlib.CoalesceFunc,
	"concat":   stdlib.ConcatFunc,
	"divide":   stdlib.DivideFunc,
	"floor":    stdlib.FloorFunc,
	"format":   stdlib.FormatFunc,
	"join":     stdlib.JoinFunc,
	"log":      stdlib.LogFunc,
	"lower":    stdlib.LowerFunc,
	"max":      stdlib.MaxFunc,
	"min":      stdlib.MinFunc,
	"modulo":   stdlib.ModuloFunc,
	"multiply": stdlib.MultiplyFunc,
	"negate":   stdlib.NegateFunc,
	"pow":      stdlib.PowFunc,
	"signum":   stdlib.SignumFunc,
	"strlen":   stdlib.StrlenFunc,
	"subtract": stdlib.SubtractFunc,
	"upper":    stdlib.UpperFunc,
}
