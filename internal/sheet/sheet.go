package sheet

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/recalcgo/internal/config"
	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/vk/recalcgo/internal/engine"
	"github.com/vk/recalcgo/internal/hclexpr"
	"github.com/vk/recalcgo/internal/nodes"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

var (
	// ErrUnknownReference is returned for a reference to an entry the
	// workbook does not declare.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrNotAssignable is returned when assigning to anything but a variable.
	ErrNotAssignable = errors.New("only variables can be assigned")
)

// Sheet is a workbook bound to an engine. Like the engine, it is not safe
// for concurrent use.
type Sheet struct {
	engine    *engine.Engine
	functions map[string]function.Function
	kind      *engine.Kind

	refs     []string
	nodes    map[string]*engine.Node
	types    map[string]cty.Type
	formulas map[string]*formula
}

// formula is the current definition of one cell.
type formula struct {
	cell *config.Cell
	expr hcl.Expression
	refs []hclexpr.Reference
}

// Build creates the nodes of model in e. Every reference and function call
// in a cell expression is checked before any cell node is created.
func Build(ctx context.Context, e *engine.Engine, model *config.Model) (*Sheet, error) {
	logger := ctxlog.FromContext(ctx)

	s := &Sheet{
		engine:    e,
		functions: nodes.Functions(),
		refs:      model.Refs(),
		nodes:     make(map[string]*engine.Node),
		types:     make(map[string]cty.Type),
		formulas:  make(map[string]*formula),
	}
	s.kind = s.cellKind()

	for _, v := range model.Variables {
		var initial any
		if v.Value.Type() != cty.NilType {
			initial = v.Value
		}
		n, err := nodes.NamedVar(e, v.Ref(), initial)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", v.Ref(), err)
		}
		s.nodes[v.Ref()] = n
		s.types[v.Ref()] = v.Type
	}

	for _, c := range model.Constants {
		n, err := nodes.Const(e, c.Value)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", c.Ref(), err)
		}
		s.nodes[c.Ref()] = n
	}

	var diags hcl.Diagnostics
	for _, c := range model.Cells {
		f, moreDiags := s.analyze(c, c.Expr)
		diags = append(diags, moreDiags...)
		s.formulas[c.Name] = f
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid cell expressions: %w", diags)
	}

	for _, c := range model.Cells {
		if _, err := s.cellNode(c.Name); err != nil {
			return nil, err
		}
	}

	logger.Debug("Sheet built.",
		"variables", len(model.Variables),
		"constants", len(model.Constants),
		"cells", len(model.Cells),
		"nodes", len(e.Nodes()),
	)
	return s, nil
}

// analyze checks the references and function calls of expr.
func (s *Sheet) analyze(c *config.Cell, expr hcl.Expression) (*formula, hcl.Diagnostics) {
	refs, diags := hclexpr.References(expr)
	for _, ref := range refs {
		if !s.declares(ref) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Reference to undeclared entry",
				Detail:   fmt.Sprintf("%s is not declared in this workbook.", ref),
				Subject:  ref.Range.Ptr(),
			})
		}
	}
	diags = append(diags, hclexpr.CheckFunctions(expr, s.functions)...)
	return &formula{cell: c, expr: expr, refs: refs}, diags
}

func (s *Sheet) declares(ref hclexpr.Reference) bool {
	return slices.Contains(s.refs, ref.String())
}

// Engine returns the engine holding the sheet's nodes.
func (s *Sheet) Engine() *engine.Engine {
	return s.engine
}

// Refs returns every reference of the workbook: variables, then constants,
// then cells, each in declaration order.
func (s *Sheet) Refs() []string {
	return append([]string(nil), s.refs...)
}

// Node returns the node bound to ref.
func (s *Sheet) Node(ref string) (*engine.Node, bool) {
	n, ok := s.nodes[ref]
	return n, ok
}

// Source returns the expression text of a cell.
func (s *Sheet) Source(name string) (string, bool) {
	f, ok := s.formulas[name]
	if !ok {
		return "", false
	}
	return f.cell.Source, true
}

// Value returns the current value of ref, recomputing as needed.
func (s *Sheet) Value(ref string) (cty.Value, error) {
	n, err := s.lookup(ref)
	if err != nil {
		return cty.NilVal, err
	}
	return n.Value()
}

// Set assigns a Go or cty value to a variable.
func (s *Sheet) Set(ref string, v any) error {
	cv, err := nodes.ToValue(v)
	if err != nil {
		return err
	}
	return s.SetValue(ref, cv)
}

// SetValue assigns v to a variable after converting it to the variable's
// declared type.
func (s *Sheet) SetValue(ref string, v cty.Value) error {
	n, err := s.lookup(ref)
	if err != nil {
		return err
	}
	ty, ok := s.types[ref]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAssignable, ref)
	}
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return fmt.Errorf("assigning %s: value is not a %s: %w", ref, ty.FriendlyName(), err)
	}
	return n.SetValue(converted)
}

// Assign evaluates src, which may call functions but not reference other
// entries, and assigns the result to a variable.
func (s *Sheet) Assign(ref, src string) error {
	expr, diags := hclexpr.Parse(src, ref)
	if diags.HasErrors() {
		return fmt.Errorf("parsing value for %s: %w", ref, diags)
	}
	v, diags := hclexpr.Static(expr, s.functions)
	if diags.HasErrors() {
		return fmt.Errorf("evaluating value for %s: %w", ref, diags)
	}
	return s.SetValue(ref, v)
}

// SetExpr redefines the formula of an existing cell. The cell's arguments
// are relinked to the entries the new expression references and the cell
// and its dependents are invalidated.
func (s *Sheet) SetExpr(name, src string) error {
	old, ok := s.formulas[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownReference, config.CellPrefix, name)
	}
	expr, diags := hclexpr.Parse(src, config.CellPrefix+"."+name)
	if diags.HasErrors() {
		return fmt.Errorf("parsing %s.%s: %w", config.CellPrefix, name, diags)
	}

	cell := *old.cell
	cell.Expr = expr
	cell.Source = src
	cell.Range = expr.Range()
	f, diags := s.analyze(&cell, expr)
	if diags.HasErrors() {
		return fmt.Errorf("invalid expression for %s: %w", cell.Ref(), diags)
	}

	parents, err := s.resolve(f.refs)
	if err != nil {
		return err
	}
	s.formulas[name] = f

	n := s.nodes[cell.Ref()]
	if err := n.SetArgs(nil, parents); err != nil {
		return err
	}
	return n.Invalidate()
}

func (s *Sheet) lookup(ref string) (*engine.Node, error) {
	if _, _, err := hclexpr.Split(ref); err != nil {
		return nil, err
	}
	n, ok := s.nodes[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReference, ref)
	}
	return n, nil
}
