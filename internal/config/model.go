package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Reference prefixes used by expressions to address workbook entries.
const (
	VariablePrefix = "var"
	ConstantPrefix = "const"
	CellPrefix     = "cell"
)

// Model is the unified, format-agnostic representation of a workbook.
// Entries keep their declaration order.
type Model struct {
	Variables []*Variable
	Constants []*Constant
	Cells     []*Cell
}

// Variable is a named input that can be reassigned after loading.
type Variable struct {
	Name string
	// Type is the declared type constraint, cty.DynamicPseudoType when none
	// was given. Assigned values are converted to it.
	Type cty.Type
	// Value is the initial value, cty.NilVal when the variable starts unset.
	Value cty.Value
	Range hcl.Range
}

// Ref returns the expression reference of the variable, e.g. "var.a".
func (v *Variable) Ref() string { return VariablePrefix + "." + v.Name }

// Constant is a named value fixed at load time.
type Constant struct {
	Name  string
	Value cty.Value
	Range hcl.Range
}

// Ref returns the expression reference of the constant, e.g. "const.two".
func (c *Constant) Ref() string { return ConstantPrefix + "." + c.Name }

// Cell is a named formula.
type Cell struct {
	Name string
	Type cty.Type
	Expr hcl.Expression
	// Source is the expression text as written, used for display.
	Source string
	Range  hcl.Range
}

// Ref returns the expression reference of the cell, e.g. "cell.total".
func (c *Cell) Ref() string { return CellPrefix + "." + c.Name }

// Refs lists the references of every entry: variables, then constants, then
// cells, each in declaration order.
func (m *Model) Refs() []string {
	refs := make([]string, 0, len(m.Variables)+len(m.Constants)+len(m.Cells))
	for _, v := range m.Variables {
		refs = append(refs, v.Ref())
	}
	for _, c := range m.Constants {
		refs = append(refs, c.Ref())
	}
	for _, c := range m.Cells {
		refs = append(refs, c.Ref())
	}
	return refs
}
