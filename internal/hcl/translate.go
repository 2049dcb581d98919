package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/vk/recalcgo/internal/config"
	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/vk/recalcgo/internal/hclexpr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate appends the blocks of one decoded file to model.
func (l *Loader) translate(ctx context.Context, file *hcl.File, root *fileRoot, model *config.Model, names nameSet) hcl.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	var diags hcl.Diagnostics

	for _, b := range root.Variables {
		v, moreDiags := l.translateVariable(ctx, b)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}
		diags = append(diags, names.claim(v.Ref(), v.Range)...)
		model.Variables = append(model.Variables, v)
	}

	for _, b := range root.Constants {
		value, moreDiags := hclexpr.Static(b.Value, l.functions)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}
		c := &config.Constant{Name: b.Name, Value: value, Range: b.Value.Range()}
		diags = append(diags, names.claim(c.Ref(), c.Range)...)
		model.Constants = append(model.Constants, c)
	}

	for _, b := range root.Cells {
		ty, moreDiags := typeConstraint(ctx, b.Type)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}
		c := &config.Cell{
			Name:   b.Name,
			Type:   ty,
			Expr:   b.Expr,
			Source: string(b.Expr.Range().SliceBytes(file.Bytes)),
			Range:  b.Expr.Range(),
		}
		diags = append(diags, names.claim(c.Ref(), c.Range)...)
		model.Cells = append(model.Cells, c)
		logger.Debug("Cell translated.", "cell", c.Name, "expr", c.Source)
	}

	return diags
}

// translateVariable evaluates the type constraint and initial value of a
// variable block. A missing or null value leaves the variable unset.
func (l *Loader) translateVariable(ctx context.Context, b *variableBlock) (*config.Variable, hcl.Diagnostics) {
	ty, diags := typeConstraint(ctx, b.Type)
	if diags.HasErrors() {
		return nil, diags
	}
	v := &config.Variable{Name: b.Name, Type: ty, Value: cty.NilVal, Range: b.Value.Range()}
	if !isExprDefined(ctx, b.Value, "value") {
		return v, diags
	}

	value, moreDiags := hclexpr.Static(b.Value, l.functions)
	diags = append(diags, moreDiags...)
	if moreDiags.HasErrors() || value.IsNull() {
		return v, diags
	}

	converted, err := convert.Convert(value, ty)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value for variable",
			Detail:   fmt.Sprintf("The value of var.%s is not a %s: %s.", b.Name, ty.FriendlyName(), err),
			Subject:  b.Value.Range().Ptr(),
		})
	}
	v.Value = converted
	return v, diags
}

// typeConstraint parses an optional type expression such as number or
// list(string). A missing expression allows any type.
func typeConstraint(ctx context.Context, expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	if !isExprDefined(ctx, expr, "type") {
		return cty.DynamicPseudoType, nil
	}
	return typeexpr.TypeConstraint(expr)
}

// isExprDefined reports whether an optional attribute was written in the
// source. gohcl fills omitted optional expressions with a zero-width
// placeholder, so a nil check alone is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	defined := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checked optional attribute.",
		"attribute", attrName,
		"hcl_range", rng.String(),
		"is_defined", defined,
	)
	return defined
}
