package hclexpr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/recalcgo/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// TraversalKey returns the canonical source form of t, e.g. var.foo[0].bar.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// Reference names one workbook entry used by an expression.
type Reference struct {
	Prefix string
	Name   string
	Range  hcl.Range
}

// String returns the reference in source form, e.g. cell.total.
func (r Reference) String() string {
	return r.Prefix + "." + r.Name
}

// Split parses a reference string such as "var.a".
func Split(ref string) (prefix, name string, err error) {
	prefix, name, ok := strings.Cut(ref, ".")
	if !ok || name == "" || !isPrefix(prefix) {
		return "", "", fmt.Errorf("invalid reference %q: want var.NAME, const.NAME or cell.NAME", ref)
	}
	return prefix, name, nil
}

func isPrefix(s string) bool {
	switch s {
	case config.VariablePrefix, config.ConstantPrefix, config.CellPrefix:
		return true
	}
	return false
}

// References returns the workbook entries used by expr, sorted and without
// duplicates. Attribute and index steps after the entry name are allowed
// and ignored. Any other variable is reported as a diagnostic.
func References(expr hcl.Expression) ([]Reference, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	seen := make(map[string]Reference)

	for _, t := range expr.Variables() {
		root := t.RootName()
		var name string
		if len(t) > 1 {
			if attr, ok := t[1].(hcl.TraverseAttr); ok {
				name = attr.Name
			}
		}
		if !isPrefix(root) || name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid reference",
				Detail:   fmt.Sprintf("%s is not a workbook reference; use var.NAME, const.NAME or cell.NAME.", TraversalKey(t)),
				Subject:  t.SourceRange().Ptr(),
			})
			continue
		}
		ref := Reference{Prefix: root, Name: name, Range: t.SourceRange()}
		if _, ok := seen[ref.String()]; !ok {
			seen[ref.String()] = ref
		}
	}

	refs := make([]Reference, 0, len(seen))
	for _, ref := range seen {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(a, b Reference) int {
		return strings.Compare(a.String(), b.String())
	})
	return refs, diags
}

// Functions returns the names of the functions called by expr, sorted and
// without duplicates. Expressions that are not native syntax call none.
func Functions(expr hcl.Expression) []string {
	syntaxExpr, ok := expr.(hclsyntax.Expression)
	if !ok {
		return nil
	}
	var names []string
	hclsyntax.VisitAll(syntaxExpr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			names = append(names, call.Name)
		}
		return nil
	})
	slices.Sort(names)
	return slices.Compact(names)
}

// CheckFunctions reports every function called by expr that is missing from
// table.
func CheckFunctions(expr hcl.Expression, table map[string]function.Function) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, name := range Functions(expr) {
		if _, ok := table[name]; !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Call to unknown function",
				Detail:   fmt.Sprintf("There is no function named %q.", name),
				Subject:  expr.Range().Ptr(),
			})
		}
	}
	return diags
}

// Parse parses src as a single native syntax expression.
func Parse(src, filename string) (hcl.Expression, hcl.Diagnostics) {
	return hclsyntax.ParseExpression([]byte(src), filename, hcl.Pos{Line: 1, Column: 1, Byte: 0})
}

// EvalContext returns an evaluation context holding table and the values of
// refs grouped by prefix, so that var.a resolves to values["var.a"].
func EvalContext(table map[string]function.Function, values map[string]cty.Value) *hcl.EvalContext {
	grouped := make(map[string]map[string]cty.Value)
	for ref, v := range values {
		prefix, name, err := Split(ref)
		if err != nil {
			continue
		}
		if grouped[prefix] == nil {
			grouped[prefix] = make(map[string]cty.Value)
		}
		grouped[prefix][name] = v
	}

	ctx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value, len(grouped)),
		Functions: table,
	}
	for prefix, attrs := range grouped {
		ctx.Variables[prefix] = cty.ObjectVal(attrs)
	}
	return ctx
}

// Static evaluates an expression that uses no workbook references.
func Static(expr hcl.Expression, table map[string]function.Function) (cty.Value, hcl.Diagnostics) {
	refs, diags := References(expr)
	for _, ref := range refs {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Reference not allowed",
			Detail:   fmt.Sprintf("%s cannot be used here; only literal values and function calls are allowed.", ref),
			Subject:  ref.Range.Ptr(),
		})
	}
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return expr.Value(EvalContext(table, nil))
}
