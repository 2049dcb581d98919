package sheet

import (
	"errors"
	"fmt"

	"github.com/vk/recalcgo/internal/config"
	"github.com/vk/recalcgo/internal/engine"
	"github.com/vk/recalcgo/internal/hclexpr"
	"github.com/vk/recalcgo/internal/nodekey"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// cellKind returns the kind of this sheet's cells. Cells are keyed by name
// alone, and constructing a cell twice is an error.
func (s *Sheet) cellKind() *engine.Kind {
	return &engine.Kind{
		Name:     "Cell",
		KeySpace: config.CellPrefix,
		Policy:   engine.Exclusive,
		KeyData: func(_ *engine.Engine, p engine.Params) (string, error) {
			if len(p.Positional) != 1 {
				return "", errors.New("a cell takes exactly one name")
			}
			name, ok := p.Positional[0].(string)
			if !ok || name == "" {
				return "", fmt.Errorf("cell name must be a non-empty string, got %v", p.Positional[0])
			}
			return name, nil
		},
		Init:    s.initCell,
		Compute: s.computeCell,
	}
}

func (s *Sheet) initCell(n *engine.Node, p engine.Params) error {
	name := n.Key().Data
	f, ok := s.formulas[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownReference, config.CellPrefix, name)
	}
	n.SetName(f.cell.Ref())
	s.nodes[f.cell.Ref()] = n

	parents, err := s.resolve(f.refs)
	if err != nil {
		delete(s.nodes, f.cell.Ref())
		return err
	}
	return n.SetArgs(nil, parents)
}

// cellNode returns the node of a cell, creating it on first use. Cells
// referenced by a cell under construction are created from its Init, so
// creation follows the reference graph.
func (s *Sheet) cellNode(name string) (*engine.Node, error) {
	if n, ok := s.engine.Lookup(nodekey.New(config.CellPrefix, name)); ok {
		return n, nil
	}
	return s.engine.Construct(s.kind, engine.Args(name))
}

// resolve maps references to the nodes bound to them.
func (s *Sheet) resolve(refs []hclexpr.Reference) (map[string]*engine.Node, error) {
	parents := make(map[string]*engine.Node, len(refs))
	for _, ref := range refs {
		var (
			n   *engine.Node
			err error
		)
		if ref.Prefix == config.CellPrefix {
			n, err = s.cellNode(ref.Name)
		} else if bound, ok := s.nodes[ref.String()]; ok {
			n = bound
		} else {
			err = fmt.Errorf("%w: %s", ErrUnknownReference, ref)
		}
		if err != nil {
			return nil, err
		}
		parents[ref.String()] = n
	}
	return parents, nil
}

// computeCell evaluates the cell's expression against the values of its
// keyword arguments.
func (s *Sheet) computeCell(c *engine.Call) (cty.Value, error) {
	name := c.Node.Key().Data
	f, ok := s.formulas[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %s.%s", ErrUnknownReference, config.CellPrefix, name)
	}

	v, diags := f.expr.Value(hclexpr.EvalContext(s.functions, c.Kwargs))
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating %s: %w", f.cell.Ref(), diags)
	}
	if f.cell.Type == cty.NilType {
		return v, nil
	}
	converted, err := convert.Convert(v, f.cell.Type)
	if err != nil {
		return cty.NilVal, fmt.Errorf("evaluating %s: result is not a %s: %w", f.cell.Ref(), f.cell.Type.FriendlyName(), err)
	}
	return converted, nil
}
