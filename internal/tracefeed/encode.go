package tracefeed

import (
	"fmt"

	"github.com/vk/recalcgo/internal/engine"
	"github.com/zclconf/go-cty/cty"
)

// Encode converts ev into a payload of strings, numbers, booleans, maps and
// slices.
func Encode(ev engine.Event) map[string]any {
	payload := map[string]any{
		"type": ev.Type.String(),
		"node": ev.Node.Label(),
		"key":  ev.Node.Key().String(),
		"kind": ev.Node.Kind().Name,
	}
	switch ev.Type {
	case engine.StateChanged:
		payload["from"] = ev.OldState.String()
		payload["to"] = ev.NewState.String()
	case engine.ValueChanged:
		payload["old"] = valueOrText(ev.OldValue)
		payload["new"] = valueOrText(ev.NewValue)
	case engine.ArgAdded, engine.ArgRemoved:
		payload["slot"] = ev.Slot()
		payload["parent"] = ev.Parent.Label()
	case engine.StackPushed:
		payload["depth"] = ev.Depth
	case engine.StackPopped:
		payload["depth"] = ev.Depth
		if ev.Err != nil {
			payload["error"] = ev.Err.Error()
		}
	}
	return payload
}

// valueOrText converts v to plain Go data, falling back to its display form
// for values that have none.
func valueOrText(v cty.Value) any {
	if v.Type() == cty.NilType {
		return nil
	}
	out, err := valueToInterface(v)
	if err != nil {
		return engine.FormatValue(v)
	}
	return out
}

// valueToInterface converts a cty.Value to plain Go data.
func valueToInterface(val cty.Value) (any, error) {
	val, _ = val.UnmarkDeep()
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			elem, err := valueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = elem
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			elem, err := valueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", ty.FriendlyName())
	}
}
