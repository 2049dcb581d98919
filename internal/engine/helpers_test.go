package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// inputKind is an independent kind that is never memoized.
var inputKind = &Kind{
	Name:        "input",
	Independent: true,
	KeyData: func(e *Engine, _ Params) (string, error) {
		return strconv.Itoa(e.NextSerial()), nil
	},
}

func newInput(t *testing.T, e *Engine, name string, v int64) *Node {
	t.Helper()
	n, err := e.Construct(inputKind, Params{})
	require.NoError(t, err)
	n.SetName(name)
	require.NoError(t, n.SetValue(cty.NumberIntVal(v)))
	return n
}

// sums builds kinds that add up their argument values and remember the
// order in which nodes were computed.
type sums struct {
	computed []string
}

func (s *sums) kind() *Kind {
	return &Kind{
		Name: "sum",
		Compute: func(c *Call) (cty.Value, error) {
			s.computed = append(s.computed, c.Node.Label())
			total := cty.NumberIntVal(0)
			for _, v := range c.Args {
				total = total.Add(v)
			}
			for _, v := range c.Kwargs {
				total = total.Add(v)
			}
			return total, nil
		},
	}
}

func newSum(t *testing.T, e *Engine, kind *Kind, name string, args ...any) *Node {
	t.Helper()
	n, err := e.Construct(kind, Args(append([]any{name}, args...)...))
	require.NoError(t, err)
	n.SetName(name)
	return n
}

func mustValue(t *testing.T, n *Node) cty.Value {
	t.Helper()
	v, err := n.Value()
	require.NoError(t, err)
	return v
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func collect(e *Engine) *[]Event {
	var events []Event
	e.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}
