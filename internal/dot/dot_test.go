package dot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/recalcgo/internal/engine"
	"github.com/vk/recalcgo/internal/nodes"
	"github.com/zclconf/go-cty/cty"
)

func TestSource_RecordsAndEdges(t *testing.T) {
	// --- Arrange ---
	e := engine.New()
	x, err := nodes.NamedVar(e, "x", 2)
	require.NoError(t, err)
	sq, err := nodes.Mul(e, x, x)
	require.NoError(t, err)
	sq.SetName("square")

	// --- Act ---
	src := Source(e, Options{Label: "before"})

	// --- Assert ---
	assert.Contains(t, src, "digraph G {\n")
	assert.Contains(t, src, `label="before"`)
	assert.Contains(t, src, `n0 [label="{Var x|<!>2}" fillcolor="#ddffdd"]`)
	assert.Contains(t, src, `n1 [label="{{<0>0|<1>1}|Mul square|<!>invalid}" fillcolor="#ffdddd"]`)
	assert.Contains(t, src, `n0:"!":s -> n1:"0":n`+"\n")
	assert.Contains(t, src, `n0:"!":s -> n1:"1":n`+"\n")

	_, err = sq.Value()
	require.NoError(t, err)
	assert.Contains(t, Source(e, Options{}), `n1 [label="{{<0>0|<1>1}|Mul square|<!>4}" fillcolor="#ddffdd"]`)
}

func TestSource_Escaping(t *testing.T) {
	e := engine.New()
	c, err := nodes.Const(e, "a|b{c}")
	require.NoError(t, err)
	_ = c

	src := Source(e, Options{Label: `say "hi"`})
	assert.Contains(t, src, `label="say \"hi\""`)
	assert.Contains(t, src, `<!>\"a\|b\{c\}\"}"`)
}

func TestSource_HighlightsCallStack(t *testing.T) {
	e := engine.New()
	var during string
	snapshot := &engine.Kind{
		Name: "snapshot",
		Compute: func(c *engine.Call) (cty.Value, error) {
			during = Source(e, Options{})
			return cty.True, nil
		},
	}
	inner, err := e.Construct(snapshot, engine.Args())
	require.NoError(t, err)
	outer, err := nodes.Func(e, "coalesce", inner)
	require.NoError(t, err)

	_, err = outer.Value()
	require.NoError(t, err)

	// n0 is inner, n1 the function node, n2 the "coalesce" name constant.
	assert.Contains(t, during, `n0:"!":s -> n1:"1":n [penwidth=4]`)
	assert.Contains(t, during, `n2:"!":s -> n1:"0":n`+"\n")
	assert.Contains(t, during, `fillcolor="#ffffdd"`)
	assert.NotContains(t, Source(e, Options{}), "penwidth")
}

func TestSource_CreatorEdge(t *testing.T) {
	e := engine.New()
	var child *engine.Node
	childKind := &engine.Kind{Name: "child"}
	parentKind := &engine.Kind{
		Name: "parent",
		Init: func(n *engine.Node, p engine.Params) error {
			var err error
			child, err = n.Engine().Construct(childKind, engine.Args())
			return err
		},
	}
	parent, err := e.Construct(parentKind, engine.Args())
	require.NoError(t, err)

	assert.Contains(t, Source(e, Options{}), "n1 -> n0 [style=dashed]")

	require.NoError(t, parent.AppendArgs(child))
	assert.NotContains(t, Source(e, Options{}), "style=dashed")
}

func TestRender(t *testing.T) {
	e := engine.New()
	_, err := nodes.Const(e, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, e, Options{Label: "one"}))
	assert.Equal(t, Source(e, Options{Label: "one"}), buf.String())
}
