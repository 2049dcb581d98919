// Package dot renders a snapshot of an engine's node graph in Graphviz DOT
// format.
//
// Every node becomes a record showing its argument slots, its kind and name,
// and its value (or its state when not Valid), filled by state. Edges run
// from a parent's value port to the argument slot of the dependent. Edges
// between nodes that are currently evaluating one another are drawn thick,
// and a node created by another node's initialization that has not yet been
// wired as its argument is linked to its creator by a dashed edge.
//
// Rendering only reads public node state; it never triggers evaluation.
package dot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/recalcgo/internal/engine"
)

// Options controls rendering.
type Options struct {
	// Label is the graph title.
	Label string
}

var stateColors = map[engine.State]string{
	engine.Valid:   "#ddffdd",
	engine.Pending: "#ffffdd",
	engine.Invalid: "#ffdddd",
}

const header = `digraph G {
node [shape=record style=filled]
node [fontname=courier]
edge [fontname=courier]
graph [fontname=courier labelloc=t]
`

// Render writes the DOT source for e to w.
func Render(w io.Writer, e *engine.Engine, opts Options) error {
	_, err := io.WriteString(w, Source(e, opts))
	return err
}

// Source returns the DOT source for e.
func Source(e *engine.Engine, opts Options) string {
	nodes := e.Nodes()
	ids := make(map[*engine.Node]string, len(nodes))
	for i, n := range nodes {
		ids[n] = "n" + strconv.Itoa(i)
	}

	type pair struct{ dependent, parent *engine.Node }
	highlighted := make(map[pair]bool)
	stack := e.CallStack()
	for i := 0; i+1 < len(stack); i++ {
		highlighted[pair{stack[i], stack[i+1]}] = true
	}

	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "label=%s\n", quote(opts.Label))

	for _, n := range nodes {
		fmt.Fprintf(&b, "%s [label=%s fillcolor=%s]\n", ids[n], quote(recordLabel(n)), quote(stateColors[n.State()]))
	}

	for _, n := range nodes {
		if creator := n.CreatedBy(); creator != nil && creator.RefCount(n) == 0 {
			if creatorID, ok := ids[creator]; ok {
				fmt.Fprintf(&b, "%s -> %s [style=dashed]\n", ids[n], creatorID)
			}
		}

		edge := func(parent *engine.Node, slot string) {
			parentID, ok := ids[parent]
			if !ok {
				return
			}
			fmt.Fprintf(&b, "%s:\"!\":s -> %s:%s:n", parentID, ids[n], quote(slot))
			if highlighted[pair{n, parent}] {
				b.WriteString(" [penwidth=4]")
			}
			b.WriteString("\n")
		}
		for i, arg := range n.Args() {
			edge(arg, strconv.Itoa(i))
		}
		for _, kw := range n.Kwargs() {
			edge(kw.Value, kw.Key)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// recordLabel builds {{<0>0|<name>name}|Kind name|<!>value}.
func recordLabel(n *engine.Node) string {
	var rows []string

	var slots []string
	for i := range n.Args() {
		s := strconv.Itoa(i)
		slots = append(slots, "<"+s+">"+s)
	}
	for _, kw := range n.Kwargs() {
		s := escapeRecord(kw.Key)
		slots = append(slots, "<"+s+">"+s)
	}
	if len(slots) > 0 {
		rows = append(rows, "{"+strings.Join(slots, "|")+"}")
	}

	title := n.Kind().Name
	if name := n.Name(); name != "" {
		title += " " + name
	}
	rows = append(rows, escapeRecord(title))

	value := n.State().String()
	if v, ok := n.Cached(); ok {
		value = engine.FormatValue(v)
	}
	rows = append(rows, "<!>"+escapeRecord(value))

	return "{" + strings.Join(rows, "|") + "}"
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
	"\n", `\n`,
)

// escapeRecord escapes the characters that structure a record label.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
