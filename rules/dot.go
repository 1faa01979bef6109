package rules

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

var shapes = map[Kind]string{
	RuleKind:      "ellipse",
	ConditionKind: "diamond",
	ActionKind:    "box",
}

// WriteDot renders the graph in Graphviz DOT: action nodes are boxes, conditions diamonds, the
// entry has a double border and parent links are dotted.
func (g *Graph) WriteDot(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %q {\n", g.name)
	for i := range g.nodes {
		n := &g.nodes[i]
		attrs := fmt.Sprintf("label=%q, shape=%s", n.name, shapes[n.kind])
		if n.id == g.root {
			attrs += ", peripheries=2"
		}
		if n.changesActivePlayer {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&b, "  n%d [%s];\n", n.id, attrs)
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.kind == ConditionKind {
			fmt.Fprintf(&b, "  n%d -> n%d [label=\"yes\"];\n", n.id, n.yes)
			fmt.Fprintf(&b, "  n%d -> n%d [label=\"no\"];\n", n.id, n.no)
			continue
		}
		fmt.Fprintf(&b, "  n%d -> n%d;\n", n.id, n.next)
	}

	children := make([]NodeID, 0, len(g.parents))
	for child := range g.parents {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	for _, child := range children {
		fmt.Fprintf(&b, "  n%d -> n%d [style=dotted];\n", child, g.parents[child])
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
