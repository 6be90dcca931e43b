// Package viz renders event trees as Graphviz diagrams.
//
// Speciations are drawn as ovals, duplications as boxes with the
// copied segment underlined, and losses as bare red labels with the
// lost segment bracketed. Edges into full losses are dashed.
package viz

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/superrec/pkg/tree"
)

// ToDOT converts an event tree to Graphviz DOT format. The resulting
// string can be rendered with [RenderSVG], [RenderPDF], or [RenderPNG],
// or piped into the dot tool directly.
func ToDOT(t *tree.Tree) string {
	var buf bytes.Buffer
	buf.WriteString("graph {\n")

	t.PreOrder(func(id tree.NodeID) {
		fmt.Fprintf(&buf, "    n%d [%s];\n", id, nodeAttrs(t.Event(id)))
	})

	buf.WriteString("\n")
	t.PreOrder(func(id tree.NodeID) {
		for _, child := range t.Children(id) {
			fmt.Fprintf(&buf, "    n%d -- n%d", id, child)
			if ev := t.Event(child); ev.Type == tree.Loss && len(ev.Synteny) == 0 {
				buf.WriteString(" [style=dashed]")
			}
			buf.WriteString(";\n")
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(ev *tree.Event) string {
	var attrs string
	switch ev.Type {
	case tree.Loss:
		attrs = `fontcolor="red", shape="none", `
	case tree.None:
		attrs = `shape="none", `
	case tree.Duplication:
		attrs = `shape="box", `
	case tree.Speciation:
		attrs = `shape="oval", `
	}
	return attrs + "label=<" + nodeLabel(ev) + ">"
}

// nodeLabel formats the node's synteny as an HTML-like label, marking
// the event's segment with underlining for duplications and square
// brackets for losses.
func nodeLabel(ev *tree.Event) string {
	opening, closing := "", ""
	switch ev.Type {
	case tree.Duplication:
		opening, closing = "<u>", "</u>"
	case tree.Loss:
		opening, closing = "[", "]"
	}
	marked := !ev.Segment.IsZero()

	var buf bytes.Buffer
	for i, gene := range ev.Synteny {
		if i > 0 {
			buf.WriteString(" ")
		}
		if marked && i == ev.Segment.Start {
			buf.WriteString(opening)
		}
		buf.WriteString(html.EscapeString(string(gene)))
		if marked && i == ev.Segment.End-1 {
			buf.WriteString(closing)
		}
	}
	return buf.String()
}
