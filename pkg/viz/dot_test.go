package viz

import (
	"strings"
	"testing"

	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

func TestToDOTConventions(t *testing.T) {
	tr := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a b c")})
	dup := tr.AddChild(tr.Root(), tree.Event{
		Type:    tree.Duplication,
		Synteny: synteny.Parse("a b c"),
		Segment: synteny.Segment{Start: 0, End: 2},
	})
	tr.AddChild(dup, tree.Event{Synteny: synteny.Parse("a b c")})
	tr.AddChild(dup, tree.Event{Synteny: synteny.Parse("a b")})
	loss := tr.AddChild(tr.Root(), tree.Event{
		Type:    tree.Loss,
		Synteny: synteny.Parse("a b c"),
		Segment: synteny.Segment{Start: 2, End: 3},
	})
	tr.AddChild(loss, tree.Event{Synteny: synteny.Parse("a b")})

	dot := ToDOT(tr)

	if !strings.HasPrefix(dot, "graph {") {
		t.Fatalf("output is not an undirected graph:\n%s", dot)
	}
	for _, want := range []string{
		`shape="oval", label=<a b c>`,
		`shape="box", label=<<u>a b</u> c>`,
		`fontcolor="red", shape="none", label=<a b [c]>`,
		`shape="none", label=<a b>`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "style=dashed") {
		t.Errorf("no full loss present, yet a dashed edge rendered:\n%s", dot)
	}
}

func TestToDOTFullLossEdge(t *testing.T) {
	tr := tree.New(tree.Event{Type: tree.Duplication, Synteny: synteny.Parse("a")})
	tr.AddChild(tr.Root(), tree.Event{Synteny: synteny.Parse("a")})
	tr.AddChild(tr.Root(), tree.Event{Type: tree.Loss})

	dot := ToDOT(tr)
	if !strings.Contains(dot, "[style=dashed]") {
		t.Errorf("edge into a full loss should be dashed:\n%s", dot)
	}
}

func TestToDOTEscapesLabels(t *testing.T) {
	tr := tree.New(tree.Event{Synteny: synteny.Parse("cox<1>")})

	dot := ToDOT(tr)
	if !strings.Contains(dot, "cox&lt;1&gt;") {
		t.Errorf("gene name not escaped:\n%s", dot)
	}
}
