package recon

import (
	"math/rand"
	"testing"

	"github.com/matzehuels/superrec/pkg/simulate"
	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

func TestEraseStripsHistory(t *testing.T) {
	tr := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a b")})
	loss := tr.AddChild(tr.Root(), tree.Event{
		Type:    tree.Loss,
		Synteny: synteny.Parse("a b"),
		Segment: synteny.Segment{Start: 1, End: 2},
	})
	tr.AddChild(loss, tree.Event{Synteny: synteny.Parse("a")})
	dup := tr.AddChild(tr.Root(), tree.Event{
		Type:    tree.Duplication,
		Synteny: synteny.Parse("a b"),
		Segment: synteny.Segment{Start: 0, End: 2},
	})
	tr.AddChild(dup, tree.Event{Synteny: synteny.Parse("a b")})
	tr.AddChild(dup, tree.Event{Type: tree.Loss})

	Erase(tr)

	root := tr.Event(tr.Root())
	if root.Synteny.String() != "a b" {
		t.Errorf("root synteny = %q, want kept", root.Synteny.String())
	}

	kids := tr.Children(tr.Root())
	if len(kids) != 2 {
		t.Fatalf("root has %d children, want 2", len(kids))
	}

	// The intermediate loss is spliced out and its leaf takes its
	// place on the edge.
	first := tr.Event(kids[0])
	if first.Type != tree.None || first.Synteny.String() != "a" {
		t.Errorf("first child = %v, want observed leaf a", first)
	}

	second := tr.Event(kids[1])
	if second.Type != tree.Duplication {
		t.Fatalf("second child type = %s, want Duplication", second.Type)
	}
	if len(second.Synteny) != 0 || !second.Segment.IsZero() {
		t.Errorf("duplication label not cleared: %v", second)
	}

	dupKids := tr.Children(kids[1])
	if got := tr.Event(dupKids[0]); got.Synteny.String() != "a b" {
		t.Errorf("observed leaf = %v, want a b", got)
	}
	if got := tr.Event(dupKids[1]); !got.IsFullLoss() {
		t.Errorf("full loss leaf = %v, want kept as full loss", got)
	}
}

func TestEraseSimulatedHistory(t *testing.T) {
	params := simulate.DefaultParams(simulate.Dummy(5))
	tr := simulate.Evolution(rand.New(rand.NewSource(7)), params)

	Erase(tr)

	tr.PostOrder(func(id tree.NodeID) {
		ev := tr.Event(id)
		switch ev.Type {
		case tree.Loss:
			if len(tr.Children(id)) != 0 {
				t.Errorf("loss node %v still has children", ev)
			}
			if len(ev.Synteny) != 0 || !ev.Segment.IsZero() {
				t.Errorf("loss node %v still labeled", ev)
			}
		case tree.Duplication, tree.Speciation:
			if id != tr.Root() && len(ev.Synteny) != 0 {
				t.Errorf("internal node %v still labeled", ev)
			}
		case tree.None:
			if len(ev.Synteny) == 0 {
				t.Errorf("observed leaf lost its synteny")
			}
		}
	})

	if got := tr.Event(tr.Root()).Synteny.String(); got != params.Base.String() {
		t.Errorf("root synteny = %q, want %q", got, params.Base.String())
	}
}
