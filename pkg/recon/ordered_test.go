package recon

import (
	"errors"
	"testing"

	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

// orderedFixture builds the reference instance over the ancestral order
// a b c d, whose minimal history costs two duplications and five
// segmental losses.
func orderedFixture() *tree.Tree {
	t := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a b c d")})
	root := t.Root()

	left := t.AddChild(root, tree.Event{Type: tree.Speciation})
	t.AddChild(left, tree.Event{Synteny: synteny.Parse("a d")})
	dup := t.AddChild(left, tree.Event{Type: tree.Duplication})
	t.AddChild(dup, tree.Event{Synteny: synteny.Parse("a b c")})
	t.AddChild(dup, tree.Event{Synteny: synteny.Parse("a b d")})

	right := t.AddChild(root, tree.Event{Type: tree.Duplication})
	spec := t.AddChild(right, tree.Event{Type: tree.Speciation})
	t.AddChild(spec, tree.Event{Synteny: synteny.Parse("a b c d")})
	t.AddChild(spec, tree.Event{Synteny: synteny.Parse("a b c")})
	outer := t.AddChild(right, tree.Event{Type: tree.Speciation})
	t.AddChild(outer, tree.Event{Synteny: synteny.Parse("b c d")})
	inner := t.AddChild(outer, tree.Event{Type: tree.Speciation})
	t.AddChild(inner, tree.Event{Synteny: synteny.Parse("b d")})
	t.AddChild(inner, tree.Event{Synteny: synteny.Parse("d")})

	return t
}

func TestOrderedFixtureCost(t *testing.T) {
	tr := orderedFixture()

	cost, err := Ordered(tr)
	if err != nil {
		t.Fatalf("Ordered() error = %v", err)
	}
	if cost != 7 {
		t.Errorf("cost = %d, want 7", cost)
	}
	if got := tr.Event(tr.Root()).Synteny.String(); got != "a b c d" {
		t.Errorf("root synteny = %q, want unchanged", got)
	}
	if score := tr.DLScore(); score != 7 {
		t.Errorf("DLScore() = %d, want 7", score)
	}
}

func TestOrderedFixtureLabels(t *testing.T) {
	tr := orderedFixture()
	if _, err := Ordered(tr); err != nil {
		t.Fatalf("Ordered() error = %v", err)
	}

	root := tr.Root()
	kids := tr.Children(root)
	if len(kids) != 2 {
		t.Fatalf("root has %d children, want 2", len(kids))
	}
	for _, kid := range kids {
		if got := tr.Event(kid).Synteny.String(); got != "a b c d" {
			t.Errorf("root child synteny = %q, want %q", got, "a b c d")
		}
	}

	rightTop := tr.Event(kids[1])
	if rightTop.Type != tree.Duplication {
		t.Fatalf("right child type = %s, want Duplication", rightTop.Type)
	}
	if want := (synteny.Segment{Start: 1, End: 4}); rightTop.Segment != want {
		t.Errorf("right duplication segment = %s, want %s", rightTop.Segment, want)
	}

	// The second copy descends from the b..d substring and needs no
	// loss on its edge.
	rightKids := tr.Children(kids[1])
	second := tr.Event(rightKids[1])
	if second.Type != tree.Speciation || second.Synteny.String() != "b c d" {
		t.Errorf("partial copy = %v, want Speciation over b c d", second)
	}

	var dupSegments []synteny.Segment
	var lossLabels []string
	tr.PostOrder(func(id tree.NodeID) {
		switch ev := tr.Event(id); ev.Type {
		case tree.Duplication:
			dupSegments = append(dupSegments, ev.Segment)
		case tree.Loss:
			lossLabels = append(lossLabels, ev.Synteny.String())
		}
	})

	wantSegments := []synteny.Segment{{Start: 0, End: 3}, {Start: 1, End: 4}}
	if len(dupSegments) != len(wantSegments) {
		t.Fatalf("duplications = %v, want %v", dupSegments, wantSegments)
	}
	for i, seg := range wantSegments {
		if dupSegments[i] != seg {
			t.Errorf("duplication segment[%d] = %s, want %s", i, dupSegments[i], seg)
		}
	}

	wantLosses := map[string]int{"a d": 1, "a b d": 1, "a b c": 1, "b d": 1, "d": 1}
	if len(lossLabels) != 5 {
		t.Fatalf("spliced losses = %v, want 5 of them", lossLabels)
	}
	for _, label := range lossLabels {
		if wantLosses[label] == 0 {
			t.Errorf("unexpected loss over %q", label)
		}
		wantLosses[label]--
	}
}

func TestOrderedCollapsesEmptyBranch(t *testing.T) {
	tr := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a")})
	tr.AddChild(tr.Root(), tree.Event{Synteny: synteny.Parse("a")})
	gone := tr.AddChild(tr.Root(), tree.Event{Type: tree.Speciation})
	tr.AddChild(gone, tree.Event{Type: tree.Loss})
	tr.AddChild(gone, tree.Event{Type: tree.Loss})

	cost, err := Ordered(tr)
	if err != nil {
		t.Fatalf("Ordered() error = %v", err)
	}
	if cost != 1 {
		t.Errorf("cost = %d, want 1", cost)
	}

	// The branch with no surviving genes becomes a single full-loss
	// leaf, not a chain of stacked losses.
	kids := tr.Children(tr.Root())
	if got := tr.Event(kids[1]); !got.IsFullLoss() {
		t.Fatalf("empty branch = %v, want full loss", got)
	}
	if n := len(tr.Children(kids[1])); n != 0 {
		t.Errorf("full loss has %d children, want none", n)
	}
	if score := tr.DLScore(); score != 1 {
		t.Errorf("DLScore() = %d, want 1", score)
	}
}

func TestOrderedInconsistent(t *testing.T) {
	tr := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a b")})
	tr.AddChild(tr.Root(), tree.Event{Synteny: synteny.Parse("a b")})
	tr.AddChild(tr.Root(), tree.Event{Synteny: synteny.Parse("b a")})

	if _, err := Ordered(tr); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("Ordered() error = %v, want ErrInconsistent", err)
	}
}

func TestOrderedMalformed(t *testing.T) {
	unary := tree.New(tree.Event{Type: tree.Speciation, Synteny: synteny.Parse("a b")})
	unary.AddChild(unary.Root(), tree.Event{Synteny: synteny.Parse("a b")})
	if _, err := Ordered(unary); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("unary internal: error = %v, want ErrMalformedTree", err)
	}

	untyped := tree.New(tree.Event{Synteny: synteny.Parse("a b")})
	untyped.AddChild(untyped.Root(), tree.Event{Synteny: synteny.Parse("a")})
	untyped.AddChild(untyped.Root(), tree.Event{Synteny: synteny.Parse("b")})
	if _, err := Ordered(untyped); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("untyped internal: error = %v, want ErrMalformedTree", err)
	}
}
