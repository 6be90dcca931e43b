package nhx

import (
	"errors"
	"testing"
)

func TestParseLeaf(t *testing.T) {
	root, err := Parse("gene;")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root.Name != "gene" || len(root.Children) != 0 {
		t.Errorf("unexpected node: %+v", root)
	}
}

func TestParseNested(t *testing.T) {
	root, err := Parse("((a,b)x,(c,d)y)root;")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root.Name != "root" || len(root.Children) != 2 {
		t.Fatalf("unexpected root: %+v", root)
	}
	x := root.Children[0]
	if x.Name != "x" || len(x.Children) != 2 || x.Children[0].Name != "a" || x.Children[1].Name != "b" {
		t.Errorf("unexpected left subtree: %+v", x)
	}
	if root.Children[1].Name != "y" {
		t.Errorf("unexpected right subtree: %+v", root.Children[1])
	}
}

func TestParseLengthsAndTags(t *testing.T) {
	root, err := Parse(`(leaf:2.5[&&NHX:event=loss])anc[&&NHX:event=duplication:segment="0 - 1"];`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	leaf := root.Children[0]
	if leaf.Length != 2.5 {
		t.Errorf("length = %v, want 2.5", leaf.Length)
	}
	if leaf.Tags["event"] != "loss" {
		t.Errorf("leaf tags = %v", leaf.Tags)
	}
	if root.Tags["event"] != "duplication" || root.Tags["segment"] != "0 - 1" {
		t.Errorf("root tags = %v", root.Tags)
	}
}

func TestParseQuotedNames(t *testing.T) {
	root, err := Parse(`"a name, with (delimiters)";`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root.Name != "a name, with (delimiters)" {
		t.Errorf("name = %q", root.Name)
	}

	root, err = Parse(`"say ""hi""";`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root.Name != `say "hi"` {
		t.Errorf("name = %q", root.Name)
	}
}

func TestParseSkipsComments(t *testing.T) {
	root, err := Parse("(a,b)[this is a comment]root;")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root.Name != "root" || len(root.Tags) != 0 {
		t.Errorf("comment should not become tags: %+v", root)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"(a,b",
		"(a,b)x",
		"(a,b)x; trailing",
		"x[&&NHX:novalue];",
		`"unterminated;`,
	}
	for _, input := range bad {
		if _, err := Parse(input); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q): got %v, want ErrSyntax", input, err)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"x;",
		"(a,b)x;",
		"((a,b),(c,d));",
		"(leaf:2.5)anc;",
		"(a[&&NHX:event=loss],b)x[&&NHX:event=speciation];",
		`"needs quoting";`,
	}
	for _, input := range inputs {
		root, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q): %v", input, err)
			continue
		}
		again, err := Parse(Format(root))
		if err != nil {
			t.Errorf("reparse of %q: %v", Format(root), err)
			continue
		}
		if !treesEqual(root, again) {
			t.Errorf("round trip of %q changed the tree: %q", input, Format(again))
		}
	}
}

func TestFormatQuotesDelimiters(t *testing.T) {
	n := &Node{TaggedNode: TaggedNode{Name: "a b"}}
	if got := Format(n); got != `"a b";` {
		t.Errorf("Format = %q", got)
	}
}

func treesEqual(a, b *Node) bool {
	if !a.TaggedNode.Equal(b.TaggedNode) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !treesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
