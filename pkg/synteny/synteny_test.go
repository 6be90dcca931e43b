package synteny

import (
	"errors"
	"testing"

	"github.com/matzehuels/superrec/pkg/extnum"
)

func TestParseAndString(t *testing.T) {
	s := Parse("  cox1   cox2\tcox3 ")
	if len(s) != 3 {
		t.Fatalf("Parse: got %d genes, want 3", len(s))
	}
	if s.String() != "cox1 cox2 cox3" {
		t.Errorf("String: %q", s.String())
	}
	if p := Parse("   "); p != nil {
		t.Errorf("blank input should parse to nil, got %v", p)
	}
}

func TestSubsequencesCount(t *testing.T) {
	for n := 0; n <= 6; n++ {
		s := make(Synteny, n)
		for i := range s {
			s[i] = Gene(string(rune('a' + i)))
		}
		subs := s.Subsequences()
		if len(subs) != 1<<n {
			t.Errorf("n=%d: got %d subsequences, want %d", n, len(subs), 1<<n)
		}
	}
}

func TestSubsequencesOrder(t *testing.T) {
	subs := Parse("a b").Subsequences()

	// For each subsequence of the tail, the variant without the head
	// gene comes first.
	want := []string{"", "a", "b", "a b"}
	for i, sub := range subs {
		if sub.String() != want[i] {
			t.Errorf("subsequence %d = %q, want %q", i, sub.String(), want[i])
		}
	}
}

func TestDistanceTo(t *testing.T) {
	s0 := Parse("1 2 3 4 5 6 7 8 9")
	s1 := Parse("1 4 5 6")
	s3 := Parse("2 4 8")

	cases := []struct {
		name      string
		from, to  Synteny
		substring bool
		want      int
	}{
		{"interior and trailing runs", s0, s1, false, 2},
		{"trailing run free as substring", s0, s1, true, 1},
		{"scattered target", s0, s3, false, 4},
		{"scattered target substring", s0, s3, true, 2},
		{"identity", s0, s0, false, 0},
		{"to empty", s1, nil, false, 1},
		{"to empty substring", s1, nil, true, 0},
	}
	for _, tc := range cases {
		got, err := tc.from.DistanceTo(tc.to, tc.substring)
		if err != nil {
			t.Errorf("%s: error %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: distance %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDistanceToNotSubsequence(t *testing.T) {
	s3 := Parse("2 4 8")
	s0 := Parse("1 2 3 4 5 6 7 8 9")

	if _, err := s3.DistanceTo(s0, false); !errors.Is(err, ErrNotSubsequence) {
		t.Errorf("expected ErrNotSubsequence, got %v", err)
	}
	if _, err := Parse("a b").DistanceTo(Parse("b a"), false); !errors.Is(err, ErrNotSubsequence) {
		t.Errorf("out-of-order target should fail, got %v", err)
	}
}

func TestReconcileSegments(t *testing.T) {
	s0 := Parse("1 2 3 4 5 6 7 8 9")

	segs, err := s0.Reconcile(Parse("1 4 5 6"), false, extnum.PosInf[int]())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	want := []Segment{{Start: 1, End: 3}, {Start: 6, End: 9}}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, segs[i], want[i])
		}
	}

	// Removing the segments must produce the target.
	if got := s0.WithoutSegments(segs); !got.Equal(Parse("1 4 5 6")) {
		t.Errorf("WithoutSegments = %q", got.String())
	}
}

func TestReduce(t *testing.T) {
	s0 := Parse("1 2 3 4 5 6 7 8 9")

	// One counted loss erased, the rest untouched.
	reduced, err := s0.Reduce(Parse("1 4 5 6"), false, extnum.Finite(1))
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	if !reduced.Equal(Parse("1 4 5 6 7 8 9")) {
		t.Errorf("Reduce = %q", reduced.String())
	}

	// In substring mode boundary runs are erased without counting.
	reduced, err = s0.Reduce(Parse("2 4 8"), true, extnum.Finite(1))
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	if !reduced.Equal(Parse("2 4 5 6 7 8 9")) {
		t.Errorf("Reduce substring = %q", reduced.String())
	}
}

func TestGeneSet(t *testing.T) {
	set := Parse("a b a").GeneSet()
	if len(set) != 2 {
		t.Errorf("GeneSet size %d, want 2", len(set))
	}
	if _, ok := set["a"]; !ok {
		t.Error("GeneSet should contain a")
	}
}

func TestSegment(t *testing.T) {
	seg := Segment{Start: 2, End: 5}
	if seg.Len() != 3 {
		t.Errorf("Len = %d", seg.Len())
	}
	if seg.IsZero() {
		t.Error("non-empty segment should not be zero")
	}
	if !(Segment{}).IsZero() {
		t.Error("zero segment should be zero")
	}
}
