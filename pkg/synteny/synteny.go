// Package synteny provides ordered gene blocks and the comparison
// primitives used by reconciliation.
//
// A synteny is an ordered sequence of gene family identifiers recording
// the physical arrangement of genes along a chromosomal segment at one
// point in evolutionary history. The package implements order-preserving
// subsequence enumeration, the segmental loss distance between a synteny
// and one of its subsequences, and the greedy alignment that identifies
// the lost segments themselves.
//
// Synteny values behave like slices: callers that need an independent
// copy must clone before mutating.
package synteny

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/superrec/pkg/extnum"
)

// ErrNotSubsequence is returned by DistanceTo and Reconcile when the
// target synteny is not an order-preserving subsequence of the source.
var ErrNotSubsequence = errors.New("target is not a subsequence of the source synteny")

// Gene is a gene family identifier. Genes are compared by value and
// carry no identity: two copies of the same family are equal.
type Gene string

// Synteny is an ordered block of genes. Duplicate families are allowed
// and the order is significant.
type Synteny []Gene

// Segment is a half-open index range [Start, End) into the synteny it
// was computed against. A segment is meaningless once that synteny has
// been replaced.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of genes covered by the segment.
func (s Segment) Len() int { return s.End - s.Start }

// IsZero reports whether the segment is the empty range [0, 0),
// conventionally used for "no segment".
func (s Segment) IsZero() bool { return s.Start == 0 && s.End == 0 }

func (s Segment) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Parse splits a whitespace-separated list of gene names into a
// synteny. An empty or blank input yields a nil synteny.
func Parse(s string) Synteny {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	result := make(Synteny, len(fields))
	for i, f := range fields {
		result[i] = Gene(f)
	}
	return result
}

// String joins the gene names with single spaces.
func (s Synteny) String() string {
	names := make([]string, len(s))
	for i, g := range s {
		names[i] = string(g)
	}
	return strings.Join(names, " ")
}

// Equal reports whether two syntenies contain the same genes in the
// same order.
func (s Synteny) Equal(other Synteny) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the synteny.
func (s Synteny) Clone() Synteny {
	if s == nil {
		return nil
	}
	out := make(Synteny, len(s))
	copy(out, s)
	return out
}

// Subsequences generates every order-preserving subsequence of the
// synteny, including the empty one and the synteny itself. A synteny of
// length n has exactly 2^n subsequences.
//
// The enumeration order is stable: for each subsequence of the tail,
// the variant without the head gene precedes the variant with it. Cost
// ties in the ordered reconciliation break on this order.
//
// The result grows exponentially; callers are expected to keep root
// syntenies to at most a few dozen genes.
func (s Synteny) Subsequences() []Synteny {
	if len(s) == 0 {
		return []Synteny{nil}
	}

	rest := s[1:].Subsequences()
	result := make([]Synteny, 0, 2*len(rest))

	for _, sub := range rest {
		result = append(result, sub)
		with := make(Synteny, 0, len(sub)+1)
		with = append(with, s[0])
		with = append(with, sub...)
		result = append(result, with)
	}

	return result
}

// DistanceTo computes the minimum number of segmental losses required
// to turn the synteny into target. When substring is true, losses that
// touch the start or the end of the synteny are free: the result is the
// distance from the best-aligned substring instead of the whole block.
//
// Returns ErrNotSubsequence if target is not an order-preserving
// subsequence of s.
func (s Synteny) DistanceTo(target Synteny, substring bool) (int, error) {
	segments, err := s.Reconcile(target, substring, extnum.PosInf[int]())
	if err != nil {
		return 0, err
	}
	return len(segments), nil
}

// Reconcile aligns target against the synteny and returns the segments
// of s that must be lost to obtain target, in left-to-right order and
// in s's index space.
//
// The scan walks both sequences in lockstep: while the current genes
// match, both advance through a preserved run; on a mismatch a lost run
// opens in s and s alone advances until it re-matches target. When
// substring is true, a lost run touching either boundary of s is not
// reported. The scan stops early once max lost runs have been recorded.
//
// Returns ErrNotSubsequence if s is exhausted while target still has
// unmatched genes. The scan assumes target truly is a subsequence; it
// is not a general alignment algorithm.
func (s Synteny) Reconcile(target Synteny, substring bool, max extnum.Number[int]) ([]Segment, error) {
	var segments []Segment

	count := func() extnum.Number[int] { return extnum.Finite(len(segments)) }

	i, j := 0, 0
	inLostRun := false
	runStart := 0

	for count().Less(max) && i < len(s) && j < len(target) {
		if s[i] != target[j] {
			if !inLostRun {
				inLostRun = true
				runStart = i
			}
			i++
			continue
		}

		if !inLostRun {
			i++
			j++
			continue
		}

		// A lost run closes on re-match. In substring mode a run
		// anchored at the very start of s is free.
		if !substring || runStart != 0 {
			segments = append(segments, Segment{Start: runStart, End: i})
		}
		inLostRun = false
	}

	if i == len(s) && j < len(target) {
		return nil, fmt.Errorf("%w: %q against %q", ErrNotSubsequence, target, s)
	}

	// Leftover genes in s form a terminal lost run, free in substring
	// mode. A run that was already open extends to the end.
	if i < len(s) && j == len(target) && !substring {
		start := i
		if inLostRun {
			start = runStart
		}
		segments = append(segments, Segment{Start: start, End: len(s)})
	}

	return segments, nil
}

// Reduce returns the synteny obtained by erasing lost runs from s while
// aligning target, stopping once max countable losses have been erased.
// Boundary runs are erased but not counted when substring is true, so
// the result can be strictly shorter than s even at distance zero.
//
// This is the order carried by an intermediate loss node spliced between
// a parent and a child whose syntenies are more than one loss apart.
// Returns ErrNotSubsequence under the same conditions as Reconcile.
func (s Synteny) Reduce(target Synteny, substring bool, max extnum.Number[int]) (Synteny, error) {
	base := s.Clone()
	counted := 0

	i, j := 0, 0
	inLostRun := false
	runStart := 0

	for extnum.Finite(counted).Less(max) && i < len(base) && j < len(target) {
		if base[i] != target[j] {
			if !inLostRun {
				inLostRun = true
				runStart = i
			}
			i++
			continue
		}

		if !inLostRun {
			i++
			j++
			continue
		}

		if !substring || runStart != 0 {
			counted++
		}
		base = append(base[:runStart], base[i:]...)
		i = runStart
		inLostRun = false
	}

	if i == len(base) && j < len(target) {
		return nil, fmt.Errorf("%w: %q against %q", ErrNotSubsequence, target, s)
	}

	if i < len(base) && j == len(target) {
		start := i
		if inLostRun {
			start = runStart
		}
		base = base[:start]
	}

	return base, nil
}

// WithoutSegments returns a copy of the synteny with the given lost
// segments removed. The segments must be disjoint, sorted and expressed
// in s's index space, as produced by Reconcile.
func (s Synteny) WithoutSegments(segments []Segment) Synteny {
	if len(segments) == 0 {
		return s.Clone()
	}

	out := make(Synteny, 0, len(s))
	next := 0
	for i, g := range s {
		for next < len(segments) && i >= segments[next].End {
			next++
		}
		if next < len(segments) && i >= segments[next].Start && i < segments[next].End {
			continue
		}
		out = append(out, g)
	}
	return out
}

// GeneSet returns the set of gene families present in the synteny.
func (s Synteny) GeneSet() map[Gene]struct{} {
	set := make(map[Gene]struct{}, len(s))
	for _, g := range s {
		set[g] = struct{}{}
	}
	return set
}
