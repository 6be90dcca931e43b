// Package simulate generates random synteny evolution histories, used
// to benchmark the reconciliation engines against a known ground truth.
package simulate

import (
	"math"
	"math/rand"

	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

// Params control a simulated evolution.
type Params struct {
	// Base is the ancestral synteny the simulation evolves from.
	Base synteny.Synteny

	// Depth is the maximum number of duplication and speciation events
	// on any branch. Losses do not count towards it.
	Depth int

	// PDup is the probability for an internal node to be a duplication
	// rather than a speciation.
	PDup float64

	// PDupLength parametrizes the geometric distribution of the
	// lengths of segmental duplications.
	PDupLength float64

	// PLoss is the probability for a loss to occur under each branch
	// of a speciation.
	PLoss float64

	// PLossLength parametrizes the geometric distribution of the
	// lengths of segmental losses.
	PLossLength float64
}

// DefaultParams returns the simulation parameters used throughout the
// evaluation experiments, evolving from the given ancestral synteny.
func DefaultParams(base synteny.Synteny) Params {
	return Params{
		Base:        base,
		Depth:       5,
		PDup:        0.5,
		PDupLength:  0.3,
		PLoss:       0.2,
		PLossLength: 0.7,
	}
}

// Evolution simulates the evolution of the ancestral synteny and
// returns the full event tree of the simulated history, with every
// internal node labeled. The caller owns the generator, so runs are
// reproducible from a seed.
func Evolution(rng *rand.Rand, p Params) *tree.Tree {
	t := tree.New(tree.Event{Synteny: p.Base.Clone()})
	evolve(rng, p, t, t.Root(), p.Depth)
	return t
}

// evolve grows the subtree under id, whose event already carries the
// synteny to evolve from.
func evolve(rng *rand.Rand, p Params, t *tree.Tree, id tree.NodeID, depth int) {
	current := t.Event(id).Synteny
	if depth == 0 || len(current) == 0 {
		return
	}

	if rng.Float64() < p.PDup {
		// A duplication copies a random segment into the right branch
		// while the left branch keeps the full synteny.
		seg := randomSegment(rng, len(current), p.PDupLength)
		t.Event(id).Type = tree.Duplication
		t.Event(id).Segment = seg

		left := t.AddChild(id, tree.Event{Synteny: current.Clone()})
		right := t.AddChild(id, tree.Event{Synteny: current[seg.Start:seg.End].Clone()})
		evolve(rng, p, t, left, depth-1)
		evolve(rng, p, t, right, depth-1)
		return
	}

	// A speciation copies the full synteny into both branches; each
	// branch may then independently lose a segment. Losses do not
	// consume depth.
	t.Event(id).Type = tree.Speciation
	for i := 0; i < 2; i++ {
		child := t.AddChild(id, tree.Event{Synteny: current.Clone()})
		if rng.Float64() < p.PLoss {
			child = loseSegment(rng, p, t, child)
		}
		evolve(rng, p, t, child, depth-1)
	}
}

// loseSegment turns the node into a Loss of a random segment and hangs
// the surviving synteny under it, returning the surviving node. A loss
// that removes every gene leaves a bare Loss leaf and returns it.
func loseSegment(rng *rand.Rand, p Params, t *tree.Tree, id tree.NodeID) tree.NodeID {
	event := t.Event(id)
	seg := randomSegment(rng, len(event.Synteny), p.PLossLength)
	remaining := event.Synteny.WithoutSegments([]synteny.Segment{seg})

	event.Type = tree.Loss
	event.Segment = seg
	if len(remaining) == 0 {
		event.Synteny = nil
		event.Segment = synteny.Segment{}
		return id
	}
	return t.AddChild(id, tree.Event{Synteny: remaining})
}

// randomSegment draws a non-empty segment of a synteny of the given
// length: its size follows a geometric law with parameter rate, capped
// at the synteny length, and its position is uniform.
func randomSegment(rng *rand.Rand, length int, rate float64) synteny.Segment {
	size := 1 + geometric(rng, rate)
	if size > length {
		size = length
	}
	start := rng.Intn(length - size + 1)
	return synteny.Segment{Start: start, End: start + size}
}

// geometric draws the number of failures before the first success of a
// Bernoulli trial with the given probability, by inversion sampling.
// Probabilities outside (0, 1) always yield zero, so degenerate length
// parameters produce single-gene segments instead of dividing by
// log(1) = 0.
func geometric(rng *rand.Rand, prob float64) int {
	if prob <= 0 || prob >= 1 {
		return 0
	}
	u := rng.Float64()
	return int(math.Log(1-u) / math.Log(1-prob))
}

// Dummy builds a synteny of the given length over generated gene names
// a, b, ..., z, aa, ab, and so on.
func Dummy(length int) synteny.Synteny {
	out := make(synteny.Synteny, 0, length)
	current := []byte{'a'}
	for i := 0; i < length; i++ {
		out = append(out, synteny.Gene(current))

		j := len(current) - 1
		for j >= 0 && current[j] == 'z' {
			current[j] = 'a'
			j--
		}
		if j < 0 {
			current = append([]byte{'a'}, current...)
		} else {
			current[j]++
		}
	}
	return out
}
