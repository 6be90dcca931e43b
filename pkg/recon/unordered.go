package recon

import (
	"fmt"
	"sort"

	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

// geneSet is an unordered collection of gene families.
type geneSet map[synteny.Gene]struct{}

func setOf(s synteny.Synteny) geneSet {
	set := make(geneSet, len(s))
	for _, g := range s {
		set[g] = struct{}{}
	}
	return set
}

func (s geneSet) union(other geneSet) geneSet {
	out := make(geneSet, len(s)+len(other))
	for g := range s {
		out[g] = struct{}{}
	}
	for g := range other {
		out[g] = struct{}{}
	}
	return out
}

func (s geneSet) intersect(other geneSet) geneSet {
	out := make(geneSet)
	for g := range s {
		if _, ok := other[g]; ok {
			out[g] = struct{}{}
		}
	}
	return out
}

func (s geneSet) minus(other geneSet) geneSet {
	out := make(geneSet)
	for g := range s {
		if _, ok := other[g]; !ok {
			out[g] = struct{}{}
		}
	}
	return out
}

func (s geneSet) equal(other geneSet) bool {
	if len(s) != len(other) {
		return false
	}
	for g := range s {
		if _, ok := other[g]; !ok {
			return false
		}
	}
	return true
}

// sorted returns the set's genes in lexicographic order, the canonical
// order used when materializing a set into a synteny.
func (s geneSet) sorted() synteny.Synteny {
	out := make(synteny.Synteny, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// nodeInfo carries the per-node state shared by the three passes of the
// heuristic: the gene families that must appear in the node's synteny,
// and whether copying the parent's set instead would cost fewer losses.
type nodeInfo struct {
	genes           geneSet
	shouldPropagate bool
}

// Unordered runs the polynomial gene-set heuristic on a tree whose
// leaves carry observed syntenies. Internal nodes receive inferred
// syntenies in a canonical lexicographic order, Loss nodes are spliced
// where genes disappear, and duplication segments are recorded. The
// resulting order is a valid history but not guaranteed to be a
// minimum-cost one.
//
// Returns ErrMalformedTree if an internal node is unary.
func Unordered(t *tree.Tree) error {
	info, err := initialize(t)
	if err != nil {
		return err
	}
	propagateSets(t, info)
	resolveSets(t, info)
	return nil
}

// initialize computes, bottom-up, the minimal gene set of every node
// (the union of its children's) and flags the nodes for which adopting
// the full parental set would avoid losses.
func initialize(t *tree.Tree) (map[tree.NodeID]nodeInfo, error) {
	info := make(map[tree.NodeID]nodeInfo, t.Len())

	var failure error
	t.PostOrder(func(id tree.NodeID) {
		if failure != nil {
			return
		}
		children := t.Children(id)

		switch len(children) {
		case 0:
			// Leaves are observations and are never rewritten.
			info[id] = nodeInfo{genes: setOf(t.Event(id).Synteny)}

		case 2:
			left, right := children[0], children[1]
			infoLeft, infoRight := info[left], info[right]
			union := infoLeft.genes.union(infoRight.genes)

			leftLossy := t.Event(left).Type == tree.Loss
			rightLossy := t.Event(right).Type == tree.Loss

			// Propagating is worthwhile when both branches already
			// diverge from the union (each will pay a loss anyway), or
			// when a duplication or a pair of lossy branches can absorb
			// the extra genes for free.
			propagate := ((!infoLeft.genes.equal(union) || infoLeft.shouldPropagate) &&
				(!infoRight.genes.equal(union) || infoRight.shouldPropagate)) ||
				(t.Event(id).Type == tree.Duplication &&
					(leftLossy || infoLeft.shouldPropagate || rightLossy || infoRight.shouldPropagate)) ||
				((infoLeft.shouldPropagate || leftLossy) &&
					(infoRight.shouldPropagate || rightLossy))

			info[id] = nodeInfo{genes: union, shouldPropagate: propagate}

		default:
			failure = fmt.Errorf("%w: internal node with %d children", ErrMalformedTree, len(children))
		}
	})
	if failure != nil {
		return nil, failure
	}
	return info, nil
}

// propagateSets copies, top-down, each flagged node's parental gene set
// onto it. Pre-order makes the copies cascade down chains of flagged
// nodes.
func propagateSets(t *tree.Tree, info map[tree.NodeID]nodeInfo) {
	t.PreOrder(func(id tree.NodeID) {
		parent := t.Parent(id)
		if parent == tree.NoNode {
			return
		}
		if entry := info[id]; entry.shouldPropagate {
			entry.genes = info[parent].genes
			info[id] = entry
		}
	})
}

// resolveSets turns the gene sets into concrete syntenies, bottom-up.
// Each internal node is ordered as s1.s2.s3.s4 where s1 is shared by
// both children, s2 is left-only, s3 belongs to neither child, and s4
// is right-only, so that each child reads off as a single contiguous
// segment and at most one loss per edge is needed.
func resolveSets(t *tree.Tree, info map[tree.NodeID]nodeInfo) {
	order := make([]tree.NodeID, 0, t.Len())
	t.PostOrder(func(id tree.NodeID) {
		order = append(order, id)
	})

	// Wrap rewrites children slices, so the traversal is snapshotted
	// before any mutation.
	for _, id := range order {
		genesParent := info[id].genes
		event := t.Event(id)

		if len(genesParent) == 0 {
			// Nothing can evolve from an empty gene set: leaves
			// included, the node becomes a full loss.
			t.RemoveChildren(id)
			*event = tree.Event{Type: tree.Loss}
			continue
		}

		children := t.Children(id)
		if len(children) != 2 {
			continue
		}

		left, right := children[0], children[1]
		genesLeft, genesRight := info[left].genes, info[right].genes

		s1 := genesLeft.intersect(genesRight)
		s2 := genesLeft.minus(genesRight)
		s3 := genesParent.minus(genesLeft.union(genesRight))
		s4 := genesRight.minus(genesLeft)

		synParent := append(append(append(s1.sorted(), s2.sorted()...), s3.sorted()...), s4.sorted()...)
		synLeft := append(s1.sorted(), s2.sorted()...)
		synRight := append(s1.sorted(), s4.sorted()...)

		event.Synteny = synParent
		leftLossy := t.Event(left).Type == tree.Loss
		rightLossy := t.Event(right).Type == tree.Loss
		segmentalLeft := false

		if !synLeft.Equal(synParent) && !leftLossy {
			if event.Type == tree.Duplication {
				// Duplicating only the left child's segment spares a
				// loss on that side.
				segmentalLeft = true
				event.Segment = synteny.Segment{Start: 0, End: len(s1) + len(s2)}
			} else {
				t.Wrap(left, tree.Event{
					Type:    tree.Loss,
					Synteny: synParent,
					Segment: synteny.Segment{
						Start: len(s1) + len(s2),
						End:   len(s1) + len(s2) + len(s3) + len(s4),
					},
				})
			}
		}

		if event.Type == tree.Duplication && !segmentalLeft {
			// The left side incurs no loss, so the duplicated segment
			// is free to match the right child instead.
			if leftLossy {
				// A lost left branch forces s1 to be empty: the right
				// child is exactly s4.
				event.Segment = synteny.Segment{
					Start: len(s1) + len(s2) + len(s3),
					End:   len(s1) + len(s2) + len(s3) + len(s4),
				}
			} else {
				// A left child equal to its parent forces s4 to be
				// empty: the right child is exactly s1.
				event.Segment = synteny.Segment{Start: 0, End: len(s1)}
			}
		} else if !synRight.Equal(synParent) && !rightLossy {
			t.Wrap(right, tree.Event{
				Type:    tree.Loss,
				Synteny: synParent,
				Segment: synteny.Segment{
					Start: len(s1),
					End:   len(s1) + len(s2) + len(s3),
				},
			})
		}
	}
}
