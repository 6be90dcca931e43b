// Package recon implements the two Super-Reconciliation engines.
//
// Both engines take an event tree whose leaves carry observed syntenies
// and rewrite it in place: internal nodes receive inferred syntenies,
// intermediate Loss nodes are spliced into edges whose endpoints are
// more than the permitted number of losses apart, and duplication nodes
// record the segment that was copied.
//
// Ordered is the exact dynamic program over the subsequences of a fixed
// ancestral root order, following the method of "Reconstructing the
// History of Syntenies Through Super-Reconciliation" (El-Mabrouk et
// al.). Its candidate space is exponential in the root synteny length
// by construction; it is intended for ancestral syntenies of at most a
// few dozen genes. Unordered is a polynomial gene-set heuristic that
// needs no fixed root order and trades away the optimality guarantee.
package recon

import (
	"errors"
	"fmt"

	"github.com/matzehuels/superrec/pkg/extnum"
	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

var (
	// ErrInconsistent is returned by Ordered when no finite-cost
	// synteny assignment exists for some node under the fixed root
	// order, typically because a leaf synteny is not a subsequence of
	// the ancestral one.
	ErrInconsistent = errors.New("no consistent assignment under the root synteny order")

	// ErrMalformedTree is returned when an internal node carries an
	// event type other than Duplication or Speciation, or has a child
	// count reconciliation cannot handle.
	ErrMalformedTree = errors.New("malformed event tree shape")
)

// candidate records the DP state of one possible synteny assignment for
// one node: its cost, and the optimal child assignments realizing that
// cost. For a Duplication, at most one partial flag marks the child
// whose boundary truncation was absorbed by the copied segment instead
// of being paid as a loss.
type candidate struct {
	cost         extnum.Number[int]
	left, right  synteny.Synteny
	partialLeft  bool
	partialRight bool
}

// nodeTable maps a candidate synteny (by its canonical string form) to
// its DP state at one node.
type nodeTable map[string]candidate

// Ordered runs the exact reconciliation on a tree whose root synteny is
// the externally fixed ancestral order. It assigns syntenies to every
// internal node, records duplicated segments, splices Loss nodes where
// a parent and child are too far apart, and returns the total number of
// segmental duplications and losses implied.
//
// Returns ErrInconsistent if the root order cannot reconcile with some
// leaf under any candidate assignment, and ErrMalformedTree if an
// internal node is not a binary Duplication or Speciation.
func Ordered(t *tree.Tree) (int, error) {
	root := t.Root()
	ancestral := t.Event(root).Synteny

	// Every node draws its assignment from the subsequences of the
	// ancestral synteny, the finite state space of the DP.
	possibilities := ancestral.Subsequences()

	tables := make(map[tree.NodeID]nodeTable)

	var failure error
	t.PostOrder(func(id tree.NodeID) {
		if failure != nil {
			return
		}
		table, err := fillTable(t, id, possibilities, tables)
		if err != nil {
			failure = err
			return
		}
		tables[id] = table
	})
	if failure != nil {
		return 0, failure
	}

	rootInfo, ok := tables[root][ancestral.String()]
	if !ok || rootInfo.cost.IsInf() {
		return 0, fmt.Errorf("%w: root order %q", ErrInconsistent, ancestral.String())
	}

	if err := assign(t, root, tables); err != nil {
		return 0, err
	}

	cost, err := rootInfo.cost.Finite()
	if err != nil {
		return 0, fmt.Errorf("%w: root order %q", ErrInconsistent, ancestral.String())
	}
	return cost, nil
}

// fillTable computes the candidate table of one node, assuming its
// children's tables are already present (post-order invariant).
func fillTable(t *tree.Tree, id tree.NodeID, possibilities []synteny.Synteny, tables map[tree.NodeID]nodeTable) (nodeTable, error) {
	children := t.Children(id)
	table := make(nodeTable, len(possibilities))
	best := extnum.PosInf[int]()

	switch len(children) {
	case 0:
		// A leaf admits exactly its observed synteny: every other
		// candidate is infinitely expensive so existing labels are
		// preserved.
		observed := t.Event(id).Synteny
		for _, cand := range possibilities {
			cost := extnum.PosInf[int]()
			if cand.Equal(observed) {
				cost = extnum.Finite(0)
			}
			table[cand.String()] = candidate{cost: cost}
			if cost.Less(best) {
				best = cost
			}
		}

	case 2:
		eventType := t.Event(id).Type
		if eventType != tree.Speciation && eventType != tree.Duplication {
			return nil, fmt.Errorf("%w: %s at internal node", ErrMalformedTree, eventType)
		}

		leftTable := tables[children[0]]
		rightTable := tables[children[1]]

		for _, cand := range possibilities {
			info, err := evalCandidate(cand, eventType, leftTable, rightTable)
			if err != nil {
				return nil, err
			}
			table[cand.String()] = info
			if info.cost.Less(best) {
				best = info.cost
			}
		}

	default:
		return nil, fmt.Errorf("%w: internal node with %d children", ErrMalformedTree, len(children))
	}

	if best.IsInf() {
		return nil, fmt.Errorf("%w: no finite-cost candidate at node %v", ErrInconsistent, t.Event(id))
	}
	return table, nil
}

// evalCandidate scores one candidate synteny X at an internal node. For
// each child it finds the sub-candidate minimizing the distance from X
// plus the child's own cost, both charging boundary losses ("total")
// and ignoring them ("partial"); the event type decides how the two
// children combine.
func evalCandidate(cand synteny.Synteny, eventType tree.EventType, leftTable, rightTable nodeTable) (candidate, error) {
	type side struct {
		totalCost   extnum.Number[int]
		totalSyn    synteny.Synteny
		partialCost extnum.Number[int]
		partialSyn  synteny.Synteny
	}
	sides := [2]side{
		{totalCost: extnum.PosInf[int](), partialCost: extnum.PosInf[int]()},
		{totalCost: extnum.PosInf[int](), partialCost: extnum.PosInf[int]()},
	}
	tablesForSide := [2]nodeTable{leftTable, rightTable}

	for _, sub := range cand.Subsequences() {
		totalDist, err := cand.DistanceTo(sub, false)
		if err != nil {
			return candidate{}, err
		}
		partialDist, err := cand.DistanceTo(sub, true)
		if err != nil {
			return candidate{}, err
		}

		key := sub.String()
		for i := range sides {
			childCost := tablesForSide[i][key].cost

			if total, err := extnum.Finite(totalDist).Add(childCost); err == nil && total.Less(sides[i].totalCost) {
				sides[i].totalCost = total
				sides[i].totalSyn = sub
			}
			if partial, err := extnum.Finite(partialDist).Add(childCost); err == nil && partial.Less(sides[i].partialCost) {
				sides[i].partialCost = partial
				sides[i].partialSyn = sub
			}
		}
	}

	left, right := sides[0], sides[1]

	add := func(a, b extnum.Number[int]) extnum.Number[int] {
		// Costs are non-negative: only +inf absorbs, never an
		// indeterminate form.
		sum, err := a.Add(b)
		if err != nil {
			return extnum.PosInf[int]()
		}
		return sum
	}

	total := add(left.totalCost, right.totalCost)

	switch eventType {
	case tree.Speciation:
		// Both children are full copies: every divergence is a
		// segmental loss after the speciation.
		return candidate{cost: total, left: left.totalSyn, right: right.totalSyn}, nil

	case tree.Duplication:
		// One duplication is always paid; at most one child may
		// descend from a partial segment, waiving its boundary losses.
		totalPartial := add(left.totalCost, right.partialCost)
		partialTotal := add(left.partialCost, right.totalCost)
		one := extnum.Finite(1)

		switch {
		case !totalPartial.Less(total) && !partialTotal.Less(total):
			return candidate{cost: add(one, total), left: left.totalSyn, right: right.totalSyn}, nil
		case !total.Less(totalPartial) && !partialTotal.Less(totalPartial):
			return candidate{
				cost:         add(one, totalPartial),
				left:         left.totalSyn,
				right:        right.partialSyn,
				partialRight: true,
			}, nil
		default:
			return candidate{
				cost:        add(one, partialTotal),
				left:        left.partialSyn,
				partialLeft: true,
				right:       right.totalSyn,
			}, nil
		}
	}

	return candidate{}, fmt.Errorf("%w: %s at internal node", ErrMalformedTree, eventType)
}

// assign walks the tree from the root, writing each node's optimal
// child syntenies into the tree, converting empty assignments into full
// losses, recording duplicated segments, and splicing intermediate Loss
// nodes where an edge exceeds its permitted distance.
func assign(t *tree.Tree, id tree.NodeID, tables map[tree.NodeID]nodeTable) error {
	children := t.Children(id)
	if len(children) != 2 {
		return nil
	}

	event := t.Event(id)
	info, ok := tables[id][event.Synteny.String()]
	if !ok {
		return fmt.Errorf("%w: node assigned a non-candidate synteny %q", ErrInconsistent, event.Synteny.String())
	}

	t.Event(children[0]).Synteny = info.left
	t.Event(children[1]).Synteny = info.right

	if event.Type == tree.Duplication {
		event.Segment = duplicatedSegment(event.Synteny, info)
	}

	partial := [2]bool{info.partialLeft, info.partialRight}
	for i, child := range children {
		if childEvent := t.Event(child); len(childEvent.Synteny) == 0 {
			// No genes survive below: the whole branch collapses to a
			// single full loss, within the distance bound of its edge.
			t.RemoveChildren(child)
			*childEvent = tree.Event{Type: tree.Loss}
		}
		if err := resolveLosses(t, id, child, partial[i]); err != nil {
			return err
		}
		if err := assign(t, child, tables); err != nil {
			return err
		}
	}
	return nil
}

// duplicatedSegment computes the segment of the parent synteny covered
// by the duplication: the aligned span of the partially-copied child,
// or the whole synteny for a full duplication.
func duplicatedSegment(parent synteny.Synteny, info candidate) synteny.Segment {
	switch {
	case info.partialLeft:
		return substringSpan(parent, info.left)
	case info.partialRight:
		return substringSpan(parent, info.right)
	default:
		return synteny.Segment{Start: 0, End: len(parent)}
	}
}

// substringSpan returns the index range of parent covered when child is
// aligned into it by the greedy subsequence scan.
func substringSpan(parent, child synteny.Synteny) synteny.Segment {
	if len(child) == 0 {
		return synteny.Segment{}
	}
	first, last := -1, -1
	j := 0
	for i, g := range parent {
		if j < len(child) && g == child[j] {
			if first < 0 {
				first = i
			}
			last = i
			j++
		}
	}
	if first < 0 {
		return synteny.Segment{}
	}
	return synteny.Segment{Start: first, End: last + 1}
}

// resolveLosses enforces the distance bound on the edge between parent
// and child: at most one loss into a Loss node, zero otherwise. When
// the bound is exceeded, an intermediate Loss node carrying the order
// reduced by a single loss is spliced into the edge and the check
// recurses on the shortened edge. With substring set, boundary losses
// are free, reflecting a child that descends from a partial
// duplication.
func resolveLosses(t *tree.Tree, parent, child tree.NodeID, substring bool) error {
	parentSyn := t.Event(parent).Synteny
	childEvent := t.Event(child)

	distance, err := parentSyn.DistanceTo(childEvent.Synteny, substring)
	if err != nil {
		return err
	}

	bound := 0
	if childEvent.Type == tree.Loss {
		bound = 1
	}
	if distance <= bound {
		return nil
	}

	reduced, err := parentSyn.Reduce(childEvent.Synteny, substring, extnum.Finite(1))
	if err != nil {
		return err
	}

	loss := t.Wrap(child, tree.Event{Type: tree.Loss, Synteny: reduced})
	return resolveLosses(t, loss, child, substring)
}
