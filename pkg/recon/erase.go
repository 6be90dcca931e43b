package recon

import (
	"github.com/matzehuels/superrec/pkg/synteny"
	"github.com/matzehuels/superrec/pkg/tree"
)

// Erase strips a fully-labeled history down to a reconciliation input:
// internal syntenies other than the root's are cleared, intermediate
// Loss nodes are spliced out of their edges, and full-loss leaves keep
// only their event type. Leaves keep their observed syntenies. Used to
// turn a simulated history into the problem instance it would have
// produced.
func Erase(t *tree.Tree) {
	eraseNode(t, t.Root(), true)
}

func eraseNode(t *tree.Tree, id tree.NodeID, isRoot bool) {
	event := t.Event(id)

	switch event.Type {
	case tree.None:
		return

	case tree.Loss:
		event.Synteny = synteny.Synteny{}
		event.Segment = synteny.Segment{}

		if children := t.Children(id); len(children) > 0 {
			child := children[0]
			t.Unwrap(id)
			eraseNode(t, child, false)
		}

	case tree.Duplication, tree.Speciation:
		if !isRoot {
			event.Synteny = synteny.Synteny{}
			event.Segment = synteny.Segment{}
		}
		for _, child := range t.Children(id) {
			eraseNode(t, child, false)
		}
	}
}
