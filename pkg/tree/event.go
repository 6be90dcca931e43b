package tree

import (
	"fmt"

	"github.com/matzehuels/superrec/pkg/synteny"
)

// EventType identifies what happened at a node of an event tree.
type EventType int

const (
	// None marks a leaf carrying an observed synteny, with no event.
	None EventType = iota

	// Duplication marks a node whose two children descend from copies
	// of the same synteny within one species. One child may descend
	// from a contiguous sub-segment only.
	Duplication

	// Speciation marks a node whose two children belong to two species
	// that diverged from this common ancestor.
	Speciation

	// Loss marks a segmental loss on the branch above the node's single
	// child, or, when the node's synteny is empty, the full loss of the
	// ancestral content on that branch.
	Loss
)

func (t EventType) String() string {
	switch t {
	case None:
		return "None"
	case Duplication:
		return "Duplication"
	case Speciation:
		return "Speciation"
	case Loss:
		return "Loss"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is the payload of one tree node: the event type, the synteny
// assigned to the node, and, for Duplication and Loss events, the
// segment of that synteny involved in the event. The segment is ignored
// for other event types.
type Event struct {
	Type    EventType
	Synteny synteny.Synteny
	Segment synteny.Segment
}

// IsFullLoss reports whether the event represents the loss of the
// entire ancestral content on its branch.
func (e Event) IsFullLoss() bool {
	return e.Type == Loss && len(e.Synteny) == 0
}

// hasSegment reports whether the segment field is meaningful and set.
func (e Event) hasSegment() bool {
	return (e.Type == Duplication || (e.Type == Loss && len(e.Synteny) > 0)) && !e.Segment.IsZero()
}

// Equal reports whether two events are interchangeable. Segments are
// compared only for Duplication and Loss events, where they are
// meaningful.
func (e Event) Equal(other Event) bool {
	if e.Type != other.Type {
		return false
	}
	if (e.Type == Duplication || e.Type == Loss) && e.Segment != other.Segment {
		return false
	}
	return e.Synteny.Equal(other.Synteny)
}

func (e Event) String() string {
	if e.Type == Duplication || e.Type == Loss {
		if !e.Segment.IsZero() {
			return fmt.Sprintf("{%s %q %s}", e.Type, e.Synteny.String(), e.Segment)
		}
	}
	return fmt.Sprintf("{%s %q}", e.Type, e.Synteny.String())
}
