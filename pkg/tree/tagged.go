package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/superrec/pkg/nhx"
	"github.com/matzehuels/superrec/pkg/synteny"
)

// Tag keys used to encode events on NHX nodes.
const (
	eventTag   = "event"
	segmentTag = "segment"
)

// EventFromTagged decodes an event from an NHX tagged node.
//
// The "event" tag selects the type (absent means None), the node name
// is read as a whitespace-separated gene list, and a node with an empty
// name and no recognized event becomes a full loss. The "segment" tag,
// formatted "<start> - <end>" with an inclusive end, is honored only
// for duplications and for losses that carry a synteny.
func EventFromTagged(tn nhx.TaggedNode) Event {
	var e Event

	switch tn.Tags[eventTag] {
	case "duplication":
		e.Type = Duplication
	case "speciation":
		e.Type = Speciation
	case "loss":
		e.Type = Loss
	}

	e.Synteny = synteny.Parse(tn.Name)

	if e.Type == None && len(e.Synteny) == 0 {
		e.Type = Loss
	}

	if raw, ok := tn.Tags[segmentTag]; ok && e.hasSegmentTag() {
		if seg, err := parseSegment(raw); err == nil {
			e.Segment = seg
		}
	}

	return e
}

// EventToTagged encodes an event as an NHX tagged node, the inverse of
// EventFromTagged. The segment is emitted with an inclusive end and
// only where it is meaningful.
func EventToTagged(e Event) nhx.TaggedNode {
	tn := nhx.TaggedNode{Name: e.Synteny.String()}

	var tag string
	switch e.Type {
	case Duplication:
		tag = "duplication"
	case Speciation:
		tag = "speciation"
	case Loss:
		tag = "loss"
	}
	if tag != "" {
		tn.Tags = map[string]string{eventTag: tag}
	}

	if e.hasSegment() {
		tn.Tags[segmentTag] = fmt.Sprintf("%d - %d", e.Segment.Start, e.Segment.End-1)
	}

	return tn
}

// hasSegmentTag reports whether a segment tag applies to this event
// type, regardless of whether a segment is set.
func (e Event) hasSegmentTag() bool {
	return e.Type == Duplication || (e.Type == Loss && len(e.Synteny) > 0)
}

func parseSegment(raw string) (synteny.Segment, error) {
	before, after, ok := strings.Cut(raw, "-")
	if !ok {
		return synteny.Segment{}, fmt.Errorf("malformed segment %q", raw)
	}
	start, err := strconv.Atoi(strings.TrimSpace(before))
	if err != nil {
		return synteny.Segment{}, fmt.Errorf("malformed segment %q: %w", raw, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return synteny.Segment{}, fmt.Errorf("malformed segment %q: %w", raw, err)
	}
	return synteny.Segment{Start: start, End: end + 1}, nil
}

// FromTagged converts a whole NHX tree into an event tree.
func FromTagged(root *nhx.Node) *Tree {
	t := New(EventFromTagged(root.TaggedNode))
	var graft func(parent NodeID, n *nhx.Node)
	graft = func(parent NodeID, n *nhx.Node) {
		id := t.AddChild(parent, EventFromTagged(n.TaggedNode))
		for _, c := range n.Children {
			graft(id, c)
		}
	}
	for _, c := range root.Children {
		graft(t.Root(), c)
	}
	return t
}

// ToTagged converts an event tree into an NHX tree.
func (t *Tree) ToTagged() *nhx.Node {
	var build func(id NodeID) *nhx.Node
	build = func(id NodeID) *nhx.Node {
		n := &nhx.Node{TaggedNode: EventToTagged(*t.Event(id))}
		for _, c := range t.Children(id) {
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	return build(t.root)
}

// ParseNHX parses an NHX document into an event tree.
func ParseNHX(input string) (*Tree, error) {
	root, err := nhx.Parse(input)
	if err != nil {
		return nil, err
	}
	return FromTagged(root), nil
}

// FormatNHX renders the event tree as an NHX document.
func (t *Tree) FormatNHX() string {
	return nhx.Format(t.ToTagged())
}
