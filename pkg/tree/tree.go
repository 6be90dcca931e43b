// Package tree provides the mutable event tree that reconciliation
// algorithms traverse and rewrite in place.
//
// An event tree is a rooted ordered tree whose nodes carry an Event:
// leaves hold observed syntenies, internal Speciation and Duplication
// nodes hold exactly two children, and Loss nodes bound the loss
// distance between a parent and its single child (or mark a full loss
// as a leaf). Reconciliation assigns syntenies to internal nodes,
// splices intermediate Loss nodes into edges, and may discard whole
// subtrees.
//
// Nodes live in an arena and are addressed by stable NodeIDs: splicing
// a node into an edge allocates a new slot and rewrites two links, so
// identifiers held across structural edits stay valid. A tree owns its
// nodes exclusively and must not be reconciled by two concurrent calls.
package tree

// NodeID addresses a node in a tree's arena. IDs are stable across
// structural edits but are only meaningful for the tree that issued
// them.
type NodeID int

// NoNode is the null node identifier, used for the root's parent.
const NoNode NodeID = -1

type node struct {
	event    Event
	parent   NodeID
	children []NodeID
}

// Tree is a rooted ordered tree of events backed by an arena.
// The zero value is not usable; use New.
type Tree struct {
	nodes []node
	root  NodeID
}

// New creates a tree with a single root node carrying the given event.
func New(root Event) *Tree {
	return &Tree{
		nodes: []node{{event: root, parent: NoNode}},
		root:  0,
	}
}

// Root returns the identifier of the root node.
func (t *Tree) Root() NodeID { return t.root }

// Event returns a pointer to the event stored at the node, for reading
// or in-place mutation.
func (t *Tree) Event(id NodeID) *Event { return &t.nodes[id].event }

// Parent returns the parent of the node, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the ordered children of the node. The returned
// slice is a read-only view into the tree.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// AddChild allocates a new node carrying the event and appends it as
// the last child of parent, returning its identifier.
func (t *Tree) AddChild(parent NodeID, e Event) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{event: e, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Wrap splices a new node carrying the event between child and its
// parent: the new node takes child's place among the parent's children
// and adopts child as its only child. Wrapping the root makes the new
// node the root. Returns the new node's identifier.
func (t *Tree) Wrap(child NodeID, e Event) NodeID {
	id := NodeID(len(t.nodes))
	parent := t.nodes[child].parent
	t.nodes = append(t.nodes, node{
		event:    e,
		parent:   parent,
		children: []NodeID{child},
	})
	t.nodes[child].parent = id

	if parent == NoNode {
		t.root = id
		return id
	}

	siblings := t.nodes[parent].children
	for i, c := range siblings {
		if c == child {
			siblings[i] = id
			break
		}
	}
	return id
}

// RemoveChildren detaches the node's entire subtree below it. The
// detached slots stay allocated in the arena but become unreachable
// from the root.
func (t *Tree) RemoveChildren(id NodeID) {
	t.nodes[id].children = nil
}

// Unwrap splices a unary node out of the tree: its only child takes its
// place among the parent's children. Unwrapping a unary root makes the
// child the root. The node must have exactly one child.
func (t *Tree) Unwrap(id NodeID) {
	child := t.nodes[id].children[0]
	parent := t.nodes[id].parent
	t.nodes[child].parent = parent
	t.nodes[id].children = nil
	t.nodes[id].parent = NoNode

	if parent == NoNode {
		t.root = child
		return
	}
	siblings := t.nodes[parent].children
	for i, c := range siblings {
		if c == id {
			siblings[i] = child
			break
		}
	}
}

// PostOrder visits every reachable node in post-order (children before
// parents, children in order).
func (t *Tree) PostOrder(visit func(NodeID)) {
	var walk func(NodeID)
	walk = func(id NodeID) {
		for _, c := range t.nodes[id].children {
			walk(c)
		}
		visit(id)
	}
	walk(t.root)
}

// PreOrder visits every reachable node in pre-order (parents before
// children, children in order).
func (t *Tree) PreOrder(visit func(NodeID)) {
	var walk func(NodeID)
	walk = func(id NodeID) {
		visit(id)
		for _, c := range t.nodes[id].children {
			walk(c)
		}
	}
	walk(t.root)
}

// Len returns the number of nodes reachable from the root.
func (t *Tree) Len() int {
	n := 0
	t.PostOrder(func(NodeID) { n++ })
	return n
}

// DLScore counts the Duplication and Loss nodes in the tree. It is the
// parsimony proxy used to compare a reconciled tree against a known
// reference: a reconciliation is acceptable only if its score does not
// exceed the reference's.
func (t *Tree) DLScore() uint {
	var score uint
	t.PostOrder(func(id NodeID) {
		switch t.nodes[id].event.Type {
		case Duplication, Loss:
			score++
		}
	})
	return score
}

// Equal reports whether two trees have the same shape and pairwise
// equal events.
func (t *Tree) Equal(other *Tree) bool {
	var eq func(a, b NodeID) bool
	eq = func(a, b NodeID) bool {
		if !t.nodes[a].event.Equal(other.nodes[b].event) {
			return false
		}
		ca, cb := t.nodes[a].children, other.nodes[b].children
		if len(ca) != len(cb) {
			return false
		}
		for i := range ca {
			if !eq(ca[i], cb[i]) {
				return false
			}
		}
		return true
	}
	return eq(t.root, other.root)
}

// Clone returns a deep copy of the tree holding only reachable nodes.
// Node identifiers are not preserved.
func (t *Tree) Clone() *Tree {
	out := New(Event{})
	var walk func(src NodeID, dst NodeID)
	walk = func(src NodeID, dst NodeID) {
		ev := t.nodes[src].event
		ev.Synteny = ev.Synteny.Clone()
		out.nodes[dst].event = ev
		for _, c := range t.nodes[src].children {
			walk(c, out.AddChild(dst, Event{}))
		}
	}
	walk(t.root, out.root)
	return out
}
