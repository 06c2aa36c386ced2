package doctree

// GroupID identifies a group within one conversion.
type GroupID int

// Root is the synthetic parent of all top-level groups.
const Root GroupID = -1

// TreeNode is a group's position in the resolved hierarchy.
type TreeNode struct {
	ID       GroupID
	Parent   GroupID
	Children []GroupID
}

// Tree is the resolved group hierarchy. It always contains a node for Root.
type Tree struct {
	Nodes  map[GroupID]*TreeNode
	groups []*Group
}

// NewTree returns a tree over groups, indexed by their IDs. Only the Root
// node exists until nodes are added.
func NewTree(groups []*Group) *Tree {
	return &Tree{
		Nodes:  map[GroupID]*TreeNode{Root: {ID: Root, Parent: Root}},
		groups: groups,
	}
}

// Group returns the group with the given id, or nil.
func (t *Tree) Group(id GroupID) *Group {
	if id < 0 || int(id) >= len(t.groups) {
		return nil
	}
	return t.groups[id]
}

// Groups returns every group in id order.
func (t *Tree) Groups() []*Group {
	return t.groups
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id GroupID) []GroupID {
	if n, ok := t.Nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Walk visits every group depth-first in render order. depth is 1 for
// children of Root.
func (t *Tree) Walk(fn func(g *Group, depth int) error) error {
	var walk func(id GroupID, depth int) error
	walk = func(id GroupID, depth int) error {
		for _, child := range t.Children(id) {
			if err := fn(t.Group(child), depth); err != nil {
				return err
			}
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(Root, 1)
}
