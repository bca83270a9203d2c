package trees

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// VisibleSet returns the IDs of every node in the displayed tree: the root,
// plus the children of every visible expanded directory. Collapsed
// directories act as leaves, so their descendants are absent from the set.
func (t *Tree) VisibleSet() *roaring.Bitmap {
	visible := roaring.New()
	if t.Root == nil {
		return visible
	}
	collectVisible(t.Root, visible)
	return visible
}

func collectVisible(node *Node, visible *roaring.Bitmap) {
	visible.Add(node.ID)
	if !node.Expanded {
		return
	}
	for _, child := range node.Children {
		collectVisible(child, visible)
	}
}

// DisplayedLeaves returns the visible nodes that are laid out as blocks:
// files, collapsed directories, and directories without children. Their
// rectangles tile the viewport.
func (t *Tree) DisplayedLeaves() []*Node {
	var leaves []*Node
	if t.Root == nil {
		return leaves
	}
	collectDisplayedLeaves(t.Root, &leaves)
	return leaves
}

func collectDisplayedLeaves(node *Node, leaves *[]*Node) {
	if node.IsLeaf() || !node.Expanded {
		*leaves = append(*leaves, node)
		return
	}
	for _, child := range node.Children {
		collectDisplayedLeaves(child, leaves)
	}
}

// IsVisible reports whether the node is part of the displayed tree, meaning
// every ancestor is expanded.
func (t *Tree) IsVisible(node *Node) bool {
	if node == nil {
		return false
	}
	for cur := node.Parent; cur != nil; cur = cur.Parent {
		if !cur.Expanded {
			return false
		}
	}
	return true
}
