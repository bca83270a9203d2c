package trees

import (
	"os"
	"path/filepath"
	"time"
)

// NodeKind distinguishes directories from regular files
type NodeKind int

const (
	Directory NodeKind = iota
	File
)

// Convert NodeKind to String
func (k NodeKind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Suffix returns the descriptor appended to a node's path in the status line.
func (k NodeKind) Suffix() string {
	if k == Directory {
		return " (folder)"
	}
	return " (file)"
}

// Metadata holds the filesystem attributes recorded for a node at scan time.
// Size for directories is aggregated after the scan and immutable afterwards.
type Metadata struct {
	Size       int64       `json:"size"`
	ModifiedAt time.Time   `json:"modified_at"`
	Mode       os.FileMode `json:"mode"`
}

// NewMetadata builds Metadata from a stat result
func NewMetadata(info os.FileInfo) Metadata {
	size := info.Size()
	if info.IsDir() {
		// Directory sizes come from aggregation, not from stat
		size = 0
	}
	return Metadata{
		Size:       size,
		ModifiedAt: info.ModTime(),
		Mode:       info.Mode(),
	}
}

// Node is a single file or directory in the scanned tree. The tree is built
// once; afterwards only Weight and Expanded mutate in response to user input.
type Node struct {
	ID       uint32   `json:"id"`
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Kind     NodeKind `json:"kind"`
	Metadata Metadata `json:"metadata"`

	// Weight is a display-only multiplier over the node's byte size. It
	// changes the screen area the node gets among its siblings, never the
	// recorded size.
	Weight float64 `json:"weight"`

	// Expanded is meaningful for directories only. Expanded implies the
	// parent is expanded; a collapsed directory is laid out as a leaf.
	Expanded bool `json:"expanded"`

	// Inaccessible marks entries the scanner could not read
	Inaccessible bool `json:"inaccessible"`

	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
}

// NewNode creates a node with the default weight and links it under parent.
func NewNode(path string, kind NodeKind, parent *Node) *Node {
	node := &Node{
		Path:   filepath.Clean(path),
		Name:   filepath.Base(filepath.Clean(path)),
		Kind:   kind,
		Weight: 1.0,
		Parent: parent,
	}
	if parent != nil {
		parent.Children = append(parent.Children, node)
	}
	return node
}

// IsDir reports whether the node represents a directory
func (n *Node) IsDir() bool {
	return n.Kind == Directory
}

// IsLeaf reports whether the node has no children. Files are always leaves;
// directories may be leaves when empty or unreadable.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Size returns the recorded byte size of the node
func (n *Node) Size() int64 {
	return n.Metadata.Size
}

// EffectiveWeight is the share used by the layout engine: the display
// multiplier applied to the byte size, floored at one byte so that empty
// nodes still receive a strictly positive share.
func (n *Node) EffectiveWeight() float64 {
	return n.Weight * float64(max(n.Metadata.Size, 1))
}

// Depth returns the number of ancestors above this node
func (n *Node) Depth() int {
	depth := 0
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

// Ancestors returns the chain from the root down to this node's parent.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		chain = append([]*Node{cur}, chain...)
	}
	return chain
}

// PathString returns the status-line representation of the node, the full
// path followed by its kind descriptor.
func (n *Node) PathString() string {
	return n.Path + n.Kind.Suffix()
}
