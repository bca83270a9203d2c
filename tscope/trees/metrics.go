package trees

import (
	"time"
)

// TreeMetrics holds statistical information about the tree
type TreeMetrics struct {
	TotalNodes   int64
	TotalFiles   int64
	TotalDirs    int64
	TotalSize    int64
	MaxDepth     int
	Inaccessible int64
	LastUpdated  time.Time
}

// computeTreeMetrics recursively computes metrics starting from the given node.
func computeTreeMetrics(node *Node, depth int, metrics *TreeMetrics) {
	if node == nil {
		return
	}

	metrics.TotalNodes++
	if node.IsDir() {
		metrics.TotalDirs++
	} else {
		metrics.TotalFiles++
		// Leaf sizes only; directory sizes are aggregates of these
		metrics.TotalSize += node.Metadata.Size
	}
	if node.Inaccessible {
		metrics.Inaccessible++
	}
	if depth > metrics.MaxDepth {
		metrics.MaxDepth = depth
	}

	for _, child := range node.Children {
		computeTreeMetrics(child, depth+1, metrics)
	}
}
