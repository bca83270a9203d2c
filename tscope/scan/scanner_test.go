package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treescope/treescope/tscope/trees"
)

// writeFixture builds root/a.txt (100 bytes) and root/sub/b.txt (300 bytes)
func writeFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 100), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), make([]byte, 300), 0o644))
	return root
}

func TestScanner_Scan(t *testing.T) {
	t.Run("scan builds the full tree with aggregated sizes", func(t *testing.T) {
		root := writeFixture(t)

		tree, stats, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, int64(400), tree.Root.Size())
		assert.Equal(t, int64(2), stats.FilesProcessed)
		assert.Equal(t, int64(0), stats.ErrorsFound)
		assert.NotEmpty(t, stats.ScanID)

		a, ok := tree.FindByPath(filepath.Join(root, "a.txt"))
		require.True(t, ok)
		assert.Equal(t, int64(100), a.Size())
		assert.Equal(t, trees.File, a.Kind)

		sub, ok := tree.FindByPath(filepath.Join(root, "sub"))
		require.True(t, ok)
		assert.Equal(t, int64(300), sub.Size())
		assert.Equal(t, trees.Directory, sub.Kind)
	})

	t.Run("directory sizes equal the sum of their children after scan", func(t *testing.T) {
		root := writeFixture(t)

		tree, _, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), root)
		require.NoError(t, err)

		require.NoError(t, tree.Walk(context.Background(), func(node *trees.Node, _ int) error {
			if node.IsLeaf() {
				return nil
			}
			var sum int64
			for _, child := range node.Children {
				sum += child.Size()
			}
			assert.Equal(t, sum, node.Size(), "directory %s", node.Path)
			return nil
		}))
	})

	t.Run("a nonexistent root fails without panicking", func(t *testing.T) {
		_, _, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), "/does/not/exist")
		assert.Error(t, err)
	})

	t.Run("a file root produces a single-node tree", func(t *testing.T) {
		root := writeFixture(t)

		tree, stats, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), filepath.Join(root, "a.txt"))
		require.NoError(t, err)

		assert.Equal(t, trees.File, tree.Root.Kind)
		assert.Equal(t, int64(100), tree.Root.Size())
		assert.True(t, tree.Root.IsLeaf())
		assert.Equal(t, int64(1), stats.FilesProcessed)
	})

	t.Run("max depth stops recursion below the limit", func(t *testing.T) {
		root := writeFixture(t)

		tree, _, err := NewScanner(Options{MaxDepth: 0}).Scan(context.Background(), root)
		require.NoError(t, err)

		sub, ok := tree.FindByPath(filepath.Join(root, "sub"))
		require.True(t, ok)
		assert.Empty(t, sub.Children, "depth 0 must not descend into sub")
	})

	t.Run("an unreadable directory is marked inaccessible and siblings survive", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits do not apply to root")
		}

		root := writeFixture(t)
		locked := filepath.Join(root, "locked")
		require.NoError(t, os.MkdirAll(locked, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(locked, "hidden.txt"), make([]byte, 10), 0o644))
		require.NoError(t, os.Chmod(locked, 0o000))
		t.Cleanup(func() { os.Chmod(locked, 0o755) })

		tree, stats, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), root)
		require.NoError(t, err, "an unreadable subtree must not fail the scan")

		node, ok := tree.FindByPath(locked)
		require.True(t, ok)
		assert.True(t, node.Inaccessible)
		assert.Equal(t, int64(0), node.Size())
		assert.GreaterOrEqual(t, stats.ErrorsFound, int64(1))

		a, ok := tree.FindByPath(filepath.Join(root, "a.txt"))
		require.True(t, ok, "siblings of the unreadable directory still scan")
		assert.Equal(t, int64(100), a.Size())
	})

	t.Run("symlinks are recorded as zero-size leaves", func(t *testing.T) {
		root := writeFixture(t)
		link := filepath.Join(root, "loop")
		require.NoError(t, os.Symlink(root, link))

		tree, _, err := NewScanner(Options{MaxDepth: -1}).Scan(context.Background(), root)
		require.NoError(t, err)

		node, ok := tree.FindByPath(link)
		require.True(t, ok)
		assert.True(t, node.IsLeaf())
		assert.Equal(t, int64(0), node.Size())
	})
}

func TestScanner_IgnoreRules(t *testing.T) {
	t.Run("entries matching the ignore file are skipped", func(t *testing.T) {
		root := writeFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "skipme.log"), make([]byte, 50), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".tscopeignore"), []byte("*.log\n.tscopeignore\n"), 0o644))

		tree, _, err := NewScanner(Options{MaxDepth: -1, IgnoreFile: ".tscopeignore"}).Scan(context.Background(), root)
		require.NoError(t, err)

		_, ok := tree.FindByPath(filepath.Join(root, "skipme.log"))
		assert.False(t, ok, "ignored file must not be in the tree")
		assert.Equal(t, int64(400), tree.Root.Size(), "ignored sizes must not count")
	})

	t.Run("a missing ignore file is not an error", func(t *testing.T) {
		root := writeFixture(t)

		_, _, err := NewScanner(Options{MaxDepth: -1, IgnoreFile: ".tscopeignore"}).Scan(context.Background(), root)
		assert.NoError(t, err)
	})
}
