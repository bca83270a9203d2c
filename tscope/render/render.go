// Package render paints treemap frames. Rendering is a pure function of the
// blocks, the tree and the selection; it never mutates model state.
package render

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treescope/treescope/tscope/layout"
	"github.com/treescope/treescope/tscope/trees"
)

var (
	borderFg         = lipgloss.Color("240")
	selectedBorderFg = lipgloss.Color("15")
	labelFg          = lipgloss.Color("231")
	statusBarStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
)

var (
	lightCorners = [4]rune{'┌', '┐', '└', '┘'}
	heavyCorners = [4]rune{'╔', '╗', '╚', '╝'}
)

// cell is one character of the frame with its paint attributes
type cell struct {
	ch   rune
	fg   lipgloss.Color
	bg   lipgloss.Color
	bold bool
}

// Frame renders the blocks into a width x height string. The selected block
// gets a bright double border; every other block a thin one. Block colors
// derive from a hash of the node path so frames are reproducible run to run.
func Frame(tree *trees.Tree, blocks []layout.Block, selectedID uint32, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	canvas := make([][]cell, height)
	for y := range canvas {
		canvas[y] = make([]cell, width)
		for x := range canvas[y] {
			canvas[y][x] = cell{ch: ' '}
		}
	}

	// Paint the selection last so its border is never overdrawn
	var selected *layout.Block
	for i := range blocks {
		if blocks[i].NodeID == selectedID {
			selected = &blocks[i]
			continue
		}
		drawBlock(canvas, tree, blocks[i], false)
	}
	if selected != nil {
		drawBlock(canvas, tree, *selected, true)
	}

	return flatten(canvas)
}

func drawBlock(canvas [][]cell, tree *trees.Tree, block layout.Block, selected bool) {
	rect := block.Rect
	if rect.W <= 0 || rect.H <= 0 {
		return
	}

	node, ok := tree.NodeByID(block.NodeID)
	if !ok {
		return
	}

	bg := ColorFor(node.Path)
	fg := borderFg
	corners := lightCorners
	horiz, vert := '─', '│'
	if selected {
		fg = selectedBorderFg
		corners = heavyCorners
		horiz, vert = '═', '║'
	}

	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
				continue
			}
			c := cell{ch: ' ', bg: bg, fg: fg, bold: selected}

			// Borders only when the block is big enough to keep an interior
			if rect.W >= 2 && rect.H >= 2 {
				top, bottom := y == rect.Y, y == rect.Y+rect.H-1
				left, right := x == rect.X, x == rect.X+rect.W-1
				switch {
				case top && left:
					c.ch = corners[0]
				case top && right:
					c.ch = corners[1]
				case bottom && left:
					c.ch = corners[2]
				case bottom && right:
					c.ch = corners[3]
				case top || bottom:
					c.ch = horiz
				case left || right:
					c.ch = vert
				}
			}
			canvas[y][x] = c
		}
	}

	drawLabel(canvas, node, rect, bg, selected)
}

func drawLabel(canvas [][]cell, node *trees.Node, rect layout.Rect, bg lipgloss.Color, selected bool) {
	if rect.W < 4 || rect.H < 3 {
		return
	}

	label := node.Name
	if node.Inaccessible {
		label = "!" + label
	}
	// Truncate and position by runes so multibyte names are never cut
	// mid-character
	runes := []rune(label)
	if maxLen := rect.W - 2; len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	y := rect.Y + 1
	for i, ch := range runes {
		x := rect.X + 1 + i
		if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
			break
		}
		canvas[y][x] = cell{ch: ch, fg: labelFg, bg: bg, bold: selected}
	}
}

// flatten emits the canvas row by row, grouping runs of identically styled
// cells to keep the escape-sequence volume down.
func flatten(canvas [][]cell) string {
	var sb strings.Builder
	for y, row := range canvas {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var cur cell
		for x, c := range row {
			if x == 0 {
				cur = c
			}
			if c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold {
				sb.WriteString(styleFor(cur).Render(run.String()))
				run.Reset()
				cur = c
			}
			run.WriteRune(c.ch)
		}
		sb.WriteString(styleFor(cur).Render(run.String()))
	}
	return sb.String()
}

func styleFor(c cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.fg != "" {
		style = style.Foreground(c.fg)
	}
	if c.bg != "" {
		style = style.Background(c.bg)
	}
	if c.bold {
		style = style.Bold(true)
	}
	return style
}

// ColorFor maps a node path onto the 256-color cube deterministically.
func ColorFor(path string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(path))
	// Skip the 16 ANSI colors and the grayscale ramp
	return lipgloss.Color(strconv.Itoa(17 + int(h.Sum32()%214)))
}

// StatusLine renders the bar under the map: the selected node's path, kind
// and human-readable size, or a blank bar when nothing is selected.
func StatusLine(node *trees.Node, width int) string {
	text := ""
	if node != nil {
		text = fmt.Sprintf(" %s  %s", node.PathString(), HumanSize(node.Size()))
		if node.Inaccessible {
			text += "  [inaccessible]"
		}
	}
	if width > 0 {
		if runes := []rune(text); len(runes) > width {
			text = string(runes[:width])
		}
	}
	return statusBarStyle.Width(width).Render(text)
}

// HumanSize formats a byte count with binary units
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
