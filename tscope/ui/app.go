// Package ui wires the session, layout and renderer into a bubbletea
// program. The tree is owned exclusively by the UI loop: the scan finished
// before the program started and every mutation happens in Update.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treescope/treescope/tscope/config"
	"github.com/treescope/treescope/tscope/layout"
	"github.com/treescope/treescope/tscope/render"
	"github.com/treescope/treescope/tscope/session"
	"github.com/treescope/treescope/tscope/trees"
)

// Model is the bubbletea model for the treemap view
type Model struct {
	tree   *trees.Tree
	sess   *session.Session
	keys   KeyMap
	blocks []layout.Block
	index  *layout.BlockIndex

	width      int
	height     int
	showStatus bool
}

// NewModel builds the UI model over an already-scanned tree
func NewModel(tree *trees.Tree, cfg *config.Config) Model {
	sess := session.New(tree,
		session.WithWeightStep(cfg.Layout.WeightStep),
		session.WithMinWeight(cfg.Layout.MinWeight),
	)

	return Model{
		tree:       tree,
		sess:       sess,
		keys:       DefaultKeyMap(),
		showStatus: cfg.UI.ShowStatusBar,
	}
}

// Session exposes the view state, mainly for tests
func (m Model) Session() *session.Session {
	return m.sess
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.sess.ClickAt(m.blocks, msg.X, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Grow):
		if m.sess.IncreaseWeight() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.Shrink):
		if m.sess.DecreaseWeight() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.Expand):
		if m.sess.Expand() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.ExpandPath):
		if m.sess.ExpandPath() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.Collapse):
		if m.sess.Collapse() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.CollapseAll):
		if m.sess.CollapseAll() {
			m.relayout()
		}

	case key.Matches(msg, m.keys.MoveLeft):
		m.moveSelection(-1, 0)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveSelection(1, 0)
	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelection(0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelection(0, 1)
	}

	return m, nil
}

// moveSelection shifts the selection to the adjacent block in a direction.
// With no selection yet, the first block is picked.
func (m *Model) moveSelection(dx, dy int) {
	if len(m.blocks) == 0 || m.index == nil {
		return
	}

	selected, ok := m.sess.Selected()
	if !ok {
		m.sess.Select(m.blocks[0].NodeID)
		return
	}

	var from layout.Block
	found := false
	for _, block := range m.blocks {
		if block.NodeID == selected.ID {
			from = block
			found = true
			break
		}
	}
	if !found {
		// Selection is no longer displayed, restart from the first block
		m.sess.Select(m.blocks[0].NodeID)
		return
	}

	if neighbor, ok := m.index.Neighbor(from, dx, dy); ok {
		m.sess.Select(neighbor.NodeID)
	}
}

func (m *Model) relayout() {
	mapHeight := m.height
	if m.showStatus {
		mapHeight--
	}
	if m.width <= 0 || mapHeight <= 0 {
		m.blocks = nil
		m.index = nil
		return
	}

	m.blocks = layout.Compute(m.tree, layout.Rect{X: 0, Y: 0, W: m.width, H: mapHeight})
	m.index = layout.NewBlockIndex(m.blocks)
}

func (m Model) View() string {
	mapHeight := m.height
	if m.showStatus {
		mapHeight--
	}
	if m.width <= 0 || mapHeight <= 0 {
		return ""
	}

	var selectedID uint32
	selected, ok := m.sess.Selected()
	if ok {
		selectedID = selected.ID
	}

	frame := render.Frame(m.tree, m.blocks, selectedID, m.width, mapHeight)
	if !m.showStatus {
		return frame
	}

	var statusNode *trees.Node
	if ok {
		statusNode = selected
	}
	return frame + "\n" + render.StatusLine(statusNode, m.width)
}
