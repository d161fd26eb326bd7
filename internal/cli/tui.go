package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/render"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// Browse styles
var (
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	browseGapStyle    = lipgloss.NewStyle().Foreground(colorDim).Border(lipgloss.HiddenBorder()).Padding(0, 1)
	browsePanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// sceneMsg delivers a freshly composed scene to the model.
type sceneMsg struct{ scene scene.Scene }

// browseSlot is one row of a column: a node or a reserved gap.
type browseSlot struct {
	node *scene.Node
	gap  bool
}

// =============================================================================
// BrowseModel - Interactive crafting graph
// =============================================================================

// BrowseModel is the bubbletea model drawing a crafting scene as three
// columns: inputs, the focal item and outputs. It owns no selection
// state; taps are forwarded through emit and the resulting scene comes
// back as a sceneMsg.
type BrowseModel struct {
	Scene  scene.Scene
	Cursor int

	emit     func(render.Event)
	order    []string
	left     []browseSlot
	right    []browseSlot
	relation map[string]string
	loaded   bool
	width    int
}

// NewBrowseModel creates an empty model forwarding events to emit.
func NewBrowseModel(emit func(render.Event)) BrowseModel {
	return BrowseModel{emit: emit}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sceneMsg:
		m = m.withScene(msg.scene)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k", "shift+tab":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j", "tab":
			if m.Cursor < len(m.order)-1 {
				m.Cursor++
			}
		case "left", "h":
			m.jump(m.left)
		case "right", "l":
			m.jump(m.right)
		case "c":
			m.Cursor = slices.Index(m.order, m.Scene.Focal)
		case "enter", " ":
			if id, ok := m.current(); ok {
				m.send(render.TapNode(id))
			}
		case "esc":
			m.send(render.TapBackground())
		case "e":
			if id, ok := m.current(); ok && id != m.Scene.Focal {
				m.send(m.edgeTap(id))
			}
		case "n":
			if id, ok := m.current(); ok {
				m.send(render.Navigate(id))
			}
		}
	}
	return m, nil
}

func (m BrowseModel) send(ev render.Event) {
	if m.emit != nil {
		m.emit(ev)
	}
}

// withScene installs sc, keeping the cursor on the same node when the
// focal item did not change.
func (m BrowseModel) withScene(sc scene.Scene) BrowseModel {
	prev, hadPrev := m.current()
	sameFocal := m.loaded && m.Scene.Focal == sc.Focal

	m.Scene, m.loaded = sc, true
	m.left, m.right = nil, nil
	m.relation = make(map[string]string, len(sc.Edges))
	for _, e := range sc.Edges {
		switch sc.Focal {
		case e.Target:
			m.relation[e.Source] = e.Label
		case e.Source:
			m.relation[e.Target] = e.Label
		}
	}

	center, _ := sc.Node(sc.Focal)
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		switch n.Role {
		case craft.RoleLeft.String():
			m.left = append(m.left, browseSlot{node: n})
		case craft.RoleRight.String():
			m.right = append(m.right, browseSlot{node: n})
		}
	}
	for _, g := range sc.Gaps {
		if g.X < center.Position.X {
			m.left = append(m.left, browseSlot{gap: true, node: &scene.Node{Position: g}})
		} else {
			m.right = append(m.right, browseSlot{gap: true, node: &scene.Node{Position: g}})
		}
	}
	byRow := func(a, b browseSlot) int { return cmp.Compare(a.node.Position.Y, b.node.Position.Y) }
	slices.SortStableFunc(m.left, byRow)
	slices.SortStableFunc(m.right, byRow)

	m.order = nil
	for _, s := range m.left {
		if !s.gap {
			m.order = append(m.order, s.node.ID)
		}
	}
	m.order = append(m.order, sc.Focal)
	for _, s := range m.right {
		if !s.gap {
			m.order = append(m.order, s.node.ID)
		}
	}

	m.Cursor = slices.Index(m.order, sc.Focal)
	if sameFocal && hadPrev {
		if i := slices.Index(m.order, prev); i >= 0 {
			m.Cursor = i
		}
	}
	return m
}

func (m BrowseModel) current() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.order) {
		return "", false
	}
	return m.order[m.Cursor], true
}

// jump moves the cursor to the first node of col.
func (m *BrowseModel) jump(col []browseSlot) {
	for _, s := range col {
		if !s.gap {
			m.Cursor = slices.Index(m.order, s.node.ID)
			return
		}
	}
}

// edgeTap returns the tap on the edge joining id and the focal item.
func (m BrowseModel) edgeTap(id string) render.Event {
	for _, e := range m.Scene.Edges {
		if e.Source == id && e.Target == m.Scene.Focal || e.Target == id && e.Source == m.Scene.Focal {
			return render.TapEdge(e.Source, e.Target)
		}
	}
	return render.TapEdge(id, m.Scene.Focal)
}

func (m BrowseModel) View() string {
	if !m.loaded {
		return browseDimStyle.Render("Building graph...")
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Crafting: " + m.Scene.Focal))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ move  ←/→ column  ⏎ select  esc clear  e edge  n open  q quit"))
	b.WriteString("\n\n")

	cursorID, _ := m.current()
	center, _ := m.Scene.Node(m.Scene.Focal)
	columns := []string{
		m.renderColumn(m.left, cursorID),
		browseDimStyle.Render(" ──▶ "),
		m.renderNode(center, cursorID),
		browseDimStyle.Render(" ──▶ "),
		m.renderColumn(m.right, cursorID),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, columns...))
	b.WriteString("\n")

	if len(m.Scene.Unplaced) > 0 {
		b.WriteString(browseDimStyle.Render("Unplaced: " + strings.Join(m.Scene.Unplaced, ", ")))
		b.WriteString("\n")
	}

	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.order))))
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m BrowseModel) renderColumn(col []browseSlot, cursorID string) string {
	if len(col) == 0 {
		return browseDimStyle.Render("(none)")
	}
	rows := make([]string, 0, len(col))
	for _, s := range col {
		if s.gap {
			rows = append(rows, browseGapStyle.Render("· missing ·"))
			continue
		}
		rows = append(rows, m.renderNode(*s.node, cursorID))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderNode draws a node as a box colored by its resolved style.
func (m BrowseModel) renderNode(n scene.Node, cursorID string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(n.Style.Border)).
		Foreground(lipgloss.Color(n.Style.TextColor)).
		Padding(0, 1)
	if n.Selected {
		box = box.Border(lipgloss.ThickBorder()).Bold(true)
	}

	label := n.Label
	if rel := m.relation[n.ID]; rel != "" {
		label += "\n" + browseDimStyle.Render(rel)
	}

	marker := "  "
	if n.ID == cursorID {
		marker = browseCursorStyle.Render("▸ ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, marker, box.Render(label))
}

func (m BrowseModel) renderDetail() string {
	d := m.Scene.Detail
	if d == nil {
		return browsePanelStyle.Render(browseDimStyle.Render("Nothing selected"))
	}
	lines := []string{
		StyleHighlight.Render(strings.ReplaceAll(d.Label, "\n", " ")),
		browseDimStyle.Render("id     ") + d.ID,
		browseDimStyle.Render("kind   ") + string(d.Kind),
	}
	if r := d.Rarity.String(); r != "" {
		lines = append(lines, browseDimStyle.Render("rarity ")+rarityStyle(d.Rarity).Render(r))
	}
	return browsePanelStyle.Render(strings.Join(lines, "\n"))
}
