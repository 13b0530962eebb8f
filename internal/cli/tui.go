package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/core/zoom"
)

// The treemap is laid out in a virtual pixel space where one terminal cell
// covers cellWidth x cellHeight units, so the standard padding leaves about
// two columns and one row of the parent visible around its children.
const (
	cellWidth   = 8
	cellHeight  = 16
	headerLines = 2
	footerLines = 3
)

var (
	mapLabelColor   = lipgloss.Color("235")
	browseHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
	browseErrStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// browseState - navigation observer
// =============================================================================

// browseState follows the navigator through the observer contract. Model
// copies share one instance.
type browseState struct {
	nav    *zoom.Navigator
	crumbs []string
	status string
}

func newBrowseState(nav *zoom.Navigator) *browseState {
	s := &browseState{nav: nav}
	s.refresh()
	return s
}

func (s *browseState) refresh() {
	s.crumbs = s.crumbs[:0]
	for _, n := range s.nav.Breadcrumb() {
		s.crumbs = append(s.crumbs, n.Label())
	}
}

func (s *browseState) OnSelect(n *tree.Node) {
	s.status = "selected " + n.Label()
}

func (s *browseState) OnZoomIn(n *tree.Node) {
	s.refresh()
	s.status = "zoomed into " + n.Label()
}

func (s *browseState) OnZoomOut() {
	s.refresh()
	s.status = "zoomed out"
}

func (s *browseState) OnZoomFull() {
	s.refresh()
	s.status = "back at the root"
}

// =============================================================================
// BrowseModel - interactive treemap
// =============================================================================

// BrowseModel is the bubbletea model for zooming through a treemap.
type BrowseModel struct {
	title  string
	nav    *zoom.Navigator
	state  *browseState
	cursor int
	err    error
}

// NewBrowseModel creates a model over nav and selects the largest child of
// the shown root.
func NewBrowseModel(nav *zoom.Navigator, title string) BrowseModel {
	state := newBrowseState(nav)
	nav.Register(state)
	m := BrowseModel{title: title, nav: nav, state: state}
	m.selectCursor()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "up", "h", "k", "shift+tab":
			m.move(-1)
		case "right", "down", "l", "j", "tab":
			m.move(1)
		case "enter":
			m.zoomIn()
		case "backspace":
			m.zoomOut()
		case "r":
			m.err = m.nav.ZoomFull()
			m.cursor = 0
			m.selectCursor()
		}
	case tea.WindowSizeMsg:
		rows := msg.Height - headerLines - footerLines
		if msg.Width > 0 && rows > 0 {
			m.err = m.nav.Resize(tree.NewRect(0, 0, float64(msg.Width*cellWidth), float64(rows*cellHeight)))
		}
	}
	return m, nil
}

// choices are the drawable children of the shown root in placement order.
func (m BrowseModel) choices() []*tree.Node {
	var out []*tree.Node
	for _, c := range m.nav.Current().Children() {
		if c.IsDrawable() {
			out = append(out, c)
		}
	}
	return out
}

func (m BrowseModel) selected() *tree.Node {
	choices := m.choices()
	if m.cursor < 0 || m.cursor >= len(choices) {
		return nil
	}
	return choices[m.cursor]
}

func (m *BrowseModel) move(delta int) {
	n := len(m.choices())
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.selectCursor()
}

func (m *BrowseModel) selectCursor() {
	if err := m.nav.Select(m.selected()); err != nil {
		m.err = err
	}
}

func (m *BrowseModel) zoomIn() {
	sel := m.selected()
	if sel == nil || !sel.HasChildren() {
		m.state.status = "nothing to zoom into"
		return
	}
	m.err = m.nav.ZoomIn(sel)
	m.cursor = 0
	m.selectCursor()
}

func (m *BrowseModel) zoomOut() {
	from := m.nav.Current()
	if m.err = m.nav.ZoomOut(); m.err != nil {
		return
	}
	m.cursor = max(slices.Index(m.choices(), from), 0)
	m.selectCursor()
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(breadcrumb(m.state.crumbs)))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("←/→ select  ⏎ zoom in  ⌫ zoom out  r reset  q quit"))
	b.WriteString("\n")

	b.WriteString(paintTreemap(m.nav.Current(), m.nav.Viewport(), m.selected()))

	b.WriteString(m.footer())
	return b.String()
}

func (m BrowseModel) footer() string {
	var b strings.Builder
	if sel := m.selected(); sel != nil {
		fmt.Fprintf(&b, "%s  %s", StyleValue.Render(sel.Label()), StyleNumber.Render(fmt.Sprintf("%g", sel.Weight())))
		if n := len(sel.Children()); n > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  %d children", n)))
		}
		var infos []string
		for _, k := range sel.InfoKeys() {
			v, _ := sel.Info(k)
			infos = append(infos, k+": "+v)
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(strings.Join(infos, "  ")))
	} else {
		b.WriteString(StyleDim.Render("no children"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(browseErrStyle.Render(m.err.Error()))
	} else {
		b.WriteString(StyleSuccess.Render(m.state.status))
	}
	return b.String()
}

// =============================================================================
// Painting
// =============================================================================

type cell struct {
	bg lipgloss.Color
	ch rune
}

// paintTreemap rasterizes the laid-out subtree under root into terminal
// cells, parents first, outlines sel and labels root and its children.
func paintTreemap(root *tree.Node, viewport tree.Rect, sel *tree.Node) string {
	cols := int(viewport.Width / cellWidth)
	rows := int(viewport.Height / cellHeight)
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j].ch = ' '
		}
	}

	root.Walk(func(n *tree.Node) bool {
		if !n.IsDrawable() {
			return false
		}
		r0, c0, r1, c1, ok := cellBounds(n, viewport, rows, cols)
		if !ok {
			return false
		}
		bg := lipgloss.Color("")
		if c, has := n.Color(); has {
			bg = lipgloss.Color(c.Hex())
		}
		for r := r0; r < r1; r++ {
			for c := c0; c < c1; c++ {
				grid[r][c] = cell{bg: bg, ch: ' '}
			}
		}
		return true
	})

	drawLabel(grid, root, viewport)
	for _, c := range root.Children() {
		if c.IsDrawable() {
			drawLabel(grid, c, viewport)
		}
	}
	if sel != nil {
		outline(grid, sel, viewport)
	}

	var b strings.Builder
	for _, row := range grid {
		writeRow(&b, row)
		b.WriteString("\n")
	}
	return b.String()
}

// cellBounds maps n's rectangle to the half-open cell range [r0,r1)x[c0,c1).
func cellBounds(n *tree.Node, viewport tree.Rect, rows, cols int) (r0, c0, r1, c1 int, ok bool) {
	rect, err := n.Rect()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	c0 = clamp(int((rect.X-viewport.X)/cellWidth), 0, cols)
	c1 = clamp(int((rect.X+rect.Width-viewport.X)/cellWidth), 0, cols)
	r0 = clamp(int((rect.Y-viewport.Y)/cellHeight), 0, rows)
	r1 = clamp(int((rect.Y+rect.Height-viewport.Y)/cellHeight), 0, rows)
	return r0, c0, r1, c1, r1 > r0 && c1 > c0
}

func drawLabel(grid [][]cell, n *tree.Node, viewport tree.Rect) {
	r0, c0, _, c1, ok := cellBounds(n, viewport, len(grid), len(grid[0]))
	if !ok {
		return
	}
	text := []rune(n.Label())
	if avail := c1 - c0 - 2; len(text) > avail {
		if avail <= 0 {
			return
		}
		text = text[:avail]
	}
	for i, ch := range text {
		grid[r0][c0+1+i].ch = ch
	}
}

func outline(grid [][]cell, n *tree.Node, viewport tree.Rect) {
	r0, c0, r1, c1, ok := cellBounds(n, viewport, len(grid), len(grid[0]))
	if !ok {
		return
	}
	last, right := r1-1, c1-1
	for c := c0; c < c1; c++ {
		if grid[r0][c].ch == ' ' {
			grid[r0][c].ch = '─'
		}
		grid[last][c].ch = '─'
	}
	for r := r0; r < r1; r++ {
		grid[r][c0].ch = '│'
		grid[r][right].ch = '│'
	}
	grid[r0][c0], grid[r0][right] = cell{grid[r0][c0].bg, '┌'}, cell{grid[r0][right].bg, '┐'}
	grid[last][c0], grid[last][right] = cell{grid[last][c0].bg, '└'}, cell{grid[last][right].bg, '┘'}
}

// writeRow renders runs of equal background as one styled segment.
func writeRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].bg == row[start].bg {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range row[start:i] {
			run = append(run, c.ch)
		}
		style := lipgloss.NewStyle().Foreground(mapLabelColor)
		if row[start].bg != "" {
			style = style.Background(row[start].bg)
		}
		b.WriteString(style.Render(string(run)))
		start = i
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
