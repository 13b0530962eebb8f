package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// sampleTree builds root -> {a -> {a1, a2}, b, c -> {c1 -> {c11}}}.
func sampleTree() *tree.Node {
	root := tree.NewNode("root", 0)
	a := tree.NewNode("a", 0)
	a.SetChildren([]*tree.Node{tree.NewNode("a1", 30), tree.NewNode("a2", 10)})
	c := tree.NewNode("c", 0)
	c1 := tree.NewNode("c1", 0)
	c1.AddChild(tree.NewNode("c11", 20))
	c.AddChild(c1)
	root.SetChildren([]*tree.Node{tree.NewNode("b", 15), a, c})
	tree.FillWeights(root)
	return root
}

func TestLayoutInvalidInput(t *testing.T) {
	if _, err := Layout(nil, tree.NewRect(0, 0, 10, 10)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Layout(nil) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := Layout(tree.NewNode("r", 1), tree.NewRect(0, 0, -5, 10)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Layout(negative area) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestLayoutRootAndColors(t *testing.T) {
	root := sampleTree()
	area := tree.NewRect(0, 0, 800, 600)
	if _, err := Layout(root, area); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if got := mustRect(t, root); got != area {
		t.Errorf("root rect = %v, want %v", got, area)
	}
	if c, _ := root.Color(); c != tree.Palette[0] {
		t.Errorf("root color = %v, want %v", c, tree.Palette[0])
	}
	for _, c := range root.Children() {
		if got, _ := c.Color(); got != tree.Palette[1] {
			t.Errorf("%s color = %v, want %v", c.Label(), got, tree.Palette[1])
		}
	}
	c11 := root.FindByLabel("c11")
	if got, _ := c11.Color(); got != tree.Palette[3] {
		t.Errorf("c11 color = %v, want %v", got, tree.Palette[3])
	}
}

func TestLayoutKeepsExplicitColor(t *testing.T) {
	root := sampleTree()
	a := root.FindByLabel("a")
	a.SetColor(tree.Palette[6])
	if _, err := Layout(root, tree.NewRect(0, 0, 800, 600)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got, _ := a.Color(); got != tree.Palette[6] {
		t.Errorf("a color = %v, want %v", got, tree.Palette[6])
	}
	if got, _ := root.FindByLabel("a1").Color(); got != tree.Palette[7] {
		t.Errorf("a1 color = %v, want %v", got, tree.Palette[7])
	}
}

func TestLayoutReordersAndPads(t *testing.T) {
	root := tree.NewNode("root", 0)
	root.SetChildren([]*tree.Node{tree.NewNode("a", 1), tree.NewNode("b", 3), tree.NewNode("c", 2)})
	tree.FillWeights(root)

	if _, err := Layout(root, tree.NewRect(0, 0, 200, 100)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got, want := labels(root.Children()), []string{"b", "c", "a"}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	b := mustRect(t, root.Children()[0])
	if b.X != XPadding || b.Y != YPadding || b.Height != 70 {
		t.Errorf("first child rect = %v, want origin (15,20) height 70", b)
	}

	var total float64
	for _, c := range root.Children() {
		total += mustRect(t, c).Area()
	}
	if want := 170.0 * 70.0; total < want-1.5 || total > want+1.5 {
		t.Errorf("children area = %v, want %v", total, want)
	}
}

func TestSubArea(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		in   tree.Rect
		want tree.Rect
	}{
		{"default", nil, tree.NewRect(0, 0, 100, 100), tree.NewRect(15, 20, 70, 70)},
		{"clamped", nil, tree.NewRect(5, 5, 20, 20), tree.NewRect(20, 25, 0, 0)},
		{"custom", []Option{WithPadding(1, 2)}, tree.NewRect(0, 0, 10, 10), tree.NewRect(1, 2, 8, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewProcessor(tt.opts...).SubArea(tt.in); got != tt.want {
				t.Errorf("SubArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayoutIdempotent(t *testing.T) {
	root := sampleTree()
	area := tree.NewRect(0, 0, 1024, 768)

	snapshot := func() map[int64]tree.Rect {
		out := make(map[int64]tree.Rect)
		root.Walk(func(n *tree.Node) bool {
			if r, err := n.Rect(); err == nil {
				out[n.ID()] = r
			}
			return true
		})
		return out
	}

	if _, err := Layout(root, area); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	first := snapshot()
	if _, err := Layout(root, area); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	second := snapshot()

	if len(first) != len(second) {
		t.Fatalf("laid out %d nodes, then %d", len(first), len(second))
	}
	for id, r := range first {
		if second[id] != r {
			t.Errorf("node %d rect changed: %v -> %v", id, r, second[id])
		}
	}
}

func TestLayoutPrunesSmallChildren(t *testing.T) {
	root := tree.NewNode("root", 0)
	small := tree.NewNode("small", 0)
	small.AddChild(tree.NewNode("hidden", 1))
	big := tree.NewNode("big", 0)
	big.AddChild(tree.NewNode("big1", 1000))
	root.SetChildren([]*tree.Node{small, big})
	tree.FillWeights(root)

	// First pass at a size where everything is drawable.
	if _, err := Layout(root, tree.NewRect(0, 0, 4000, 4000)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if !root.FindByLabel("hidden").HasRect() {
		t.Fatal("hidden has no rect at large size")
	}

	if _, err := Layout(root, tree.NewRect(0, 0, 40, 40)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	root.Walk(func(n *tree.Node) bool {
		if n == root || n.IsDrawable() {
			return true
		}
		for _, c := range n.Children() {
			c.Walk(func(d *tree.Node) bool {
				if d.HasRect() {
					t.Errorf("%s under non-drawable %s has rect", d.Label(), n.Label())
				}
				return true
			})
		}
		return false
	})
	if small.IsDrawable() {
		t.Errorf("small rect = %v, want non-drawable", mustRect(t, small))
	}
}

func TestLayoutZeroWeightChildren(t *testing.T) {
	root := tree.NewNode("root", 1)
	root.SetChildren([]*tree.Node{tree.NewNode("x", 0), tree.NewNode("y", 0)})

	if _, err := Layout(root, tree.NewRect(0, 0, 100, 100)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got, want := labels(root.Children()), []string{"x", "y"}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	for _, c := range root.Children() {
		r := mustRect(t, c)
		if r != tree.NewRect(XPadding, YPadding, 0, 0) {
			t.Errorf("%s rect = %v, want zero at padded origin", c.Label(), r)
		}
	}
}
