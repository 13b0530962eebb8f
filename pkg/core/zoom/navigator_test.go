package zoom

import (
	"slices"
	"testing"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

var viewport = tree.NewRect(0, 0, 800, 600)

// recorder logs events as strings.
type recorder struct {
	events []string
}

func (r *recorder) OnSelect(n *tree.Node) { r.events = append(r.events, "select:"+n.Label()) }
func (r *recorder) OnZoomIn(n *tree.Node) { r.events = append(r.events, "in:"+n.Label()) }
func (r *recorder) OnZoomOut()            { r.events = append(r.events, "out") }
func (r *recorder) OnZoomFull()           { r.events = append(r.events, "full") }

type panicker struct{ NoopObserver }

func (panicker) OnZoomIn(*tree.Node) { panic("boom") }

// buildTree returns root -> child -> grandchild plus a sibling leaf.
func buildTree() (root, child, grandchild *tree.Node) {
	root = tree.NewNode("root", 0)
	child = tree.NewNode("child", 0)
	grandchild = tree.NewNode("grandchild", 0)
	grandchild.SetChildren([]*tree.Node{tree.NewNode("leaf1", 3), tree.NewNode("leaf2", 1)})
	child.SetChildren([]*tree.Node{grandchild, tree.NewNode("other", 2)})
	root.SetChildren([]*tree.Node{child, tree.NewNode("sibling", 4)})
	tree.FillWeights(root)
	return root, child, grandchild
}

func stackLabels(nv *Navigator) []string {
	var out []string
	for _, n := range nv.Stack() {
		out = append(out, n.Label())
	}
	return out
}

func TestNewLaysOutRoot(t *testing.T) {
	root, _, _ := buildTree()
	nv, err := New(root, viewport)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r, err := root.Rect()
	if err != nil || r != viewport {
		t.Errorf("root rect = %v, %v, want %v", r, err, viewport)
	}
	if !nv.IsRootShown() || nv.Current() != root {
		t.Error("new navigator should show the root")
	}

	if _, err := New(nil, viewport); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(nil) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestZoomInGrandchildThenOutTwice(t *testing.T) {
	root, _, grandchild := buildTree()
	rec := &recorder{}
	nv, err := New(root, viewport, WithObserver(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := nv.ZoomIn(grandchild); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if got, want := stackLabels(nv), []string{"root", "child", "grandchild"}; !slices.Equal(got, want) {
		t.Errorf("Stack() = %v, want %v", got, want)
	}
	if r, _ := grandchild.Rect(); r != viewport {
		t.Errorf("zoomed root rect = %v, want %v", r, viewport)
	}

	if err := nv.ZoomOut(); err != nil {
		t.Fatalf("ZoomOut() error = %v", err)
	}
	if nv.Current().Label() != "child" {
		t.Errorf("Current() = %s, want child", nv.Current().Label())
	}
	if err := nv.ZoomOut(); err != nil {
		t.Fatalf("ZoomOut() error = %v", err)
	}
	if nv.Current() != root || !nv.IsRootShown() {
		t.Errorf("Current() = %s, want root", nv.Current().Label())
	}

	if want := []string{"in:grandchild", "out", "out"}; !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestZoomNoops(t *testing.T) {
	root, child, _ := buildTree()
	rec := &recorder{}
	nv, err := New(root, viewport, WithObserver(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"zoom out at root", nv.ZoomOut},
		{"zoom full at root", nv.ZoomFull},
		{"zoom in nil", func() error { return nv.ZoomIn(nil) }},
		{"zoom in current", func() error { return nv.ZoomIn(root) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			t.Errorf("%s: error = %v", s.name, err)
		}
	}
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}

	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn(current) error = %v", err)
	}
	if len(rec.events) != 1 {
		t.Errorf("events = %v, want one zoom in", rec.events)
	}
}

func TestZoomFull(t *testing.T) {
	root, _, grandchild := buildTree()
	rec := &recorder{}
	nv, _ := New(root, viewport, WithObserver(rec))

	if err := nv.ZoomIn(grandchild); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if err := nv.ZoomFull(); err != nil {
		t.Fatalf("ZoomFull() error = %v", err)
	}
	if got := nv.Stack(); len(got) != 1 || got[0] != root {
		t.Errorf("Stack() = %v, want [root]", stackLabels(nv))
	}
	if want := []string{"in:grandchild", "full"}; !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestZoomInToAncestor(t *testing.T) {
	root, child, grandchild := buildTree()
	nv, _ := New(root, viewport)

	if err := nv.ZoomIn(grandchild); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn(ancestor) error = %v", err)
	}
	if got, want := stackLabels(nv), []string{"root", "child"}; !slices.Equal(got, want) {
		t.Errorf("Stack() = %v, want %v", got, want)
	}
}

func TestStackBottomIsAlwaysRoot(t *testing.T) {
	root, child, grandchild := buildTree()
	nv, _ := New(root, viewport)

	ops := []func() error{
		func() error { return nv.ZoomIn(grandchild) },
		nv.ZoomOut,
		func() error { return nv.ZoomIn(root.FindByLabel("leaf1")) },
		nv.ZoomFull,
		nv.ZoomOut,
		func() error { return nv.ZoomIn(child) },
		nv.ZoomOut,
		nv.ZoomOut,
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: error = %v", i, err)
		}
		if nv.Stack()[0] != root {
			t.Fatalf("op %d: stack bottom = %s, want root", i, nv.Stack()[0].Label())
		}
	}
}

func TestZoomInForeignNode(t *testing.T) {
	root, _, _ := buildTree()
	nv, _ := New(root, viewport)
	stranger := tree.NewNode("stranger", 1)

	if err := nv.ZoomIn(stranger); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ZoomIn(foreign) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if err := nv.Select(stranger); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Select(foreign) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if !nv.IsRootShown() {
		t.Error("failed zoom changed the stack")
	}
}

func TestObserverFailureIsolated(t *testing.T) {
	root, child, _ := buildTree()
	first := &recorder{}
	last := &recorder{}
	nv, _ := New(root, viewport)
	nv.Register(first)
	nv.Register(panicker{})
	nv.Register(last)

	err := nv.ZoomIn(child)
	if !errors.Is(err, errors.ErrCodeObserver) {
		t.Fatalf("ZoomIn() error = %v, want %s", err, errors.ErrCodeObserver)
	}
	if len(first.events) != 1 || len(last.events) != 1 {
		t.Errorf("events = %v / %v, want both observers notified", first.events, last.events)
	}
	if nv.Current() != child {
		t.Error("zoom did not take effect despite observer failure")
	}
}

func TestRegisterOrderAndUnregister(t *testing.T) {
	root, child, _ := buildTree()
	nv, _ := New(root, viewport)

	var order []string
	a := &ObserverFuncs{ZoomIn: func(*tree.Node) { order = append(order, "a") }}
	b := &ObserverFuncs{ZoomIn: func(*tree.Node) { order = append(order, "b") }}
	nv.Register(a)
	nv.Register(b)

	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	nv.Unregister(a)
	if err := nv.ZoomOut(); err != nil {
		t.Fatalf("ZoomOut() error = %v", err)
	}
	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if want := []string{"a", "b", "b"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

// sliceObserver has a non-comparable value type.
type sliceObserver struct {
	NoopObserver
	seen []string
}

func TestUnregisterNonComparableObserver(t *testing.T) {
	root, child, _ := buildTree()
	nv, _ := New(root, viewport)

	obs := sliceObserver{seen: []string{"x"}}
	nv.Register(obs)
	rec := &recorder{}
	nv.Register(rec)

	nv.Unregister(sliceObserver{})
	nv.Unregister(obs)
	nv.Unregister(rec)

	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("unregistered recorder saw %v", rec.events)
	}
}

func TestSelectAndBreadcrumb(t *testing.T) {
	root, child, grandchild := buildTree()
	rec := &recorder{}
	nv, _ := New(root, viewport, WithObserver(rec))

	if err := nv.Select(grandchild); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if nv.Selected() != grandchild {
		t.Error("Selected() did not return the selected node")
	}
	if err := nv.ZoomIn(grandchild); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}

	crumbs := nv.Breadcrumb()
	if want := []*tree.Node{root, child, grandchild}; !slices.Equal(crumbs, want) {
		t.Errorf("Breadcrumb() = %v, want root, child, grandchild", crumbs)
	}
	if got := nv.Ancestors(grandchild); len(got) != 3 || got[0] != grandchild || got[2] != root {
		t.Errorf("Ancestors() = %v, want nearest first", got)
	}
	if want := []string{"select:grandchild", "in:grandchild"}; !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestResize(t *testing.T) {
	root, child, _ := buildTree()
	nv, _ := New(root, viewport)
	if err := nv.ZoomIn(child); err != nil {
		t.Fatalf("ZoomIn() error = %v", err)
	}

	next := tree.NewRect(0, 0, 320, 240)
	if err := nv.Resize(next); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if r, _ := child.Rect(); r != next {
		t.Errorf("current rect = %v, want %v", r, next)
	}
	if nv.Viewport() != next {
		t.Errorf("Viewport() = %v, want %v", nv.Viewport(), next)
	}
	if err := nv.Resize(tree.NewRect(0, 0, -1, 1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(invalid) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if nv.Viewport() != next {
		t.Error("failed resize changed the viewport")
	}
}
