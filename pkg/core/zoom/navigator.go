package zoom

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/matzehuels/treemap/pkg/core/layout"
	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Navigator is the zoom state machine over one tree.
type Navigator struct {
	stack     []*tree.Node
	viewport  tree.Rect
	processor *layout.Processor
	observers []Observer
	selected  *tree.Node
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithProcessor sets the layout processor used on every zoom. The default
// uses the standard padding.
func WithProcessor(p *layout.Processor) Option {
	return func(n *Navigator) {
		if p != nil {
			n.processor = p
		}
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(n *Navigator) {
		if o != nil {
			n.observers = append(n.observers, o)
		}
	}
}

// New creates a navigator showing root and lays root out into viewport.
func New(root *tree.Node, viewport tree.Rect, opts ...Option) (*Navigator, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil root")
	}
	nav := &Navigator{
		stack:    []*tree.Node{root},
		viewport: viewport,
	}
	for _, opt := range opts {
		opt(nav)
	}
	if nav.processor == nil {
		nav.processor = layout.NewProcessor()
	}
	if err := nav.relayout(root, viewport); err != nil {
		return nil, err
	}
	return nav, nil
}

// =============================================================================
// State
// =============================================================================

// Root returns the true root at the bottom of the stack.
func (nv *Navigator) Root() *tree.Node { return nv.stack[0] }

// Current returns the node on display.
func (nv *Navigator) Current() *tree.Node { return nv.stack[len(nv.stack)-1] }

// Stack returns a copy of the zoom stack, true root first.
func (nv *Navigator) Stack() []*tree.Node { return slices.Clone(nv.stack) }

// Depth returns the number of levels above the true root being shown.
func (nv *Navigator) Depth() int { return len(nv.stack) - 1 }

// IsRootShown reports whether the true root is on display, which is when zoom
// out and full zoom have nothing to do.
func (nv *Navigator) IsRootShown() bool { return len(nv.stack) == 1 }

// Selected returns the last node passed to Select, or nil.
func (nv *Navigator) Selected() *tree.Node { return nv.selected }

// Viewport returns the area the current root is laid out into.
func (nv *Navigator) Viewport() tree.Rect { return nv.viewport }

// Ancestors returns n and every ancestor up to the true root, nearest first.
func (nv *Navigator) Ancestors(n *tree.Node) []*tree.Node {
	if n == nil {
		return nil
	}
	return n.Ancestors()
}

// Breadcrumb returns the path from the true root to the current node.
func (nv *Navigator) Breadcrumb() []*tree.Node {
	path := nv.Current().Ancestors()
	slices.Reverse(path)
	return path
}

// =============================================================================
// Navigation
// =============================================================================

// ZoomIn shows n as the displayed root. It does nothing if n is nil or
// already shown. The stack becomes n's ancestor chain, so zooming into an
// ancestor of the current node also works. A node from another tree fails
// with [errors.ErrCodeInvalidInput].
func (nv *Navigator) ZoomIn(n *tree.Node) error {
	if n == nil || n == nv.Current() {
		return nil
	}
	if !nv.Root().IsAncestorOf(n) {
		return errors.New(errors.ErrCodeInvalidInput, "node %d (%q) is not in this tree", n.ID(), n.Label())
	}

	chain := n.Ancestors()
	slices.Reverse(chain)
	if err := nv.relayout(n, nv.viewport); err != nil {
		return err
	}
	nv.stack = chain
	return nv.notify("zoom in", func(o Observer) { o.OnZoomIn(n) })
}

// ZoomOut shows the parent level of the current node. It does nothing when
// the true root is shown.
func (nv *Navigator) ZoomOut() error {
	if nv.IsRootShown() {
		return nil
	}
	top := nv.stack[len(nv.stack)-2]
	if err := nv.relayout(top, nv.viewport); err != nil {
		return err
	}
	nv.stack = nv.stack[:len(nv.stack)-1]
	return nv.notify("zoom out", Observer.OnZoomOut)
}

// ZoomFull returns to the true root. It does nothing when the true root is
// already shown.
func (nv *Navigator) ZoomFull() error {
	if nv.IsRootShown() {
		return nil
	}
	if err := nv.relayout(nv.Root(), nv.viewport); err != nil {
		return err
	}
	nv.stack = nv.stack[:1]
	return nv.notify("zoom full", Observer.OnZoomFull)
}

// Select marks n as selected and notifies observers. Nil clears the
// selection without notifying.
func (nv *Navigator) Select(n *tree.Node) error {
	if n == nil {
		nv.selected = nil
		return nil
	}
	if !nv.Root().IsAncestorOf(n) {
		return errors.New(errors.ErrCodeInvalidInput, "node %d (%q) is not in this tree", n.ID(), n.Label())
	}
	nv.selected = n
	return nv.notify("select", func(o Observer) { o.OnSelect(n) })
}

// Resize lays the current root out into a new viewport.
func (nv *Navigator) Resize(viewport tree.Rect) error {
	if err := nv.relayout(nv.Current(), viewport); err != nil {
		return err
	}
	nv.viewport = viewport
	return nil
}

// =============================================================================
// Observers
// =============================================================================

// Register adds an observer. Observers are notified in registration order.
func (nv *Navigator) Register(o Observer) {
	if o != nil {
		nv.observers = append(nv.observers, o)
	}
}

// Unregister removes the first registration of o. Observers are matched with
// ==, so register pointers; an observer whose dynamic type is not comparable
// can never be unregistered.
func (nv *Navigator) Unregister(o Observer) {
	if i := slices.IndexFunc(nv.observers, func(x Observer) bool { return sameObserver(x, o) }); i >= 0 {
		nv.observers = slices.Delete(nv.observers, i, i+1)
	}
}

func sameObserver(a, b Observer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

func (nv *Navigator) relayout(root *tree.Node, viewport tree.Rect) error {
	_, err := nv.processor.Layout(root, viewport)
	return err
}

// notify calls fn for every observer, recovering panics so that later
// observers still run.
func (nv *Navigator) notify(event string, fn func(Observer)) error {
	var errs []error
	for _, o := range slices.Clone(nv.observers) {
		if err := call(o, fn); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeObserver, stderrors.Join(errs...), "%d observer(s) failed on %s", len(errs), event)
}

func call(o Observer, fn func(Observer)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %T: %v", o, r)
		}
	}()
	fn(o)
	return nil
}
