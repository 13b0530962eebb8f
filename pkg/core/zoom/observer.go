package zoom

import "github.com/matzehuels/treemap/pkg/core/tree"

// Observer receives navigation events.
type Observer interface {
	// OnSelect is called when a node is selected without changing the view.
	OnSelect(n *tree.Node)
	// OnZoomIn is called after the view zoomed into n.
	OnZoomIn(n *tree.Node)
	// OnZoomOut is called after the view moved up one level.
	OnZoomOut()
	// OnZoomFull is called after the view returned to the true root.
	OnZoomFull()
}

// NoopObserver ignores every event. Embed it to implement only some methods.
type NoopObserver struct{}

func (NoopObserver) OnSelect(*tree.Node) {}
func (NoopObserver) OnZoomIn(*tree.Node) {}
func (NoopObserver) OnZoomOut()          {}
func (NoopObserver) OnZoomFull()         {}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Select   func(n *tree.Node)
	ZoomIn   func(n *tree.Node)
	ZoomOut  func()
	ZoomFull func()
}

func (f *ObserverFuncs) OnSelect(n *tree.Node) {
	if f.Select != nil {
		f.Select(n)
	}
}

func (f *ObserverFuncs) OnZoomIn(n *tree.Node) {
	if f.ZoomIn != nil {
		f.ZoomIn(n)
	}
}

func (f *ObserverFuncs) OnZoomOut() {
	if f.ZoomOut != nil {
		f.ZoomOut()
	}
}

func (f *ObserverFuncs) OnZoomFull() {
	if f.ZoomFull != nil {
		f.ZoomFull()
	}
}
