// Package tree provides the weighted tree model consumed by the treemap
// layout engine.
//
// # Overview
//
// A [Node] carries everything the layout and rendering stages need:
//
//   - A process-unique id, assigned in increasing order at construction
//   - A display label (mutable, not unique)
//   - A real weight (the author-assigned size) and an effective weight
//   - The rectangle computed by layout, and the color assigned by the processor
//   - A parent back-reference and an ordered list of owned children
//   - Free-form string annotations ([Node.SetInfo])
//
// # Weights
//
// The effective [Node.Weight] falls back to the real weight whenever it is
// zero, negative or NaN. Calling [SetAllowNonPositiveWeight] disables the
// fallback so such weights reach the layout unchanged, which is mostly useful
// in tests.
//
// Interior nodes normally carry the sum of their leaves; [FillWeights]
// recomputes it bottom-up for builders that only set leaf sizes.
//
// # Rectangles
//
// Reading a rectangle before any layout pass is an error:
//
//	r, err := n.Rect()
//	if errors.Is(err, errors.ErrCodeNotLaidOut) {
//	    // layout has not run yet
//	}
//
// # Colors
//
// [Palette] is the fixed cycle of eight pastel colors. [NextColor] is a pure
// function of a node's current color, so two sessions never share color state:
//
//	child := tree.NextColor(parent.Color())
//
// # Ownership
//
// A node has at most one parent. [Node.SetChildren] and [Node.AddChild] move a
// node away from its previous parent, and children dropped by SetChildren lose
// their parent reference.
package tree
