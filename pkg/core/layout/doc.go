// Package layout computes squarified treemap layouts.
//
// # Overview
//
// Two entry points cover the two levels of the problem:
//
//   - [Squarify] tiles one group of siblings into a bounding rectangle
//   - [Processor.Layout] applies Squarify top-down over a whole tree, inserting
//     padding between a node and its children and propagating colors
//
// # Algorithm
//
// Squarify follows Bruls, Huizing and van Wijk. Siblings are sorted by
// descending weight (stable), their weights are rescaled to rounded areas of
// the bounds, and rows are grown greedily while adding the next node moves the
// row's worst aspect ratio closer to 1. [WillImprove] decides ties in favor of
// closing the row.
//
// Rows are laid along the shorter side of the remaining area. Before a row is
// placed the opposite side is tried too, and the direction is flipped for that
// row when it gives squarer rectangles.
//
// # Coordinates
//
// Rectangles are absolute: the first row starts at the bounds origin, and a
// node's children are placed inside its rectangle offset by the padding
// (XPadding on the left, YPadding on top).
//
// # Degenerate input
//
// Zero, negative and non-finite areas produce zero-size rectangles instead of
// NaN or infinite geometry. A sibling group whose weights sum to zero yields an
// empty result; the processor then gives every child a zero rectangle at the
// padded origin so the tree still reads as laid out.
//
// # Pruning
//
// The processor only descends into children whose rectangle is at least one
// unit on each side. Descendants of smaller children have their rectangles
// cleared, so recursion depth is bounded by geometry rather than a depth limit.
package layout
