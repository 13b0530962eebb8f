package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// direction is the axis along which the next row is laid out.
type direction int

const (
	// leftRight places row members side by side; the principal side is the
	// available width.
	leftRight direction = iota
	// topBottom stacks row members vertically; the principal side is the
	// available height.
	topBottom
)

// Squarify assigns a rectangle to every node so that together they tile
// bounds, with areas proportional to the nodes' effective weights. It returns
// the nodes in the order they were placed, which is descending weight rather
// than input order. The input slice is not modified.
//
// A nil or empty slice yields an empty result. When the weights do not sum to
// a positive total the result is also empty and every node gets a zero-size
// rectangle at the bounds origin. A node whose rescaled weight rounds to 0
// gets a zero-area rectangle inside bounds. A nil element or bounds that are
// negative or non-finite fail with [errors.ErrCodeInvalidInput].
func Squarify(nodes []*tree.Node, bounds tree.Rect) ([]*tree.Node, error) {
	if !bounds.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid bounds %v", bounds)
	}
	for i, n := range nodes {
		if n == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nil node at index %d", i)
		}
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	b := newBuilder(bounds)
	rest, ok := b.prepare(nodes)
	if !ok {
		collapse(nodes, bounds)
		return nil, nil
	}

	var row []*tree.Node
	side := b.principalSide()
	for len(rest) > 0 || len(row) > 0 {
		if len(rest) == 0 {
			b.finalizeRow(row)
			break
		}
		if len(row) == 0 {
			row = append(row, rest[0])
			rest = rest[1:]
			continue
		}

		expanded := append(row[:len(row):len(row)], rest[0])
		if !WillImprove(rowAspectRatio(row, side), rowAspectRatio(expanded, side)) {
			b.finalizeRow(row)
			row = nil
			side = b.principalSide()
			continue
		}
		row = expanded
		rest = rest[1:]
	}
	return b.placed, nil
}

// BestAspectRatio returns the worst aspect ratio among areas laid as one row
// against a side of the given length. For each area a it takes the larger of
// side²·a/sum² and sum²/(side²·a); NaN terms are ignored. An empty row has an
// infinite ratio.
func BestAspectRatio(areas []float64, side float64) float64 {
	if len(areas) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, a := range areas {
		sum += a
	}
	sq := side * side
	sumSq := sum * sum
	var worst float64
	for _, a := range areas {
		m := math.Max(sq*a/sumSq, sumSq/(sq*a))
		if m > worst {
			worst = m
		}
	}
	return worst
}

// WillImprove reports whether a row with aspect ratio expanded is squarer
// than the current row with ratio actual. A zero actual ratio always
// improves, a zero expanded ratio never does, and equal distances from 1 do
// not count as an improvement.
func WillImprove(actual, expanded float64) bool {
	if actual == 0 {
		return true
	}
	if expanded == 0 {
		return false
	}
	return math.Abs(actual-1) > math.Abs(expanded-1)
}

func rowAspectRatio(row []*tree.Node, side float64) float64 {
	areas := make([]float64, len(row))
	for i, n := range row {
		areas[i] = n.ScaledWeight()
	}
	return BestAspectRatio(areas, side)
}

// builder holds the state of one squarify pass: the area still free, the
// current drawing direction and the cursor where the next rectangle starts.
type builder struct {
	dir    direction
	avail  tree.Rect
	lastX  float64
	lastY  float64
	placed []*tree.Node
}

// collapse gives every node a zero-size rectangle at the bounds origin.
func collapse(nodes []*tree.Node, bounds tree.Rect) {
	for _, n := range nodes {
		n.SetScaledWeight(0)
		n.SetRect(tree.NewRect(bounds.X, bounds.Y, 0, 0))
	}
}

func newBuilder(bounds tree.Rect) *builder {
	b := &builder{
		avail: bounds,
		lastX: bounds.X,
		lastY: bounds.Y,
	}
	b.updateDirection()
	return b
}

// prepare sorts a copy of nodes by descending weight and rescales each weight
// to round(weight/total*area). It reports false when the weights do not sum
// to a positive finite total.
func (b *builder) prepare(nodes []*tree.Node) ([]*tree.Node, bool) {
	sorted := slices.Clone(nodes)
	tree.SortByWeight(sorted)

	var sum float64
	for _, n := range sorted {
		if w := n.Weight(); !math.IsNaN(w) {
			sum += w
		}
	}
	if !positive(sum) {
		return nil, false
	}

	total := b.avail.Area()
	for _, n := range sorted {
		a := math.Round(n.Weight() / sum * total)
		if math.IsNaN(a) {
			a = 0
		}
		n.SetScaledWeight(a)
	}
	b.placed = make([]*tree.Node, 0, len(sorted))
	return sorted, true
}

func (b *builder) updateDirection() {
	if b.avail.Width > b.avail.Height {
		b.dir = topBottom
	} else {
		b.dir = leftRight
	}
}

func (b *builder) invertDirection() {
	if b.dir == leftRight {
		b.dir = topBottom
	} else {
		b.dir = leftRight
	}
}

func (b *builder) principalSide() float64 {
	if b.dir == leftRight {
		return b.avail.Width
	}
	return b.avail.Height
}

func (b *builder) secondarySide() float64 {
	if b.dir == leftRight {
		return b.avail.Height
	}
	return b.avail.Width
}

// finalizeRow places row into the available area, flipping the direction for
// this row if the secondary side gives a squarer result, then shrinks the
// available area by the row's thickness.
func (b *builder) finalizeRow(row []*tree.Node) {
	if len(row) == 0 {
		return
	}
	var sum float64
	for _, n := range row {
		sum += n.ScaledWeight()
	}
	if WillImprove(rowAspectRatio(row, b.principalSide()), rowAspectRatio(row, b.secondarySide())) {
		b.invertDirection()
	}

	var first tree.Rect
	for i, n := range row {
		r := b.slice(sum, n.ScaledWeight())
		n.SetRect(r)
		if i == 0 {
			first = r
		}
		if b.dir == leftRight {
			b.lastX += r.Width
		} else {
			b.lastY += r.Height
		}
	}
	b.placed = append(b.placed, row...)
	b.reduce(first)
}

// slice computes the rectangle for one row member at the cursor.
func (b *builder) slice(sum, area float64) tree.Rect {
	side := b.principalSide()
	if !positive(area) || !positive(sum) || !positive(side) {
		return tree.NewRect(b.lastX, b.lastY, 0, 0)
	}
	var w, h float64
	if b.dir == topBottom {
		h = area / sum * side
		w = area / h
	} else {
		w = area / sum * side
		h = area / w
	}
	return tree.NewRect(b.lastX, b.lastY, w, h)
}

// reduce removes the finished row from the available area. All members of a
// row share the thickness of its first rectangle.
func (b *builder) reduce(first tree.Rect) {
	if b.dir == leftRight {
		b.avail.Height -= first.Height
		b.avail.Y = b.lastY + first.Height
		b.avail.X = first.X
	} else {
		b.avail.Width -= first.Width
		b.avail.X = b.lastX + first.Width
		b.avail.Y = first.Y
	}
	b.updateDirection()
	b.lastX = b.avail.X
	b.lastY = b.avail.Y
}

// positive reports whether v is finite and greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
