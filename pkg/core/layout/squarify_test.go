package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

const eps = 1e-9

func leaves(weights ...float64) []*tree.Node {
	nodes := make([]*tree.Node, len(weights))
	for i, w := range weights {
		nodes[i] = tree.NewNode(string(rune('a'+i)), w)
	}
	return nodes
}

func labels(nodes []*tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label()
	}
	return out
}

func mustRect(t *testing.T, n *tree.Node) tree.Rect {
	t.Helper()
	r, err := n.Rect()
	if err != nil {
		t.Fatalf("%s.Rect() error = %v", n.Label(), err)
	}
	return r
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearRect(a, b tree.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Width, b.Width) && near(a.Height, b.Height)
}

func TestWillImprove(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		expanded float64
		want     bool
	}{
		{"already square", 1, 4, false},
		{"expanded square", 4, 1, true},
		{"zero actual", 0, 5, true},
		{"zero expanded", 2, 0, false},
		{"both zero", 0, 0, true},
		{"tie keeps current row", 0.5, 1.5, false},
		{"closer to one", 3, 2, true},
		{"farther from one", 2, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WillImprove(tt.actual, tt.expanded); got != tt.want {
				t.Errorf("WillImprove(%v, %v) = %v, want %v", tt.actual, tt.expanded, got, tt.want)
			}
		})
	}
}

func TestBestAspectRatio(t *testing.T) {
	tests := []struct {
		name  string
		areas []float64
		side  float64
		want  float64
	}{
		{"empty row", nil, 4, math.Inf(1)},
		{"single square", []float64{4}, 2, 1},
		{"two tall", []float64{6, 6}, 4, 1.5},
		{"zero sum ignored", []float64{0}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestAspectRatio(tt.areas, tt.side)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("BestAspectRatio() = %v, want +Inf", got)
				}
				return
			}
			if !near(got, tt.want) {
				t.Errorf("BestAspectRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSquarifyRescalesWeights(t *testing.T) {
	weights := []float64{6, 6, 4, 3, 2, 2, 1, 1}
	nodes := leaves(weights...)
	bounds := tree.NewRect(0, 0, 6, 4)

	placed, err := Squarify(nodes, bounds)
	if err != nil {
		t.Fatalf("Squarify() error = %v", err)
	}
	if len(placed) != len(nodes) {
		t.Fatalf("Squarify() returned %d nodes, want %d", len(placed), len(nodes))
	}

	for i, n := range nodes {
		want := math.Round(weights[i] / 25 * 24)
		if n.ScaledWeight() != want {
			t.Errorf("%s.ScaledWeight() = %v, want %v", n.Label(), n.ScaledWeight(), want)
		}
		if got := mustRect(t, n).Area(); !near(got, want) {
			t.Errorf("%s area = %v, want %v", n.Label(), got, want)
		}
	}

	if got := mustRect(t, placed[0]); !nearRect(got, tree.NewRect(0, 0, 3, 2)) {
		t.Errorf("first rect = %v, want [0 0 3 2]", got)
	}
	if got := mustRect(t, placed[1]); !nearRect(got, tree.NewRect(0, 2, 3, 2)) {
		t.Errorf("second rect = %v, want [0 2 3 2]", got)
	}
}

func TestSquarifyTiles(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		bounds  tree.Rect
		want    []tree.Rect
	}{
		{
			name:    "four equal",
			weights: []float64{1, 1, 1, 1},
			bounds:  tree.NewRect(0, 0, 4, 4),
			want: []tree.Rect{
				tree.NewRect(0, 0, 2, 2),
				tree.NewRect(2, 0, 2, 2),
				tree.NewRect(0, 2, 2, 2),
				tree.NewRect(2, 2, 2, 2),
			},
		},
		{
			name:    "half and two quarters",
			weights: []float64{2, 1, 1},
			bounds:  tree.NewRect(0, 0, 4, 2),
			want: []tree.Rect{
				tree.NewRect(0, 0, 2, 2),
				tree.NewRect(2, 0, 2, 1),
				tree.NewRect(2, 1, 2, 1),
			},
		},
		{
			name:    "offset origin",
			weights: []float64{1},
			bounds:  tree.NewRect(10, 20, 5, 3),
			want:    []tree.Rect{tree.NewRect(10, 20, 5, 3)},
		},
		{
			name:    "frame",
			weights: []float64{50, 30, 15, 5},
			bounds:  tree.NewRect(0, 0, 800, 600),
			want: []tree.Rect{
				tree.NewRect(0, 0, 400, 600),
				tree.NewRect(400, 0, 400, 360),
				tree.NewRect(400, 360, 300, 240),
				tree.NewRect(700, 360, 100, 240),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placed, err := Squarify(leaves(tt.weights...), tt.bounds)
			if err != nil {
				t.Fatalf("Squarify() error = %v", err)
			}
			if len(placed) != len(tt.want) {
				t.Fatalf("Squarify() returned %d nodes, want %d", len(placed), len(tt.want))
			}
			var total float64
			for i, n := range placed {
				r := mustRect(t, n)
				if !nearRect(r, tt.want[i]) {
					t.Errorf("rect[%d] = %v, want %v", i, r, tt.want[i])
				}
				total += r.Area()
			}
			if !near(total, tt.bounds.Area()) {
				t.Errorf("total area = %v, want %v", total, tt.bounds.Area())
			}
			assertNoOverlap(t, placed)
		})
	}
}

func assertNoOverlap(t *testing.T, nodes []*tree.Node) {
	t.Helper()
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := mustRect(t, nodes[i]), mustRect(t, nodes[j])
			w := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
			h := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
			if w > eps && h > eps {
				t.Errorf("%s %v overlaps %s %v", nodes[i].Label(), a, nodes[j].Label(), b)
			}
		}
	}
}

func TestSquarifyProportional(t *testing.T) {
	weights := []float64{50, 30, 15, 5}
	nodes := leaves(weights...)
	if _, err := Squarify(nodes, tree.NewRect(0, 0, 800, 600)); err != nil {
		t.Fatalf("Squarify() error = %v", err)
	}
	for i := range nodes {
		for j := range nodes {
			got := mustRect(t, nodes[i]).Area() / mustRect(t, nodes[j]).Area()
			want := weights[i] / weights[j]
			if math.Abs(got-want) > 1e-6*want {
				t.Errorf("area ratio %s/%s = %v, want %v", nodes[i].Label(), nodes[j].Label(), got, want)
			}
		}
	}
}

func TestSquarifyAreaWithinRounding(t *testing.T) {
	weights := []float64{13, 7, 7, 5, 3, 3, 2, 1, 1, 1}
	nodes := leaves(weights...)
	bounds := tree.NewRect(5, 5, 317, 211)

	if _, err := Squarify(nodes, bounds); err != nil {
		t.Fatalf("Squarify() error = %v", err)
	}
	var total float64
	for _, n := range nodes {
		total += mustRect(t, n).Area()
	}
	if tol := 0.5 * float64(len(nodes)); math.Abs(total-bounds.Area()) > tol {
		t.Errorf("total area = %v, want %v within %v", total, bounds.Area(), tol)
	}
}

func TestSquarifySortsWithoutMutatingInput(t *testing.T) {
	nodes := leaves(1, 3, 2, 3)
	placed, err := Squarify(nodes, tree.NewRect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("Squarify() error = %v", err)
	}
	if got, want := labels(placed), []string{"b", "d", "c", "a"}; !slices.Equal(got, want) {
		t.Errorf("placement order = %v, want %v", got, want)
	}
	if got, want := labels(nodes), []string{"a", "b", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("input order = %v, want %v", got, want)
	}
}

func TestSquarifyEdgeCases(t *testing.T) {
	bounds := tree.NewRect(0, 0, 10, 10)

	t.Run("empty", func(t *testing.T) {
		got, err := Squarify(nil, bounds)
		if err != nil || len(got) != 0 {
			t.Errorf("Squarify(nil) = %v, %v, want empty, nil", got, err)
		}
	})

	t.Run("zero sum", func(t *testing.T) {
		got, err := Squarify(leaves(0, 0), bounds)
		if err != nil || len(got) != 0 {
			t.Errorf("Squarify(zero) = %v, %v, want empty, nil", got, err)
		}
	})

	t.Run("zero sum clears earlier rects", func(t *testing.T) {
		nodes := leaves(3, 1)
		if _, err := Squarify(nodes, bounds); err != nil {
			t.Fatalf("Squarify() error = %v", err)
		}
		for _, n := range nodes {
			n.SetRealWeight(0)
		}
		offset := tree.NewRect(2, 3, 10, 10)
		got, err := Squarify(nodes, offset)
		if err != nil || len(got) != 0 {
			t.Fatalf("Squarify(zero) = %v, %v, want empty, nil", got, err)
		}
		for _, n := range nodes {
			if r := mustRect(t, n); !nearRect(r, tree.NewRect(2, 3, 0, 0)) {
				t.Errorf("%s rect = %v, want zero size at (2,3)", n.Label(), r)
			}
			if n.ScaledWeight() != 0 {
				t.Errorf("%s scaled weight = %g, want 0", n.Label(), n.ScaledWeight())
			}
		}
	})

	t.Run("weight rounding to zero", func(t *testing.T) {
		nodes := leaves(1000, 1000, 2)
		placed, err := Squarify(nodes, bounds)
		if err != nil {
			t.Fatalf("Squarify() error = %v", err)
		}
		if len(placed) != 3 {
			t.Fatalf("placed %d nodes, want 3", len(placed))
		}
		small := nodes[2]
		if small.ScaledWeight() != 0 {
			t.Errorf("scaled weight = %g, want 0", small.ScaledWeight())
		}
		r := mustRect(t, small)
		if area := r.Width * r.Height; area != 0 {
			t.Errorf("rect = %v, want zero area", r)
		}
		for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("rect = %v, want finite", r)
			}
		}
		var total float64
		for _, n := range nodes[:2] {
			nr := mustRect(t, n)
			total += nr.Width * nr.Height
		}
		if !near(total, bounds.Area()) {
			t.Errorf("area of the large nodes = %g, want %g", total, bounds.Area())
		}
	})

	t.Run("nil element", func(t *testing.T) {
		_, err := Squarify([]*tree.Node{tree.NewNode("a", 1), nil}, bounds)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Squarify() error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	for _, b := range []tree.Rect{
		tree.NewRect(0, 0, -1, 10),
		tree.NewRect(0, 0, math.NaN(), 10),
		tree.NewRect(math.Inf(1), 0, 10, 10),
	} {
		t.Run("bounds "+b.String(), func(t *testing.T) {
			_, err := Squarify(leaves(1), b)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Squarify() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}

	t.Run("zero bounds", func(t *testing.T) {
		nodes := leaves(2, 1)
		placed, err := Squarify(nodes, tree.NewRect(3, 4, 0, 10))
		if err != nil {
			t.Fatalf("Squarify() error = %v", err)
		}
		for _, n := range placed {
			r := mustRect(t, n)
			if r.Width != 0 || r.Height != 0 || math.IsNaN(r.X) || math.IsNaN(r.Y) {
				t.Errorf("%s rect = %v, want zero size", n.Label(), r)
			}
		}
	})

	t.Run("negative weight passed through", func(t *testing.T) {
		tree.SetAllowNonPositiveWeight(true)
		defer tree.SetAllowNonPositiveWeight(false)

		nodes := leaves(4, -1)
		nodes[1].SetWeight(-1)
		placed, err := Squarify(nodes, bounds)
		if err != nil {
			t.Fatalf("Squarify() error = %v", err)
		}
		for _, n := range placed {
			r := mustRect(t, n)
			for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("%s rect = %v, want finite", n.Label(), r)
				}
			}
		}
	})
}
