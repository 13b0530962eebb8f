package tree

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewRect is shorthand for a Rect literal.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Drawable reports whether both sides are at least one unit long.
func (r Rect) Drawable() bool { return r.Width >= 1 && r.Height >= 1 }

// Valid reports whether every field is finite and both sides are non-negative.
func (r Rect) Valid() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Contains reports whether the point (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("[x=%g, y=%g, width=%g, height=%g]", r.X, r.Y, r.Width, r.Height)
}
