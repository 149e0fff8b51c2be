package datum

import "fmt"

// Point is a 2D integer coordinate datum.
type Point struct{ X, Y int32 }

func (Point) Kind() Kind { return KindPoint }
func (Point) Truthy() bool { return false }
func (p Point) String() string { return fmt.Sprintf("point(%d, %d)", p.X, p.Y) }
func (p Point) Equal(o Value) bool {
	ov, ok := o.(Point)
	return ok && ov == p
}

// Rect is an integer rectangle datum (left, top, right, bottom).
type Rect struct{ L, T, R, B int32 }

func (Rect) Kind() Kind { return KindRect }
func (Rect) Truthy() bool { return false }
func (r Rect) String() string { return fmt.Sprintf("rect(%d, %d, %d, %d)", r.L, r.T, r.R, r.B) }
func (r Rect) Equal(o Value) bool {
	ov, ok := o.(Rect)
	return ok && ov == r
}

// Width returns the rect's horizontal extent.
func (r Rect) Width() int32 { return r.R - r.L }

// Height returns the rect's vertical extent.
func (r Rect) Height() int32 { return r.B - r.T }

// Intersects reports whether two rects share any area, used by onto/into
// sprite opcodes.
func (r Rect) Intersects(o Rect) bool {
	return r.L < o.R && o.L < r.R && r.T < o.B && o.T < r.B
}

// Contains reports whether r fully contains o, used by the "into"
// sprite-containment opcode.
func (r Rect) Contains(o Rect) bool {
	return o.L >= r.L && o.T >= r.T && o.R <= r.R && o.B <= r.B
}

// Vector3 is a 3-component float vector datum.
type Vector3 struct{ X, Y, Z float64 }

func (Vector3) Kind() Kind { return KindVector3 }
func (Vector3) Truthy() bool { return false }
func (v Vector3) String() string { return fmt.Sprintf("vector(%g, %g, %g)", v.X, v.Y, v.Z) }
func (v Vector3) Equal(o Value) bool {
	ov, ok := o.(Vector3)
	return ok && ov == v
}

// Color is an 8-bit-per-channel RGB color datum.
type Color struct{ R, G, B uint8 }

func (Color) Kind() Kind { return KindColor }
func (Color) Truthy() bool { return false }
func (c Color) String() string { return fmt.Sprintf("color(%d, %d, %d)", c.R, c.G, c.B) }
func (c Color) Equal(o Value) bool {
	ov, ok := o.(Color)
	return ok && ov == c
}
