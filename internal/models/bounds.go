package models

// BoundingBox is an axis-aligned rectangle in page coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (x, y) falls inside the box,
// borders included.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// Intersects reports whether two boxes overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return !(b.X+b.Width < o.X ||
		o.X+o.Width < b.X ||
		b.Y+b.Height < o.Y ||
		o.Y+o.Height < b.Y)
}

// Union returns the minimal box covering both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	x := min(b.X, o.X)
	y := min(b.Y, o.Y)
	right := max(b.X+b.Width, o.X+o.Width)
	bottom := max(b.Y+b.Height, o.Y+o.Height)
	return BoundingBox{X: x, Y: y, Width: right - x, Height: bottom - y}
}
