package rimage

// ShapeKind tags the variant of a Shape.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapePolygon
	ShapeCircle
	ShapeLine
)

// Style is the optional rendering style attached to a Shape.
type Style struct {
	StrokeColor [4]uint8 // RGBA
	Thickness   int
	Fill        bool
	FillColor   [4]uint8
}

// Point is an integer pixel coordinate in source-image space.
type Point struct{ X, Y int }

// Shape is one entry of a GeometryList. Exactly one of the kind-specific
// fields is meaningful, selected by Kind — coordinates are integer pixel
// indices in the source image space.
type Shape struct {
	Kind  ShapeKind
	Style Style

	// Rectangle
	X, Y, W, H int

	// Polygon
	Points []Point

	// Circle
	CX, CY, R int

	// Line
	P0, P1 Point
}

// Rectangle constructs a rectangle Shape.
func Rectangle(x, y, w, h int, style Style) Shape {
	return Shape{Kind: ShapeRectangle, X: x, Y: y, W: w, H: h, Style: style}
}

// Polygon constructs a polygon Shape.
func Polygon(points []Point, style Style) Shape {
	return Shape{Kind: ShapePolygon, Points: points, Style: style}
}

// Circle constructs a circle Shape.
func Circle(cx, cy, r int, style Style) Shape {
	return Shape{Kind: ShapeCircle, CX: cx, CY: cy, R: r, Style: style}
}

// Line constructs a line Shape.
func Line(p0, p1 Point, style Style) Shape {
	return Shape{Kind: ShapeLine, P0: p0, P1: p1, Style: style}
}

// GeometryList is an ordered sequence of typed shapes produced by
// detection/contour-extraction filters and consumed by drawing filters.
type GeometryList struct {
	Shapes []Shape
}
