package esri

import (
	"fmt"
	"strconv"
)

// Point is a 2-D coordinate. Additional dimensions of the input are dropped.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// formatFloat returns the shortest decimal text that round-trips v, without exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return True
	}
	return False
}

// CurveKind identifies the kind of a curve segment.
type CurveKind int

const (
	CircularArc CurveKind = iota + 1
	EllipticArc
	Bezier
)

func (k CurveKind) String() string {
	switch k {
	case CircularArc:
		return "CircularArc"
	case EllipticArc:
		return "EllipticArc"
	case Bezier:
		return "Bezier"
	default:
		return fmt.Sprintf("CurveKind(%d)", int(k))
	}
}

// Curve is a curve segment. A curve never carries its start point: it
// continues from the end point of the previous element of its path.
//
// The fields in use depend on Kind:
//
//	CircularArc: End, Interior
//	EllipticArc: End, Center, Minor, Clockwise, Rotation, Ratio
//	Bezier:      End, Control1, Control2
type Curve struct {
	Kind CurveKind
	End  Point

	Interior Point

	Center    Point
	Minor     bool
	Clockwise bool
	Rotation  float64
	Ratio     float64

	Control1 Point
	Control2 Point
}

// PathElement is one element of a path: either a vertex (a straight segment
// ends here) or a curve segment.
type PathElement struct {
	Point Point
	Curve *Curve
}

// IsCurve reports whether e is a curve segment.
func (e PathElement) IsCurve() bool {
	return e.Curve != nil
}

// EndPoint returns the point at which e ends: the vertex itself, or the
// defining end point of a curve.
func (e PathElement) EndPoint() Point {
	if e.Curve != nil {
		return e.Curve.End
	}
	return e.Point
}

// Vertex returns a PathElement for a plain point.
func Vertex(x, y float64) PathElement {
	return PathElement{Point: Pt(x, y)}
}

// CurveTo returns a PathElement for a curve segment.
func CurveTo(c Curve) PathElement {
	return PathElement{Curve: &c}
}

// Path is an ordered sequence of path elements. A ring is a path whose first
// and last points coincide.
type Path []PathElement

// GeometryKind identifies the shape held by a Geometry.
type GeometryKind int

const (
	// KindEmpty is a geometry without any shape; it serializes to an empty container.
	KindEmpty GeometryKind = iota
	KindPoint
	KindPolyline
	KindPolygon
)

func (k GeometryKind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindPoint:
		return "Point"
	case KindPolyline:
		return "Polyline"
	case KindPolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("GeometryKind(%d)", int(k))
	}
}

// Geometry is a point, polyline or polygon. For polylines Parts holds the
// paths, for polygons the rings.
type Geometry struct {
	Kind  GeometryKind
	Point Point
	Parts []Path
}
