package esri

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Sudo-Ivan/esrixml/pkg/element"
)

func enumAttr(code int) map[string]string {
	return map[string]string{AttrEnum: strconv.Itoa(code)}
}

// EncodePoint returns a standalone Point element for pt.
func EncodePoint(pt Point) (*element.Node, error) {
	if !finite(pt.X) || !finite(pt.Y) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPoint, pt)
	}
	return element.New(TagPoint, map[string]string{
		AttrEnum: strconv.Itoa(EnumPoint),
		AttrX:    formatFloat(pt.X),
		AttrY:    formatFloat(pt.Y),
	}), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// encodeChildren appends a Point element for each of pts to parent, in order.
func encodeChildren(parent *element.Node, pts ...Point) (*element.Node, error) {
	for _, pt := range pts {
		child, err := EncodePoint(pt)
		if err != nil {
			return nil, err
		}
		parent.Append(child)
	}
	return parent, nil
}

// EncodeSegment encodes the edge that runs from anchor to next. The anchor's
// end point is the start of the edge; next decides the element kind: a plain
// point yields a Line, a curve yields the element of its kind.
func EncodeSegment(anchor, next PathElement) (*element.Node, error) {
	start := anchor.EndPoint()
	if next.Curve == nil {
		return encodeChildren(element.New(TagLine, enumAttr(EnumLine)), start, next.Point)
	}
	return EncodeCurve(start, *next.Curve)
}

// EncodeCurve encodes a curve segment starting at start.
func EncodeCurve(start Point, c Curve) (*element.Node, error) {
	switch c.Kind {
	case CircularArc:
		return encodeCircularArc(start, c.End, c.Interior)
	case EllipticArc:
		return encodeEllipticArc(start, c)
	case Bezier:
		return encodeBezier(start, c.End, c.Control1, c.Control2)
	}
	return nil, fmt.Errorf("%w: curve kind %v", ErrUnsupportedGeometryType, c.Kind)
}

func encodeCircularArc(start, end, interior Point) (*element.Node, error) {
	cw := IsClockwise(Path{{Point: start}, {Point: interior}, {Point: end}, {Point: start}})
	minor, err := IsMinor(start, interior, end)
	if err != nil {
		return nil, fmt.Errorf("circular arc from %v through %v to %v: %w", start, interior, end, err)
	}
	n := element.New(TagCircularArc, map[string]string{
		AttrEnum:  strconv.Itoa(EnumCircularArc),
		AttrCCW:   formatBool(!cw),
		AttrMinor: formatBool(minor),
	})
	return encodeChildren(n, interior, start, end)
}

func encodeEllipticArc(start Point, c Curve) (*element.Node, error) {
	n := element.New(TagEllipticArc, map[string]string{
		AttrEnum:            strconv.Itoa(EnumEllipticArc),
		AttrEllipseStd:      False,
		AttrCCW:             formatBool(!c.Clockwise),
		AttrRotationAngle:   formatFloat(c.Rotation),
		AttrMinorMajorRatio: formatFloat(c.Ratio),
	})
	return encodeChildren(n, c.Center, start, c.End)
}

// encodeBezier writes the second control point last; the viewer expects
// start, control 1, end, control 2.
func encodeBezier(start, end, control1, control2 Point) (*element.Node, error) {
	return encodeChildren(element.New(TagBezierCurve, enumAttr(EnumBezierCurve)), start, control1, end, control2)
}

// validate checks that p has an anchor point and at least one edge.
func (p Path) validate() error {
	if len(p) < minPathElements {
		return invalidInput(fmt.Errorf("path has %d elements, need at least %d", len(p), minPathElements))
	}
	if p[0].IsCurve() {
		return invalidInput(fmt.Errorf("path should start with a point, got %v curve", p[0].Curve.Kind))
	}
	return nil
}

// EncodePath appends the edges of path to parent in traversal order.
// Paths with fewer than two elements or starting with a curve are rejected
// as ErrInvalidInput and leave parent untouched.
func EncodePath(path Path, parent *element.Node) error {
	if err := path.validate(); err != nil {
		return err
	}
	for i := 0; i+1 < len(path); i++ {
		edge, err := EncodeSegment(path[i], path[i+1])
		if err != nil {
			return err
		}
		parent.Append(edge)
	}
	return nil
}

// EncodeRing returns a Ring element for ring. Clockwise rings are exterior.
func EncodeRing(ring Path) (*element.Node, error) {
	n := element.New(TagRing, map[string]string{
		AttrEnum:     strconv.Itoa(EnumRing),
		AttrExterior: formatBool(IsClockwise(ring)),
	})
	if err := EncodePath(ring, n); err != nil {
		return nil, err
	}
	return n, nil
}

// EncodePolyline returns a Polyline element. A single part is written
// directly below the Polyline; multiple parts each get a Path container.
func EncodePolyline(parts []Path) (*element.Node, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("polyline: %w", ErrEmptyGeometry)
	}
	n := element.New(TagPolyline, enumAttr(EnumPolyline))
	multi := len(parts) > 1
	for i, part := range parts {
		parent := n
		if multi {
			parent = n.Sub(TagPath, enumAttr(EnumPath))
		}
		if err := EncodePath(part, parent); err != nil {
			return nil, fmt.Errorf("polyline part %d: %w", i, err)
		}
	}
	return n, nil
}

// EncodePolygon returns a Polygon element with one Ring per ring.
func EncodePolygon(rings []Path) (*element.Node, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon: %w", ErrEmptyGeometry)
	}
	n := element.New(TagPolygon, enumAttr(EnumPolygon))
	for i, ring := range rings {
		r, err := EncodeRing(ring)
		if err != nil {
			return nil, fmt.Errorf("polygon ring %d: %w", i, err)
		}
		n.Append(r)
	}
	return n, nil
}

// Encode returns the Geometry element for g. An empty geometry yields an
// empty Geometry element.
func Encode(g Geometry) (*element.Node, error) {
	root := element.New(TagGeometry, nil)

	var (
		child *element.Node
		err   error
	)
	switch g.Kind {
	case KindEmpty:
		return root, nil
	case KindPoint:
		child, err = EncodePoint(g.Point)
	case KindPolyline:
		child, err = EncodePolyline(g.Parts)
	case KindPolygon:
		child, err = EncodePolygon(g.Parts)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedGeometryType, g.Kind)
	}
	if err != nil {
		return nil, err
	}
	return root.Append(child), nil
}
