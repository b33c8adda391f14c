package esri

import "math"

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the central angle in degrees of the arc around center that
// runs from one arc point to another. The radius is taken from the first arc
// point; a zero radius yields NaN.
func Angle(center, from, to Point) float64 {
	radius := Distance(from, center)
	chord := Distance(from, to)
	return 2 * math.Asin(chord/(2*radius)) * (180 / math.Pi)
}

// isPerpendicular reports whether p1-p2 or p2-p3 runs parallel to one of the
// axes, which makes the slope based center reconstruction singular. A vertical
// p1-p2 followed by a horizontal p2-p3 is accepted: the center then lies
// halfway along p1-p3.
func isPerpendicular(p1, p2, p3 Point) bool {
	dxA := p2.X - p1.X
	dyA := p2.Y - p1.Y
	dxB := p3.X - p2.X
	dyB := p3.Y - p2.Y

	switch {
	case math.Abs(dxA) <= XYTolerance && math.Abs(dyB) <= XYTolerance:
		return false
	case math.Abs(dyA) <= XYTolerance || math.Abs(dyB) <= XYTolerance:
		return true
	case math.Abs(dxA) <= XYTolerance || math.Abs(dxB) <= XYTolerance:
		return true
	}
	return false
}

// ReorderForStability returns the three arc points in the first of six fixed
// orderings for which the center can be reconstructed. It returns
// ErrAllPointsPerpendicular if there is none.
func ReorderForStability(p1, p2, p3 Point) (a, b, c Point, err error) {
	for _, perm := range [...][3]Point{
		{p1, p2, p3},
		{p1, p3, p2},
		{p2, p1, p3},
		{p2, p3, p1},
		{p3, p2, p1},
		{p3, p1, p2},
	} {
		if !isPerpendicular(perm[0], perm[1], perm[2]) {
			return perm[0], perm[1], perm[2], nil
		}
	}
	return Point{}, Point{}, Point{}, ErrAllPointsPerpendicular
}

// slopes returns the slopes of p1-p2 and p2-p3. ok is false when p1-p2 is
// vertical and p2-p3 horizontal.
func slopes(p1, p2, p3 Point) (slopeA, slopeB float64, ok bool) {
	dxA := p2.X - p1.X
	dyA := p2.Y - p1.Y
	dxB := p3.X - p2.X
	dyB := p3.Y - p2.Y

	if math.Abs(dxA) <= XYTolerance && math.Abs(dyB) <= XYTolerance {
		return 0, 0, false
	}
	return dyA / dxA, dyB / dxB, true
}

// ArcCenter returns the center of the circle through the three arc points.
func ArcCenter(start, mid, end Point) (Point, error) {
	p1, p2, p3, err := ReorderForStability(start, mid, end)
	if err != nil {
		return Point{}, err
	}

	slopeA, slopeB, ok := slopes(p1, p2, p3)
	if !ok {
		return Pt(0.5*(p2.X+p3.X), 0.5*(p1.Y+p2.Y)), nil
	}
	if math.Abs(slopeA-slopeB) <= XYTolerance {
		return Point{}, ErrColinearPoints
	}

	// x solves both perpendicular bisectors, y back-substitutes into the p1-p2 bisector only.
	x := (slopeA*slopeB*(p1.Y-p3.Y) + slopeB*(p1.X+p2.X) - slopeA*(p2.X+p3.X)) / (2 * (slopeB - slopeA))
	y := -(x-(p1.X+p2.X)/2)/slopeA + (p1.Y+p2.Y)/2
	return Pt(x, y), nil
}

// IsMinor reports whether the three point arc spans less than 180 degrees.
func IsMinor(start, mid, end Point) (bool, error) {
	center, err := ArcCenter(start, mid, end)
	if err != nil {
		return false, err
	}
	return Angle(center, start, end) < 180, nil
}

// IsClockwise reports whether ring turns clockwise, i.e. whether its
// shoelace area is positive. Rings containing curves are simplified first
// (see SimplifyRing), so the sign is only an approximation for those.
func IsClockwise(ring Path) bool {
	pts := SimplifyRing(ring)
	if len(pts) < 2 {
		return false
	}
	var cross, back float64
	for i := 0; i < len(pts)-1; i++ {
		cross += pts[i].X * pts[i+1].Y
	}
	for i := 0; i < len(pts)-1; i++ {
		back += -(pts[i+1].X * pts[i].Y)
	}
	return (cross+back)/2 > 0
}

// SimplifyRing flattens a path into points for orientation tests only:
// circular arcs contribute their interior and end points, elliptic arcs their
// end point and Bézier curves their first control point and end point.
// The result is not a faithful approximation of the curves.
func SimplifyRing(ring Path) []Point {
	pts := make([]Point, 0, len(ring)+len(ring)/2)
	for _, e := range ring {
		if e.Curve == nil {
			pts = append(pts, e.Point)
			continue
		}
		switch e.Curve.Kind {
		case CircularArc:
			pts = append(pts, e.Curve.Interior, e.Curve.End)
		case EllipticArc:
			pts = append(pts, e.Curve.End)
		case Bezier:
			pts = append(pts, e.Curve.Control1, e.Curve.End)
		}
	}
	return pts
}
