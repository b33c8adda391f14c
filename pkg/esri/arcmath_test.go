package esri

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDistance(t *testing.T) {
	if d := Distance(Pt(0, 0), Pt(3, 4)); d != 5 {
		t.Errorf("Distance() = %v, want 5", d)
	}
	if d := Distance(Pt(-1, -1), Pt(-1, -1)); d != 0 {
		t.Errorf("Distance() = %v, want 0", d)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name     string
		center   Point
		from, to Point
		expected float64
	}{
		{"Quarter Circle", Pt(0, 0), Pt(1, 0), Pt(0, 1), 90},
		{"Sixth Circle", Pt(0, 0), Pt(2, 0), Pt(1, math.Sqrt(3)), 60},
		{"Same Point", Pt(5, 5), Pt(6, 5), Pt(6, 5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.center, tt.from, tt.to); !approxEqual(got, tt.expected) {
				t.Errorf("Angle() = %v, want %v", got, tt.expected)
			}
		})
	}

	if got := Angle(Pt(1, 1), Pt(1, 1), Pt(2, 2)); !math.IsNaN(got) {
		t.Errorf("Angle() with zero radius = %v, want NaN", got)
	}
}

func TestReorderForStability(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 Point
		expected   [3]Point
		err        error
	}{
		{"Stable As Given", Pt(0, 0), Pt(1, 2), Pt(3, 1), [3]Point{Pt(0, 0), Pt(1, 2), Pt(3, 1)}, nil},
		{"Swap Last Two", Pt(15, 15), Pt(20, 14), Pt(20, 16), [3]Point{Pt(20, 14), Pt(15, 15), Pt(20, 16)}, nil},
		{"Right Angle Accepted", Pt(0, 0), Pt(1, 0), Pt(1, 1), [3]Point{Pt(1, 1), Pt(1, 0), Pt(0, 0)}, nil},
		{"Horizontal Line", Pt(0, 0), Pt(1, 0), Pt(2, 0), [3]Point{}, ErrAllPointsPerpendicular},
		{"Vertical Line", Pt(0, 0), Pt(0, 1), Pt(0, 2), [3]Point{}, ErrAllPointsPerpendicular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, c, err := ReorderForStability(tt.p1, tt.p2, tt.p3)
			if !errors.Is(err, tt.err) {
				t.Fatalf("ReorderForStability() error = %v, want %v", err, tt.err)
			}
			if err == nil {
				diff(t, tt.expected, [3]Point{a, b, c})
			}
		})
	}
}

func TestArcCenter(t *testing.T) {
	tests := []struct {
		name            string
		start, mid, end Point
		expected        Point
	}{
		{"Reordered Points", Pt(15, 15), Pt(20, 14), Pt(20, 16), Pt(17.6, 15)},
		{"Upper Arc", Pt(0, 0), Pt(0.5, 0.8), Pt(1, 0), Pt(0.5, 0.24375)},
		{"Right Triangle", Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ArcCenter(tt.start, tt.mid, tt.end)
			if err != nil {
				t.Fatalf("ArcCenter() failed: %v", err)
			}
			if !approxEqual(got.X, tt.expected.X) || !approxEqual(got.Y, tt.expected.Y) {
				t.Errorf("ArcCenter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestArcCenterEquidistant(t *testing.T) {
	center := Pt(3, -2)
	const radius = 5.0
	onCircle := func(deg float64) Point {
		s, c := math.Sincos(deg * math.Pi / 180)
		return Pt(center.X+radius*c, center.Y+radius*s)
	}

	for _, arc := range [][3]float64{
		{10, 75, 200},
		{-30, 0, 45},
		{100, 170, 260},
		{5, 120, 350},
	} {
		start, mid, end := onCircle(arc[0]), onCircle(arc[1]), onCircle(arc[2])
		got, err := ArcCenter(start, mid, end)
		if err != nil {
			t.Fatalf("ArcCenter(%v, %v, %v) failed: %v", start, mid, end, err)
		}
		if ds, de := Distance(got, start), Distance(got, end); math.Abs(ds-de) > 1e-6 {
			t.Errorf("ArcCenter(%v, %v, %v) = %v: distances to start and end differ (%v, %v)", start, mid, end, got, ds, de)
		}
	}
}

func TestArcCenterErrors(t *testing.T) {
	if _, err := ArcCenter(Pt(0, 0), Pt(1, 1), Pt(2, 2)); !errors.Is(err, ErrColinearPoints) {
		t.Errorf("ArcCenter() on a diagonal line: error = %v, want %v", err, ErrColinearPoints)
	}
	if _, err := ArcCenter(Pt(0, 0), Pt(1, 0), Pt(2, 0)); !errors.Is(err, ErrAllPointsPerpendicular) {
		t.Errorf("ArcCenter() on a horizontal line: error = %v, want %v", err, ErrAllPointsPerpendicular)
	}
}

func TestIsMinor(t *testing.T) {
	for _, pts := range [][3]Point{
		{Pt(15, 15), Pt(20, 14), Pt(20, 16)},
		{Pt(0, 0), Pt(0.5, 0.8), Pt(1, 0)},
	} {
		minor, err := IsMinor(pts[0], pts[1], pts[2])
		if err != nil {
			t.Fatalf("IsMinor(%v) failed: %v", pts, err)
		}
		if !minor {
			t.Errorf("IsMinor(%v) = false, want true", pts)
		}
	}

	if _, err := IsMinor(Pt(0, 0), Pt(1, 1), Pt(2, 2)); !errors.Is(err, ErrColinearPoints) {
		t.Errorf("IsMinor() error = %v, want %v", err, ErrColinearPoints)
	}
}

func ring(pts ...Point) Path {
	p := make(Path, len(pts))
	for i, pt := range pts {
		p[i] = PathElement{Point: pt}
	}
	return p
}

func reversed(p Path) Path {
	r := make(Path, len(p))
	for i, e := range p {
		r[len(p)-1-i] = e
	}
	return r
}

func TestIsClockwise(t *testing.T) {
	tests := []struct {
		name     string
		ring     Path
		expected bool
	}{
		{"Positive Area Square", ring(Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1), Pt(0, 0)), true},
		{"Negative Area Square", ring(Pt(0, 0), Pt(0, 1), Pt(1, 1), Pt(1, 0), Pt(0, 0)), false},
		{"Geographic Triangle", ring(Pt(-97.06326, 32.759), Pt(-97.06298, 32.755), Pt(-97.06153, 32.749), Pt(-97.06326, 32.759)), true},
		{"Degenerate", ring(Pt(1, 1), Pt(1, 1)), false},
		{"Circular Arc", Path{
			Vertex(15, 15),
			CurveTo(Curve{Kind: CircularArc, End: Pt(20, 16), Interior: Pt(20, 14)}),
			Vertex(15, 15),
		}, true},
		{"Bezier Curve", Path{
			Vertex(11, 11), Vertex(10, 10), Vertex(10, 11), Vertex(11, 11),
			CurveTo(Curve{Kind: Bezier, End: Pt(15, 15), Control1: Pt(10, 17), Control2: Pt(18, 20)}),
			Vertex(11, 11),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClockwise(tt.ring); got != tt.expected {
				t.Errorf("IsClockwise() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsClockwiseReversal(t *testing.T) {
	for _, r := range []Path{
		ring(Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1), Pt(0, 0)),
		ring(Pt(-97.06138, 32.837), Pt(-97.06133, 32.836), Pt(-97.06124, 32.834), Pt(-97.06127, 32.832), Pt(-97.06138, 32.837)),
		ring(Pt(2, 3), Pt(7, 1), Pt(9, 8), Pt(4, 6), Pt(2, 3)),
	} {
		if IsClockwise(r) == IsClockwise(reversed(r)) {
			t.Errorf("IsClockwise() did not flip for reversed ring %v", r)
		}
	}
}

func TestSimplifyRing(t *testing.T) {
	r := Path{
		Vertex(0, 0),
		CurveTo(Curve{Kind: CircularArc, End: Pt(2, 0), Interior: Pt(1, 1)}),
		CurveTo(Curve{Kind: EllipticArc, End: Pt(3, 3), Center: Pt(2, 3)}),
		CurveTo(Curve{Kind: Bezier, End: Pt(0, 3), Control1: Pt(2, 4), Control2: Pt(1, 4)}),
		Vertex(0, 0),
	}
	expected := []Point{Pt(0, 0), Pt(1, 1), Pt(2, 0), Pt(3, 3), Pt(2, 4), Pt(0, 3), Pt(0, 0)}
	diff(t, expected, SimplifyRing(r))
}
