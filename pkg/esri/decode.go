package esri

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Decode converts a decoded EsriJSON object into a Geometry.
//
// The shape is chosen by the first matching key group: x/y (point),
// curvePaths/paths (polyline), curveRings/rings (polygon). The curve key is
// preferred when its value is non-empty. Other keys such as spatialReference,
// hasZ or hasM are ignored. An empty object yields an empty geometry.
func Decode(obj map[string]any) (Geometry, error) {
	if len(obj) == 0 {
		return Geometry{Kind: KindEmpty}, nil
	}

	if hasAny(obj, KeyX, KeyY) {
		pt, err := decodeXY(obj[KeyX], obj[KeyY])
		if err != nil {
			return Geometry{}, err
		}
		return Geometry{Kind: KindPoint, Point: pt}, nil
	}

	if hasAny(obj, KeyCurvePaths, KeyPaths) {
		parts, err := decodeParts(pick(obj, KeyCurvePaths, KeyPaths))
		if err != nil {
			return Geometry{}, fmt.Errorf("polyline: %w", err)
		}
		return Geometry{Kind: KindPolyline, Parts: parts}, nil
	}

	if hasAny(obj, KeyCurveRings, KeyRings) {
		rings, err := decodeParts(pick(obj, KeyCurveRings, KeyRings))
		if err != nil {
			return Geometry{}, fmt.Errorf("polygon: %w", err)
		}
		return Geometry{Kind: KindPolygon, Parts: rings}, nil
	}

	return Geometry{}, fmt.Errorf("%w: only point, polyline and polygon geometries are supported (keys: %s)",
		ErrUnsupportedGeometryType, strings.Join(keys(obj), ", "))
}

// DecodeJSON parses EsriJSON text and decodes it with Decode.
// Malformed text is reported as ErrInvalidInput.
func DecodeJSON(data []byte) (Geometry, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Geometry{}, invalidInput(err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Geometry{}, invalidInput(fmt.Errorf("EsriJSON should be an object, got %T", v))
	}
	return Decode(obj)
}

func hasAny(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// pick returns obj[preferred] unless it is null or empty, in which case obj[fallback] is returned.
func pick(obj map[string]any, preferred, fallback string) any {
	if v := obj[preferred]; !isEmpty(v) {
		return v
	}
	return obj[fallback]
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	}
	return false
}

func keys(obj map[string]any) []string {
	ks := make([]string, 0, len(obj))
	for k := range obj {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func decodeParts(v any) ([]Path, error) {
	if isEmpty(v) {
		return nil, ErrEmptyGeometry
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, invalidInput(fmt.Errorf("parts should be an array, got %T", v))
	}
	parts := make([]Path, 0, len(raw))
	for i, rp := range raw {
		p, err := decodePath(rp)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func decodePath(v any) (Path, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, invalidInput(fmt.Errorf("path should be an array, got %T", v))
	}
	path := make(Path, 0, len(raw))
	for i, re := range raw {
		e, err := decodePathElement(re)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		path = append(path, e)
	}
	if err := path.validate(); err != nil {
		return nil, err
	}
	return path, nil
}

func decodePathElement(v any) (PathElement, error) {
	switch t := v.(type) {
	case map[string]any:
		c, err := decodeCurve(t)
		if err != nil {
			return PathElement{}, err
		}
		return CurveTo(c), nil
	default:
		pt, err := decodePoint(v)
		if err != nil {
			return PathElement{}, err
		}
		return PathElement{Point: pt}, nil
	}
}

// decodeCurve decodes a single-key curve object:
//
//	{"c": [end, interior]}
//	{"a": [end, center, minor, clockwise, rotation, axis, ratio]}
//	{"b": [end, control1, control2]}
func decodeCurve(obj map[string]any) (Curve, error) {
	if len(obj) != 1 {
		return Curve{}, invalidInput(fmt.Errorf("curve object should have exactly one key, got %d", len(obj)))
	}
	var (
		key string
		val any
	)
	for k, v := range obj {
		key, val = k, v
	}
	params, ok := val.([]any)
	if !ok {
		return Curve{}, invalidInput(fmt.Errorf("curve %q parameters should be an array, got %T", key, val))
	}

	switch key {
	case CurveKeyCircularArc:
		if err := checkParams(key, params, circularArcParams); err != nil {
			return Curve{}, err
		}
		pts, err := decodePoints(params[0], params[1])
		if err != nil {
			return Curve{}, err
		}
		return Curve{Kind: CircularArc, End: pts[0], Interior: pts[1]}, nil

	case CurveKeyEllipticArc:
		if err := checkParams(key, params, ellipticArcParams); err != nil {
			return Curve{}, err
		}
		pts, err := decodePoints(params[0], params[1])
		if err != nil {
			return Curve{}, err
		}
		minor, err := decodeFlag(params[2])
		if err != nil {
			return Curve{}, invalidInput(fmt.Errorf("elliptic arc minor flag: %w", err))
		}
		cw, err := decodeFlag(params[3])
		if err != nil {
			return Curve{}, invalidInput(fmt.Errorf("elliptic arc clockwise flag: %w", err))
		}
		rotation, err := decodeNumber(params[4])
		if err != nil {
			return Curve{}, invalidInput(fmt.Errorf("elliptic arc rotation: %w", err))
		}
		ratio, err := decodeNumber(params[6])
		if err != nil {
			return Curve{}, invalidInput(fmt.Errorf("elliptic arc ratio: %w", err))
		}
		return Curve{
			Kind:      EllipticArc,
			End:       pts[0],
			Center:    pts[1],
			Minor:     minor,
			Clockwise: cw,
			Rotation:  rotation,
			Ratio:     ratio,
		}, nil

	case CurveKeyBezier:
		if err := checkParams(key, params, bezierParams); err != nil {
			return Curve{}, err
		}
		pts, err := decodePoints(params[0], params[1], params[2])
		if err != nil {
			return Curve{}, err
		}
		return Curve{Kind: Bezier, End: pts[0], Control1: pts[1], Control2: pts[2]}, nil
	}

	return Curve{}, fmt.Errorf("%w: curve object type %q", ErrUnsupportedGeometryType, key)
}

func checkParams(key string, params []any, want int) error {
	if len(params) < want {
		return invalidInput(fmt.Errorf("curve %q has %d parameters, need %d", key, len(params), want))
	}
	return nil
}

func decodePoints(vs ...any) ([]Point, error) {
	pts := make([]Point, len(vs))
	for i, v := range vs {
		pt, err := decodePoint(v)
		if err != nil {
			return nil, err
		}
		pts[i] = pt
	}
	return pts, nil
}

// decodePoint decodes a coordinate array [x, y, ...]; further dimensions are ignored.
func decodePoint(v any) (Point, error) {
	switch t := v.(type) {
	case []any:
		if len(t) < minCoords {
			return Point{}, fmt.Errorf("%w: coordinate array %v has fewer than %d values", ErrInvalidPoint, t, minCoords)
		}
		return decodeXY(t[0], t[1])
	case []float64:
		if len(t) < minCoords {
			return Point{}, fmt.Errorf("%w: coordinate array %v has fewer than %d values", ErrInvalidPoint, t, minCoords)
		}
		return Pt(t[0], t[1]), nil
	}
	return Point{}, invalidInput(fmt.Errorf("point should be a coordinate array, got %T", v))
}

func decodeXY(x, y any) (Point, error) {
	xf, xerr := decodeCoord(x)
	yf, yerr := decodeCoord(y)
	if xerr != nil || yerr != nil {
		return Point{}, fmt.Errorf("%w: got x=%v, y=%v", ErrInvalidPoint, x, y)
	}
	return Pt(xf, yf), nil
}

// decodeCoord accepts any JSON or Go number. Missing and null values, the
// "NaN" token and every other string are rejected.
func decodeCoord(v any) (float64, error) {
	f, err := decodeNumber(v)
	if err != nil || !finite(f) {
		return 0, ErrInvalidPoint
	}
	return f, nil
}

func decodeNumber(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case nil:
		return 0, fmt.Errorf("missing number")
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// decodeFlag accepts booleans and numbers (non-zero is true); null is false.
func decodeFlag(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case nil:
		return false, nil
	case string:
		return strconv.ParseBool(t)
	}
	f, err := decodeNumber(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}
