// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package esri serializes EsriJSON geometries (points, polylines and polygons,
// including circular arcs, elliptic arcs and cubic Bézier curves) into the
// element tree consumed by the GEONIS protocol viewer.
//
// Serialization is a pure function of its input: it keeps no state and can be
// called from any number of goroutines. Output is always two-dimensional.
package esri

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Sudo-Ivan/esrixml/pkg/element"
)

// JSONGeometry is implemented by geometry values that can render themselves
// as EsriJSON text.
type JSONGeometry interface {
	JSON() string
}

// XYPoint is implemented by point values with separate coordinate accessors.
type XYPoint interface {
	X() float64
	Y() float64
}

// Serialize converts geometry into a Geometry element tree.
//
// geometry may be (checked in this order):
//   - a Geometry or Point value
//   - a JSONGeometry, whose EsriJSON text is parsed
//   - an XYPoint
//   - a slice or array of at least two numbers (any integer or float type),
//     of which the first two are x and y
//   - EsriJSON text as string, []byte or json.RawMessage
//   - an already decoded EsriJSON object (map[string]any)
//
// Either a complete tree or an error is returned, never both.
func Serialize(geometry any) (*element.Node, error) {
	g, err := Normalize(geometry)
	if err != nil {
		return nil, err
	}
	return Encode(g)
}

// Normalize converts any value accepted by Serialize into a Geometry.
// Values of the wrong shape and unparsable text are reported as ErrInvalidInput.
func Normalize(geometry any) (Geometry, error) {
	switch g := geometry.(type) {
	case Geometry:
		return g, nil
	case *Geometry:
		if g == nil {
			return Geometry{}, invalidInput(fmt.Errorf("nil geometry"))
		}
		return *g, nil
	case Point:
		return Geometry{Kind: KindPoint, Point: g}, nil
	case JSONGeometry:
		return DecodeJSON([]byte(g.JSON()))
	case XYPoint:
		return Geometry{Kind: KindPoint, Point: Pt(g.X(), g.Y())}, nil
	case []float64:
		return pointFromSequence(len(g), func(i int) float64 { return g[i] })
	case []any:
		if len(g) < minCoords {
			return Geometry{}, shortSequence(len(g))
		}
		return Decode(map[string]any{KeyX: g[0], KeyY: g[1]})
	case string:
		return DecodeJSON([]byte(g))
	case []byte:
		return DecodeJSON(g)
	case json.RawMessage:
		return DecodeJSON(g)
	case map[string]any:
		return Decode(g)
	case nil:
		return Geometry{}, invalidInput(fmt.Errorf("nil geometry"))
	}
	if v := reflect.ValueOf(geometry); isNumericSequence(v) {
		return pointFromSequence(v.Len(), func(i int) float64 { return numericValue(v.Index(i)) })
	}
	return Geometry{}, invalidInput(fmt.Errorf("unsupported value of type %T", geometry))
}

func shortSequence(n int) error {
	return invalidInput(fmt.Errorf("coordinate sequence has %d values, need at least %d", n, minCoords))
}

func pointFromSequence(n int, at func(int) float64) (Geometry, error) {
	if n < minCoords {
		return Geometry{}, shortSequence(n)
	}
	return Geometry{Kind: KindPoint, Point: Pt(at(0), at(1))}, nil
}

// isNumericSequence reports whether v is a slice or array of integers or floats.
func isNumericSequence(v reflect.Value) bool {
	if k := v.Kind(); k != reflect.Slice && k != reflect.Array {
		return false
	}
	switch v.Type().Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numericValue(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	}
	return v.Float()
}
