package esri

import (
	"errors"
	"fmt"
)

// Errors returned by the serializer. Every failure wraps exactly one of these,
// so callers can classify it with errors.Is.
var (
	// ErrInvalidPoint reports a coordinate that is missing, null or "NaN".
	ErrInvalidPoint = errors.New("points should have valid numeric X and Y values")
	// ErrColinearPoints reports three arc points through which no circle passes.
	ErrColinearPoints = errors.New("all arc points are colinear")
	// ErrAllPointsPerpendicular reports that no ordering of the arc points allows center reconstruction.
	ErrAllPointsPerpendicular = errors.New("all arc points are perpendicular")
	// ErrEmptyGeometry reports a polyline or polygon without parts.
	ErrEmptyGeometry = errors.New("geometry does not have any parts")
	// ErrUnsupportedGeometryType reports a geometry (or curve) kind that cannot be serialized.
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")
	// ErrInvalidInput reports a value that could not be normalized into a geometry.
	ErrInvalidInput = errors.New("serialize requires an EsriJSON string, geometry or point value, or a coordinate sequence")
)

// invalidInput wraps cause so that both ErrInvalidInput and cause match errors.Is.
func invalidInput(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, cause)
}
