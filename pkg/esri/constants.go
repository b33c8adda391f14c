package esri

// EsriJSON keys.
const (
	KeyX          = "x"
	KeyY          = "y"
	KeyPaths      = "paths"
	KeyCurvePaths = "curvePaths"
	KeyRings      = "rings"
	KeyCurveRings = "curveRings"

	CurveKeyCircularArc = "c"
	CurveKeyEllipticArc = "a"
	CurveKeyBezier      = "b"
)

// Element tags of the serialized geometry.
const (
	TagGeometry    = "Geometry"
	TagPoint       = "Point"
	TagPolyline    = "Polyline"
	TagPolygon     = "Polygon"
	TagPath        = "Path"
	TagRing        = "Ring"
	TagLine        = "Line"
	TagCircularArc = "CircularArc"
	TagBezierCurve = "BezierCurve"
	TagEllipticArc = "EllipticArc"
)

// Element attributes of the serialized geometry.
const (
	AttrEnum            = "esrienum"
	AttrX               = "x"
	AttrY               = "y"
	AttrCCW             = "isCCW"
	AttrMinor           = "isMinor"
	AttrRotationAngle   = "RotationAngle"
	AttrMinorMajorRatio = "minorMajorRatio"
	AttrEllipseStd      = "ellipseStd"
	AttrExterior        = "isexterior"

	True  = "true"
	False = "false"
)

// Esri geometry type codes (esriGeometryType).
const (
	EnumPoint       = 1
	EnumPolyline    = 3
	EnumPolygon     = 4
	EnumPath        = 6
	EnumRing        = 11
	EnumLine        = 13
	EnumCircularArc = 14
	EnumBezierCurve = 15
	EnumEllipticArc = 16
)

// XYTolerance is the absolute tolerance applied to coordinate deltas and slopes
// during arc center reconstruction.
const XYTolerance = 1e-9

const (
	ellipticArcParams = 7
	bezierParams      = 3
	circularArcParams = 2
	minCoords         = 2
	minPathElements   = 2
)
