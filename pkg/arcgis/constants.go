package arcgis

const (
	LayerTypeFeature = "Feature Layer"
	LayerTypeTable   = "Table"

	PathArcGIS        = "ArcGIS"
	PathRest          = "rest"
	PathServices      = "services"
	PathFeatureServer = "FeatureServer"
	PathMapServer     = "MapServer"
	PathQuery         = "query"

	ParamFormat           = "f"
	ParamWhere            = "where"
	ParamOutFields        = "outFields"
	ParamReturnGeometry   = "returnGeometry"
	ParamReturnTrueCurves = "returnTrueCurves"
	ParamResultOffset     = "resultOffset"

	FormatJSON = "json"
	WhereAll   = "1=1"
	AllFields  = "*"
	True       = "true"

	// MaxPages bounds paging through layers that keep reporting exceeded transfer limits.
	MaxPages = 1000
)
