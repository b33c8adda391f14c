package main

const (
	DefaultTimeoutSeconds = 30
	DefaultProjectName    = "esrixml.gpr"
	OutputExt             = ".xml"
	StdinInput            = "-"
	StdinBaseName         = "stdin"
	LayerNameFormat       = "Layer_%s"
	LayerKeyFormat        = "%s/%s"
	GeometryLabelFormat   = "Geometry %d"
	FeatureLabelFormat    = "Feature %d"
	MessageFormat         = "%s: %s"
	WarningFormat         = "%s skipped: %v"

	KeyFeatures   = "features"
	KeyAttributes = "attributes"
	KeyGeometry   = "geometry"
)

// featureNameKeys are the attributes tried, in order, to label a feature.
var featureNameKeys = []string{"name", "Name", "NAME", "title", "Title", "TITLE", "OBJECTID", "FID"}
