package protocol

const (
	TagRoot            = "ObjectLog"
	TagEntry           = "Entry"
	TagObject          = "Object"
	TagCustomFunctions = "CustomFunctions"
	TagFeature         = "feature"
	TagDataID          = "dataid"

	AttrConnection  = "con"
	AttrTable       = "tbl"
	AttrField       = "fld"
	AttrValue       = "val"
	AttrProjectRoot = "projectroot"
	AttrProjectName = "currentproject"
	AttrMessage     = "message"
	AttrMessageType = "messagetype"
	AttrDate        = "date"
	AttrLastChange  = "lastchangedate"
	AttrReadOnly    = "isreadonly"

	DefaultGlobalIDField = "GlobalID"

	XMLTarget      = "xml"
	XMLDeclaration = "version='1.0' encoding='iso-8859-1'"

	// delphiUnixEpoch is the Delphi TDateTime value of 1970-01-01 (days since 1899-12-30).
	delphiUnixEpoch = 25569
	secondsPerDay   = 86400
	delphiTimeFmt   = "%.13f"

	DirPerm  = 0750
	FilePerm = 0600
)
