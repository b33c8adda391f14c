package arcgis

import (
	"encoding/json"
	"fmt"
)

// APIError is the error object ArcGIS REST endpoints return with HTTP 200.
type APIError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("ArcGIS API error %d: %s", e.Code, e.Message)
	}
	return "ArcGIS API error: " + e.Message
}

// LayerInfo is the subset of Feature Layer metadata needed to log its features.
type LayerInfo struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	GeometryType   string    `json:"geometryType"`
	GlobalIDField  string    `json:"globalIdField"`
	ObjectIDField  string    `json:"objectIdField"`
	HasZ           bool      `json:"hasZ"`
	MaxRecordCount int       `json:"maxRecordCount"`
	Error          *APIError `json:"error"`
}

// FeatureResponse is the response of a layer query.
type FeatureResponse struct {
	GeometryType          string    `json:"geometryType"`
	GlobalIDFieldName     string    `json:"globalIdFieldName"`
	Features              []Feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
	Error                 *APIError `json:"error"`
}

// Feature is a queried feature. Geometry is kept as raw EsriJSON so that
// curve segments survive untouched.
type Feature struct {
	Attributes map[string]any  `json:"attributes"`
	Geometry   json.RawMessage `json:"geometry"`
}
