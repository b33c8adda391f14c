package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sudo-Ivan/esrixml/pkg/element"
	"github.com/Sudo-Ivan/esrixml/pkg/esri"
)

// ErrInvalidGlobalID is returned for a feature whose GlobalID is not a GUID.
var ErrInvalidGlobalID = errors.New("invalid GlobalID")

var guidPattern = regexp.MustCompile(`^\{?([0-9a-fA-F]{8})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{12})\}?$`)

// Feature identifies a logged feature.
type Feature struct {
	// Table is the full path (or URL) of the table or feature class holding the feature.
	Table string
	// GlobalID identifies the feature. Any common GUID notation is accepted.
	// Empty means the feature is not identified and only its geometry is logged.
	GlobalID string
	// GlobalIDField names the GlobalID field. Defaults to "GlobalID".
	GlobalIDField string
	// Geometry is anything esri.Serialize accepts. nil means no geometry is logged.
	Geometry any
}

// NormalizeGUID returns s as an upper case GUID in braces.
func NormalizeGUID(s string) (string, error) {
	m := guidPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidGlobalID, s)
	}
	return "{" + strings.ToUpper(strings.Join(m[1:], "-")) + "}", nil
}

// splitTable returns the workspace of a table path and the unqualified table name.
func splitTable(table string) (workspace, name string) {
	name = table
	if i := strings.LastIndexAny(table, `/\`); i >= 0 {
		workspace, name = table[:i], table[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return workspace, name
}

// writeElements appends the feature and dataid elements and the serialized
// geometry (if any) to obj. obj is left untouched on error.
// Without a GlobalID only the geometry is written.
func (f *Feature) writeElements(obj *element.Node) error {
	var (
		fid string
		err error
	)
	if f.GlobalID != "" {
		if fid, err = NormalizeGUID(f.GlobalID); err != nil {
			return err
		}
	}

	var geom *element.Node
	if f.Geometry != nil {
		if geom, err = esri.Serialize(f.Geometry); err != nil {
			if fid != "" {
				return fmt.Errorf("feature %s: %w", fid, err)
			}
			return err
		}
	}

	if fid != "" {
		field := f.GlobalIDField
		if field == "" {
			field = DefaultGlobalIDField
		}
		workspace, table := splitTable(f.Table)
		obj.Sub(TagFeature, nil).Sub(TagDataID, map[string]string{
			AttrConnection: workspace,
			AttrTable:      table,
			AttrField:      field,
			AttrValue:      fid,
		})
	}
	if geom != nil {
		obj.Append(geom)
	}
	return nil
}
