package protocol

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Sudo-Ivan/esrixml/pkg/esri"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const xmlHeader = "<?" + XMLTarget + " " + XMLDeclaration + "?>"

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := NewLogger(filepath.Join(t.TempDir(), "project.gpr"))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	l.Now = func() time.Time { return fixedTime }
	return l
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(filepath.Join(dir, "project.gpr"))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if want := dir + string(filepath.Separator); l.ProjectRoot != want {
		t.Errorf("ProjectRoot = %q, want %q", l.ProjectRoot, want)
	}
	if l.ProjectName != "project.gpr" {
		t.Errorf("ProjectName = %q, want %q", l.ProjectName, "project.gpr")
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}

	if _, err := NewLogger("  "); err == nil {
		t.Error("NewLogger(blank) expected error, got nil")
	}
}

func TestDelphiTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"Unix Epoch", time.Unix(0, 0).UTC(), "25569.0000000000000"},
		{"Noon", fixedTime, "45352.5000000000000"},
		{"Zone Offset", time.Date(1970, 1, 1, 6, 0, 0, 0, time.FixedZone("X", 6*3600)), "25569.2500000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DelphiTime(tt.in); got != tt.want {
				t.Errorf("DelphiTime(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeGUID(t *testing.T) {
	const want = "{0F8FAD5B-D9CB-469F-A165-70867728950E}"
	for _, in := range []string{
		"{0f8fad5b-d9cb-469f-a165-70867728950e}",
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"0F8FAD5BD9CB469FA16570867728950E",
		" {0F8FAD5B-D9CB-469F-A165-70867728950E} ",
	} {
		got, err := NormalizeGUID(in)
		if err != nil {
			t.Errorf("NormalizeGUID(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeGUID(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "42", "{0f8fad5b-d9cb-469f-a165}", "zf8fad5b-d9cb-469f-a165-70867728950e"} {
		if _, err := NormalizeGUID(in); !errors.Is(err, ErrInvalidGlobalID) {
			t.Errorf("NormalizeGUID(%q) error = %v, want %v", in, err, ErrInvalidGlobalID)
		}
	}
}

func TestSplitTable(t *testing.T) {
	tests := []struct {
		in, workspace, name string
	}{
		{`C:\data\net.sde\GIS.WAS_LEITUNG`, `C:\data\net.sde`, "WAS_LEITUNG"},
		{"/data/net.gdb/wastewater", "/data/net.gdb", "wastewater"},
		{"https://host/arcgis/rest/services/Net/FeatureServer/0", "https://host/arcgis/rest/services/Net/FeatureServer", "0"},
		{"owner.table", "", "table"},
		{"", "", ""},
	}
	for _, tt := range tests {
		ws, name := splitTable(tt.in)
		if ws != tt.workspace || name != tt.name {
			t.Errorf("splitTable(%q) = (%q, %q), want (%q, %q)", tt.in, ws, name, tt.workspace, tt.name)
		}
	}
}

func TestMessageTypes(t *testing.T) {
	l := newTestLogger(t)
	calls := []struct {
		fn   func(string, *Feature) error
		want string
	}{
		{l.Header, "0"},
		{l.Subheader, "1"},
		{l.Message, "2"},
		{l.Warn, "3"},
		{l.Error, "4"},
		{l.Info, "5"},
	}
	for _, c := range calls {
		if err := c.fn("msg", nil); err != nil {
			t.Fatalf("log error = %v", err)
		}
	}
	l.Blank()

	entries := l.root.Find(TagEntry)
	if len(entries) != len(calls)+1 {
		t.Fatalf("got %d entries, want %d", len(entries), len(calls)+1)
	}
	for i, c := range calls {
		if got, _ := entries[i].Get(AttrMessageType); got != c.want {
			t.Errorf("entry %d messagetype = %q, want %q", i, got, c.want)
		}
	}
	blank := entries[len(calls)]
	if _, ok := blank.Get(AttrMessage); ok {
		t.Error("blank entry should have no message attribute")
	}
}

func TestEntryWithFeature(t *testing.T) {
	l := newTestLogger(t)
	f := &Feature{
		Table:    "/data/net.gdb/owner.pipes",
		GlobalID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Geometry: `{"x": 1, "y": 2}`,
	}
	if err := l.Warn("check pipe", f); err != nil {
		t.Fatalf("Warn() error = %v", err)
	}

	var buf bytes.Buffer
	if err := l.root.Children()[0].Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `<Entry date="45352.5000000000000" isreadonly="false" lastchangedate="0" message="check pipe" messagetype="3">` +
		`<Object><feature><dataid con="/data/net.gdb" fld="GlobalID" tbl="pipes" val="{0F8FAD5B-D9CB-469F-A165-70867728950E}"/></feature>` +
		`<Geometry><Point esrienum="1" x="1" y="2"/></Geometry></Object>` +
		`<CustomFunctions/></Entry>`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryWithoutGeometry(t *testing.T) {
	l := newTestLogger(t)
	f := &Feature{Table: "t", GlobalID: "{0F8FAD5B-D9CB-469F-A165-70867728950E}", GlobalIDField: "GLOBALID"}
	if err := l.Message("", f); err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	obj := l.root.Children()[0].Find(TagObject)
	if len(obj) != 1 {
		t.Fatalf("got %d Object elements, want 1", len(obj))
	}
	if len(obj[0].Find(esri.TagGeometry)) != 0 {
		t.Error("unexpected Geometry element")
	}
	features := obj[0].Find(TagFeature)
	if len(features) != 1 {
		t.Fatalf("got %d feature elements, want 1", len(features))
	}
	ids := features[0].Find(TagDataID)
	if len(ids) != 1 {
		t.Fatalf("got %d dataid elements, want 1", len(ids))
	}
	if fld, _ := ids[0].Get(AttrField); fld != "GLOBALID" {
		t.Errorf("fld = %q, want %q", fld, "GLOBALID")
	}
}

func TestEntryErrorsLeaveLogUntouched(t *testing.T) {
	tests := []struct {
		name    string
		feature *Feature
		wantErr error
	}{
		{"Invalid GlobalID", &Feature{GlobalID: "nope", Geometry: `{"x": 1, "y": 2}`}, ErrInvalidGlobalID},
		{"Invalid Point Without GlobalID", &Feature{Geometry: `{"x": "NaN", "y": 2}`}, esri.ErrInvalidPoint},
		{"Colinear Arc", &Feature{
			GlobalID: "0f8fad5b-d9cb-469f-a165-70867728950e",
			Geometry: `{"curvePaths": [[[0, 0], {"c": [[2, 2], [1, 1]]}]]}`,
		}, esri.ErrColinearPoints},
		{"Bad JSON", &Feature{
			GlobalID: "0f8fad5b-d9cb-469f-a165-70867728950e",
			Geometry: `{"x": 1,`,
		}, esri.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLogger(t)
			err := l.Error("broken", tt.feature)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Error() error = %v, want %v", err, tt.wantErr)
			}
			if l.Len() != 0 {
				t.Errorf("Len() = %d, want 0", l.Len())
			}
		})
	}
}

func TestWriteTo(t *testing.T) {
	l := newTestLogger(t)
	l.ProjectRoot = `C:\projects\`
	l.ProjectName = "net.gpr"
	l.reset()
	if err := l.Header("Prüfung", nil); err != nil {
		t.Fatalf("Header() error = %v", err)
	}

	var buf bytes.Buffer
	if err := l.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	want := xmlHeader + "\n" +
		"<ObjectLog currentproject=\"net.gpr\" projectroot=\"C:\\projects\\\">\n" +
		"\t<Entry date=\"45352.5000000000000\" isreadonly=\"false\" lastchangedate=\"0\" message=\"Pr\xfcfung\" messagetype=\"0\">\n" +
		"\t\t<Object/>\n" +
		"\t\t<CustomFunctions/>\n" +
		"\t</Entry>\n" +
		"</ObjectLog>"
	if diff := cmp.Diff(want, strings.TrimSpace(buf.String())); diff != "" {
		t.Errorf("WriteTo() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteToReplacesUnsupported(t *testing.T) {
	l := newTestLogger(t)
	_ = l.Message("pipe → valve", nil)
	var buf bytes.Buffer
	if err := l.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if strings.Contains(buf.String(), "→") {
		t.Error("non Latin-1 character written unchanged")
	}
}

func TestFlush(t *testing.T) {
	l := newTestLogger(t)
	_ = l.Info("done", nil)

	path := filepath.Join(t.TempDir(), "nested", "dir", "protocol.xml")
	if err := l.Flush(path); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte(xmlHeader)) {
		t.Errorf("protocol file missing XML header: %q", data)
	}
	if !bytes.Contains(data, []byte(`message="done"`)) {
		t.Errorf("protocol file missing entry: %q", data)
	}
	if l.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", l.Len())
	}
}

func TestEntryGeometryOnly(t *testing.T) {
	l := newTestLogger(t)
	if err := l.Message("loose geometry", &Feature{Geometry: esri.Pt(3, 4)}); err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	obj := l.root.Children()[0].Find(TagObject)[0]
	want := `<Object><Geometry><Point esrienum="1" x="3" y="4"/></Geometry></Object>`
	if diff := cmp.Diff(want, obj.String()); diff != "" {
		t.Errorf("Object mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentLeavesLogUntouched(t *testing.T) {
	l := newTestLogger(t)
	_ = l.Message("first", nil)

	doc := l.Document()
	doc.Root().CreateElement(TagEntry)
	if l.Len() != 1 {
		t.Errorf("Len() = %d after changing the document, want 1", l.Len())
	}
	if got := l.root.String(); strings.Contains(got, "\n") {
		t.Errorf("indentation leaked into the log: %q", got)
	}
}
