// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package protocol writes GEONIS protocol XML files: logs of messages that
// may each reference a feature and its geometry, shown by the GEONIS
// protocol viewer.
package protocol

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Sudo-Ivan/esrixml/pkg/element"
	"github.com/Sudo-Ivan/esrixml/pkg/esri"
)

// MessageType classifies a log entry.
type MessageType int

const (
	Header1 MessageType = iota
	Header2
	Message
	Warning
	Failure
	Notice
)

// Logger collects protocol entries in memory until Flush is called.
// A Logger is not safe for concurrent use.
type Logger struct {
	ProjectRoot string
	ProjectName string

	// Now returns the entry timestamps. Defaults to time.Now.
	Now func() time.Time

	root *element.Node
}

// NewLogger returns a Logger for the project file at projectPath.
// The project root is written as an absolute directory with a trailing separator.
func NewLogger(projectPath string) (*Logger, error) {
	projectPath = strings.TrimSpace(projectPath)
	if projectPath == "" {
		return nil, fmt.Errorf("project path is required")
	}
	dir, name := filepath.Split(projectPath)
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory %s: %w", dir, err)
	}
	if !strings.HasSuffix(abs, string(filepath.Separator)) {
		abs += string(filepath.Separator)
	}

	l := &Logger{ProjectRoot: abs, ProjectName: name, Now: time.Now}
	l.reset()
	return l, nil
}

func (l *Logger) reset() {
	l.root = element.New(TagRoot, map[string]string{
		AttrProjectRoot: l.ProjectRoot,
		AttrProjectName: l.ProjectName,
	})
}

// Len returns the number of entries logged since the last Flush.
func (l *Logger) Len() int {
	return len(l.root.ChildElements())
}

// Header logs a level 1 header.
func (l *Logger) Header(msg string, f *Feature) error { return l.Add(Header1, msg, f) }

// Subheader logs a level 2 header.
func (l *Logger) Subheader(msg string, f *Feature) error { return l.Add(Header2, msg, f) }

// Message logs a plain message.
func (l *Logger) Message(msg string, f *Feature) error { return l.Add(Message, msg, f) }

// Info logs a notice.
func (l *Logger) Info(msg string, f *Feature) error { return l.Add(Notice, msg, f) }

// Warn logs a warning.
func (l *Logger) Warn(msg string, f *Feature) error { return l.Add(Warning, msg, f) }

// Error logs a failure.
func (l *Logger) Error(msg string, f *Feature) error { return l.Add(Failure, msg, f) }

// Blank logs an empty entry, shown as a blank line by the viewer.
func (l *Logger) Blank() {
	_ = l.Add(Message, "", nil)
}

// Add logs an entry of the given type. f may be nil. If the feature cannot
// be written (invalid GlobalID, unserializable geometry) nothing is logged
// and the error is returned.
func (l *Logger) Add(t MessageType, msg string, f *Feature) error {
	entry := element.New(TagEntry, l.entryAttrs(t, msg))
	obj := entry.Sub(TagObject, nil)
	if f != nil {
		if err := f.writeElements(obj); err != nil {
			return err
		}
	}
	entry.Sub(TagCustomFunctions, nil)
	l.root.Append(entry)
	return nil
}

func (l *Logger) entryAttrs(t MessageType, msg string) map[string]string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	attrs := map[string]string{
		AttrMessageType: strconv.Itoa(int(t)),
		AttrDate:        DelphiTime(now()),
		AttrLastChange:  "0",
		AttrReadOnly:    esri.False,
	}
	if msg != "" {
		attrs[AttrMessage] = msg
	}
	return attrs
}

// Document returns the protocol as an XML document with declaration,
// indented with tabs. The document is a copy and may be modified freely.
func (l *Logger) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst(XMLTarget, XMLDeclaration)
	doc.SetRoot(l.root.Copy())
	doc.IndentTabs()
	return doc
}

// WriteTo writes the protocol document, encoded as ISO-8859-1, to w.
// Characters outside that charset are replaced.
func (l *Logger) WriteTo(w io.Writer) error {
	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
	if _, err := l.Document().WriteTo(tw); err != nil {
		return fmt.Errorf("failed to write protocol: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to write protocol: %w", err)
	}
	return nil
}

// Flush writes the protocol to path, creating missing directories, and
// starts a new empty protocol for the same project.
func (l *Logger) Flush(path string) error {
	path = strings.TrimSpace(path)
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return fmt.Errorf("failed to create protocol file %s: %w", path, err)
	}
	if err := l.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close protocol file %s: %w", path, err)
	}
	l.reset()
	return nil
}

// DelphiTime formats t as a Delphi TDateTime: fractional days since
// 1899-12-30 in t's local zone.
func DelphiTime(t time.Time) string {
	_, offset := t.Zone()
	secs := float64(t.Unix()+int64(offset)) + float64(t.Nanosecond())/1e9
	return fmt.Sprintf(delphiTimeFmt, delphiUnixEpoch+secs/secondsPerDay)
}
