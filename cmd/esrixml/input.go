package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Sudo-Ivan/esrixml/pkg/arcgis"
	"github.com/Sudo-Ivan/esrixml/pkg/protocol"
)

var (
	errNoFeatures      = errors.New("no features found")
	errSkippedExisting = errors.New("skipped existing file")

	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// item is one geometry to log, with the identity of its feature when known.
type item struct {
	Label    string
	GlobalID string
	Geometry any
}

// batch is everything read from one input; it becomes one protocol file.
type batch struct {
	Name          string
	Base          string
	Table         string
	GlobalIDField string
	Items         []item
}

// parseInput reads an Esri JSON geometry, an Esri feature set, a single
// feature or an array of geometries.
func parseInput(data []byte, globalIDField string) ([]item, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	switch t := v.(type) {
	case map[string]any:
		if fs, ok := t[KeyFeatures]; ok {
			return featureItems(fs, globalIDField)
		}
		if _, ok := t[KeyGeometry]; ok {
			return featureItems([]any{t}, globalIDField)
		}
		return []item{{Label: fmt.Sprintf(GeometryLabelFormat, 1), Geometry: t}}, nil
	case []any:
		items := make([]item, 0, len(t))
		for i, g := range t {
			items = append(items, item{Label: fmt.Sprintf(GeometryLabelFormat, i+1), Geometry: g})
		}
		return items, nil
	}
	return nil, fmt.Errorf("expected a JSON object or array, got %T", v)
}

func featureItems(v any, globalIDField string) ([]item, error) {
	features, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%q should be an array, got %T", KeyFeatures, v)
	}
	items := make([]item, 0, len(features))
	for i, f := range features {
		feature, ok := f.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("feature %d should be an object, got %T", i, f)
		}
		attrs, _ := feature[KeyAttributes].(map[string]any)
		items = append(items, item{
			Label:    featureLabel(attrs, i),
			GlobalID: attrString(attrs, globalIDField),
			Geometry: feature[KeyGeometry],
		})
	}
	return items, nil
}

// featureLabel returns a display name for the i-th feature.
func featureLabel(attrs map[string]any, i int) string {
	for _, key := range featureNameKeys {
		if val, ok := attrs[key]; ok && val != nil {
			return fmt.Sprintf("%v", val)
		}
	}
	return fmt.Sprintf(FeatureLabelFormat, i+1)
}

// attrString returns the attribute named field, matched case-insensitively
// if there is no exact match.
func attrString(attrs map[string]any, field string) string {
	val, ok := attrs[field]
	if !ok {
		for k, v := range attrs {
			if strings.EqualFold(k, field) {
				val, ok = v, true
				break
			}
		}
	}
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}

// safeBaseName turns a layer or file name into a file name without extension.
func safeBaseName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return unsafeFilenameChars.ReplaceAllString(name, "")
}

func globalIDField(cfg *config, fallback string) string {
	switch {
	case cfg.GlobalIDField != "":
		return cfg.GlobalIDField
	case fallback != "":
		return fallback
	}
	return protocol.DefaultGlobalIDField
}

// loadFile reads a batch from a file, or from stdin.
func loadFile(path string, stdin io.Reader, cfg *config) (*batch, error) {
	var (
		data []byte
		err  error
		b    = &batch{Name: path, Table: cfg.Table}
	)
	if path == StdinInput {
		data, err = io.ReadAll(stdin)
		b.Name, b.Base = StdinBaseName, StdinBaseName
	} else {
		data, err = os.ReadFile(path)
		b.Base = safeBaseName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if b.Table == "" {
			if abs, absErr := filepath.Abs(path); absErr == nil {
				b.Table = abs
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.Name, err)
	}

	b.GlobalIDField = globalIDField(cfg, "")
	if b.Items, err = parseInput(data, b.GlobalIDField); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}
	if len(b.Items) == 0 {
		return nil, errNoFeatures
	}
	return b, nil
}

// loadLayer fetches a batch from an ArcGIS Feature Layer.
func loadLayer(ctx context.Context, client *arcgis.Client, rawURL string, cfg *config) (*batch, error) {
	serviceURL, layerID, err := arcgis.SplitLayerURL(rawURL)
	if err != nil {
		return nil, err
	}
	info, err := client.FetchLayerInfo(ctx, serviceURL, layerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch layer metadata: %w", err)
	}
	if info.Type != "" && info.Type != arcgis.LayerTypeFeature && info.Type != arcgis.LayerTypeTable {
		return nil, fmt.Errorf("layer %s is a %s, not a %s", layerID, info.Type, arcgis.LayerTypeFeature)
	}

	features, err := client.FetchFeatures(ctx, serviceURL, layerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch features: %w", err)
	}
	if len(features) == 0 {
		return nil, errNoFeatures
	}

	b := &batch{
		Name:          info.Name,
		Base:          safeBaseName(info.Name),
		Table:         cfg.Table,
		GlobalIDField: globalIDField(cfg, info.GlobalIDField),
		Items:         make([]item, 0, len(features)),
	}
	if b.Name == "" {
		b.Name = fmt.Sprintf(LayerNameFormat, layerID)
	}
	if b.Base == "" {
		b.Base = fmt.Sprintf(LayerNameFormat, layerID)
	}
	if b.Table == "" {
		b.Table = fmt.Sprintf(LayerKeyFormat, serviceURL, layerID)
	}

	for i, f := range features {
		it := item{
			Label:    featureLabel(f.Attributes, i),
			GlobalID: attrString(f.Attributes, b.GlobalIDField),
		}
		if len(f.Geometry) > 0 && string(f.Geometry) != "null" {
			it.Geometry = f.Geometry
		}
		b.Items = append(b.Items, it)
	}
	return b, nil
}
