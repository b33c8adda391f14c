// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package arcgis fetches features, with their true curve geometries, from
// ArcGIS Feature Layers.
package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotLayerURL is returned for URLs that do not name a single layer of a
// FeatureServer or MapServer.
var ErrNotLayerURL = errors.New("not a feature layer URL")

// Client is an ArcGIS REST client.
type Client struct {
	HTTPClient *http.Client
	Timeout    time.Duration

	// Log receives progress lines. nil means silent.
	Log io.Writer
}

// NewClient creates a new ArcGIS client with the specified timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, format+"\n", args...)
	}
}

// IsValidHTTPURL checks if a URL is a valid HTTP or HTTPS URL.
func IsValidHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SplitLayerURL splits a layer URL such as
// https://host/arcgis/rest/services/Net/FeatureServer/3 into the service URL
// and the layer ID. A missing scheme defaults to https, well-known path
// segments are given their canonical casing and the query is dropped.
func SplitLayerURL(rawURL string) (serviceURL, layerID string, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse layer URL %q: %w", rawURL, err)
	}
	if !IsValidHTTPURL(u.String()) || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotLayerURL, rawURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		switch strings.ToLower(part) {
		case "arcgis":
			parts[i] = PathArcGIS
		case "rest":
			parts[i] = PathRest
		case "services":
			parts[i] = PathServices
		case "featureserver":
			parts[i] = PathFeatureServer
		case "mapserver":
			parts[i] = PathMapServer
		}
	}
	if n := len(parts); n > 0 && parts[n-1] == PathQuery {
		parts = parts[:n-1]
	}

	n := len(parts)
	if n < 2 || (parts[n-2] != PathFeatureServer && parts[n-2] != PathMapServer) {
		return "", "", fmt.Errorf("%w: %s", ErrNotLayerURL, rawURL)
	}
	if _, err := strconv.Atoi(parts[n-1]); err != nil {
		return "", "", fmt.Errorf("%w: layer ID %q is not a number", ErrNotLayerURL, parts[n-1])
	}

	u.Path = "/" + strings.Join(parts[:n-1], "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), parts[n-1], nil
}

// fetch GETs urlStr and decodes the JSON response into target.
func (c *Client) fetch(ctx context.Context, urlStr string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", urlStr, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return fmt.Errorf("request timed out fetching data from %s: %w", urlStr, err)
		}
		return fmt.Errorf("failed to fetch data from %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK HTTP status %d from %s", resp.StatusCode, urlStr)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", urlStr, err)
	}
	return nil
}

// FetchLayerInfo fetches the metadata of a layer.
func (c *Client) FetchLayerInfo(ctx context.Context, serviceURL, layerID string) (*LayerInfo, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s", strings.TrimRight(serviceURL, "/"), layerID))
	if err != nil {
		return nil, fmt.Errorf("failed to build layer URL: %w", err)
	}
	q := u.Query()
	q.Set(ParamFormat, FormatJSON)
	u.RawQuery = q.Encode()

	c.logf("    Fetching layer metadata: %s", u)

	var info LayerInfo
	if err := c.fetch(ctx, u.String(), &info); err != nil {
		return nil, err
	}
	if info.Error != nil {
		return nil, fmt.Errorf("layer %s: %w", layerID, info.Error)
	}
	return &info, nil
}

// FetchFeatures fetches all features of a layer with attributes and true
// curve geometries in the layer's own spatial reference. Results are paged
// while the server reports an exceeded transfer limit.
func (c *Client) FetchFeatures(ctx context.Context, serviceURL, layerID string) ([]Feature, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s/%s", strings.TrimRight(serviceURL, "/"), layerID, PathQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to build query URL: %w", err)
	}

	var features []Feature
	for page := 0; page < MaxPages; page++ {
		q := url.Values{}
		q.Set(ParamFormat, FormatJSON)
		q.Set(ParamWhere, WhereAll)
		q.Set(ParamOutFields, AllFields)
		q.Set(ParamReturnGeometry, True)
		q.Set(ParamReturnTrueCurves, True)
		if len(features) > 0 {
			q.Set(ParamResultOffset, strconv.Itoa(len(features)))
		}
		u.RawQuery = q.Encode()

		c.logf("    Fetching features: %s", u)

		var resp FeatureResponse
		if err := c.fetch(ctx, u.String(), &resp); err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("feature query for layer %s: %w", layerID, resp.Error)
		}

		features = append(features, resp.Features...)
		if !resp.ExceededTransferLimit {
			return features, nil
		}
		if len(resp.Features) == 0 {
			c.logf("  Warning: Feature transfer limit exceeded for layer %s but no features returned. Results may be incomplete.", layerID)
			return features, nil
		}
	}

	c.logf("  Warning: Stopped paging layer %s after %d pages. Results may be incomplete.", layerID, MaxPages)
	return features, nil
}
