/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package source reads configuration and template documents from local paths or HTTP URLs.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// HTTPClient is used for remote sources
var HTTPClient = http.DefaultClient

// IsRemote reports whether location is an http or https URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Read returns the content at location, which is a local path, a file:// URI or an http(s) URL
func Read(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return Get(ctx, location, nil)
	}

	data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// Get performs a GET request and returns the body of a successful response
func Get(ctx context.Context, target string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	return do(req, headers)
}

// Post sends body to target and returns the body of a successful response
func Post(ctx context.Context, target, body string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	return do(req, headers)
}

func do(req *http.Request, headers map[string]string) ([]byte, error) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to %s %s: %s", req.Method, req.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL, err)
	}
	return data, nil
}

// Join resolves ref relative to the document at base. Absolute paths and URLs are returned as is.
func Join(base, ref string) string {
	if IsRemote(ref) {
		return ref
	}
	ref = strings.TrimPrefix(ref, "file://")

	if IsRemote(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return ref
		}
		refURL, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return baseURL.ResolveReference(refURL).String()
	}

	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(base, "file://")), ref)
}
