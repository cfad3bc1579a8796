/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_OutputFormat(t *testing.T) {
	lines := strings.Split(Info(), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "stackpilot "+Version, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  Git commit: "))
	assert.True(t, strings.HasPrefix(lines[2], "  Build date: "))
	assert.Equal(t, "  Go version: "+runtime.Version(), lines[3])
	assert.Equal(t, "  Platform:   "+runtime.GOOS+"/"+runtime.GOARCH, lines[4])
}

func TestShort_ReturnsVersionOnly(t *testing.T) {
	assert.Equal(t, Version, Short())
	assert.NotContains(t, Short(), "\n")
}

func TestAppID(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "development build", version: "dev", want: "stackpilot-dev"},
		{name: "release", version: "v1.2.0", want: "stackpilot-v1.2.0"},
		{name: "build metadata", version: "1.2.0+a1b2c3d", want: "stackpilot-1.2.0+a1b2c3d"},
		{name: "spaces and slashes", version: "1.0 (linux/amd64)", want: "stackpilot-1.0--linux-amd64-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Version
			Version = tt.version
			defer func() { Version = original }()

			assert.Equal(t, tt.want, AppID())
		})
	}
}
