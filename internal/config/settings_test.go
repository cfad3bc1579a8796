/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Source(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		flag    string
		want    string
		wantErr error
	}{
		{name: "environment beats flag", env: "env.yaml", flag: "flag.yaml", want: "env.yaml"},
		{name: "flag only", flag: "flag.yaml", want: "flag.yaml"},
		{name: "environment only", env: "env.star", want: "env.star"},
		{name: "neither", wantErr: ErrConfigurationMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STACKPILOT_CONFIG", tt.env)

			settings, err := LoadSettings(Flags{Config: tt.flag})
			require.NoError(t, err)

			source, err := settings.Source()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, source)
		})
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("STACKPILOT_CONFIG", "")
	t.Setenv("STACKPILOT_LOG", "")
	t.Setenv("STACKPILOT_LINTER", "")
	t.Setenv("NO_COLOR", "")

	settings, err := LoadSettings(Flags{Profile: "dev"})
	require.NoError(t, err)

	assert.Equal(t, "dev", settings.Profile)
	assert.False(t, settings.Verbose)
	assert.True(t, settings.Colour)
}

func TestLoadSettings_ColourAndVerbosity(t *testing.T) {
	t.Run("NO_COLOR disables colour", func(t *testing.T) {
		t.Setenv("NO_COLOR", "yes")
		settings, err := LoadSettings(Flags{})
		require.NoError(t, err)
		assert.False(t, settings.Colour)
	})

	t.Run("flag disables colour", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		settings, err := LoadSettings(Flags{NoColour: true})
		require.NoError(t, err)
		assert.False(t, settings.Colour)
	})

	t.Run("debug log level selects verbose mode", func(t *testing.T) {
		t.Setenv("STACKPILOT_LOG", "debug")
		settings, err := LoadSettings(Flags{})
		require.NoError(t, err)
		assert.True(t, settings.Verbose)
		assert.Equal(t, "debug", settings.LogLevel)
	})
}

func TestSettings_LinterCommand(t *testing.T) {
	t.Run("parses quoted arguments", func(t *testing.T) {
		settings := &Settings{Linter: `cfn-lint --format "parseable" -i W3002`}

		args, err := settings.LinterCommand()
		require.NoError(t, err)
		assert.Equal(t, []string{"cfn-lint", "--format", "parseable", "-i", "W3002"}, args)
	})

	t.Run("unterminated quote", func(t *testing.T) {
		settings := &Settings{Linter: `cfn-lint "oops`}

		_, err := settings.LinterCommand()
		assert.Error(t, err)
	})

	t.Run("falls back to PATH lookup", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		settings := &Settings{}

		args, err := settings.LinterCommand()
		require.NoError(t, err)
		assert.Nil(t, args)
	})
}
