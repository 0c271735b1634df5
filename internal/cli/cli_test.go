package cli

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/recipegrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		env        map[string]string
		want       *app.Config
		shouldExit bool
		wantCode   int
		wantErr    string
	}{
		{
			name: "positional recipe with defaults",
			args: []string{"recipe.hcl"},
			want: &app.Config{RecipePath: "recipe.hcl", LogFormat: "json", LogLevel: "info", Workers: 1},
		},
		{
			name: "repeatable inputs and outputs keep their order",
			args: []string{"-i", "a.txt", "-input", "b.txt", "-o", "out0", "-output", "out1", "-r", "recipe.hcl"},
			want: &app.Config{
				RecipePath: "recipe.hcl",
				Inputs:     []string{"a.txt", "b.txt"},
				Outputs:    []string{"out0", "out1"},
				LogFormat:  "json",
				LogLevel:   "info",
				Workers:    1,
			},
		},
		{
			name: "recipe flag wins over positional",
			args: []string{"-recipe", "flag.hcl", "-workers", "8", "-journal", "j.db", "-plan", "-log-format", "TEXT", "-log-level", "Debug", "positional.hcl"},
			want: &app.Config{
				RecipePath:  "flag.hcl",
				LogFormat:   "text",
				LogLevel:    "debug",
				Workers:     8,
				JournalPath: "j.db",
				Plan:        true,
			},
		},
		{
			name: "object store from the environment",
			args: []string{"recipe.hcl"},
			env: map[string]string{
				"RECIPEGRID_S3_ENDPOINT":   "minio:9000",
				"RECIPEGRID_S3_ACCESS_KEY": "key",
				"RECIPEGRID_S3_SECRET_KEY": "secret",
				"RECIPEGRID_S3_USE_SSL":    "false",
			},
			want: func() *app.Config {
				c := &app.Config{RecipePath: "recipe.hcl", LogFormat: "json", LogLevel: "info", Workers: 1}
				c.S3.Endpoint, c.S3.AccessKey, c.S3.SecretKey = "minio:9000", "key", "secret"
				return c
			}(),
		},
		{name: "help", args: []string{"-h"}, shouldExit: true},
		{name: "no recipe", args: []string{"-i", "a.txt"}, shouldExit: true},
		{name: "unknown flag", args: []string{"-bogus"}, wantCode: 2, wantErr: "flag provided but not defined: -bogus"},
		{name: "bad log format", args: []string{"-log-format", "xml", "r.hcl"}, wantCode: 2, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "trace", "r.hcl"}, wantCode: 2, wantErr: "invalid log-level"},
		{name: "zero workers", args: []string{"-workers", "0", "r.hcl"}, wantCode: 2, wantErr: "Workers must be at least 1"},
		{
			name:     "bad ssl flag",
			args:     []string{"r.hcl"},
			env:      map[string]string{"RECIPEGRID_S3_USE_SSL": "maybe"},
			wantCode: 2,
			wantErr:  "RECIPEGRID_S3_USE_SSL",
		},
		{
			name:     "object store without credentials",
			args:     []string{"r.hcl"},
			env:      map[string]string{"RECIPEGRID_S3_ENDPOINT": "minio:9000"},
			wantCode: 2,
			wantErr:  "invalid object store configuration",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{"RECIPEGRID_S3_ENDPOINT", "RECIPEGRID_S3_ACCESS_KEY", "RECIPEGRID_S3_SECRET_KEY", "RECIPEGRID_S3_REGION", "RECIPEGRID_S3_USE_SSL"} {
				t.Setenv(key, tc.env[key])
			}
			if _, ok := tc.env["RECIPEGRID_S3_USE_SSL"]; !ok {
				t.Setenv("RECIPEGRID_S3_USE_SSL", "true")
			}

			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.wantErr != "" {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			if tc.shouldExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}

			if tc.want.S3.Endpoint == "" {
				tc.want.S3.UseSSL = true
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
