package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0, cfg.Parser.MaxErrors)
	assert.Greater(t, cfg.Batch.Workers, 0)
	assert.Equal(t, 64, cfg.Batch.JobBuffer)
	assert.Equal(t, 10*time.Second, cfg.Batch.ShutdownTimeout.Duration)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.NoError(t, cfg.Validate())
}

func TestParseTOML(t *testing.T) {
	cfg, err := ParseTOML(`
[parser]
max_errors = 25
attach_comments = true

[batch]
workers = 3
shutdown_timeout = "2s"

[output]
format = "json"
color = "never"
`)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Parser.MaxErrors)
	assert.True(t, cfg.Parser.AttachComments)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 64, cfg.Batch.ResultBuffer, "unset fields take defaults")
	assert.Equal(t, 2*time.Second, cfg.Batch.ShutdownTimeout.Duration)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, ColorNever, cfg.Output.Color)
}

func TestParseTOMLUnknownKey(t *testing.T) {
	_, err := ParseTOML("[parser]\nmax_erors = 3\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser.max_erors")
}

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
parser:
  max_errors: 5
batch:
  workers: 2
  job_buffer: 8
  shutdown_timeout: 500ms
output:
  format: ast
`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Parser.MaxErrors)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 8, cfg.Batch.JobBuffer)
	assert.Equal(t, 500*time.Millisecond, cfg.Batch.ShutdownTimeout.Duration)
	assert.Equal(t, FormatAST, cfg.Output.Format)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "tsparse.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[batch]\nworkers = 7\n"), 0o644))
	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Batch.Workers)

	yamlPath := filepath.Join(dir, "tsparse.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("batch:\n  workers: 9\n"), 0o644))
	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Batch.Workers)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "config file not found")

	jsonPath := filepath.Join(dir, "tsparse.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))
	_, err = Load(jsonPath)
	assert.ErrorContains(t, err, "unsupported config format")

	badPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badPath, []byte("[batch\n"), 0o644))
	_, err = Load(badPath)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Parser.MaxErrors = -1
	cfg.Batch.Workers = 0
	cfg.Output.Format = "xml"
	cfg.Output.Color = "sometimes"

	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), "output.format")
}

func TestParserOptions(t *testing.T) {
	cfg := Default()
	cfg.Parser.MaxErrors = 1
	assert.Len(t, cfg.ParserOptions(), 2)
}
