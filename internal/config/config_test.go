package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

// writeConfig writes content to name inside a fresh temp dir and returns the path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// requireExitCode asserts that err is a CLIError with the given code.
func requireExitCode(t *testing.T, err error, code model.ExitCode) {
	t.Helper()
	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "error should be a *model.CLIError")
	assert.Equal(t, code, cliErr.Code)
}

// TestDefault verifies the defaults match the historical fixed layout.
func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "train.txt", cfg.TrainManifest)
	assert.Equal(t, "test.txt", cfg.ValManifest)
	assert.Equal(t, "dataset_yolo", cfg.OutputDir)
	assert.Equal(t, ".jpg", cfg.ImageExt)
	assert.Equal(t, ".txt", cfg.LabelExt)
	assert.False(t, cfg.KeepGoing)
	assert.False(t, cfg.DataYAML.Enabled)
	assert.NoError(t, cfg.Validate())
}

// TestLoad_YAML verifies that a partial YAML file overrides only the fields it sets.
func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "split.yaml", `
data_dir: raw
output_dir: out/yolo
keep_going: true
data_yaml:
  enabled: true
  names: [grape, leaf]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "raw", cfg.DataDir)
	assert.Equal(t, "out/yolo", cfg.OutputDir)
	assert.True(t, cfg.KeepGoing)
	assert.True(t, cfg.DataYAML.Enabled)
	assert.Equal(t, []string{"grape", "leaf"}, cfg.DataYAML.Names)

	// Untouched fields keep their defaults.
	assert.Equal(t, "train.txt", cfg.TrainManifest)
	assert.Equal(t, "test.txt", cfg.ValManifest)
	assert.Equal(t, "data.yaml", cfg.DataYAML.File)
}

// TestLoad_JSONC verifies that comments and trailing commas are accepted.
func TestLoad_JSONC(t *testing.T) {
	path := writeConfig(t, "split.jsonc", `{
		// source images live next to the labels
		"data_dir": "samples",
		"image_ext": ".png", /* not jpg */
		"val_manifest": "val.txt",
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "samples", cfg.DataDir)
	assert.Equal(t, ".png", cfg.ImageExt)
	assert.Equal(t, "val.txt", cfg.ValManifest)
	assert.Equal(t, ".txt", cfg.LabelExt)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	requireExitCode(t, err, model.ExitInvalidConfig)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "split.toml", `data_dir = "x"`)
	_, err := Load(path)
	requireExitCode(t, err, model.ExitInvalidConfig)
	assert.Contains(t, err.Error(), ".toml")
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "split.yaml", "data_dir: [unclosed\n")
	_, err := Load(path)
	requireExitCode(t, err, model.ExitInvalidConfig)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "split.yml", "output_dir: \"\"\n")
	_, err := Load(path)
	requireExitCode(t, err, model.ExitInvalidConfig)
	assert.Contains(t, err.Error(), "output_dir")
}

// TestValidate covers each rejection rule.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"blank train manifest", func(c *Config) { c.TrainManifest = "  " }, "train_manifest"},
		{"empty val manifest", func(c *Config) { c.ValManifest = "" }, "val_manifest"},
		{"image ext without dot", func(c *Config) { c.ImageExt = "jpg" }, "image_ext"},
		{"label ext only dot", func(c *Config) { c.LabelExt = "." }, "label_ext"},
		{"same extensions", func(c *Config) { c.LabelExt = ".JPG" }, "must differ"},
		{"data yaml without file", func(c *Config) {
			c.DataYAML.Enabled = true
			c.DataYAML.File = ""
		}, "data_yaml.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			requireExitCode(t, err, model.ExitInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDataYAMLPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("dataset_yolo", "data.yaml"), cfg.DataYAMLPath())

	abs := filepath.Join(t.TempDir(), "grapes.yaml")
	cfg.DataYAML.File = abs
	assert.Equal(t, abs, cfg.DataYAMLPath())
}

// TestMarshal_RoundTrip verifies that the printed config can be fed back to Load.
func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "raw"
	cfg.DataYAML.Names = []string{"grape"}

	data, err := cfg.Marshal()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "raw", decoded["data_dir"])

	path := writeConfig(t, "effective.yaml", string(data))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
