// Package config holds the paths and options that drive a split run.
//
// The defaults reproduce the fixed layout the training pipeline has always
// used (data/, train.txt, test.txt, dataset_yolo/). A YAML or JSONC file can
// override any field, and CLI flags override the file.
//
// JSON configuration files may contain comments; github.com/tidwall/jsonc
// strips them before parsing with encoding/json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

// Default values for every path-like field.
const (
	DefaultDataDir       = "data"
	DefaultTrainManifest = "train.txt"
	DefaultValManifest   = "test.txt"
	DefaultOutputDir     = "dataset_yolo"
	DefaultImageExt      = ".jpg"
	DefaultLabelExt      = ".txt"
	DefaultDataYAMLFile  = "data.yaml"
)

// Config is the full set of inputs for a split run.
type Config struct {
	// DataDir is the flat source directory holding <id><ImageExt> and
	// <id><LabelExt> files.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// TrainManifest lists the identifiers copied into the train split.
	TrainManifest string `yaml:"train_manifest" json:"train_manifest"`

	// ValManifest lists the identifiers copied into the val split.
	ValManifest string `yaml:"val_manifest" json:"val_manifest"`

	// OutputDir is the root of the YOLO tree (images/ and labels/).
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	ImageExt string `yaml:"image_ext" json:"image_ext"`
	LabelExt string `yaml:"label_ext" json:"label_ext"`

	// KeepGoing records per-pair copy failures and continues instead of
	// aborting the run on the first one.
	KeepGoing bool `yaml:"keep_going" json:"keep_going"`

	DataYAML DataYAMLConfig `yaml:"data_yaml" json:"data_yaml"`
}

// DataYAMLConfig controls generation of the dataset descriptor consumed by
// YOLO training scripts.
type DataYAMLConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// File is relative to OutputDir unless absolute.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Names are the class names, indexed by the class id used in the
	// label files.
	Names []string `yaml:"names,omitempty" json:"names,omitempty"`
}

// Default returns the configuration matching the historical fixed layout.
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir,
		TrainManifest: DefaultTrainManifest,
		ValManifest:   DefaultValManifest,
		OutputDir:     DefaultOutputDir,
		ImageExt:      DefaultImageExt,
		LabelExt:      DefaultLabelExt,
		DataYAML: DataYAMLConfig{
			File: DefaultDataYAMLFile,
		},
	}
}

// Load reads a configuration file on top of Default. The format is chosen by
// extension: .yaml/.yml use yaml.v3, .json/.jsonc are parsed as JSONC.
//
// Returns a CLIError with ExitInvalidConfig if the file is missing, has an
// unknown extension, or fails to parse or validate.
func Load(path string) (Config, error) {
	// Start from the defaults so keys absent from the file keep them.
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, model.WrapCLIError(
				model.ExitInvalidConfig,
				fmt.Sprintf("config file not found: %s", path),
				err,
			)
		}
		return Config{}, model.WrapCLIError(model.ExitInvalidConfig, "failed to read config file", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, model.WrapCLIError(
				model.ExitInvalidConfig,
				fmt.Sprintf("failed to parse config file %s", path),
				err,
			)
		}
	case ".json", ".jsonc":
		// jsonc.ToJSON strips comments and trailing commas so that the
		// standard decoder accepts the result.
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, model.WrapCLIError(
				model.ExitInvalidConfig,
				fmt.Sprintf("failed to parse config file %s", path),
				err,
			)
		}
	default:
		return Config{}, model.NewCLIError(
			model.ExitInvalidConfig,
			fmt.Sprintf("unsupported config file extension %q (valid: .yaml, .yml, .json, .jsonc)", ext),
		)
	}

	// Reject a file that parses but leaves the config unusable.
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every path is set and the extensions are usable.
func (c Config) Validate() error {
	required := []struct {
		field, value string
	}{
		{"data_dir", c.DataDir},
		{"train_manifest", c.TrainManifest},
		{"val_manifest", c.ValManifest},
		{"output_dir", c.OutputDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.NewCLIError(model.ExitInvalidConfig, fmt.Sprintf("config: %s must not be empty", r.field))
		}
	}

	for _, ext := range []struct {
		field, value string
	}{
		{"image_ext", c.ImageExt},
		{"label_ext", c.LabelExt},
	} {
		if !strings.HasPrefix(ext.value, ".") || len(ext.value) < 2 {
			return model.NewCLIError(model.ExitInvalidConfig,
				fmt.Sprintf("config: %s must start with '.' (got %q)", ext.field, ext.value))
		}
	}
	if strings.EqualFold(c.ImageExt, c.LabelExt) {
		return model.NewCLIError(model.ExitInvalidConfig,
			fmt.Sprintf("config: image_ext and label_ext must differ (both %q)", c.ImageExt))
	}

	if c.DataYAML.Enabled && strings.TrimSpace(c.DataYAML.File) == "" {
		return model.NewCLIError(model.ExitInvalidConfig, "config: data_yaml.file must not be empty when enabled")
	}
	return nil
}

// DataYAMLPath returns where the dataset descriptor is written.
func (c Config) DataYAMLPath() string {
	if filepath.IsAbs(c.DataYAML.File) {
		return c.DataYAML.File
	}
	return filepath.Join(c.OutputDir, c.DataYAML.File)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return data, nil
}
