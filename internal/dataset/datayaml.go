package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

// dataYAML is the dataset descriptor read by YOLO training scripts.
// train and val are relative to path.
type dataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// GenerateDataYAML renders the descriptor for layout with the given class
// names. The root is made absolute so training can run from any directory.
func GenerateDataYAML(layout Layout, names []string) ([]byte, error) {
	root, err := filepath.Abs(layout.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset root %s: %w", layout.Root, err)
	}

	// train and val are written with forward slashes on every platform,
	// the form YOLO tooling expects.
	doc := dataYAML{
		Path:  root,
		Train: filepath.ToSlash(filepath.Join(imagesDirName, model.SplitTrain.String())),
		Val:   filepath.ToSlash(filepath.Join(imagesDirName, model.SplitVal.String())),
		NC:    len(names),
		Names: make([]string, len(names)),
	}
	// Names is never nil so an empty class list renders as [] not null.
	copy(doc.Names, names)

	body, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data.yaml: %w", err)
	}

	// Prepend a header comment, since yaml.v3 does not emit top-level
	// comments from a struct.
	header := "# Generated by yolosplit\n# DO NOT EDIT - this file is regenerated on each split run\n"
	return append([]byte(header), body...), nil
}

// WriteDataYAML generates the descriptor and writes it to path, creating
// parent directories as needed.
func WriteDataYAML(path string, layout Layout, names []string) error {
	data, err := GenerateDataYAML(layout, names)
	if err != nil {
		return err
	}

	// The descriptor may be configured outside the output tree, so its
	// parent is created here rather than by Layout.Prepare.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
