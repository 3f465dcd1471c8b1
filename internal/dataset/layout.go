package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

const (
	imagesDirName = "images"
	labelsDirName = "labels"
)

// Layout is the destination directory tree rooted at Root.
type Layout struct {
	Root string
}

// NewLayout builds the YOLO layout under root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// ImagesDir returns <root>/images/<split>.
func (l Layout) ImagesDir(split model.Split) string {
	return filepath.Join(l.Root, imagesDirName, split.String())
}

// LabelsDir returns <root>/labels/<split>.
func (l Layout) LabelsDir(split model.Split) string {
	return filepath.Join(l.Root, labelsDirName, split.String())
}

// Dirs returns the four split directories, images first.
func (l Layout) Dirs() []string {
	// One images and one labels directory per split.
	dirs := make([]string, 0, 4)
	for _, split := range model.AllSplits() {
		dirs = append(dirs, l.ImagesDir(split))
	}
	for _, split := range model.AllSplits() {
		dirs = append(dirs, l.LabelsDir(split))
	}
	return dirs
}

// Prepare creates every split directory, including missing parents.
// Directories that already exist are left untouched, so Prepare is safe to
// call on a populated tree.
//
// Returns a CLIError with ExitOutputTreeFailed on the first failure.
func (l Layout) Prepare() error {
	for _, dir := range l.Dirs() {
		// MkdirAll returns nil when the directory already exists.
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.WrapCLIError(
				model.ExitOutputTreeFailed,
				fmt.Sprintf("failed to create directory %s", dir),
				err,
			)
		}
	}
	return nil
}
