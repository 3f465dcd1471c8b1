package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

func TestLayout_Dirs(t *testing.T) {
	l := NewLayout("dataset_yolo")

	assert.Equal(t, filepath.Join("dataset_yolo", "images", "train"), l.ImagesDir(model.SplitTrain))
	assert.Equal(t, filepath.Join("dataset_yolo", "labels", "val"), l.LabelsDir(model.SplitVal))
	assert.Equal(t, []string{
		filepath.Join("dataset_yolo", "images", "train"),
		filepath.Join("dataset_yolo", "images", "val"),
		filepath.Join("dataset_yolo", "labels", "train"),
		filepath.Join("dataset_yolo", "labels", "val"),
	}, l.Dirs())
}

func TestLayout_Prepare(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "dataset_yolo")
	l := NewLayout(root)

	require.NoError(t, l.Prepare())
	for _, dir := range l.Dirs() {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

// TestLayout_Prepare_Idempotent verifies that preparing an existing,
// populated tree neither fails nor removes content.
func TestLayout_Prepare_Idempotent(t *testing.T) {
	l := NewLayout(t.TempDir())
	require.NoError(t, l.Prepare())

	existing := filepath.Join(l.ImagesDir(model.SplitTrain), "keep.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	require.NoError(t, l.Prepare())

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

// TestLayout_Prepare_Failure uses a regular file where the root directory
// should be, which fails regardless of the user running the tests.
func TestLayout_Prepare_Failure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dataset_yolo")
	require.NoError(t, os.WriteFile(root, []byte("not a dir"), 0o644))

	err := NewLayout(root).Prepare()
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitOutputTreeFailed, cliErr.Code)
}
