// Package manifest reads split manifests: plain text files listing one
// sample identifier per line.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

// Read loads the identifiers listed in the manifest at path, in file order.
//
// Empty lines are dropped; everything else is kept verbatim, including
// duplicates and surrounding spaces, since identifiers have no required
// format. See Parse for the recognized line terminators.
//
// Returns a CLIError with ExitManifestNotFound if the file cannot be read.
func Read(path string) ([]model.SampleID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("failed to read manifest %s", path)
		if os.IsNotExist(err) {
			msg = fmt.Sprintf("manifest not found: %s", path)
		}
		return nil, model.WrapCLIError(model.ExitManifestNotFound, msg, err)
	}
	return Parse(string(data)), nil
}

// Parse splits manifest content into identifiers.
//
// Lines end at "\n", "\r\n", a lone "\r", or any of the other Unicode line
// boundaries (\v, \f, \x1c-\x1e, U+0085, U+2028, U+2029).
func Parse(content string) []model.SampleID {
	// FieldsFunc never yields empty fields, so blank lines and the empty
	// field between "\r" and "\n" disappear here.
	lines := strings.FieldsFunc(content, isLineBreak)

	ids := make([]model.SampleID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, model.SampleID(line))
	}
	return ids
}

// isLineBreak reports whether r terminates a manifest line.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}
