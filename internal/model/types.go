// Package model defines the domain types for the yolosplit CLI.
//
// These types describe the inputs (sample identifiers, source pairs) and the
// outcome of a split run (per-split reports). None of them are persisted;
// the only durable state is the destination directory tree on disk.
package model

import "fmt"

// Split identifies a partition of the dataset. The value doubles as the
// subdirectory name under images/ and labels/ in the YOLO layout.
type Split string

const (
	// SplitTrain is the partition used for model training.
	SplitTrain Split = "train"

	// SplitVal is the partition used for validation. Its samples come from
	// the test manifest.
	SplitVal Split = "val"
)

// String returns the string representation of Split.
func (s Split) String() string {
	return string(s)
}

// IsValid checks whether the Split value is one of the predefined splits.
func (s Split) IsValid() bool {
	switch s {
	case SplitTrain, SplitVal:
		return true
	default:
		return false
	}
}

// AllSplits returns the splits in the order a run processes them.
func AllSplits() []Split {
	return []Split{SplitTrain, SplitVal}
}

// SampleID is the key shared by an image file and its annotation file.
// It has no required format and uniqueness is not enforced.
type SampleID string

// SourcePair is the image and label file expected in the source directory
// for a single sample identifier.
type SourcePair struct {
	ID        SampleID
	ImagePath string
	LabelPath string
}

// MissingPair records a sample that was skipped because its image, its
// label, or both were absent from the source directory.
type MissingPair struct {
	Split     Split
	ID        SampleID
	ImagePath string
	LabelPath string
}

// String returns the console diagnostic for a skipped pair.
func (m MissingPair) String() string {
	return fmt.Sprintf("Archivos no encontrados: %s, %s", m.ImagePath, m.LabelPath)
}

// CopyFailure records a sample whose copy failed after both source files
// were found. Without keep-going the first failure also ends the split.
type CopyFailure struct {
	Split Split
	ID    SampleID
	Err   error
}

// Error returns the underlying failure message for JSON output.
func (f CopyFailure) Error() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// SplitReport summarizes a single manifest processed into one split.
type SplitReport struct {
	Split    Split
	Manifest string
	Copied   int
	Skipped  int
	Failed   int
	Missing  []MissingPair
	Failures []CopyFailure
}

// Report is the outcome of a full run over both manifests.
type Report struct {
	Splits []SplitReport
	DryRun bool
}

// Add appends a split report.
func (r *Report) Add(sr SplitReport) {
	r.Splits = append(r.Splits, sr)
}

// Totals returns the copied, skipped and failed counts across all splits.
func (r *Report) Totals() (copied, skipped, failed int) {
	for _, sr := range r.Splits {
		copied += sr.Copied
		skipped += sr.Skipped
		failed += sr.Failed
	}
	return copied, skipped, failed
}

// Summary returns a one-line human-readable count of the run.
func (r *Report) Summary() string {
	copied, skipped, failed := r.Totals()
	return fmt.Sprintf("copied: %d, skipped: %d, failed: %d", copied, skipped, failed)
}

// ExitCode defines standard CLI exit codes. Scripts wrapping the tool can
// tell a missing manifest apart from a copy failure.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	// Skipped pairs do not change the exit status.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitManifestNotFound indicates a manifest file was missing or unreadable.
	ExitManifestNotFound ExitCode = 2

	// ExitOutputTreeFailed indicates the destination directories could not
	// be created.
	ExitOutputTreeFailed ExitCode = 3

	// ExitCopyFailed indicates an I/O failure while copying a pair whose
	// sources were present.
	ExitCopyFailed ExitCode = 4

	// ExitInvalidConfig indicates the configuration file or flags were invalid.
	ExitInvalidConfig ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
