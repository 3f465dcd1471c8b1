// Package model defines the domain types and value objects for the
// yolosplit CLI.
//
// This package contains pure data structures with no external dependencies.
// Reports are built while a run progresses and discarded when the process
// exits; the destination tree is the only persistent artifact.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
