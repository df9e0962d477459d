// Package model defines the domain types and value objects for the
// wpsite CLI.
//
// This package contains pure data structures with no external dependencies.
// A Site is fully described by its directory on disk: the directory name is
// the site identity, and the .env file inside it carries the allocated ports
// and every other substitution value.
//
// The package also defines the error taxonomy shared by all other packages
// (ErrInvalidArgument, ErrNotFound, ...), the exit codes (ExitCode), and a
// custom error type (CLIError) that carries exit codes for proper OS process
// exit handling.
package model
