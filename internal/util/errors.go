package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrMissingTable indicates a required input table could not be opened
	ErrMissingTable = errors.New("missing input table")

	// ErrBadHeader indicates an input table lacks a required column
	ErrBadHeader = errors.New("bad table header")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
