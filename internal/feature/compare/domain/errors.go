package domain

import "errors"

var (
	// ErrComparisonFull is returned when adding to a selection that
	// already holds the maximum number of corporations.
	ErrComparisonFull = errors.New("comparison selection is full")
	// ErrSetNotFound is returned when loading a saved set by a name
	// that does not exist.
	ErrSetNotFound = errors.New("comparison set not found")
	// ErrEmptySelection is returned when building output from an empty
	// selection.
	ErrEmptySelection = errors.New("no corporations selected")
)
