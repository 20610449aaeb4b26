package domain

import "errors"

var (
	// ErrNoStatements is returned when no statement rows exist for the
	// requested corporation and year.
	ErrNoStatements = errors.New("no statements stored for corporation and year")
	// ErrUnknownMetric is returned for a trend request over a metric
	// name the analyzer does not compute.
	ErrUnknownMetric = errors.New("unknown metric name")
)
