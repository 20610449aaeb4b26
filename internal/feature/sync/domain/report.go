package domain

// Unit identifies one fetch unit in a statement sync batch.
type Unit struct {
	CorpCode string
	Year     int
}

// UnitFailure records a unit that exhausted its retries or was skipped
// with a non-retryable error.
type UnitFailure struct {
	Unit Unit
	Kind ErrorKind
}

// Report summarises a finished sync run. Unit-level errors are absorbed
// here; only an auth failure additionally propagates to the caller.
type Report struct {
	Succeeded int
	Failed    []UnitFailure
	Cancelled bool
	Aborted   bool // set when an auth failure stopped the remaining batch
}

// Progress is invoked after every completed unit with the number of
// finished units, the batch total, and the unit's outcome. Callers supply
// it from the UI layer; nil disables reporting.
type Progress func(completed, total int, outcome string)
