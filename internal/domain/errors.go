package domain

import (
	"errors"
	"fmt"
)

// The error taxonomy separates fatal conditions from skippable ones.
// DataError aborts a request; InsufficientDataError and ModelFitError are
// per-category conditions that batch callers convert into status=error
// results instead of propagating.

// DataError signals missing required files or columns in the source data.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "data error: " + e.Reason
}

func NewDataError(format string, args ...interface{}) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientDataError signals a category with too few records to model.
type InsufficientDataError struct {
	Category string
	Records  int
	Minimum  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data for category %s: %d records, need %d", e.Category, e.Records, e.Minimum)
}

// ModelFitError signals that a model failed to fit for one category.
type ModelFitError struct {
	Category string
	Model    string
	Err      error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("%s fit failed for %s: %v", e.Model, e.Category, e.Err)
}

func (e *ModelFitError) Unwrap() error { return e.Err }

// IsSkippable reports whether err is a per-category condition that a batch
// caller should record and move past.
func IsSkippable(err error) bool {
	var insufficient *InsufficientDataError
	var fit *ModelFitError
	return errors.As(err, &insufficient) || errors.As(err, &fit)
}
