package autoqr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrPageOutOfRange     = errors.New("page out of range")
	ErrValidationFailed   = errors.New("validation failed")
)

// ValidationError is returned under strict policy when at least one examined
// page produced an error finding. It carries every finding of the run.
type ValidationError struct {
	Findings []Finding
}

func (e *ValidationError) Error() string {
	errs := 0
	for _, f := range e.Findings {
		if f.Severity == SeverityError {
			errs++
		}
	}
	return fmt.Sprintf("%s: %d page(s) failed strict paper check", ErrValidationFailed, errs)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func pageOutOfRange(page, pageCount int) error {
	return fmt.Errorf("%w: page %d, document has %d page(s)", ErrPageOutOfRange, page, pageCount)
}
