package pipeline

import "fmt"

// StageError wraps a fatal error with the stage it occurred in. The wrapped
// error carries the specific column or record identifiers, so a failure is
// reproducible from the raw input alone.
type StageError struct {
	StageID string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.StageID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
