package geodata

import "fmt"

// DataLoadError wraps the first fetch or decode failure encountered during
// Initialize. Previously published data stays readable when it occurs.
type DataLoadError struct {
	Dataset string
	Err     error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Dataset, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
