package refund

import "fmt"

// ValidationError is returned for inputs the calculator cannot work with.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PolicyLookupError wraps a failure to read policy rows. Callers recover from it
// by falling back to DefaultBands.
type PolicyLookupError struct {
	Role Role
	Err  error
}

func (e *PolicyLookupError) Error() string {
	return fmt.Sprintf("refund policy lookup for %s failed: %v", e.Role, e.Err)
}

func (e *PolicyLookupError) Unwrap() error {
	return e.Err
}
