package contract

import "fmt"

// FailureKind discriminates the ways resolving a contract's generated interface can
// fail.
type FailureKind uint8

const (
	// FailureGeneratedModuleMissing indicates the contract's parent module holds no
	// generated submodule under the expected name.
	FailureGeneratedModuleMissing FailureKind = iota

	// FailureItemKindMismatch indicates a marker name was absent or resolved to an
	// item of the wrong kind inside the generated module.
	FailureItemKindMismatch

	// FailureQueryFailed indicates an underlying database query failed.
	FailureQueryFailed
)

// ResolutionError reports a failure to locate part of a contract's generated
// interface. Callers should treat it as a compilation error attributable to the
// contract being resolved.
type ResolutionError struct {
	// Kind classifies the failure.
	Kind FailureKind

	// Key is the item or module name being resolved when the failure occurred.
	Key string

	// err is the underlying database error, if any.
	err error
}

// Error returns the error message string, implementing the `error` interface.
func (e *ResolutionError) Error() string {
	switch e.Kind {
	case FailureGeneratedModuleMissing:
		return fmt.Sprintf("failed to get generated module %s", e.Key)
	case FailureItemKindMismatch:
		return fmt.Sprintf("item %s is missing or does not have the expected kind", e.Key)
	default:
		return fmt.Sprintf("failed to query items for %s: %v", e.Key, e.err)
	}
}

// Unwrap returns the underlying database error, if any.
func (e *ResolutionError) Unwrap() error {
	return e.err
}

// newMissingError creates a ResolutionError for a generated module that could not be
// found under the given key.
func newMissingError(key string) *ResolutionError {
	return &ResolutionError{Kind: FailureGeneratedModuleMissing, Key: key}
}

// newKindMismatchError creates a ResolutionError for a marker name that was absent or
// resolved to the wrong item kind.
func newKindMismatchError(key string) *ResolutionError {
	return &ResolutionError{Kind: FailureItemKindMismatch, Key: key}
}

// newQueryError creates a ResolutionError wrapping a failed database query.
func newQueryError(key string, err error) *ResolutionError {
	return &ResolutionError{Kind: FailureQueryFailed, Key: key, err: err}
}
