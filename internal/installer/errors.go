package installer

import "fmt"

// InvalidTargetError is returned when the target root is missing or is not a
// directory. It is detected before any filesystem mutation.
type InvalidTargetError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("target path is not a directory: %s", e.Path)
}

// Unwrap returns the underlying stat error, if any.
func (e *InvalidTargetError) Unwrap() error {
	return e.Err
}

// AlreadyInitializedError is returned by init when the managed directory
// exists and force was not requested. Nothing has been written.
type AlreadyInitializedError struct {
	Path string
}

// Error implements the error interface.
func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("'%s' already exists at %s. Use 'spec-dock update' or re-run with '--force'.",
		ManagedDirName, e.Path)
}

// MissingAssetError reports a required path absent from the bundle. This is a
// packaging defect, not something a retry can fix.
type MissingAssetError struct {
	// Path is the bundle-relative path that was expected.
	Path string
	// Dir is true when a directory was expected.
	Dir bool
}

// Error implements the error interface.
func (e *MissingAssetError) Error() string {
	if e.Dir {
		return fmt.Sprintf("missing asset directory: %s", e.Path)
	}
	return fmt.Sprintf("missing asset file: %s", e.Path)
}
