package config

import "fmt"

// LoadErrorKind distinguishes why a configuration file failed to load.
type LoadErrorKind int

const (
	// LoadErrorNotFound means the file does not exist.
	LoadErrorNotFound LoadErrorKind = iota
	// LoadErrorUnreadable means the file exists but could not be read.
	LoadErrorUnreadable
	// LoadErrorMalformed means the file was read but is not valid JSON.
	LoadErrorMalformed
)

// LoadError is returned when a configuration file cannot be loaded. The
// store keeps its last-good in-memory state when a load fails.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadErrorNotFound:
		return fmt.Sprintf("configuration file %s not found", e.Path)
	case LoadErrorUnreadable:
		return fmt.Sprintf("configuration file %s unreadable: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("configuration file %s malformed: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError is returned when persisting a configuration fails. Saves are
// atomic: on any failure the previous file content is left untouched.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save configuration to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
