package schema

import "fmt"

// LoadErrorKind distinguishes why a schema source failed to load.
type LoadErrorKind int

const (
	// LoadErrorUnreadable means the source could not be read at all.
	LoadErrorUnreadable LoadErrorKind = iota
	// LoadErrorMalformed means the source was read but could not be
	// parsed or failed structural validation.
	LoadErrorMalformed
)

// LoadError is returned when a schema source cannot be turned into a
// registry. Schema load failures are startup-fatal to the application.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadErrorUnreadable:
		return fmt.Sprintf("schema source %s unreadable: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("schema source %s malformed: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnknownKeyError is returned by registry lookups for keys absent from
// the schema.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown setting key: %s", e.Key)
}
