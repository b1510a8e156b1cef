package compile

import "fmt"

// InvalidValueError reports a configuration value that cannot be turned
// into a flag: an enum value outside the schema's set or an integer
// outside its declared bounds. It indicates stale or corrupt
// configuration state and aborts the compile; no partial argv is ever
// returned.
type InvalidValueError struct {
	Key    string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v (%s)", e.Key, e.Value, e.Reason)
}
