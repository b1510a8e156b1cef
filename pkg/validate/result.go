// Package validate checks configuration values against the declarative
// rules attached to their setting definitions. Validation failures are
// data, never errors: they are the normal mechanism for telling the user
// something needs fixing.
package validate

// Severity classifies a validation result. Only errors block command
// execution; warnings and info never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is the outcome of one failed rule check. Passing rules produce
// no result. Results are ephemeral: recomputed on every validation pass
// and never persisted.
type Result struct {
	// Field is the dotted setting key the result concerns.
	Field string `json:"field"`

	// Rule names the check that produced the result.
	Rule string `json:"rule"`

	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Results is an ordered collection of validation results.
type Results []Result

// HasErrors reports whether any result carries error severity. This is
// the sole gate for allowing command execution.
func (r Results) HasErrors() bool {
	for _, result := range r {
		if result.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity results.
func (r Results) Errors() Results {
	return r.filter(SeverityError)
}

// Warnings returns only the warning-severity results.
func (r Results) Warnings() Results {
	return r.filter(SeverityWarning)
}

// ForField returns the results concerning one setting key.
func (r Results) ForField(key string) Results {
	var out Results
	for _, result := range r {
		if result.Field == key {
			out = append(out, result)
		}
	}
	return out
}

func (r Results) filter(severity Severity) Results {
	var out Results
	for _, result := range r {
		if result.Severity == severity {
			out = append(out, result)
		}
	}
	return out
}
