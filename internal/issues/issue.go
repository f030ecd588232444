// Package issues provides a unified issue type for problems found while
// evaluating mapping descriptors.
package issues

import (
	"fmt"

	"github.com/maptools/maptools/internal/severity"
)

// Issue represents a single problem found during descriptor validation.
type Issue struct {
	// SourcePath is the JSON Pointer scope on the source side when the issue
	// was recorded (e.g. "/books/2")
	SourcePath string
	// TargetPath is the JSON Pointer scope on the target side
	TargetPath string
	// Constraint is the descriptor key whose check failed (e.g. "minimum", "type")
	Constraint string
	// Bound is the constraint's configured bound or expectation (optional)
	Bound any
	// Value is the offending value
	Value any
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	scope := i.SourcePath
	if scope == "" {
		scope = i.TargetPath
	}
	if i.Constraint != "" {
		return fmt.Sprintf("%s %s [%s]: %s", symbol, scope, i.Constraint, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, scope, i.Message)
}
