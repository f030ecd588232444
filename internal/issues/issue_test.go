package issues

import (
	"testing"

	"github.com/maptools/maptools/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name        string
		issue       Issue
		contains    []string
		notContains []string
	}{
		{
			name: "error severity with constraint",
			issue: Issue{
				SourcePath: "/books/2",
				Constraint: "minimum",
				Bound:      10,
				Value:      3,
				Message:    "value 3 is below minimum 10",
				Severity:   severity.SeverityError,
			},
			contains: []string{"✗", "/books/2", "[minimum]", "below minimum"},
		},
		{
			name: "warning severity symbol",
			issue: Issue{
				SourcePath: "/n",
				Message:    "deprecated key",
				Severity:   severity.SeverityWarning,
			},
			contains:    []string{"⚠", "/n"},
			notContains: []string{"✗", "["},
		},
		{
			name: "info severity symbol",
			issue: Issue{
				SourcePath: "/n",
				Message:    "note",
				Severity:   severity.SeverityInfo,
			},
			contains: []string{"ℹ"},
		},
		{
			name: "falls back to target path",
			issue: Issue{
				TargetPath: "/out/name",
				Constraint: "required",
				Message:    "value is required",
				Severity:   severity.SeverityError,
			},
			contains: []string{"/out/name", "[required]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.issue.String()
			for _, want := range tt.contains {
				assert.Contains(t, s, want)
			}
			for _, notWant := range tt.notContains {
				assert.NotContains(t, s, notWant)
			}
		})
	}
}
