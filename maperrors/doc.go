// Package maperrors provides structured error types for the maptools library.
//
// Import path: github.com/maptools/maptools/maperrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides three core error types:
//
//   - [ExtendError]: $extend resolution failures, including inheritance cycles
//   - [ParseError]: YAML/JSON mapping document parsing failures
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrExtend]: Matches any [ExtendError]
//   - [ErrExtendCycle]: Matches [ExtendError] with IsCycle=true
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	m, err := mapper.New(doc, mapper.Options{})
//	if errors.Is(err, maperrors.ErrExtendCycle) {
//	    // Handle inheritance cycle specifically
//	}
//
// Extract error details with errors.As():
//
//	var extErr *maperrors.ExtendError
//	if errors.As(err, &extErr) {
//	    fmt.Printf("mapping %q extends unknown %q\n", extErr.Mapping, extErr.Parent)
//	}
//
// Only structural errors are raised through these types: a mapping that extends
// an unknown or cyclic parent is an unusable configuration. Malformed leaf
// descriptors degrade gracefully inside the evaluator and never surface here;
// constraint violations travel as validation issues in the mapper's Result.
package maperrors
