// Package errors provides the classified error type used across Markview.
//
// A ClassifiedError carries a category (config, not_found, filesystem, render, ...),
// a severity, a message, an optional cause, and structured context. Adapters turn
// classified errors into HTTP status codes and CLI exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "read source file").
//		WithContext("file", path).
//		Build()
package errors
