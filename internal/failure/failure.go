// Package failure defines the error taxonomy shared by the document engine.
//
// Every reported error carries a Code so callers can branch on the failure
// category without string matching:
//   - LOAD_FAILED: persisted state unreadable or corrupt
//   - SAVE_FAILED: persistence write rejected
//   - CONVERT_FAILED: every markdown converter stage failed (never surfaced
//     past the renderer, which degrades to escaped text)
//   - EXPORT_FAILED: unsupported or failed export format
//   - NOT_FOUND: document, snapshot or tag no longer exists
package failure

import (
	"errors"
	"fmt"
)

// Code categorizes engine errors.
type Code string

const (
	// CodeLoad indicates persisted state could not be read or decoded.
	CodeLoad Code = "LOAD_FAILED"

	// CodeSave indicates the persistence service rejected a write.
	CodeSave Code = "SAVE_FAILED"

	// CodeConvert indicates all converter stages failed.
	CodeConvert Code = "CONVERT_FAILED"

	// CodeExport indicates an unsupported or failed export.
	CodeExport Code = "EXPORT_FAILED"

	// CodeNotFound indicates the referenced entity does not exist.
	CodeNotFound Code = "NOT_FOUND"
)

// Error is a categorized, human-readable engine error.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Load creates a LOAD_FAILED error.
func Load(message string, err error) *Error {
	return &Error{Code: CodeLoad, Message: message, Err: err}
}

// Save creates a SAVE_FAILED error.
func Save(message string, err error) *Error {
	return &Error{Code: CodeSave, Message: message, Err: err}
}

// Convert creates a CONVERT_FAILED error.
func Convert(message string, err error) *Error {
	return &Error{Code: CodeConvert, Message: message, Err: err}
}

// Export creates an EXPORT_FAILED error.
func Export(message string, err error) *Error {
	return &Error{Code: CodeExport, Message: message, Err: err}
}

// NotFound creates a NOT_FOUND error for the given entity kind and id.
func NotFound(kind, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", kind, id)}
}

// NoActiveDocument reports an edit attempted while no document is active.
func NoActiveDocument() *Error {
	return &Error{Code: CodeNotFound, Message: "no active document"}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsLoad reports whether err is a LOAD_FAILED error.
func IsLoad(err error) bool { return CodeOf(err) == CodeLoad }

// IsSave reports whether err is a SAVE_FAILED error.
func IsSave(err error) bool { return CodeOf(err) == CodeSave }

// IsConvert reports whether err is a CONVERT_FAILED error.
func IsConvert(err error) bool { return CodeOf(err) == CodeConvert }

// IsExport reports whether err is an EXPORT_FAILED error.
func IsExport(err error) bool { return CodeOf(err) == CodeExport }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }
