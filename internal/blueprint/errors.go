package blueprint

import (
	"errors"
	"fmt"
)

// Code discriminates pipeline failures. Callers branch on the code; the
// message and details are for operators.
type Code string

const (
	CodeEmptyResponse        Code = "EMPTY_RESPONSE"
	CodeInvalidJSON          Code = "INVALID_JSON"
	CodeInvalidStructure     Code = "INVALID_STRUCTURE"
	CodeMissingMetadata      Code = "MISSING_METADATA"
	CodeMissingMetadataField Code = "MISSING_METADATA_FIELD"
	CodeNoSections           Code = "NO_SECTIONS"
)

// Error is the single failure kind produced by the pipeline.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// AsError unwraps err into a pipeline *Error when possible.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
