package interaction

import "errors"

// ErrorCode is a stable identifier for an action failure.
type ErrorCode string

const (
	CodeNodeNotFound       ErrorCode = "NODE_NOT_FOUND"
	CodeActionNotSupported ErrorCode = "ACTION_NOT_SUPPORTED"
	CodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	CodeFileNotFound       ErrorCode = "FILE_NOT_FOUND"
	CodeElementNotFound    ErrorCode = "ELEMENT_NOT_FOUND"
)

type ActionError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ActionError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newError(code ErrorCode, message string) *ActionError {
	return &ActionError{Code: code, Message: message}
}

// NewError builds an ActionError for Actions implementations.
func NewError(code ErrorCode, message string) error {
	return newError(code, message)
}

// CodeOf returns the code of an ActionError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
