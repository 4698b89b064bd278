package rpcerr

import "fmt"

// Error is the structured error envelope returned over the bus.
// Every failure a caller can observe is one of these; callers branch
// on Code, not on message text.
type Error struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Status, e.Code, e.Message)
}

// BadRequest covers client-facing failures: bad input, unknown order
// ids, validator rejections. The service reports not-found as 400 as
// well, which downstream consumers rely on.
func BadRequest(format string, args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Status:  "Bad request",
		Code:    400,
	}
}

// Unavailable marks transient dependency failures that the caller may
// retry later.
func Unavailable(format string, args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Status:  "Internal server error",
		Code:    500,
	}
}
