package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Sentinels for errors.Is checks. Never mutate them; constructors below
// return fresh values.
var (
	ErrExhausted      = New(ErrCodeExhausted, "iteration exhausted")
	ErrUnsupported    = New(ErrCodeUnsupported, "unsupported operation")
	ErrAlreadyBound   = New(ErrCodeAlreadyBound, "already bound")
	ErrNotBound       = New(ErrCodeNotBound, "not bound")
	ErrInvalidConfig  = New(ErrCodeInvalidConfig, "invalid configuration")
	ErrAlreadyRunning = New(ErrCodeAlreadyRunning, "already running")
	ErrChannelClosed  = New(ErrCodeChannelClosed, "channel closed")
	ErrCancelled      = New(ErrCodeCancelled, "cancelled")
	ErrWorkerFailed   = New(ErrCodeWorkerFailed, "worker failed")
	ErrStageFailed    = New(ErrCodeStageFailed, "stage failed")
	ErrNotFound       = New(ErrCodeNotFound, "not found")
)

// --- Iteration constructors ---

// Exhausted creates an error for Next called on an exhausted sequence.
func Exhausted(source string) *AppError {
	return &AppError{
		Code: ErrCodeExhausted, Message: fmt.Sprintf("%s has no more elements", source),
		Details: map[string]any{"source": source},
	}
}

// Unsupported creates an error for an operation that is never supported.
func Unsupported(operation string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupported, Message: fmt.Sprintf("%s is not supported", operation),
		Details: map[string]any{"operation": operation},
	}
}

// AlreadyBound creates an error for a second SetStarts or channel binding.
func AlreadyBound(what string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyBound, Message: fmt.Sprintf("%s is already bound", what),
		Details: map[string]any{"target": what},
	}
}

// NotBound creates an error for pulling a pipe whose starts were never set.
func NotBound(what string) *AppError {
	return &AppError{
		Code: ErrCodeNotBound, Message: fmt.Sprintf("%s has no starts", what),
		Details: map[string]any{"target": what},
	}
}

// --- Configuration constructors ---

// InvalidConfig creates an error for an invalid construction-time setting.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration: %s", reason),
		Details: details,
	}
}

// InvalidInput creates an error for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an error for struct validation failures.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidFormat creates an error for data that cannot be parsed.
func InvalidFormat(what, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", what, expectedFormat),
		Details: map[string]any{"field": what, "expected_format": expectedFormat},
	}
}

// --- Concurrent execution constructors ---

// AlreadyRunning creates an error for rewiring or restarting a running process.
func AlreadyRunning(name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyRunning, Message: fmt.Sprintf("%s is already running", name),
		Details: map[string]any{"name": name},
	}
}

// ChannelClosed creates an error for writing to a closed channel.
func ChannelClosed() *AppError {
	return &AppError{Code: ErrCodeChannelClosed, Message: "write on closed channel"}
}

// Cancelled creates an error for a blocking operation interrupted by its context.
func Cancelled(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: fmt.Sprintf("%s cancelled", operation),
		Retryable: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// WorkerFailed creates an error for a failed ready-merge worker.
func WorkerFailed(worker int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeWorkerFailed, Message: fmt.Sprintf("merge worker %d failed", worker),
		Details: map[string]any{"worker": worker}, Cause: cause,
	}
}

// StageFailed creates an error for a failed pipex stage.
func StageFailed(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStageFailed, Message: fmt.Sprintf("stage %s failed", stage),
		Details: map[string]any{"stage": stage}, Cause: cause,
	}
}

// --- Data source constructors ---

// NotFound creates an error for an element that was not found.
func NotFound(resource string, id any) *AppError {
	details := map[string]any{"resource": resource}
	if id != nil {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// AlreadyExists creates an error for an element id that is already taken.
func AlreadyExists(resource string, id any) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with id %v already exists.", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
