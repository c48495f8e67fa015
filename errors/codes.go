package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Iteration contract violations
const (
	// ErrCodeExhausted indicates Next was called on an exhausted sequence.
	ErrCodeExhausted ErrorCode = "ITERATION_EXHAUSTED"
	// ErrCodeUnsupported indicates an operation no pipe supports, such as Remove.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"
	// ErrCodeAlreadyBound indicates SetStarts or a channel binding was repeated.
	ErrCodeAlreadyBound ErrorCode = "ALREADY_BOUND"
	// ErrCodeNotBound indicates a pipe was pulled before SetStarts.
	ErrCodeNotBound ErrorCode = "NOT_BOUND"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates an invalid construction-time configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidFormat indicates data has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Concurrent execution errors
const (
	// ErrCodeAlreadyRunning indicates a process was rewired or restarted after it started.
	ErrCodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"
	// ErrCodeChannelClosed indicates a write to a closed channel.
	ErrCodeChannelClosed ErrorCode = "CHANNEL_CLOSED"
	// ErrCodeCancelled indicates a blocking operation gave up because its context ended.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeWorkerFailed indicates a ready-merge worker failed.
	ErrCodeWorkerFailed ErrorCode = "WORKER_FAILED"
	// ErrCodeStageFailed indicates a pipex stage failed.
	ErrCodeStageFailed ErrorCode = "STAGE_FAILED"
)

// Data source errors
const (
	// ErrCodeNotFound indicates the requested element was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the element already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCancelled:    true,
	ErrCodeWorkerFailed: false,
	ErrCodeStageFailed:  false,
	ErrCodeInternal:     false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
