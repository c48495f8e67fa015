package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeCancelled, "gave up")
	if !err.Retryable {
		t.Error("CANCELLED should be retryable")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := Exhausted("filter")
	if got := err.Error(); got != "ITERATION_EXHAUSTED: filter has no more elements" {
		t.Errorf("unexpected message %q", got)
	}

	wrapped := StageFailed("expand", fmt.Errorf("boom"))
	if !strings.Contains(wrapped.Error(), "(cause: boom)") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"exhausted", Exhausted("pipe"), ErrExhausted, true},
		{"unsupported", Unsupported("remove"), ErrUnsupported, true},
		{"invalid config", InvalidConfig("n", "must be positive"), ErrInvalidConfig, true},
		{"different code", Unsupported("remove"), ErrExhausted, false},
		{"plain error", fmt.Errorf("x"), ErrExhausted, false},
		{"wrapped by fmt", fmt.Errorf("ctx: %w", AlreadyBound("pipe")), ErrAlreadyBound, true},
		{"cause chain", StageFailed("s", WorkerFailed(1, Exhausted("q"))), ErrExhausted, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stderrors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := InvalidConfig("", "bad").WithDetail("branches", 0)
	if err.Details["branches"] != 0 {
		t.Errorf("expected branches=0, got %v", err.Details["branches"])
	}
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key when field is empty")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := New(ErrCodeInternal, "x").WithDetails(map[string]any{"a": 1}).WithDetails(map[string]any{"b": 2})
	if len(err.Details) != 2 {
		t.Errorf("expected 2 details, got %v", err.Details)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root")
	err := Internal(cause)
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find cause")
	}
}

func TestSentinels_NotShared(t *testing.T) {
	a := Exhausted("a")
	a.WithDetail("k", "v")
	if ErrExhausted.Details != nil {
		t.Error("sentinel must not be mutated by constructors")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("vertex", 7))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Details["id"] != 7 {
		t.Errorf("expected id=7, got %v", appErr.Details["id"])
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to fail for plain error")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError true")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("run: %w", StageFailed("map", Cancelled("write", nil)))
	if !HasCode(err, ErrCodeStageFailed) {
		t.Error("expected STAGE_FAILED in chain")
	}
	if !HasCode(err, ErrCodeCancelled) {
		t.Error("expected CANCELLED in chain")
	}
	if HasCode(err, ErrCodeExhausted) {
		t.Error("did not expect ITERATION_EXHAUSTED")
	}
	if HasCode(nil, ErrCodeExhausted) {
		t.Error("nil error has no code")
	}
}

func TestNotFound_NilID(t *testing.T) {
	err := NotFound("edge", nil)
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is nil")
	}
}

func TestIsRetryableCode(t *testing.T) {
	if IsRetryableCode(ErrCodeStageFailed) {
		t.Error("STAGE_FAILED should not be retryable")
	}
	if !IsRetryableCode(ErrCodeCancelled) {
		t.Error("CANCELLED should be retryable")
	}
}
