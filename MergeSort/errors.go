package MergeSort

import (
	"errors"
	"fmt"

	"GoMergeSort/MergeSort/fork_join"
)

// SortError is the distinguished error a sort returns instead of a result.
// No partial result is ever returned together with a SortError.
type SortError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context, such as sizes and indices.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes sort errors.
type ErrorCode string

const (
	// ErrCodeResourceExhausted indicates a result or scratch buffer could
	// not be allocated.
	ErrCodeResourceExhausted ErrorCode = "RESOURCE_EXHAUSTED"

	// ErrCodeInvariantViolation indicates an algorithm bug, such as a split
	// point outside the searched run or a panicking task.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
)

func (e *SortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SortError) Unwrap() error {
	return e.Err
}

// IsResourceExhausted returns true if err is, or wraps, an allocation failure.
func IsResourceExhausted(err error) bool {
	var se *SortError
	if errors.As(err, &se) {
		return se.Code == ErrCodeResourceExhausted
	}
	return false
}

// IsInvariantViolation returns true if err is, or wraps, an internal
// consistency failure.
func IsInvariantViolation(err error) bool {
	var se *SortError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvariantViolation
	}
	return false
}

func newResourceExhausted(size int, cause interface{}) *SortError {
	return &SortError{
		Code:    ErrCodeResourceExhausted,
		Message: fmt.Sprintf("insufficient memory; size=%d", size),
		Details: map[string]string{
			"size":  fmt.Sprintf("%d", size),
			"cause": fmt.Sprintf("%v", cause),
		},
	}
}

func newSplitError(index, haystackLen int) *SortError {
	return &SortError{
		Code:    ErrCodeInvariantViolation,
		Message: "invalid binary search result",
		Details: map[string]string{
			"index":    fmt.Sprintf("%d", index),
			"run_size": fmt.Sprintf("%d", haystackLen),
		},
	}
}

// classify maps any failure that reached the top of a sort to a SortError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *SortError
	if errors.As(err, &se) {
		return err
	}
	var pe *fork_join.PanicError
	if errors.As(err, &pe) {
		return &SortError{
			Code:    ErrCodeInvariantViolation,
			Message: "sort task panicked",
			Err:     err,
		}
	}
	return &SortError{Code: ErrCodeInvariantViolation, Message: "unexpected failure", Err: err}
}

// allocate is the single allocation point for result and scratch buffers.
// Lengths the runtime refuses surface as ErrCodeResourceExhausted; a real
// out-of-memory condition still terminates the process.
func allocate[T any](n int) (buf []T, err error) {
	defer func() {
		if p := recover(); p != nil {
			buf, err = nil, newResourceExhausted(n, p)
		}
	}()
	return make([]T, n), nil
}
