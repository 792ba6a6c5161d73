package model

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteUnavailable = errors.New("remote API unavailable")
	ErrEmptyFeed         = errors.New("feed has no posts")
	ErrBatchFetchFailed  = errors.New("batch fetch failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidRequest    = errors.New("invalid request")
)

// BatchFetchError reports the offset whose batch call aborted the run.
type BatchFetchError struct {
	Offset int
	Err    error
}

func (e *BatchFetchError) Error() string {
	return fmt.Sprintf("batch at offset %d: %v", e.Offset, e.Err)
}

func (e *BatchFetchError) Unwrap() []error {
	return []error{ErrBatchFetchFailed, e.Err}
}

// APIError is an error envelope returned by the VK API itself.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}
