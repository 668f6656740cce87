package upstream

import (
	"fmt"
	"memosbridge/internal/domain"
	"net/http"
)

// UnreachableError means no usable response arrived: DNS, connect, TLS,
// timeout or a body that could not be read.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("upstream unreachable (url = %s): %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// StatusError means upstream answered with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream unavailable (url = %s, status = %d)", e.URL, e.Code)
}

// Is lets errors.Is(err, domain.ErrNotFound) match an upstream 404.
func (e *StatusError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Code == http.StatusNotFound
}

// DecodeError means upstream answered 2xx with a body that is not the
// expected JSON document.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode upstream %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
