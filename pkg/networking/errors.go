/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package networking

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrBadRequest is a 400 response.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized is a 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a 403 response.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is a 404 response.
	ErrNotFound = errors.New("not found")
	// ErrServerError is a 5xx response.
	ErrServerError = errors.New("server error")
	// ErrUnknownNetworking is any other non-2xx response.
	ErrUnknownNetworking = errors.New("unknown networking error")
)

// HTTPError is an unsuccessful HTTP response. It unwraps to one of the status sentinels.
type HTTPError struct {
	StatusCode int
	Body       string
	kind       error
}

func newHTTPError(statusCode int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Body: string(body), kind: classify(statusCode)}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.kind, e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	return e.kind
}

func classify(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest:
		return ErrBadRequest
	case statusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case statusCode == http.StatusForbidden:
		return ErrForbidden
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode >= http.StatusInternalServerError && statusCode < 600:
		return ErrServerError
	default:
		return ErrUnknownNetworking
	}
}
