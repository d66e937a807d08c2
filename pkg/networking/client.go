/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package networking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/log"
)

const (
	// CorrelationVectorHeader carries the caller's correlation vector on every request.
	CorrelationVectorHeader = "MS-CV"
	// ContentTypeFormURLEncoded is the content type of presentation responses.
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	// ContentTypeJWT is the content type of signed issuance and exchange requests.
	ContentTypeJWT = "application/jwt"

	defaultTimeout       = 30 * time.Second
	defaultRetries       = 2
	defaultRetryInterval = 500 * time.Millisecond
)

var logger = log.New("aries-vcsdk/networking")

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the client.
type Option func(opts *Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c httpClient) Option {
	return func(opts *Client) {
		opts.httpClient = c
	}
}

// WithCorrelationVector sends value in the MS-CV header of every request.
func WithCorrelationVector(value string) Option {
	return func(opts *Client) {
		opts.correlationVector = value
	}
}

// WithRetry sets how many times a fetch is retried after a server or transport error.
func WithRetry(maxRetries uint64, interval time.Duration) Option {
	return func(opts *Client) {
		opts.maxRetries = maxRetries
		opts.retryInterval = interval
	}
}

// Client fetches and posts protocol messages.
type Client struct {
	httpClient        httpClient
	correlationVector string
	maxRetries        uint64
	retryInterval     time.Duration
}

// New returns a client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		maxRetries:    defaultRetries,
		retryInterval: defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch GETs rawURL and returns the response body. Server and transport errors are retried.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	var body []byte

	err = backoff.RetryNotify(
		func() error {
			var errDo error

			body, errDo = c.do(ctx, http.MethodGet, target, "", nil)
			if errDo != nil && !retryable(errDo) {
				return backoff.Permanent(errDo)
			}

			return errDo
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.maxRetries), ctx),
		func(retryErr error, t time.Duration) {
			logger.Warnf("fetch %s failed, retrying in %s: %s", target, t, retryErr)
		},
	)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// Post sends body to rawURL with the given content type and returns the response body.
func (c *Client) Post(ctx context.Context, rawURL, contentType string, body []byte) ([]byte, error) {
	target, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, http.MethodPost, target, contentType, body)
}

func (c *Client) do(ctx context.Context, method, target, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("new HTTP request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.correlationVector != "" {
		req.Header.Set(CorrelationVectorHeader, c.correlationVector)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			logger.Warnf("failed to close response body: %s", errClose)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newHTTPError(resp.StatusCode, respBody)
	}

	logger.Debugf("%s %s: status %d", method, target, resp.StatusCode)

	return respBody, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return errors.Is(httpErr, ErrServerError)
	}

	return true
}

func parseURL(rawURL string) (string, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return u.String(), nil
}
