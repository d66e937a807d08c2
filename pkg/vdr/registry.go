/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/models/did"
	"github.com/hyperledger/aries-framework-go/component/vdr/httpbinding"
	vdrspi "github.com/hyperledger/aries-framework-go/spi/vdr"
)

const (
	defaultCacheSize = 100
	defaultCacheTTL  = 5 * time.Minute
)

var logger = log.New("aries-vcsdk/vdr")

// ErrInvalidDID is returned for strings that are not DIDs.
var ErrInvalidDID = errors.New("invalid DID")

type didReader interface {
	Read(didID string, opts ...vdrspi.DIDMethodOption) (*did.DocResolution, error)
}

// Option is a registry option.
type Option func(opts *Registry)

// Registry resolves DID documents through a DID resolver, caching the resolutions.
type Registry struct {
	reader    didReader
	cache     gcache.Cache
	cacheSize int
	cacheTTL  time.Duration
}

// WithCache sets the number of cached documents and how long they are kept. A size of zero disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(opts *Registry) {
		opts.cacheSize = size
		opts.cacheTTL = ttl
	}
}

// New returns a registry reading documents with reader.
func New(reader didReader, opts ...Option) *Registry {
	r := &Registry{
		reader:    reader,
		cacheSize: defaultCacheSize,
		cacheTTL:  defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cacheSize > 0 {
		r.cache = gcache.New(r.cacheSize).LRU().Expiration(r.cacheTTL).Build()
	}

	return r
}

// NewHTTPRegistry returns a registry backed by the universal resolver at endpointURL.
func NewHTTPRegistry(endpointURL string, client *http.Client, opts ...Option) (*Registry, error) {
	if client == nil {
		client = &http.Client{}
	}

	reader, err := httpbinding.New(endpointURL, httpbinding.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create DID resolver: %w", err)
	}

	return New(reader, opts...), nil
}

// Resolve did document.
func (r *Registry) Resolve(didID string, opts ...vdrspi.DIDMethodOption) (*did.DocResolution, error) {
	if _, err := GetDidMethod(didID); err != nil {
		return nil, err
	}

	if r.cache != nil && len(opts) == 0 {
		if cached, err := r.cache.Get(didID); err == nil {
			if resolution, ok := cached.(*did.DocResolution); ok {
				return resolution, nil
			}
		}
	}

	resolution, err := r.reader.Read(didID, opts...)
	if err != nil {
		return nil, fmt.Errorf("did method read failed: %w", err)
	}

	if resolution == nil || resolution.DIDDocument == nil {
		return nil, fmt.Errorf("did method read failed: empty document for %s", didID)
	}

	if r.cache != nil && len(opts) == 0 {
		if errSet := r.cache.Set(didID, resolution); errSet != nil {
			logger.Warnf("failed to cache DID document %s: %s", didID, errSet)
		}
	}

	return resolution, nil
}

// Discover resolves didID and returns the parts of its document used to validate requests.
func (r *Registry) Discover(ctx context.Context, didID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolution, err := r.Resolve(didID)
	if err != nil {
		return nil, err
	}

	return NewDocument(resolution.DIDDocument)
}

// GetDidMethod get did method.
func GetDidMethod(didID string) (string, error) {
	const numPartsDID = 3

	didParts := strings.Split(didID, ":")
	if len(didParts) < numPartsDID || didParts[0] != "did" {
		return "", fmt.Errorf("%w: %s", ErrInvalidDID, didID)
	}

	return didParts[1], nil
}
