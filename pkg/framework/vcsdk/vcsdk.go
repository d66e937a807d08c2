/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcsdk

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
	"github.com/hyperledger/aries-vcsdk-go/pkg/linkeddomain"
	"github.com/hyperledger/aries-vcsdk-go/pkg/networking"
	issuanceprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/pairwise"
	presentationprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/presentation"
	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
	identifierstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/identifier"
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/vdr"
)

// DefaultResolverURL is the universal resolver endpoint used to discover DID documents.
const DefaultResolverURL = "https://dev.uniresolver.io/1.0/identifiers"

var logger = log.New("aries-vcsdk/framework")

// Option configures the SDK.
type Option func(opts *SDK) error

// SDK holds the components of a credential wallet: keys, identifiers, stored credentials and the issuance and
// presentation protocols. The master identifier is created or loaded by New.
type SDK struct {
	storeProvider     storage.Provider
	secretLock        secretlock.Service
	secretLockKeyURI  string
	accessGroup       string
	httpClient        *http.Client
	resolverURL       string
	registry          *vdr.Registry
	correlationVector string
	maxRetries        uint64
	retryInterval     time.Duration
	retrySet          bool

	secretStore   *secretstore.SecureStore
	keyManager    *kms.KeyManager
	identifiers   *identifier.Service
	credentials   *vcstore.Store
	networking    *networking.Client
	linkedDomains *linkeddomain.Validator
	pairwise      *pairwise.Service
	issuance      *issuanceprotocol.Service
	presentation  *presentationprotocol.Service
}

// New initializes the SDK from opts and loads the master identifier, creating it on first use.
func New(opts ...Option) (*SDK, error) {
	sdk := &SDK{}

	for _, option := range opts {
		if err := option(sdk); err != nil {
			return nil, fmt.Errorf("error in option passed to New: %w", err)
		}
	}

	if sdk.storeProvider == nil {
		sdk.storeProvider = mem.NewProvider()
	}

	if sdk.httpClient == nil {
		sdk.httpClient = &http.Client{Timeout: time.Minute}
	}

	if sdk.resolverURL == "" {
		sdk.resolverURL = DefaultResolverURL
	}

	if err := sdk.createStores(); err != nil {
		return nil, err
	}

	if err := sdk.createServices(); err != nil {
		return nil, err
	}

	master, err := sdk.identifiers.Initialize()
	if err != nil {
		return nil, err
	}

	logger.Infof("master identifier %s", master.LongFormDID)

	return sdk, nil
}

// WithStoreProvider sets the provider of the identifier, secret and credential stores.
func WithStoreProvider(prov storage.Provider) Option {
	return func(opts *SDK) error {
		opts.storeProvider = prov

		return nil
	}
}

// WithSecretLock seals stored secrets with the key at keyURI of lock.
func WithSecretLock(lock secretlock.Service, keyURI string) Option {
	return func(opts *SDK) error {
		opts.secretLock = lock
		opts.secretLockKeyURI = keyURI

		return nil
	}
}

// WithAccessGroup sets the secret store partition new keys are written to.
func WithAccessGroup(accessGroup string) Option {
	return func(opts *SDK) error {
		opts.accessGroup = accessGroup

		return nil
	}
}

// WithHTTPClient sets the client of protocol, resolver and domain linkage requests.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *SDK) error {
		opts.httpClient = client

		return nil
	}
}

// WithResolverURL sets the universal resolver endpoint.
func WithResolverURL(url string) Option {
	return func(opts *SDK) error {
		opts.resolverURL = url

		return nil
	}
}

// WithDIDRegistry replaces the universal resolver registry.
func WithDIDRegistry(registry *vdr.Registry) Option {
	return func(opts *SDK) error {
		opts.registry = registry

		return nil
	}
}

// WithCorrelationVector sets the correlation vector sent with protocol requests.
func WithCorrelationVector(value string) Option {
	return func(opts *SDK) error {
		opts.correlationVector = value

		return nil
	}
}

// WithFetchRetry sets how often failed fetches are retried.
func WithFetchRetry(maxRetries uint64, interval time.Duration) Option {
	return func(opts *SDK) error {
		opts.maxRetries = maxRetries
		opts.retryInterval = interval
		opts.retrySet = true

		return nil
	}
}

// StorageProvider returns the storage provider of the SDK.
func (s *SDK) StorageProvider() storage.Provider {
	return s.storeProvider
}

// KeyManager returns the key manager.
func (s *SDK) KeyManager() *kms.KeyManager {
	return s.keyManager
}

// Identifiers returns the identifier service.
func (s *SDK) Identifiers() *identifier.Service {
	return s.identifiers
}

// Credentials returns the credential store.
func (s *SDK) Credentials() *vcstore.Store {
	return s.credentials
}

// Registry returns the DID document registry.
func (s *SDK) Registry() *vdr.Registry {
	return s.registry
}

// LinkedDomains returns the linked-domain validator.
func (s *SDK) LinkedDomains() *linkeddomain.Validator {
	return s.linkedDomains
}

// Pairwise returns the pairwise exchange service.
func (s *SDK) Pairwise() *pairwise.Service {
	return s.pairwise
}

// Issuance returns the issuance protocol.
func (s *SDK) Issuance() *issuanceprotocol.Service {
	return s.issuance
}

// Presentation returns the presentation protocol.
func (s *SDK) Presentation() *presentationprotocol.Service {
	return s.presentation
}

// MasterIdentifier returns the master identifier.
func (s *SDK) MasterIdentifier() (*identifier.Identifier, error) {
	master, err := s.identifiers.FetchMasterIdentifier()
	if err != nil {
		return nil, err
	}

	if master == nil {
		return nil, fmt.Errorf("%w: master", issuanceprotocol.ErrUnableToFetchIdentifier)
	}

	return master, nil
}

// Close frees the store provider.
func (s *SDK) Close() error {
	if err := s.storeProvider.Close(); err != nil {
		return fmt.Errorf("failed to close the store: %w", err)
	}

	return nil
}

func (s *SDK) createStores() error {
	var storeOpts []secretstore.Option
	if s.secretLock != nil {
		storeOpts = append(storeOpts, secretstore.WithSecretLock(s.secretLock, s.secretLockKeyURI))
	}

	var err error

	s.secretStore, err = secretstore.New(s.storeProvider, storeOpts...)
	if err != nil {
		return fmt.Errorf("create secret store: %w", err)
	}

	s.keyManager = kms.New(s.secretStore, kms.WithAccessGroup(s.accessGroup))

	ids, err := identifierstore.New(s, s.keyManager)
	if err != nil {
		return fmt.Errorf("create identifier store: %w", err)
	}

	s.identifiers = identifier.NewService(ids, identifier.NewCreator(s.keyManager), s.keyManager)

	s.credentials, err = vcstore.New(s)
	if err != nil {
		return fmt.Errorf("create credential store: %w", err)
	}

	return nil
}

func (s *SDK) createServices() error {
	netOpts := []networking.Option{networking.WithHTTPClient(s.httpClient)}

	if s.correlationVector != "" {
		netOpts = append(netOpts, networking.WithCorrelationVector(s.correlationVector))
	}

	if s.retrySet {
		netOpts = append(netOpts, networking.WithRetry(s.maxRetries, s.retryInterval))
	}

	s.networking = networking.New(netOpts...)

	if s.registry == nil {
		registry, err := vdr.NewHTTPRegistry(s.resolverURL, s.httpClient)
		if err != nil {
			return err
		}

		s.registry = registry
	}

	s.linkedDomains = linkeddomain.NewDIDConfigValidator(s.registry, s.httpClient)
	s.pairwise = pairwise.New(s.identifiers, s.networking)
	s.issuance = issuanceprotocol.New(s.networking, s.networking, s.linkedDomains, s.pairwise, s.identifiers)
	s.presentation = presentationprotocol.New(s.networking, s.networking, s.registry, s.linkedDomains, s.pairwise,
		s.identifiers)

	return nil
}
