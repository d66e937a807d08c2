/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/networking"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/internal/keycheck"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/pairwise"
)

var logger = log.New("aries-vcsdk/protocol/issuance")

var (
	// ErrContractMissingIssuerIdentifier is returned for contracts that do not name their issuer.
	ErrContractMissingIssuerIdentifier = errors.New("contract does not contain an issuer identifier")
	// ErrUnableToCastToIssuanceResponseContainer is returned when the pairwise exchange does not yield an
	// issuance response.
	ErrUnableToCastToIssuanceResponseContainer = errors.New("unable to cast response to issuance response container")
	// ErrUnableToFetchIdentifier is returned when no identifier exists to sign the response with.
	ErrUnableToFetchIdentifier = errors.New("unable to fetch identifier")
)

type identifierService interface {
	keycheck.IdentifierService
	FetchIdentifier(alias, relyingParty string) (*identifier.Identifier, error)
}

// Option configures the service.
type Option func(s *Service)

// WithSigner sets the response signer.
func WithSigner(signer verifiable.TokenSigner) Option {
	return func(s *Service) {
		s.formatter = issuance.NewResponseFormatter(signer)
	}
}

// Service fetches issuance contracts and sends the responses that request credentials.
type Service struct {
	fetcher     protocol.Fetcher
	poster      protocol.Poster
	validator   protocol.LinkedDomainValidator
	pairwise    protocol.PairwiseExchanger
	identifiers identifierService
	formatter   *issuance.ResponseFormatter
}

// New returns an issuance service.
func New(f protocol.Fetcher, p protocol.Poster, validator protocol.LinkedDomainValidator,
	pairwiseExchange protocol.PairwiseExchanger, identifiers identifierService, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		poster:      p,
		validator:   validator,
		pairwise:    pairwiseExchange,
		identifiers: identifiers,
		formatter:   issuance.NewResponseFormatter(secp256k1.NewSigner()),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetRequest fetches the signed contract at url and checks the linked domains of its issuer. The
// linked-domain result is attached to the request, an unverified domain does not fail it.
func (s *Service) GetRequest(ctx context.Context, url string) (*issuance.Request, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch contract: %w", err)
	}

	contract, err := issuance.ParseSignedContract(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse contract: %w", err)
	}

	issuer, err := contract.Content.Issuer()
	if err != nil {
		return nil, ErrContractMissingIssuerIdentifier
	}

	result, err := s.validator.Validate(ctx, issuer)
	if err != nil {
		return nil, err
	}

	logger.Debugf("contract %s of %s: linked domain %s", url, issuer, result.Status)

	return &issuance.Request{
		Contract:           contract.Content,
		ContractURI:        url,
		LinkedDomainResult: result,
	}, nil
}

// Send signs response and posts it to the issuer, returning the issued credential. When isPairwise is
// set the requested credentials are first exchanged for copies bound to the pairwise identifier of the
// issuer, which then signs the response.
func (s *Service) Send(ctx context.Context, response *issuance.ResponseContainer,
	isPairwise bool) (*verifiable.Credential, error) {
	if isPairwise {
		exchanged, err := s.pairwise.CreatePairwiseResponse(ctx, pairwise.NewIssuanceResponse(response))
		if err != nil {
			return nil, err
		}

		var ok bool

		response, ok = exchanged.Issuance()
		if !ok {
			return nil, fmt.Errorf("%w: got %s response", ErrUnableToCastToIssuanceResponseContainer, exchanged.Kind())
		}
	}

	id, err := s.fetchIdentifier(response.AudienceDID, isPairwise)
	if err != nil {
		return nil, err
	}

	if err = keycheck.Check(s.identifiers, id); err != nil {
		return nil, err
	}

	token, err := s.formatter.Format(response, id)
	if err != nil {
		return nil, fmt.Errorf("format issuance response: %w", err)
	}

	compact, err := token.Serialize()
	if err != nil {
		return nil, err
	}

	body, err := s.poster.Post(ctx, response.AudienceURL, networking.ContentTypeJWT, []byte(compact))
	if err != nil {
		return nil, fmt.Errorf("send issuance response: %w", err)
	}

	vc, err := verifiable.ParseCredentialResponse(body)
	if err != nil {
		return nil, err
	}

	logger.Infof("credential %s issued by %s", vc.Claims().JTI, response.AudienceDID)

	return vc, nil
}

func (s *Service) fetchIdentifier(relyingParty string, isPairwise bool) (*identifier.Identifier, error) {
	if !isPairwise {
		relyingParty = ""
	}

	id, err := s.identifiers.FetchIdentifier(identifier.MasterAlias, relyingParty)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnableToFetchIdentifier, err)
	}

	if id == nil {
		return nil, ErrUnableToFetchIdentifier
	}

	return id, nil
}
