/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/presentation"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/networking"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/internal/keycheck"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/pairwise"
	"github.com/hyperledger/aries-vcsdk-go/pkg/vdr"
)

// RequestURIParameter is the query parameter of a presentation request URI naming the signed request.
const RequestURIParameter = "request_uri"

var logger = log.New("aries-vcsdk/protocol/presentation")

var (
	// ErrInputStringNotURI is returned for request URIs that cannot be parsed.
	ErrInputStringNotURI = errors.New("input string is not a URI")
	// ErrNoQueryParametersOnURI is returned for request URIs without a query.
	ErrNoQueryParametersOnURI = errors.New("no query parameters on URI")
	// ErrNoRequestURIQueryParameter is returned when the request_uri parameter is absent.
	ErrNoRequestURIQueryParameter = errors.New("no request_uri query parameter")
	// ErrNoValueForRequestURIQueryParameter is returned when the request_uri parameter is empty.
	ErrNoValueForRequestURIQueryParameter = errors.New("no value for request_uri query parameter")
	// ErrNoKeyIDInRequestHeader is returned for requests whose kid does not name the signer DID.
	ErrNoKeyIDInRequestHeader = errors.New("no key id in request header")
	// ErrNoPublicKeysInDocument is returned when the signer DID document has no verification methods.
	ErrNoPublicKeysInDocument = errors.New("no public keys in DID document")
	// ErrInvalidSignature is returned for requests not signed by a key of the signer DID document.
	ErrInvalidSignature = errors.New("presentation request signature is invalid")
	// ErrNoIssuerIdentifierInRequest is returned for requests with neither client_id nor iss.
	ErrNoIssuerIdentifierInRequest = errors.New("no issuer identifier in request")
	// ErrUnableToCastToPresentationResponseContainer is returned when the pairwise exchange does not yield a
	// presentation response.
	ErrUnableToCastToPresentationResponseContainer = errors.New(
		"unable to cast response to presentation response container")
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
		s.formatter = presentation.NewResponseFormatter(signer)
	}
}

// WithVerifier sets the verifier of request signatures.
func WithVerifier(verifier jws.Verifier) Option {
	return func(s *Service) {
		s.verifier = verifier
	}
}

// Service fetches and validates presentation requests and sends the responses presenting credentials.
type Service struct {
	fetcher     protocol.Fetcher
	poster      protocol.Poster
	discoverer  protocol.DocumentDiscoverer
	validator   protocol.LinkedDomainValidator
	pairwise    protocol.PairwiseExchanger
	identifiers identifierService
	formatter   *presentation.ResponseFormatter
	verifier    jws.Verifier
}

// New returns a presentation service.
func New(f protocol.Fetcher, p protocol.Poster, discoverer protocol.DocumentDiscoverer,
	validator protocol.LinkedDomainValidator, pairwiseExchange protocol.PairwiseExchanger,
	identifiers identifierService, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		poster:      p,
		discoverer:  discoverer,
		validator:   validator,
		pairwise:    pairwiseExchange,
		identifiers: identifiers,
		formatter:   presentation.NewResponseFormatter(secp256k1.NewSigner()),
		verifier:    secp256k1.NewVerifier(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetRequest fetches the request referenced by the request_uri parameter of uri, verifies it was signed by a
// key of the DID named in its kid and checks the linked domains of the requester.
func (s *Service) GetRequest(ctx context.Context, uri string) (*presentation.Request, error) {
	requestURI, err := ParseRequestURI(uri)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, requestURI)
	if err != nil {
		return nil, fmt.Errorf("fetch presentation request: %w", err)
	}

	token, err := presentation.ParseRequestToken(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse presentation request: %w", err)
	}

	signerDID, _, _ := strings.Cut(token.Headers.KeyID, "#")
	if signerDID == "" {
		return nil, ErrNoKeyIDInRequestHeader
	}

	doc, err := s.discoverer.Discover(ctx, signerDID)
	if err != nil {
		return nil, fmt.Errorf("discover request signer: %w", err)
	}

	if len(doc.VerificationMethods) == 0 {
		return nil, ErrNoPublicKeysInDocument
	}

	if !s.verify(token, doc) {
		return nil, ErrInvalidSignature
	}

	issuer := token.Content.IssuerIdentifier()
	if issuer == "" {
		return nil, ErrNoIssuerIdentifierInRequest
	}

	result, err := s.validator.Validate(ctx, issuer)
	if err != nil {
		return nil, err
	}

	logger.Debugf("presentation request of %s: linked domain %s", issuer, result.Status)

	return presentation.NewRequest(token, result), nil
}

// verify accepts the token when any verification method of doc validates its signature, starting with the
// method named by the kid.
func (s *Service) verify(token *presentation.RequestToken, doc *vdr.Document) bool {
	candidates := make([]vdr.PublicKey, 0, len(doc.VerificationMethods)+1)

	if key, ok := doc.FindKey(token.Headers.KeyID); ok {
		candidates = append(candidates, *key)
	}

	candidates = append(candidates, doc.VerificationMethods...)

	for _, key := range candidates {
		if key.JWK == nil {
			continue
		}

		valid, err := token.Verify(s.verifier, key.JWK)
		if err != nil {
			logger.Debugf("verify presentation request with %s: %s", key.ID, err)

			continue
		}

		if valid {
			return true
		}
	}

	return false
}

// Send signs response and form-posts it to the redirect URI of its request. When isPairwise is set the
// requested credentials are first exchanged for copies bound to the pairwise identifier of the requester,
// which then signs the response.
func (s *Service) Send(ctx context.Context, response *presentation.ResponseContainer, isPairwise bool) error {
	if isPairwise {
		exchanged, err := s.pairwise.CreatePairwiseResponse(ctx, pairwise.NewPresentationResponse(response))
		if err != nil {
			return err
		}

		var ok bool

		response, ok = exchanged.Presentation()
		if !ok {
			return fmt.Errorf("%w: got %s response", ErrUnableToCastToPresentationResponseContainer, exchanged.Kind())
		}
	}

	id, err := s.fetchIdentifier(response.AudienceDID, isPairwise)
	if err != nil {
		return err
	}

	if err = keycheck.Check(s.identifiers, id); err != nil {
		return err
	}

	token, err := s.formatter.Format(response, id)
	if err != nil {
		return fmt.Errorf("format presentation response: %w", err)
	}

	compact, err := token.Serialize()
	if err != nil {
		return err
	}

	form := url.Values{"id_token": {compact}}
	if token.Content.State != "" {
		form.Set("state", token.Content.State)
	}

	_, err = s.poster.Post(ctx, response.AudienceURL, networking.ContentTypeFormURLEncoded, []byte(form.Encode()))
	if err != nil {
		return fmt.Errorf("send presentation response: %w", err)
	}

	logger.Infof("presented %d credentials to %s", len(response.RequestedVCMap), response.AudienceDID)

	return nil
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

// ParseRequestURI returns the percent-decoded request_uri parameter of uri.
func ParseRequestURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return "", ErrInputStringNotURI
	}

	if u.RawQuery == "" {
		return "", ErrNoQueryParametersOnURI
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputStringNotURI, err)
	}

	values, ok := query[RequestURIParameter]
	if !ok {
		return "", ErrNoRequestURIQueryParameter
	}

	if len(values) == 0 || values[0] == "" {
		return "", ErrNoValueForRequestURIQueryParameter
	}

	return values[0], nil
}
