/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pairwise

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/networking"
)

const defaultExpiryInSeconds = 300

var logger = log.New("aries-vcsdk/pairwise")

var (
	// ErrNoMasterIdentifier is returned when the device has no master identifier to exchange credentials from.
	ErrNoMasterIdentifier = errors.New("no master identifier")
	// ErrNoAudience is returned for responses without a relying party DID.
	ErrNoAudience = errors.New("response does not name a relying party")
	// ErrNoExchangeService is returned for credentials that cannot be exchanged for a pairwise copy.
	ErrNoExchangeService = errors.New("credential does not have an exchange service")
	// ErrUnknownResponse is returned for responses that are neither issuance nor presentation responses.
	ErrUnknownResponse = errors.New("unknown response kind")
)

// ExchangeRequestClaims are the claims of a request for a pairwise copy of a credential.
type ExchangeRequestClaims struct {
	PublicKeyThumbprint string           `json:"sub"`
	Audience            string           `json:"aud"`
	DID                 string           `json:"did"`
	PublicJWK           *jwk.ECPublicJwk `json:"sub_jwk"`
	JTI                 string           `json:"jti"`
	ExchangeableVC      string           `json:"exchangeableVc"`
	RecipientDID        string           `json:"recipientDid"`
	IssuedAt            int64            `json:"iat"`
	Expiration          int64            `json:"exp"`
}

type identifierService interface {
	FetchMasterIdentifier() (*identifier.Identifier, error)
	FetchOrCreatePairwiseIdentifier(relyingParty string) (*identifier.Identifier, error)
}

type poster interface {
	Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error)
}

// Option configures the service.
type Option func(s *Service)

// WithSigner sets the token signer.
func WithSigner(signer verifiable.TokenSigner) Option {
	return func(s *Service) {
		s.signer = signer
	}
}

// WithExpiry sets the validity of exchange requests.
func WithExpiry(seconds int) Option {
	return func(s *Service) {
		s.expiryInSeconds = seconds
	}
}

// Service exchanges the credentials of a response for copies bound to a pairwise identifier.
type Service struct {
	identifiers     identifierService
	poster          poster
	signer          verifiable.TokenSigner
	expiryInSeconds int
	now             func() time.Time
}

// New returns a pairwise exchange service.
func New(identifiers identifierService, p poster, opts ...Option) *Service {
	s := &Service{
		identifiers:     identifiers,
		poster:          p,
		signer:          secp256k1.NewSigner(),
		expiryInSeconds: defaultExpiryInSeconds,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreatePairwiseResponse fetches or creates the pairwise identifier for the response's relying party and
// replaces every requested credential with a copy issued to that identifier. The returned response has
// the same kind as response.
func (s *Service) CreatePairwiseResponse(ctx context.Context, response Response) (Response, error) {
	switch response.Kind() {
	case KindIssuance:
		c, ok := response.Issuance()
		if !ok {
			return Response{}, fmt.Errorf("%w: empty %s response", ErrUnknownResponse, response.Kind())
		}

		copied := *c

		vcs, err := s.exchangeAll(ctx, c.AudienceDID, c.RequestedVCMap)
		if err != nil {
			return Response{}, err
		}

		copied.RequestedVCMap = vcs

		return NewIssuanceResponse(&copied), nil
	case KindPresentation:
		c, ok := response.Presentation()
		if !ok {
			return Response{}, fmt.Errorf("%w: empty %s response", ErrUnknownResponse, response.Kind())
		}

		copied := *c

		vcs, err := s.exchangeAll(ctx, c.AudienceDID, c.RequestedVCMap)
		if err != nil {
			return Response{}, err
		}

		copied.RequestedVCMap = vcs

		return NewPresentationResponse(&copied), nil
	default:
		return Response{}, fmt.Errorf("%w: %s", ErrUnknownResponse, response.Kind())
	}
}

func (s *Service) exchangeAll(ctx context.Context, relyingParty string,
	vcs map[string]*verifiable.Credential) (map[string]*verifiable.Credential, error) {
	if relyingParty == "" {
		return nil, ErrNoAudience
	}

	master, err := s.identifiers.FetchMasterIdentifier()
	if err != nil {
		return nil, fmt.Errorf("fetch master identifier: %w", err)
	}

	if master == nil {
		return nil, ErrNoMasterIdentifier
	}

	pairwise, err := s.identifiers.FetchOrCreatePairwiseIdentifier(relyingParty)
	if err != nil {
		return nil, fmt.Errorf("fetch pairwise identifier: %w", err)
	}

	exchanged := make(map[string]*verifiable.Credential, len(vcs))

	for credentialType, vc := range vcs {
		pairwiseVC, err := s.exchange(ctx, vc, master, pairwise.LongFormDID)
		if err != nil {
			return nil, fmt.Errorf("exchange %s: %w", credentialType, err)
		}

		exchanged[credentialType] = pairwiseVC
	}

	logger.Debugf("exchanged %d credentials for relying party %s", len(exchanged), relyingParty)

	return exchanged, nil
}

func (s *Service) exchange(ctx context.Context, vc *verifiable.Credential, owner *identifier.Identifier,
	recipientDID string) (*verifiable.Credential, error) {
	endpoint, ok := vc.ExchangeService()
	if !ok {
		return nil, ErrNoExchangeService
	}

	key, err := verifiable.ResolveSigningKey(s.signer, owner)
	if err != nil {
		return nil, err
	}

	thumbprint, err := key.PublicJWK.Thumbprint()
	if err != nil {
		return nil, fmt.Errorf("public key thumbprint: %w", err)
	}

	iat, exp := verifiable.TimeConstraints(s.now(), s.expiryInSeconds)

	token, err := verifiable.SignClaims(s.signer, key, ExchangeRequestClaims{
		PublicKeyThumbprint: thumbprint,
		Audience:            endpoint,
		DID:                 owner.LongFormDID,
		PublicJWK:           key.PublicJWK,
		JTI:                 uuid.NewString(),
		ExchangeableVC:      vc.Raw,
		RecipientDID:        recipientDID,
		IssuedAt:            iat,
		Expiration:          exp,
	})
	if err != nil {
		return nil, err
	}

	compact, err := token.Serialize()
	if err != nil {
		return nil, err
	}

	body, err := s.poster.Post(ctx, endpoint, networking.ContentTypeJWT, []byte(compact))
	if err != nil {
		return nil, err
	}

	return verifiable.ParseCredentialResponse(body)
}
