/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"errors"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

// DefaultExpiryInSeconds is the validity of issuance responses.
const DefaultExpiryInSeconds = 3000

// ResponseContainer collects the holder's answers to a contract before they are signed and sent.
type ResponseContainer struct {
	ContractURI     string `json:"contractUri"`
	ExpiryInSeconds int    `json:"expiryInSeconds"`
	// AudienceURL is the endpoint the response is posted to.
	AudienceURL string `json:"audienceUrl"`
	// AudienceDID is the issuer DID the response is addressed to.
	AudienceDID string `json:"audienceDid"`

	RequestedIDTokenMap           map[string]string                 `json:"requestedIdTokens,omitempty"`
	RequestedSelfAttestedClaimMap map[string]string                 `json:"requestedSelfAttestedClaims,omitempty"`
	RequestedVCMap                map[string]*verifiable.Credential `json:"requestedVcs,omitempty"`
}

// NewResponseContainer returns an empty response to request.
func NewResponseContainer(request *Request) (*ResponseContainer, error) {
	if request.Contract.Input == nil || request.Contract.Input.CredentialIssuer == "" {
		return nil, errors.New("contract does not contain a credential issuer endpoint")
	}

	issuer, err := request.Contract.Issuer()
	if err != nil {
		return nil, err
	}

	return &ResponseContainer{
		ContractURI:                   request.ContractURI,
		ExpiryInSeconds:               DefaultExpiryInSeconds,
		AudienceURL:                   request.Contract.Input.CredentialIssuer,
		AudienceDID:                   issuer,
		RequestedIDTokenMap:           map[string]string{},
		RequestedSelfAttestedClaimMap: map[string]string{},
		RequestedVCMap:                map[string]*verifiable.Credential{},
	}, nil
}

// ResponseClaims are the claims of a signed issuance response.
type ResponseClaims struct {
	PublicKeyThumbprint string                          `json:"sub"`
	Audience            string                          `json:"aud"`
	DID                 string                          `json:"did"`
	PublicJWK           *jwk.ECPublicJwk                `json:"sub_jwk"`
	Contract            string                          `json:"contract"`
	JTI                 string                          `json:"jti"`
	Attestations        *verifiable.AttestationResponse `json:"attestations,omitempty"`
	IssuedAt            int64                           `json:"iat"`
	Expiration          int64                           `json:"exp"`
}
