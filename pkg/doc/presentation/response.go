/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation

import (
	"errors"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

const (
	// DefaultExpiryInSeconds is the validity of presentation responses.
	DefaultExpiryInSeconds = 3000
	// CredentialPathPrefix is the JSONPath of the presentations answered in a response.
	CredentialPathPrefix = "$.attestations.presentations."
	// CredentialEncoding is the encoding of the presentations answered in a response.
	CredentialEncoding = "base64Url"
)

// ErrMissingRedirectURI is returned for requests that do not say where to send the response.
var ErrMissingRedirectURI = errors.New("presentation request does not contain a redirect URI")

// ResponseContainer collects the credentials answering a presentation request.
type ResponseContainer struct {
	Request         *Request `json:"request"`
	ExpiryInSeconds int      `json:"expiryInSeconds"`
	// AudienceURL is the endpoint the response is posted to.
	AudienceURL string `json:"audienceUrl"`
	// AudienceDID is the requester identifier presentations are bound to.
	AudienceDID string `json:"audienceDid"`

	RequestedVCMap map[string]*verifiable.Credential `json:"requestedVcs,omitempty"`
}

// NewResponseContainer returns an empty response to request.
func NewResponseContainer(request *Request) (*ResponseContainer, error) {
	if request.Content.RedirectURI == "" {
		return nil, ErrMissingRedirectURI
	}

	return &ResponseContainer{
		Request:         request,
		ExpiryInSeconds: DefaultExpiryInSeconds,
		AudienceURL:     request.Content.RedirectURI,
		AudienceDID:     request.Content.IssuerIdentifier(),
		RequestedVCMap:  map[string]*verifiable.Credential{},
	}, nil
}

// SubmissionDescriptor locates one presented credential in a response.
type SubmissionDescriptor struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
}

// Submission lists the credentials presented in a response.
type Submission struct {
	SubmissionDescriptors []SubmissionDescriptor `json:"descriptor_map"`
}

// ResponseClaims are the claims of a signed presentation response.
type ResponseClaims struct {
	PublicKeyThumbprint    string                          `json:"sub"`
	Audience               string                          `json:"aud"`
	DID                    string                          `json:"did"`
	PublicJWK              *jwk.ECPublicJwk                `json:"sub_jwk"`
	JTI                    string                          `json:"jti"`
	PresentationSubmission *Submission                     `json:"presentation_submission,omitempty"`
	Attestations           *verifiable.AttestationResponse `json:"attestations,omitempty"`
	State                  string                          `json:"state,omitempty"`
	Nonce                  string                          `json:"nonce,omitempty"`
	IssuedAt               int64                           `json:"iat"`
	Expiration             int64                           `json:"exp"`
}
