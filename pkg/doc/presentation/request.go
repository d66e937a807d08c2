/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation

import (
	"encoding/json"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/linkeddomain"
)

// RequestClaims are the claims of a signed presentation request.
type RequestClaims struct {
	ClientID     string                             `json:"client_id,omitempty"`
	Issuer       string                             `json:"iss,omitempty"`
	ResponseType string                             `json:"response_type,omitempty"`
	ResponseMode string                             `json:"response_mode,omitempty"`
	RedirectURI  string                             `json:"redirect_uri,omitempty"`
	Scope        string                             `json:"scope,omitempty"`
	State        string                             `json:"state,omitempty"`
	Nonce        string                             `json:"nonce,omitempty"`
	Prompt       string                             `json:"prompt,omitempty"`
	Registration json.RawMessage                    `json:"registration,omitempty"`
	Attestations *verifiable.AttestationsDescriptor `json:"attestations,omitempty"`
	IssuedAt     int64                              `json:"iat,omitempty"`
	Expiration   int64                              `json:"exp,omitempty"`
}

// IssuerIdentifier returns the requester's declared identifier: client_id, or iss when client_id is absent.
func (c *RequestClaims) IssuerIdentifier() string {
	if c.ClientID != "" {
		return c.ClientID
	}

	return c.Issuer
}

// RequestToken is a signed presentation request.
type RequestToken = jws.Token[RequestClaims]

// ParseRequestToken parses a presentation request from its compact serialization.
func ParseRequestToken(compact string) (*RequestToken, error) {
	return jws.Deserialize[RequestClaims](compact)
}

// Request is a validated presentation request with the result of its requester's linked-domain check.
type Request struct {
	Token              *RequestToken        `json:"-"`
	Content            RequestClaims        `json:"content"`
	LinkedDomainResult *linkeddomain.Result `json:"linkedDomainResult,omitempty"`
}

// NewRequest returns the request carried by token.
func NewRequest(token *RequestToken, result *linkeddomain.Result) *Request {
	return &Request{Token: token, Content: token.Content, LinkedDomainResult: result}
}
