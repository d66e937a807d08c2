/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	jsonutil "github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
)

// ContextURI is the base context of credentials and presentations.
const ContextURI = "https://www.w3.org/2018/credentials/v1"

// ErrMissingCredential is returned for tokens without a "vc" claim.
var ErrMissingCredential = errors.New("token does not contain a verifiable credential")

// CustomFields is a map of extra fields of a struct.
type CustomFields map[string]interface{}

// TypedID defines a flexible structure with id and type fields.
type TypedID struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}

// CredentialDescriptor is the content of the "vc" claim.
type CredentialDescriptor struct {
	Context           []string               `json:"@context,omitempty"`
	Type              []string               `json:"type,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject,omitempty"`
	CredentialStatus  *TypedID               `json:"credentialStatus,omitempty"`
	ExchangeService   *TypedID               `json:"exchangeService,omitempty"`

	// All unmapped fields are put here.
	CustomFields `json:"-"`
}

// MarshalJSON defines custom marshalling of CredentialDescriptor to JSON.
func (d *CredentialDescriptor) MarshalJSON() ([]byte, error) {
	type Alias CredentialDescriptor

	return jsonutil.MarshalWithCustomFields((*Alias)(d), d.CustomFields)
}

// UnmarshalJSON defines custom unmarshalling of CredentialDescriptor from JSON.
func (d *CredentialDescriptor) UnmarshalJSON(data []byte) error {
	type Alias CredentialDescriptor

	alias := (*Alias)(d)
	d.CustomFields = make(CustomFields)

	return jsonutil.UnmarshalWithCustomFields(data, alias, d.CustomFields)
}

// JWTCredClaims is JWT Claims extension by Verifiable Credential (with custom "vc" claim).
type JWTCredClaims struct {
	JTI        string                `json:"jti,omitempty"`
	Issuer     string                `json:"iss,omitempty"`
	Subject    string                `json:"sub,omitempty"`
	IssuedAt   int64                 `json:"iat,omitempty"`
	Expiration int64                 `json:"exp,omitempty"`
	Credential *CredentialDescriptor `json:"vc,omitempty"`
}

// Credential is a verifiable credential in JWT form. Raw is the compact serialization it was parsed from.
type Credential struct {
	Raw   string
	Token *jws.Token[JWTCredClaims]
}

// ParseCredential parses a credential from its compact JWS serialization. The signature is not checked.
func ParseCredential(compact string) (*Credential, error) {
	token, err := jws.Deserialize[JWTCredClaims](compact)
	if err != nil {
		return nil, fmt.Errorf("parse verifiable credential: %w", err)
	}

	if token.Content.Credential == nil {
		return nil, ErrMissingCredential
	}

	return &Credential{Raw: compact, Token: token}, nil
}

// Claims returns the JWT claims of the credential.
func (c *Credential) Claims() *JWTCredClaims {
	return &c.Token.Content
}

// Types returns the credential types.
func (c *Credential) Types() []string {
	return c.Token.Content.Credential.Type
}

// ExchangeService returns the endpoint issuing pairwise copies of the credential.
func (c *Credential) ExchangeService() (string, bool) {
	svc := c.Token.Content.Credential.ExchangeService
	if svc == nil || svc.ID == "" {
		return "", false
	}

	return svc.ID, true
}

// MarshalJSON marshals the credential as its compact serialization string.
func (c *Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Raw)
}

// UnmarshalJSON parses the credential from a compact serialization string.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var compact string

	if err := json.Unmarshal(data, &compact); err != nil {
		return err
	}

	parsed, err := ParseCredential(compact)
	if err != nil {
		return err
	}

	*c = *parsed

	return nil
}

type credentialResponse struct {
	VC string `json:"vc"`
}

// ParseCredentialResponse parses a credential returned by an issuer, either as a bare compact
// serialization or as a JSON object {"vc": "<compact>"}.
func ParseCredentialResponse(body []byte) (*Credential, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "{") {
		var resp credentialResponse

		if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
			return nil, fmt.Errorf("parse credential response: %w", err)
		}

		trimmed = resp.VC
	}

	return ParseCredential(strings.Trim(trimmed, `"`))
}
