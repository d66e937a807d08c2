/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

// ClaimDescriptor is a claim requested by a contract or a presentation request.
type ClaimDescriptor struct {
	Claim    string `json:"claim"`
	Required bool   `json:"required,omitempty"`
	Indexed  bool   `json:"indexed,omitempty"`
}

// IDTokenDescriptor requests an id token from an OpenID provider.
type IDTokenDescriptor struct {
	Configuration string            `json:"configuration,omitempty"`
	ClientID      string            `json:"client_id,omitempty"`
	RedirectURI   string            `json:"redirect_uri,omitempty"`
	Scope         string            `json:"scope,omitempty"`
	Encrypted     bool              `json:"encrypted,omitempty"`
	Required      bool              `json:"required,omitempty"`
	Claims        []ClaimDescriptor `json:"claims,omitempty"`
}

// SelfIssuedDescriptor requests claims the holder attests to.
type SelfIssuedDescriptor struct {
	Encrypted bool              `json:"encrypted,omitempty"`
	Required  bool              `json:"required,omitempty"`
	Claims    []ClaimDescriptor `json:"claims,omitempty"`
}

// IssuerDescriptor names an accepted issuer of a requested credential.
type IssuerDescriptor struct {
	Issuer string `json:"iss"`
}

// PresentationDescriptorRequest requests a credential of a given type.
type PresentationDescriptorRequest struct {
	CredentialType string             `json:"credentialType"`
	Encrypted      bool               `json:"encrypted,omitempty"`
	Required       bool               `json:"required,omitempty"`
	Issuers        []IssuerDescriptor `json:"issuers,omitempty"`
	ContractsURI   []string           `json:"contracts,omitempty"`
	Claims         []ClaimDescriptor  `json:"claims,omitempty"`
}

// AttestationsDescriptor lists what a contract or presentation request asks the holder for.
type AttestationsDescriptor struct {
	IDTokens      []IDTokenDescriptor             `json:"idTokens,omitempty"`
	SelfIssued    *SelfIssuedDescriptor           `json:"selfIssued,omitempty"`
	Presentations []PresentationDescriptorRequest `json:"presentations,omitempty"`
}

// AttestationResponse carries the attestations answered by the holder, keyed by configuration, claim or
// credential type.
type AttestationResponse struct {
	IDTokens      map[string]string `json:"idTokens,omitempty"`
	SelfIssued    map[string]string `json:"selfIssued,omitempty"`
	Presentations map[string]string `json:"presentations,omitempty"`
}

// IsEmpty reports whether no attestation is answered.
func (a *AttestationResponse) IsEmpty() bool {
	return a == nil || (len(a.IDTokens) == 0 && len(a.SelfIssued) == 0 && len(a.Presentations) == 0)
}
