/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"encoding/json"
	"errors"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/linkeddomain"
)

// ErrMissingIssuer is returned for contracts without an input issuer.
var ErrMissingIssuer = errors.New("contract does not contain an issuer identifier")

// ContractInput describes what the issuer needs to issue the credential and where to send it.
type ContractInput struct {
	ID               string                             `json:"id,omitempty"`
	CredentialIssuer string                             `json:"credentialIssuer,omitempty"`
	Issuer           string                             `json:"issuer,omitempty"`
	Attestations     *verifiable.AttestationsDescriptor `json:"attestations,omitempty"`
}

// Contract describes a credential an issuer offers.
type Contract struct {
	ID      string          `json:"id,omitempty"`
	Display json.RawMessage `json:"display,omitempty"`
	Input   *ContractInput  `json:"input,omitempty"`
}

// Issuer returns the issuer DID of the contract.
func (c *Contract) Issuer() (string, error) {
	if c.Input == nil || c.Input.Issuer == "" {
		return "", ErrMissingIssuer
	}

	return c.Input.Issuer, nil
}

// SignedContract is a contract as served by an issuer.
type SignedContract = jws.Token[Contract]

// ParseSignedContract parses a signed contract from its compact serialization.
func ParseSignedContract(compact string) (*SignedContract, error) {
	return jws.Deserialize[Contract](compact)
}

// Request is a contract fetched from ContractURI, with the result of its issuer's linked-domain check.
type Request struct {
	Contract           Contract             `json:"contract"`
	ContractURI        string               `json:"contractUri"`
	LinkedDomainResult *linkeddomain.Result `json:"linkedDomainResult,omitempty"`
}
