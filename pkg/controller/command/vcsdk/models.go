/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcsdk

import (
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/presentation"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

// GetIssuanceRequestArgs model
//
// This is used for fetching the contract of an issuer.
type GetIssuanceRequestArgs struct {
	// URL of the signed contract
	URL string `json:"url"`
}

// IssuanceRequestResult model
//
// This is used for returning a fetched contract.
type IssuanceRequestResult struct {
	Request *issuance.Request `json:"request"`
}

// SendIssuanceResponseArgs model
//
// This is used for answering an issuance request.
type SendIssuanceResponseArgs struct {
	Response *issuance.ResponseContainer `json:"response"`

	// Pairwise sends the response from the pairwise identifier of the issuer
	Pairwise bool `json:"pairwise,omitempty"`

	// Name under which the issued credential is saved. The credential is not saved when empty.
	Name string `json:"name,omitempty"`
}

// CredentialResult model
//
// This is used for returning an issued credential.
type CredentialResult struct {
	Credential *verifiable.Credential `json:"credential"`
}

// GetPresentationRequestArgs model
//
// This is used for fetching the request of a verifier.
type GetPresentationRequestArgs struct {
	// URI in the openid://vc/?request_uri=... form
	URI string `json:"uri"`
}

// PresentationRequestResult model
//
// This is used for returning a verified presentation request.
type PresentationRequestResult struct {
	Request *presentation.Request `json:"request"`
}

// SendPresentationResponseArgs model
//
// This is used for answering a presentation request.
type SendPresentationResponseArgs struct {
	Response *presentation.ResponseContainer `json:"response"`

	// Pairwise sends the response from the pairwise identifier of the verifier
	Pairwise bool `json:"pairwise,omitempty"`
}

// IdentifierResult model
//
// This is used for returning the public part of an identifier.
type IdentifierResult struct {
	DID          string   `json:"did"`
	Alias        string   `json:"alias,omitempty"`
	RelyingParty string   `json:"relyingParty,omitempty"`
	KeyIDs       []string `json:"keyIds,omitempty"`
}
