/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

// Credential is model for verifiable credential.
type Credential struct {
	// compact JWT serialization of the credential
	VerifiableCredential string `json:"verifiableCredential,omitempty"`
}

// CredentialExt is model for verifiable credential with fields related to command features.
type CredentialExt struct {
	Credential
	Name string `json:"name,omitempty"`
}

// IDArg model
//
// This is used for querying/removing by ID from input json.
type IDArg struct {
	// CredentialID
	ID string `json:"id"`
}

// TypeArg model
//
// This is used for querying credential records by credential type.
type TypeArg struct {
	// Type is matched against the vc type list. Every record is returned when empty.
	Type string `json:"type,omitempty"`
}

// CredentialRecordResult holds the credential records.
type CredentialRecordResult struct {
	// Result
	Result []*vcstore.Record `json:"result,omitempty"`
}
