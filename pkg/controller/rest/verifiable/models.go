/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/verifiable"
)

// saveCredentialReq model
//
// This is used for save credential request.
//
// swagger:parameters saveCredentialReq
type saveCredentialReq struct { // nolint: unused,deadcode
	// Params for saving the verifiable credential
	//
	// in: body
	Params verifiable.CredentialExt
}

// getCredentialReq model
//
// This is used to retrieve the verifiable credential.
//
// swagger:parameters getCredentialReq removeCredentialReq
type getCredentialReq struct { // nolint: unused,deadcode
	// VC ID (jti)
	//
	// in: path
	// required: true
	ID string `json:"id"`
}

// credentialRes model
//
// This is used for returning the verifiable credential.
//
// swagger:response credentialRes
type credentialRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.Credential
}

// credentialRecordResult model
//
// This is used for returning the credential records.
//
// swagger:response credentialRecordResult
type credentialRecordResult struct { // nolint: unused,deadcode
	// in: body
	verifiable.CredentialRecordResult
}
