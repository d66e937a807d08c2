/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcsdk

import (
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/vcsdk"
)

// getIssuanceRequestReq model
//
// swagger:parameters getIssuanceRequestReq
type getIssuanceRequestReq struct { // nolint: unused,deadcode
	// in: body
	Params vcsdk.GetIssuanceRequestArgs
}

// issuanceRequestRes model
//
// swagger:response issuanceRequestRes
type issuanceRequestRes struct { // nolint: unused,deadcode
	// in: body
	vcsdk.IssuanceRequestResult
}

// sendIssuanceResponseReq model
//
// swagger:parameters sendIssuanceResponseReq
type sendIssuanceResponseReq struct { // nolint: unused,deadcode
	// in: body
	Params vcsdk.SendIssuanceResponseArgs
}

// credentialRes model
//
// swagger:response credentialRes
type credentialRes struct { // nolint: unused,deadcode
	// in: body
	vcsdk.CredentialResult
}

// getPresentationRequestReq model
//
// swagger:parameters getPresentationRequestReq
type getPresentationRequestReq struct { // nolint: unused,deadcode
	// in: body
	Params vcsdk.GetPresentationRequestArgs
}

// presentationRequestRes model
//
// swagger:response presentationRequestRes
type presentationRequestRes struct { // nolint: unused,deadcode
	// in: body
	vcsdk.PresentationRequestResult
}

// sendPresentationResponseReq model
//
// swagger:parameters sendPresentationResponseReq
type sendPresentationResponseReq struct { // nolint: unused,deadcode
	// in: body
	Params vcsdk.SendPresentationResponseArgs
}

// identifierRes model
//
// swagger:response identifierRes
type identifierRes struct { // nolint: unused,deadcode
	// in: body
	vcsdk.IdentifierResult
}
