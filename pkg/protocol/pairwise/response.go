/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pairwise

import (
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/presentation"
)

// Kind of response carried by a Response.
type Kind int

const (
	// KindIssuance is an issuance response.
	KindIssuance Kind = iota + 1
	// KindPresentation is a presentation response.
	KindPresentation
)

func (k Kind) String() string {
	switch k {
	case KindIssuance:
		return "issuance"
	case KindPresentation:
		return "presentation"
	default:
		return "unknown"
	}
}

// Response is either an issuance or a presentation response container.
type Response struct {
	kind         Kind
	issuance     *issuance.ResponseContainer
	presentation *presentation.ResponseContainer
}

// NewIssuanceResponse wraps an issuance response.
func NewIssuanceResponse(c *issuance.ResponseContainer) Response {
	return Response{kind: KindIssuance, issuance: c}
}

// NewPresentationResponse wraps a presentation response.
func NewPresentationResponse(c *presentation.ResponseContainer) Response {
	return Response{kind: KindPresentation, presentation: c}
}

// Kind of the wrapped response.
func (r Response) Kind() Kind {
	return r.kind
}

// Issuance returns the wrapped issuance response; ok is false for any other kind.
func (r Response) Issuance() (*issuance.ResponseContainer, bool) {
	return r.issuance, r.kind == KindIssuance && r.issuance != nil
}

// Presentation returns the wrapped presentation response; ok is false for any other kind.
func (r Response) Presentation() (*presentation.ResponseContainer, bool) {
	return r.presentation, r.kind == KindPresentation && r.presentation != nil
}
