/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package protocol declares the collaborators the issuance and presentation protocols depend on.
package protocol

//go:generate mockgen -destination ../internal/gomocks/protocol/mocks.go -package protocol . DocumentDiscoverer,Fetcher,LinkedDomainValidator,PairwiseExchanger,Poster

import (
	"context"

	"github.com/hyperledger/aries-vcsdk-go/pkg/linkeddomain"
	"github.com/hyperledger/aries-vcsdk-go/pkg/protocol/pairwise"
	"github.com/hyperledger/aries-vcsdk-go/pkg/vdr"
)

// Fetcher retrieves signed protocol messages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Poster sends signed responses.
type Poster interface {
	Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error)
}

// DocumentDiscoverer resolves the DID documents of request signers.
type DocumentDiscoverer interface {
	Discover(ctx context.Context, did string) (*vdr.Document, error)
}

// LinkedDomainValidator checks the domains a DID claims.
type LinkedDomainValidator interface {
	Validate(ctx context.Context, did string) (*linkeddomain.Result, error)
}

// PairwiseExchanger rebinds the credentials of a response to a pairwise identifier.
type PairwiseExchanger interface {
	CreatePairwiseResponse(ctx context.Context, response pairwise.Response) (pairwise.Response, error)
}
