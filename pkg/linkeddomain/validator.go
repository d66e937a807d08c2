/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linkeddomain

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/didconfig/client"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/vdr"
)

var logger = log.New("aries-vcsdk/linkeddomain")

// Status of a linked-domain check.
type Status string

const (
	// Verified means the domain published a valid domain linkage credential for the DID.
	Verified Status = "verified"
	// Unverified means the DID claims a domain that does not vouch for it.
	Unverified Status = "unverified"
	// None means the DID document does not claim any domain.
	None Status = "none"
)

// Result of a linked-domain check. Domain is empty when Status is None.
type Result struct {
	Status Status `json:"status"`
	Domain string `json:"domain,omitempty"`
}

type documentDiscoverer interface {
	Discover(ctx context.Context, didID string) (*vdr.Document, error)
}

type domainVerifier interface {
	VerifyDIDAndDomain(did, domain string) error
}

// Validator checks that the web domain claimed by a DID vouches for that DID.
type Validator struct {
	documents documentDiscoverer
	verifier  domainVerifier
}

// New returns a validator discovering DID documents with documents and checking domains with verifier.
func New(documents documentDiscoverer, verifier domainVerifier) *Validator {
	return &Validator{documents: documents, verifier: verifier}
}

// NewDIDConfigValidator returns a validator fetching DID configurations with httpClient and
// resolving the DIDs of domain linkage credentials through registry.
func NewDIDConfigValidator(registry *vdr.Registry, httpClient *http.Client) *Validator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return New(registry, client.New(client.WithHTTPClient(httpClient), client.WithVDRegistry(registry)))
}

// Validate checks the first linked domain of didID. Discovery failures are returned; a domain that
// fails verification yields Unverified.
func (v *Validator) Validate(ctx context.Context, didID string) (*Result, error) {
	doc, err := v.documents.Discover(ctx, didID)
	if err != nil {
		return nil, fmt.Errorf("discover DID document for linked domain check: %w", err)
	}

	if len(doc.LinkedDomains) == 0 {
		return &Result{Status: None}, nil
	}

	domain := doc.LinkedDomains[0]

	if err := v.verifier.VerifyDIDAndDomain(didID, domain); err != nil {
		logger.Warnf("domain %s does not vouch for %s: %s", domain, didID, err)

		return &Result{Status: Unverified, Domain: domain}, nil
	}

	logger.Debugf("domain %s verified for %s", domain, didID)

	return &Result{Status: Verified, Domain: domain}, nil
}
