/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
)

// PresentationType is the type of every presentation built by the SDK.
const PresentationType = "VerifiablePresentation"

// PresentationDescriptor is the content of the "vp" claim.
type PresentationDescriptor struct {
	Context              []string `json:"@context"`
	Type                 []string `json:"type"`
	VerifiableCredential []string `json:"verifiableCredential"`
}

// JWTPresClaims is JWT Claims extension by Verifiable Presentation (with custom "vp" claim).
type JWTPresClaims struct {
	JTI          string                  `json:"jti"`
	Issuer       string                  `json:"iss"`
	Audience     string                  `json:"aud"`
	IssuedAt     int64                   `json:"iat"`
	NotBefore    int64                   `json:"nbf"`
	Expiration   int64                   `json:"exp"`
	Presentation *PresentationDescriptor `json:"vp"`
}

// PresentationFormatter wraps credentials into presentations signed by an identifier.
type PresentationFormatter struct {
	signer TokenSigner
	now    func() time.Time
}

// NewPresentationFormatter returns a presentation formatter signing with signer.
func NewPresentationFormatter(signer TokenSigner) *PresentationFormatter {
	return &PresentationFormatter{signer: signer, now: time.Now}
}

// Format returns a presentation of vc bound to audience, issued by id and valid for expiryInSeconds.
func (f *PresentationFormatter) Format(vc *Credential, audience string, expiryInSeconds int,
	id *identifier.Identifier) (*jws.Token[JWTPresClaims], error) {
	if vc == nil || vc.Raw == "" {
		return nil, errors.New("missing verifiable credential")
	}

	key, err := ResolveSigningKey(f.signer, id)
	if err != nil {
		return nil, err
	}

	iat, exp := TimeConstraints(f.now(), expiryInSeconds)

	token, err := SignClaims(f.signer, key, JWTPresClaims{
		JTI:        uuid.NewString(),
		Issuer:     id.LongFormDID,
		Audience:   audience,
		IssuedAt:   iat,
		NotBefore:  iat,
		Expiration: exp,
		Presentation: &PresentationDescriptor{
			Context:              []string{ContextURI},
			Type:                 []string{PresentationType},
			VerifiableCredential: []string{vc.Raw},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sign verifiable presentation: %w", err)
	}

	return token, nil
}
