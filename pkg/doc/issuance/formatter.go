/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

// Response is a signed issuance response.
type Response = jws.Token[ResponseClaims]

// ResponseFormatter builds and signs issuance responses.
type ResponseFormatter struct {
	signer      verifiable.TokenSigner
	presentFmtr *verifiable.PresentationFormatter
	now         func() time.Time
}

// NewResponseFormatter returns a formatter signing with signer.
func NewResponseFormatter(signer verifiable.TokenSigner) *ResponseFormatter {
	return &ResponseFormatter{
		signer:      signer,
		presentFmtr: verifiable.NewPresentationFormatter(signer),
		now:         time.Now,
	}
}

// Format builds the claims answering response and signs them with the signing key of id.
func (f *ResponseFormatter) Format(response *ResponseContainer, id *identifier.Identifier) (*Response, error) {
	key, err := verifiable.ResolveSigningKey(f.signer, id)
	if err != nil {
		return nil, err
	}

	thumbprint, err := key.PublicJWK.Thumbprint()
	if err != nil {
		return nil, fmt.Errorf("public key thumbprint: %w", err)
	}

	attestations, err := f.formatAttestations(response, id)
	if err != nil {
		return nil, err
	}

	iat, exp := verifiable.TimeConstraints(f.now(), response.ExpiryInSeconds)

	return verifiable.SignClaims(f.signer, key, ResponseClaims{
		PublicKeyThumbprint: thumbprint,
		Audience:            response.AudienceURL,
		DID:                 id.LongFormDID,
		PublicJWK:           key.PublicJWK,
		Contract:            response.ContractURI,
		JTI:                 uuid.NewString(),
		Attestations:        attestations,
		IssuedAt:            iat,
		Expiration:          exp,
	})
}

func (f *ResponseFormatter) formatAttestations(response *ResponseContainer,
	id *identifier.Identifier) (*verifiable.AttestationResponse, error) {
	attestations := &verifiable.AttestationResponse{
		IDTokens:   response.RequestedIDTokenMap,
		SelfIssued: response.RequestedSelfAttestedClaimMap,
	}

	if len(response.RequestedVCMap) > 0 {
		attestations.Presentations = make(map[string]string, len(response.RequestedVCMap))

		for credentialType, vc := range response.RequestedVCMap {
			vp, err := f.presentFmtr.Format(vc, response.AudienceDID, response.ExpiryInSeconds, id)
			if err != nil {
				return nil, fmt.Errorf("presentation of %s: %w", credentialType, err)
			}

			compact, err := vp.Serialize()
			if err != nil {
				return nil, err
			}

			attestations.Presentations[credentialType] = compact
		}
	}

	if attestations.IsEmpty() {
		return nil, nil
	}

	return attestations, nil
}
