/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	jsonutil "github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

// ErrSubmissionPath is returned when a submission descriptor does not resolve to a presentation of the response.
var ErrSubmissionPath = errors.New("submission descriptor path does not resolve")

const presentationsPath = "$.attestations.presentations"

// Response is a signed presentation response.
type Response = jws.Token[ResponseClaims]

// ResponseFormatter builds and signs presentation responses.
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

// Format builds the claims answering response and signs them with the signing key of id. One submission
// descriptor and one presentation are produced per requested credential type.
func (f *ResponseFormatter) Format(response *ResponseContainer, id *identifier.Identifier) (*Response, error) {
	if response.Request == nil {
		return nil, errors.New("response does not reference a presentation request")
	}

	key, err := verifiable.ResolveSigningKey(f.signer, id)
	if err != nil {
		return nil, err
	}

	thumbprint, err := key.PublicJWK.Thumbprint()
	if err != nil {
		return nil, fmt.Errorf("public key thumbprint: %w", err)
	}

	iat, exp := verifiable.TimeConstraints(f.now(), response.ExpiryInSeconds)

	claims := ResponseClaims{
		PublicKeyThumbprint: thumbprint,
		Audience:            response.AudienceURL,
		DID:                 id.LongFormDID,
		PublicJWK:           key.PublicJWK,
		JTI:                 uuid.NewString(),
		State:               response.Request.Content.State,
		Nonce:               response.Request.Content.Nonce,
		IssuedAt:            iat,
		Expiration:          exp,
	}

	if len(response.RequestedVCMap) > 0 {
		claims.PresentationSubmission = formatSubmission(response, key.PublicJWK.KeyType)

		claims.Attestations, err = f.formatAttestations(response, id)
		if err != nil {
			return nil, err
		}

		if err = checkSubmission(&claims); err != nil {
			return nil, err
		}
	}

	return verifiable.SignClaims(f.signer, key, claims)
}

func formatSubmission(response *ResponseContainer, keyType string) *Submission {
	types := maps.Keys(response.RequestedVCMap)
	slices.Sort(types)

	descriptors := make([]SubmissionDescriptor, 0, len(types))

	for _, credentialType := range types {
		descriptors = append(descriptors, SubmissionDescriptor{
			ID:       credentialType,
			Path:     CredentialPathPrefix + credentialType,
			Format:   keyType,
			Encoding: CredentialEncoding,
		})
	}

	return &Submission{SubmissionDescriptors: descriptors}
}

func (f *ResponseFormatter) formatAttestations(response *ResponseContainer,
	id *identifier.Identifier) (*verifiable.AttestationResponse, error) {
	presentations := make(map[string]string, len(response.RequestedVCMap))

	for credentialType, vc := range response.RequestedVCMap {
		vp, err := f.presentFmtr.Format(vc, response.AudienceDID, response.ExpiryInSeconds, id)
		if err != nil {
			return nil, fmt.Errorf("presentation of %s: %w", credentialType, err)
		}

		compact, err := vp.Serialize()
		if err != nil {
			return nil, err
		}

		presentations[credentialType] = compact
	}

	return &verifiable.AttestationResponse{Presentations: presentations}, nil
}

// checkSubmission resolves the presentation of every descriptor in the claims. Credential types are not
// restricted to JSONPath identifiers, so the member is looked up in bracket notation.
func checkSubmission(claims *ResponseClaims) error {
	doc, err := jsonutil.ToMap(claims)
	if err != nil {
		return err
	}

	for _, d := range claims.PresentationSubmission.SubmissionDescriptors {
		v, err := jsonpath.Get(presentationsPath+"["+strconv.Quote(d.ID)+"]", doc)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSubmissionPath, d.Path, err)
		}

		if s, ok := v.(string); !ok || s == "" {
			return fmt.Errorf("%w: %s", ErrSubmissionPath, d.Path)
		}
	}

	return nil
}
