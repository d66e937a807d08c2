/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"fmt"
	"time"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

// TokenSigner signs tokens with identifier keys and derives their public JWKs.
type TokenSigner interface {
	jws.Signer
	Algorithm() string
	PublicJWK(secret kms.CryptoSecret, keyID string) (*jwk.ECPublicJwk, error)
}

// SigningKey is the signing key of an identifier together with its derived public JWK.
type SigningKey struct {
	Container identifier.KeyContainer
	KeyID     string
	PublicJWK *jwk.ECPublicJwk
}

// ResolveSigningKey returns the signing key of id. The JWK kid is the key fragment.
func ResolveSigningKey(signer TokenSigner, id *identifier.Identifier) (*SigningKey, error) {
	container, err := id.SigningKey()
	if err != nil {
		return nil, err
	}

	keyID, err := id.SigningKeyID()
	if err != nil {
		return nil, err
	}

	pub, err := signer.PublicJWK(container.KeyReference, trimFragmentSeparator(container.KeyID))
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return &SigningKey{Container: container, KeyID: keyID, PublicJWK: pub}, nil
}

// SignClaims signs claims as a JWT with key.
func SignClaims[T any](signer TokenSigner, key *SigningKey, claims T) (*jws.Token[T], error) {
	token := jws.New(jws.Header{
		Algorithm: signer.Algorithm(),
		KeyID:     key.KeyID,
		Type:      jws.TypeJWT,
	}, claims)

	if err := token.Sign(signer, key.Container.KeyReference); err != nil {
		return nil, err
	}

	return token, nil
}

// TimeConstraints returns the issued-at and expiry times of a token valid for expiryInSeconds from now.
func TimeConstraints(now time.Time, expiryInSeconds int) (int64, int64) {
	iat := now.Unix()

	return iat, iat + int64(expiryInSeconds)
}

func trimFragmentSeparator(keyID string) string {
	if len(keyID) > 0 && keyID[0] == '#' {
		return keyID[1:]
	}

	return keyID
}
