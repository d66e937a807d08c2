/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package secp256k1

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

// AlgorithmES256K is the JWS "alg" value produced by Signer.
const AlgorithmES256K = "ES256K"

// ErrNoSignature is returned when the primitive yields an empty signature.
var ErrNoSignature = errors.New("primitive produced no signature")

// Signer signs the SHA-256 digest of a message with a secp256k1 secret.
type Signer struct {
	alg Algorithm
}

// Verifier checks ES256K signatures against a public JWK.
type Verifier struct {
	alg Algorithm
}

// Option sets the primitive used by a Signer or Verifier.
type Option func(a *Algorithm)

// WithAlgorithm replaces the btcec primitive.
func WithAlgorithm(alg Algorithm) Option {
	return func(a *Algorithm) {
		*a = alg
	}
}

// NewSigner creates an ES256K Signer.
func NewSigner(opts ...Option) *Signer {
	s := &Signer{alg: BTCEC{}}

	for _, opt := range opts {
		opt(&s.alg)
	}

	return s
}

// NewVerifier creates an ES256K Verifier.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{alg: BTCEC{}}

	for _, opt := range opts {
		opt(&v.alg)
	}

	return v
}

// Algorithm returns the JWS algorithm name.
func (s *Signer) Algorithm() string {
	return AlgorithmES256K
}

// Sign returns the signature of the SHA-256 digest of message.
func (s *Signer) Sign(message []byte, secret kms.CryptoSecret) ([]byte, error) {
	hash := sha256.Sum256(message)

	sig, err := s.alg.Sign(hash[:], secret)
	if err != nil {
		return nil, err
	}

	if len(sig) == 0 {
		return nil, ErrNoSignature
	}

	return sig, nil
}

// PublicJWK derives the public JWK of secret, identified by keyID.
func (s *Signer) PublicJWK(secret kms.CryptoSecret, keyID string) (*jwk.ECPublicJwk, error) {
	pub, err := s.alg.CreatePublicKey(secret)
	if err != nil {
		return nil, fmt.Errorf("create public key: %w", err)
	}

	return jwk.FromECDSA(pub, keyID)
}

// Verify checks signature against the SHA-256 digest of message.
func (v *Verifier) Verify(message, signature []byte, key *jwk.ECPublicJwk) (bool, error) {
	hash := sha256.Sum256(message)

	return v.alg.IsValidSignature(signature, hash[:], key)
}
