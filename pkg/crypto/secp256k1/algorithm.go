/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package secp256k1

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

const (
	privateKeySize = 32
	signatureSize  = 64
	coordinateSize = 32
)

var (
	// ErrUnsupportedSecret is returned for secrets that do not grant access to their key bytes.
	ErrUnsupportedSecret = errors.New("secret does not support signing")
	// ErrInvalidPrivateKey is returned when the secret bytes are not a secp256k1 private scalar.
	ErrInvalidPrivateKey = errors.New("invalid secp256k1 private key")
)

// Algorithm is the elliptic curve primitive used by Signer and Verifier.
type Algorithm interface {
	// Sign returns the 64 byte R||S signature of hash.
	Sign(hash []byte, secret kms.CryptoSecret) ([]byte, error)
	// IsValidSignature checks a 64 byte R||S signature of hash.
	IsValidSignature(signature, hash []byte, publicKey *jwk.ECPublicJwk) (bool, error)
	// CreatePublicKey derives the public point of secret.
	CreatePublicKey(secret kms.CryptoSecret) (*ecdsa.PublicKey, error)
}

// BTCEC implements Algorithm with btcec.
type BTCEC struct{}

// Sign hash with the private key behind secret.
func (BTCEC) Sign(hash []byte, secret kms.CryptoSecret) ([]byte, error) {
	var signature []byte

	err := withPrivateKey(secret, func(priv *btcec.PrivateKey) error {
		sig, err := priv.Sign(hash)
		if err != nil {
			return err
		}

		signature = make([]byte, signatureSize)
		sig.R.FillBytes(signature[:coordinateSize])
		sig.S.FillBytes(signature[coordinateSize:])

		return nil
	})
	if err != nil {
		return nil, err
	}

	return signature, nil
}

// IsValidSignature reports whether signature is a valid signature of hash. Malformed signatures are
// reported as invalid, malformed keys as errors.
func (BTCEC) IsValidSignature(signature, hash []byte, publicKey *jwk.ECPublicJwk) (bool, error) {
	x, y, err := publicKey.Coordinates()
	if err != nil {
		return false, err
	}

	curve := btcec.S256()
	if !curve.IsOnCurve(x, y) {
		return false, fmt.Errorf("%w: point is not on secp256k1", jwk.ErrInvalidKey)
	}

	if len(signature) != signatureSize {
		return false, nil
	}

	sig := &btcec.Signature{
		R: new(big.Int).SetBytes(signature[:coordinateSize]),
		S: new(big.Int).SetBytes(signature[coordinateSize:]),
	}

	return sig.Verify(hash, &btcec.PublicKey{Curve: curve, X: x, Y: y}), nil
}

// CreatePublicKey derives the public point of secret.
func (BTCEC) CreatePublicKey(secret kms.CryptoSecret) (*ecdsa.PublicKey, error) {
	var pub *ecdsa.PublicKey

	err := withPrivateKey(secret, func(priv *btcec.PrivateKey) error {
		pub = &ecdsa.PublicKey{
			Curve: priv.PubKey().Curve,
			X:     new(big.Int).Set(priv.PubKey().X),
			Y:     new(big.Int).Set(priv.PubKey().Y),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return pub, nil
}

func withPrivateKey(secret kms.CryptoSecret, fn func(priv *btcec.PrivateKey) error) error {
	unsafe, ok := secret.(kms.UnsafeSecret)
	if !ok {
		return ErrUnsupportedSecret
	}

	return unsafe.WithUnsafeBytes(func(b []byte) error {
		if len(b) != privateKeySize {
			return fmt.Errorf("%w: length %d", ErrInvalidPrivateKey, len(b))
		}

		priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)
		defer wipeScalar(priv.D)

		if priv.D.Sign() == 0 {
			return ErrInvalidPrivateKey
		}

		return fn(priv)
	})
}

func wipeScalar(d *big.Int) {
	words := d.Bits()
	for i := range words {
		words[i] = 0
	}

	d.SetInt64(0)
}
