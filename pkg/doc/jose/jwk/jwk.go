/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jwk

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
)

const (
	// KeyTypeEC is the "kty" value of elliptic curve keys.
	KeyTypeEC = "EC"
	// CurveSecp256k1 is the "crv" value of secp256k1 keys.
	CurveSecp256k1 = "secp256k1"
	// UseSignature is the "use" value of signing keys.
	UseSignature = "sig"

	coordinateSize = 32
)

// ErrInvalidKey is returned when a JWK does not describe a usable secp256k1 public key.
var ErrInvalidKey = errors.New("invalid JWK")

// ECPublicJwk is the public half of a secp256k1 key in JSON Web Key form.
type ECPublicJwk struct {
	KeyType string `json:"kty"`
	Curve   string `json:"crv"`
	Use     string `json:"use,omitempty"`
	KeyID   string `json:"kid,omitempty"`
	X       string `json:"x"`
	Y       string `json:"y"`
}

// New builds a signing JWK from raw big-endian coordinates.
func New(x, y []byte, keyID string) *ECPublicJwk {
	return &ECPublicJwk{
		KeyType: KeyTypeEC,
		Curve:   CurveSecp256k1,
		Use:     UseSignature,
		KeyID:   keyID,
		X:       base64.RawURLEncoding.EncodeToString(pad(x)),
		Y:       base64.RawURLEncoding.EncodeToString(pad(y)),
	}
}

// FromECDSA builds a signing JWK from an ecdsa public key on the secp256k1 curve.
func FromECDSA(pub *ecdsa.PublicKey, keyID string) (*ECPublicJwk, error) {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil, fmt.Errorf("%w: missing coordinates", ErrInvalidKey)
	}

	return New(pub.X.Bytes(), pub.Y.Bytes(), keyID), nil
}

// Coordinates decodes the x and y members.
func (j *ECPublicJwk) Coordinates() (*big.Int, *big.Int, error) {
	if j.KeyType != KeyTypeEC || j.Curve != CurveSecp256k1 {
		return nil, nil, fmt.Errorf("%w: unsupported key type %q curve %q", ErrInvalidKey, j.KeyType, j.Curve)
	}

	x, err := decodeCoordinate(j.X)
	if err != nil {
		return nil, nil, err
	}

	y, err := decodeCoordinate(j.Y)
	if err != nil {
		return nil, nil, err
	}

	return x, y, nil
}

// Thumbprint computes the RFC 7638 thumbprint: SHA-256 over the canonical JSON of the required members,
// base64url encoded without padding.
func (j *ECPublicJwk) Thumbprint() (string, error) {
	if j.X == "" || j.Y == "" {
		return "", fmt.Errorf("%w: missing coordinates", ErrInvalidKey)
	}

	required := map[string]string{
		"crv": j.Curve,
		"kty": j.KeyType,
		"x":   j.X,
		"y":   j.Y,
	}

	b, err := json.Canonicalize(required)
	if err != nil {
		return "", fmt.Errorf("canonicalize jwk: %w", err)
	}

	sum := sha256.Sum256(b)

	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

func decodeCoordinate(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: decode coordinate: %s", ErrInvalidKey, err.Error())
	}

	if len(b) != coordinateSize {
		return nil, fmt.Errorf("%w: coordinate length %d", ErrInvalidKey, len(b))
	}

	return new(big.Int).SetBytes(b), nil
}

func pad(b []byte) []byte {
	if len(b) >= coordinateSize {
		return b
	}

	out := make([]byte, coordinateSize)
	copy(out[coordinateSize-len(b):], b)

	return out
}
