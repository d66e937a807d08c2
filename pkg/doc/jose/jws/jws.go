/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	jsonutil "github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

const (
	// TypeJWT defines JWT type.
	TypeJWT = "JWT"

	compactParts = 3
)

var (
	// ErrSigning is returned when a token could not be signed.
	ErrSigning = errors.New("signing failed")
	// ErrInvalidCompactSerialization is returned for strings that are not header.payload.signature.
	ErrInvalidCompactSerialization = errors.New("invalid JWS compact serialization")
)

// Signer produces a signature over a protected message.
type Signer interface {
	Sign(message []byte, secret kms.CryptoSecret) ([]byte, error)
}

// Verifier checks a signature over a protected message.
type Verifier interface {
	Verify(message, signature []byte, key *jwk.ECPublicJwk) (bool, error)
}

// Header is the JOSE header of a token.
type Header struct {
	Algorithm string `json:"alg,omitempty"`
	KeyID     string `json:"kid,omitempty"`
	Type      string `json:"typ,omitempty"`
}

// Token is a JWS over claims of type T.
type Token[T any] struct {
	Headers   Header
	Content   T
	Signature []byte

	// segments as received, set only for deserialized tokens.
	rawHeader  string
	rawContent string
}

// New creates an unsigned token.
func New[T any](headers Header, content T) *Token[T] {
	return &Token[T]{Headers: headers, Content: content}
}

// ProtectedMessage returns base64url(header) + "." + base64url(content). It never includes the signature.
// Deserialized tokens return the segments exactly as they were received.
func (t *Token[T]) ProtectedMessage() (string, error) {
	if t.rawHeader != "" && t.rawContent != "" {
		return t.rawHeader + "." + t.rawContent, nil
	}

	header, err := jsonutil.Marshal(t.Headers)
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}

	content, err := jsonutil.Marshal(t.Content)
	if err != nil {
		return "", fmt.Errorf("marshal content: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(content), nil
}

// Sign signs the protected message with secret and stores the signature on the token.
func (t *Token[T]) Sign(signer Signer, secret kms.CryptoSecret) error {
	t.rawHeader, t.rawContent = "", ""

	message, err := t.ProtectedMessage()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigning, err)
	}

	sig, err := signer.Sign([]byte(message), secret)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigning, err)
	}

	if len(sig) == 0 {
		return fmt.Errorf("%w: empty signature", ErrSigning)
	}

	t.Signature = sig

	return nil
}

// Verify checks the token signature with key. An unsigned token is not verified and yields false without error.
func (t *Token[T]) Verify(verifier Verifier, key *jwk.ECPublicJwk) (bool, error) {
	if len(t.Signature) == 0 {
		return false, nil
	}

	if key == nil {
		return false, fmt.Errorf("%w: missing public key", jwk.ErrInvalidKey)
	}

	message, err := t.ProtectedMessage()
	if err != nil {
		return false, err
	}

	return verifier.Verify([]byte(message), t.Signature, key)
}

// Serialize returns the compact serialization header.payload.signature.
func (t *Token[T]) Serialize() (string, error) {
	message, err := t.ProtectedMessage()
	if err != nil {
		return "", err
	}

	return message + "." + base64.RawURLEncoding.EncodeToString(t.Signature), nil
}

// Deserialize parses a compact serialization. The token keeps the received header and payload segments
// so that verification runs over the exact bytes the issuer signed.
func Deserialize[T any](compact string) (*Token[T], error) {
	parts := strings.Split(strings.TrimSpace(compact), ".")
	if len(parts) != compactParts {
		return nil, fmt.Errorf("%w: expected %d parts, got %d", ErrInvalidCompactSerialization, compactParts, len(parts))
	}

	t := &Token[T]{rawHeader: parts[0], rawContent: parts[1]}

	if err := decodeSegment(parts[0], &t.Headers); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidCompactSerialization, err)
	}

	if err := decodeSegment(parts[1], &t.Content); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrInvalidCompactSerialization, err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrInvalidCompactSerialization, err)
	}

	if len(sig) > 0 {
		t.Signature = sig
	}

	return t, nil
}

func decodeSegment(segment string, v interface{}) error {
	b, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}
