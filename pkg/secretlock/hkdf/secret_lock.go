/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package hkdf

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/google/tink/go/subtle/random"
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"golang.org/x/crypto/hkdf"
)

// package hkdf provides a passphrase based secretlock.Service used to seal secrets at rest.

// ErrInvalidCiphertext is returned when a ciphertext is too short or fails authentication.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

type lockHKDF struct {
	aead cipher.AEAD
}

// NewLock creates a secret lock whose AES-GCM key is expanded from `passphrase` with HKDF using hash
// function `h` and an optional `salt`. Secrets of any length can be sealed; the request's additional
// authenticated data is bound to the ciphertext.
func NewLock(passphrase string, h func() hash.Hash, salt []byte) (secretlock.Service, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase is empty")
	}

	if h == nil {
		return nil, fmt.Errorf("hash is nil")
	}

	size := h().Size()
	if size != sha256.Size {
		return nil, fmt.Errorf("hash size not supported")
	}

	expander := hkdf.New(h, []byte(passphrase), salt, []byte("aries-vcsdk secret store"))

	key := make([]byte, size)

	defer zero(key)

	_, err := io.ReadFull(expander, key)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &lockHKDF{aead: aead}, nil
}

// Encrypt seals req.Plaintext
// (keyURI is used for remote locks, it is ignored by this implementation).
func (l *lockHKDF) Encrypt(_ string, req *secretlock.EncryptRequest) (*secretlock.EncryptResponse, error) {
	ct, err := l.SealBytes([]byte(req.Plaintext), []byte(req.AdditionalAuthenticatedData))
	if err != nil {
		return nil, err
	}

	return &secretlock.EncryptResponse{
		Ciphertext: base64.URLEncoding.EncodeToString(ct),
	}, nil
}

// Decrypt opens req.Ciphertext
// (keyURI is used for remote locks, it is ignored by this implementation).
func (l *lockHKDF) Decrypt(_ string, req *secretlock.DecryptRequest) (*secretlock.DecryptResponse, error) {
	ct, err := base64.URLEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		return nil, err
	}

	pt, err := l.OpenBytes(ct, []byte(req.AdditionalAuthenticatedData))
	if err != nil {
		return nil, err
	}

	defer zero(pt)

	return &secretlock.DecryptResponse{Plaintext: string(pt)}, nil
}

// SealBytes seals plaintext bound to aad. The result is the nonce followed by the AES-GCM ciphertext.
func (l *lockHKDF) SealBytes(plaintext, aad []byte) ([]byte, error) {
	nonce := random.GetRandomBytes(uint32(l.aead.NonceSize()))

	return l.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// OpenBytes opens a ciphertext produced by SealBytes. The caller owns the returned plaintext.
func (l *lockHKDF) OpenBytes(ciphertext, aad []byte) ([]byte, error) {
	nonceSize := l.aead.NonceSize()

	if len(ciphertext) <= nonceSize {
		return nil, ErrInvalidCiphertext
	}

	pt, err := l.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCiphertext, err.Error())
	}

	return pt, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
