/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package secp256k1

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
)

func newKeyManager(t *testing.T) (*kms.KeyManager, *secretstore.SecureStore) {
	t.Helper()

	store, err := secretstore.New(mem.NewProvider())
	require.NoError(t, err)

	return kms.New(store), store
}

func TestSignAndVerify(t *testing.T) {
	km, _ := newKeyManager(t)

	secret, err := km.GenerateKey()
	require.NoError(t, err)

	signer := NewSigner()
	verifier := NewVerifier()
	require.Equal(t, AlgorithmES256K, signer.Algorithm())

	key, err := signer.PublicJWK(secret, "#sign")
	require.NoError(t, err)
	require.Equal(t, "#sign", key.KeyID)

	message := []byte("header.payload")

	sig, err := signer.Sign(message, secret)
	require.NoError(t, err)
	require.Len(t, sig, signatureSize)

	t.Run("valid", func(t *testing.T) {
		ok, err := verifier.Verify(message, sig, key)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("tampered message", func(t *testing.T) {
		ok, err := verifier.Verify([]byte("header.payloaX"), sig, key)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := km.GenerateKey()
		require.NoError(t, err)

		otherKey, err := signer.PublicJWK(other, "#other")
		require.NoError(t, err)

		ok, err := verifier.Verify(message, sig, otherKey)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("truncated signature", func(t *testing.T) {
		ok, err := verifier.Verify(message, sig[:10], key)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("point not on curve", func(t *testing.T) {
		bad := jwk.New(big.NewInt(1).Bytes(), big.NewInt(1).Bytes(), "")

		_, err := verifier.Verify(message, sig, bad)
		require.ErrorIs(t, err, jwk.ErrInvalidKey)
	})
}

func TestSignatureInteropWithECDSA(t *testing.T) {
	km, _ := newKeyManager(t)

	secret, err := km.GenerateKey()
	require.NoError(t, err)

	signer := NewSigner()

	key, err := signer.PublicJWK(secret, "")
	require.NoError(t, err)

	x, y, err := key.Coordinates()
	require.NoError(t, err)

	message := []byte("interop")

	sig, err := signer.Sign(message, secret)
	require.NoError(t, err)

	hash := sha256.Sum256(message)
	pub := &ecdsa.PublicKey{Curve: btcec.S256(), X: x, Y: y}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])

	require.True(t, ecdsa.Verify(pub, hash[:], r, s))
}

type opaqueSecret struct{}

func (opaqueSecret) ID() uuid.UUID           { return uuid.Nil }
func (opaqueSecret) AccessGroup() string     { return "" }
func (opaqueSecret) IsValidKey() bool        { return true }
func (opaqueSecret) MigrateKey(string) error { return nil }

func TestSignErrors(t *testing.T) {
	signer := NewSigner()

	t.Run("secret without byte access", func(t *testing.T) {
		_, err := signer.Sign([]byte("m"), opaqueSecret{})
		require.ErrorIs(t, err, ErrUnsupportedSecret)

		_, err = signer.PublicJWK(opaqueSecret{}, "")
		require.ErrorIs(t, err, ErrUnsupportedSecret)
	})

	t.Run("missing secret", func(t *testing.T) {
		km, _ := newKeyManager(t)

		_, err := signer.Sign([]byte("m"), km.RetrieveKeyFromStorage(uuid.New()))
		require.ErrorIs(t, err, secretstore.ErrItemNotFound)
	})

	t.Run("invalid scalar", func(t *testing.T) {
		km, store := newKeyManager(t)

		zeroID := uuid.New()
		require.NoError(t, store.SaveSecret(zeroID, kms.Random32BytesType, "", make([]byte, 32)))

		_, err := signer.Sign([]byte("m"), km.RetrieveKeyFromStorage(zeroID))
		require.ErrorIs(t, err, ErrInvalidPrivateKey)

		shortID := uuid.New()
		require.NoError(t, store.SaveSecret(shortID, kms.Random32BytesType, "", make([]byte, 31)))

		_, err = signer.Sign([]byte("m"), km.RetrieveKeyFromStorage(shortID))
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
	})

	t.Run("primitive failure and empty signature", func(t *testing.T) {
		primErr := errors.New("primitive failed")

		_, err := NewSigner(WithAlgorithm(&mockAlgorithm{signErr: primErr})).Sign([]byte("m"), opaqueSecret{})
		require.ErrorIs(t, err, primErr)

		_, err = NewSigner(WithAlgorithm(&mockAlgorithm{})).Sign([]byte("m"), opaqueSecret{})
		require.ErrorIs(t, err, ErrNoSignature)
	})

	t.Run("verifier uses injected primitive", func(t *testing.T) {
		ok, err := NewVerifier(WithAlgorithm(&mockAlgorithm{valid: true})).Verify(nil, nil, nil)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

type mockAlgorithm struct {
	signErr error
	valid   bool
}

func (m *mockAlgorithm) Sign([]byte, kms.CryptoSecret) ([]byte, error) {
	return nil, m.signErr
}

func (m *mockAlgorithm) IsValidSignature(_, _ []byte, _ *jwk.ECPublicJwk) (bool, error) {
	return m.valid, nil
}

func (m *mockAlgorithm) CreatePublicKey(kms.CryptoSecret) (*ecdsa.PublicKey, error) {
	return nil, errors.New("not implemented")
}

func TestWipeScalar(t *testing.T) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)

	words := priv.D.Bits()
	require.NotEmpty(t, words)

	wipeScalar(priv.D)

	require.Zero(t, priv.D.Sign())

	for _, w := range words {
		require.Zero(t, w)
	}
}
