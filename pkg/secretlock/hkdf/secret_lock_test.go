/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package hkdf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"testing"

	"github.com/google/tink/go/subtle/random"
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"github.com/stretchr/testify/require"
)

func TestLock(t *testing.T) {
	secret := random.GetRandomBytes(32)
	passphrase := "somepassphrase"

	salt := make([]byte, sha256.Size)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	lock, err := NewLock(passphrase, sha256.New, salt)
	require.NoError(t, err)

	t.Run("round trip with additional data", func(t *testing.T) {
		enc, err := lock.Encrypt("", &secretlock.EncryptRequest{
			Plaintext:                   string(secret),
			AdditionalAuthenticatedData: "r32B/key-id",
		})
		require.NoError(t, err)
		require.NotEmpty(t, enc.Ciphertext)

		dec, err := lock.Decrypt("", &secretlock.DecryptRequest{
			Ciphertext:                  enc.Ciphertext,
			AdditionalAuthenticatedData: "r32B/key-id",
		})
		require.NoError(t, err)
		require.Equal(t, secret, []byte(dec.Plaintext))

		_, err = lock.Decrypt("", &secretlock.DecryptRequest{
			Ciphertext:                  enc.Ciphertext,
			AdditionalAuthenticatedData: "r32B/other-id",
		})
		require.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("arbitrary length secrets", func(t *testing.T) {
		long := random.GetRandomBytes(257)

		enc, err := lock.Encrypt("", &secretlock.EncryptRequest{Plaintext: string(long)})
		require.NoError(t, err)

		dec, err := lock.Decrypt("", &secretlock.DecryptRequest{Ciphertext: enc.Ciphertext})
		require.NoError(t, err)
		require.Equal(t, long, []byte(dec.Plaintext))
	})

	t.Run("same passphrase and salt decrypts", func(t *testing.T) {
		enc, err := lock.Encrypt("", &secretlock.EncryptRequest{Plaintext: string(secret)})
		require.NoError(t, err)

		lock2, err := NewLock(passphrase, sha256.New, salt)
		require.NoError(t, err)

		dec, err := lock2.Decrypt("", &secretlock.DecryptRequest{Ciphertext: enc.Ciphertext})
		require.NoError(t, err)
		require.Equal(t, secret, []byte(dec.Plaintext))
	})

	t.Run("different salt or passphrase fails", func(t *testing.T) {
		enc, err := lock.Encrypt("", &secretlock.EncryptRequest{Plaintext: string(secret)})
		require.NoError(t, err)

		noSalt, err := NewLock(passphrase, sha256.New, nil)
		require.NoError(t, err)

		_, err = noSalt.Decrypt("", &secretlock.DecryptRequest{Ciphertext: enc.Ciphertext})
		require.Error(t, err)

		badPass, err := NewLock("badPassphrase", sha256.New, salt)
		require.NoError(t, err)

		_, err = badPass.Decrypt("", &secretlock.DecryptRequest{Ciphertext: enc.Ciphertext})
		require.Error(t, err)
	})

	t.Run("malformed ciphertext", func(t *testing.T) {
		_, err := lock.Decrypt("", &secretlock.DecryptRequest{Ciphertext: "bad{}base64URLstring[]"})
		require.Error(t, err)

		_, err = lock.Decrypt("", &secretlock.DecryptRequest{
			Ciphertext: base64.URLEncoding.EncodeToString([]byte("short")),
		})
		require.ErrorIs(t, err, ErrInvalidCiphertext)
	})
}

func TestLockBytes(t *testing.T) {
	lock, err := NewLock("somepassphrase", sha256.New, nil)
	require.NoError(t, err)

	sealer, ok := lock.(interface {
		SealBytes(plaintext, aad []byte) ([]byte, error)
		OpenBytes(ciphertext, aad []byte) ([]byte, error)
	})
	require.True(t, ok)

	secret := random.GetRandomBytes(32)

	sealed, err := sealer.SealBytes(secret, []byte("r32B/key-id"))
	require.NoError(t, err)
	require.NotContains(t, string(sealed), string(secret))

	opened, err := sealer.OpenBytes(sealed, []byte("r32B/key-id"))
	require.NoError(t, err)
	require.Equal(t, secret, opened)

	_, err = sealer.OpenBytes(sealed, []byte("r32B/other-id"))
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = sealer.OpenBytes([]byte("short"), nil)
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	// both APIs share the same sealing
	dec, err := lock.Decrypt("", &secretlock.DecryptRequest{
		Ciphertext:                  base64.URLEncoding.EncodeToString(sealed),
		AdditionalAuthenticatedData: "r32B/key-id",
	})
	require.NoError(t, err)
	require.Equal(t, secret, []byte(dec.Plaintext))
}

func TestNewLockErrors(t *testing.T) {
	_, err := NewLock("", sha256.New, nil)
	require.EqualError(t, err, "passphrase is empty")

	_, err = NewLock("pass", nil, nil)
	require.EqualError(t, err, "hash is nil")

	_, err = NewLock("pass", sha512.New, nil)
	require.EqualError(t, err, "hash size not supported")
}
