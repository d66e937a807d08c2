/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package kms

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	mockstorage "github.com/hyperledger/aries-framework-go/component/storageutil/mock/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
)

const testGroup = "com.example.vcsdk"

func newStore(t *testing.T) *secretstore.SecureStore {
	t.Helper()

	s, err := secretstore.New(mem.NewProvider())
	require.NoError(t, err)

	return s
}

func TestKeyManager(t *testing.T) {
	store := newStore(t)
	km := New(store, WithAccessGroup(testGroup))
	require.Equal(t, testGroup, km.AccessGroup())

	t.Run("generate and retrieve", func(t *testing.T) {
		secret, err := km.GenerateKey()
		require.NoError(t, err)
		require.Equal(t, testGroup, secret.AccessGroup())
		require.True(t, secret.IsValidKey())

		found, ok := km.RetrieveKeyIfStored(secret.ID())
		require.True(t, ok)
		require.Equal(t, secret.ID(), found.ID())

		unsafe, ok := found.(UnsafeSecret)
		require.True(t, ok)

		var seen []byte

		require.NoError(t, unsafe.WithUnsafeBytes(func(b []byte) error {
			require.Len(t, b, 32)
			seen = b

			return nil
		}))
		require.Equal(t, make([]byte, 32), seen)
	})

	t.Run("retrieve missing key", func(t *testing.T) {
		secret, ok := km.RetrieveKeyIfStored(uuid.New())
		require.False(t, ok)
		require.Nil(t, secret)

		handle := km.RetrieveKeyFromStorage(uuid.New())
		require.False(t, handle.IsValidKey())
	})

	t.Run("delete", func(t *testing.T) {
		secret, err := km.GenerateKey()
		require.NoError(t, err)

		require.NoError(t, km.DeleteKey(secret))
		require.False(t, secret.IsValidKey())
		require.NoError(t, km.DeleteKey(secret))
	})

	t.Run("unsafe bytes are zeroed when fn fails", func(t *testing.T) {
		secret, err := km.GenerateKey()
		require.NoError(t, err)

		fnErr := errors.New("fn failed")

		var seen []byte

		err = secret.(UnsafeSecret).WithUnsafeBytes(func(b []byte) error {
			seen = b

			return fnErr
		})
		require.ErrorIs(t, err, fnErr)
		require.Equal(t, make([]byte, 32), seen)
	})
}

func TestGenerateKeyStoreFailure(t *testing.T) {
	provider := mockstorage.NewMockStoreProvider()
	provider.Store.ErrPut = errors.New("put failed")

	store, err := secretstore.New(provider)
	require.NoError(t, err)

	_, err = New(store).GenerateKey()
	require.ErrorIs(t, err, ErrKeyGeneration)
}

func TestMigrateKey(t *testing.T) {
	t.Run("moves key from the old group", func(t *testing.T) {
		store := newStore(t)

		old, err := New(store).GenerateKey()
		require.NoError(t, err)

		moved := NewRandom32BytesSecret(store, old.ID(), testGroup)
		require.False(t, moved.IsValidKey())

		require.NoError(t, moved.MigrateKey(""))
		require.True(t, moved.IsValidKey())
		require.False(t, old.IsValidKey())

		// already migrated
		require.NoError(t, moved.MigrateKey(""))
	})

	t.Run("same group keeps a stored key", func(t *testing.T) {
		store := newStore(t)

		secret, err := New(store, WithAccessGroup(testGroup)).GenerateKey()
		require.NoError(t, err)

		require.NoError(t, secret.MigrateKey(testGroup))
		require.True(t, secret.IsValidKey())
	})

	t.Run("same group with the key missing", func(t *testing.T) {
		store := newStore(t)

		secret := NewRandom32BytesSecret(store, uuid.New(), "")

		err := secret.MigrateKey("")
		require.ErrorIs(t, err, ErrMigration)
		require.ErrorIs(t, err, secretstore.ErrItemNotFound)
	})

	t.Run("key missing everywhere", func(t *testing.T) {
		store := newStore(t)

		secret := NewRandom32BytesSecret(store, uuid.New(), testGroup)

		err := secret.MigrateKey("")
		require.ErrorIs(t, err, ErrMigration)
		require.ErrorIs(t, err, secretstore.ErrItemNotFound)
	})

	t.Run("delete of old entry fails", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()

		store, err := secretstore.New(provider)
		require.NoError(t, err)

		old, err := New(store).GenerateKey()
		require.NoError(t, err)

		provider.Store.ErrDelete = errors.New("delete failed")

		err = NewRandom32BytesSecret(store, old.ID(), testGroup).MigrateKey("")
		require.ErrorIs(t, err, ErrMigration)
	})
}

func TestWipeScalar(t *testing.T) {
	d := new(big.Int).SetBytes([]byte{
		0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef,
		0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef,
	})
	words := d.Bits()
	require.NotEmpty(t, words)

	wipeScalar(d)

	require.Zero(t, d.Sign())

	for _, w := range words {
		require.Zero(t, w)
	}
}
