/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package secretstore

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	mockstorage "github.com/hyperledger/aries-framework-go/component/storageutil/mock/storage"
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/secretlock/hkdf"
)

const (
	typeCode = "r32B"
	group    = "com.example.vcsdk"
)

func TestSecureStore(t *testing.T) {
	lock, err := hkdf.NewLock("passphrase", sha256.New, nil)
	require.NoError(t, err)

	s, err := New(mem.NewProvider(), WithSecretLock(lock, ""))
	require.NoError(t, err)

	t.Run("save get delete", func(t *testing.T) {
		id := uuid.New()
		value := []byte{1, 2, 3, 4}

		require.NoError(t, s.SaveSecret(id, typeCode, group, value))
		require.Equal(t, []byte{0, 0, 0, 0}, value)

		got, err := s.GetSecret(id, typeCode, group)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 4}, got)

		require.NoError(t, s.DeleteSecret(id, typeCode, group))

		_, err = s.GetSecret(id, typeCode, group)
		require.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("access groups are separate partitions", func(t *testing.T) {
		id := uuid.New()

		require.NoError(t, s.SaveSecret(id, typeCode, "", []byte{9}))

		_, err := s.GetSecret(id, typeCode, group)
		require.ErrorIs(t, err, ErrItemNotFound)

		got, err := s.GetSecret(id, typeCode, "")
		require.NoError(t, err)
		require.Equal(t, []byte{9}, got)
	})

	t.Run("duplicate save", func(t *testing.T) {
		id := uuid.New()

		require.NoError(t, s.SaveSecret(id, typeCode, group, []byte{1}))

		value := []byte{2}
		err := s.SaveSecret(id, typeCode, group, value)
		require.ErrorIs(t, err, ErrItemAlreadyInStore)
		require.Equal(t, []byte{0}, value)
	})

	t.Run("invalid type code", func(t *testing.T) {
		err := s.SaveSecret(uuid.New(), "r32", group, []byte{1})
		require.ErrorIs(t, err, ErrInvalidType)

		_, err = s.GetSecret(uuid.New(), "toolong", group)
		require.ErrorIs(t, err, ErrInvalidType)

		err = s.DeleteSecret(uuid.New(), "", group)
		require.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("delete missing", func(t *testing.T) {
		err := s.DeleteSecret(uuid.New(), typeCode, group)
		require.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestSecureStoreDefaultLock(t *testing.T) {
	provider := mockstorage.NewMockStoreProvider()

	s, err := New(provider, WithStoreName("secrets"))
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, s.SaveSecret(id, typeCode, group, []byte("raw")))

	entry, ok := provider.Store.Store[group+"/"+typeCode+"/"+id.String()]
	require.True(t, ok)
	require.Equal(t, []byte("raw"), entry.Value)
	require.Equal(t, []storage.Tag{{Name: accessGroupTagName, Value: partition(group)}}, entry.Tags)

	got, err := s.GetSecret(id, typeCode, group)
	require.NoError(t, err)
	require.Equal(t, []byte("raw"), got)

	// the returned buffer is a copy the caller may zero
	zero(got)
	require.Equal(t, []byte("raw"), provider.Store.Store[group+"/"+typeCode+"/"+id.String()].Value)
}

func TestSecureStoreSealsBytes(t *testing.T) {
	lock, err := hkdf.NewLock("passphrase", sha256.New, nil)
	require.NoError(t, err)

	_, ok := lock.(ByteSealer)
	require.True(t, ok)

	provider := mockstorage.NewMockStoreProvider()

	s, err := New(provider, WithSecretLock(lock, ""))
	require.NoError(t, err)

	id := uuid.New()
	secret := []byte("0123456789abcdef0123456789abcdef")

	require.NoError(t, s.SaveSecret(id, typeCode, group, append([]byte(nil), secret...)))

	entry := provider.Store.Store[group+"/"+typeCode+"/"+id.String()]
	require.NotContains(t, string(entry.Value), string(secret))

	got, err := s.GetSecret(id, typeCode, group)
	require.NoError(t, err)
	require.Equal(t, secret, got)
}

type stringOnlyLock struct {
	secretlock.Service
}

func TestSecureStoreStringLock(t *testing.T) {
	lock, err := hkdf.NewLock("passphrase", sha256.New, nil)
	require.NoError(t, err)

	s, err := New(mem.NewProvider(), WithSecretLock(stringOnlyLock{Service: lock}, "local-lock://test"))
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, s.SaveSecret(id, typeCode, group, []byte{7, 7}))

	got, err := s.GetSecret(id, typeCode, group)
	require.NoError(t, err)
	require.Equal(t, []byte{7, 7}, got)
}

func TestSecureStoreListSecrets(t *testing.T) {
	s, err := New(mem.NewProvider())
	require.NoError(t, err)

	inGroup := uuid.New()
	inDefault := uuid.New()

	require.NoError(t, s.SaveSecret(inGroup, typeCode, group, []byte{1}))
	require.NoError(t, s.SaveSecret(inDefault, typeCode, "", []byte{2}))

	refs, err := s.ListSecrets(group)
	require.NoError(t, err)
	require.Equal(t, []SecretRef{{ID: inGroup, ItemTypeCode: typeCode}}, refs)

	refs, err = s.ListSecrets("")
	require.NoError(t, err)
	require.Equal(t, []SecretRef{{ID: inDefault, ItemTypeCode: typeCode}}, refs)

	refs, err = s.ListSecrets("com.example.empty")
	require.NoError(t, err)
	require.Empty(t, refs)

	require.NoError(t, s.DeleteSecret(inGroup, typeCode, group))

	refs, err = s.ListSecrets(group)
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestSecureStoreErrors(t *testing.T) {
	storeErr := errors.New("storage failure")

	t.Run("open store", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.ErrOpenStoreHandle = storeErr

		_, err := New(provider)
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("store configuration", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.ErrSetStoreConfig = storeErr

		_, err := New(provider)
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("query", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.Store.ErrQuery = storeErr

		s, err := New(provider)
		require.NoError(t, err)

		_, err = s.ListSecrets(group)
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("put", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.Store.ErrPut = storeErr

		s, err := New(provider)
		require.NoError(t, err)

		err = s.SaveSecret(uuid.New(), typeCode, group, []byte{1})
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("get", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.Store.ErrGet = storeErr

		s, err := New(provider)
		require.NoError(t, err)

		_, err = s.GetSecret(uuid.New(), typeCode, group)
		require.ErrorIs(t, err, storeErr)

		err = s.SaveSecret(uuid.New(), typeCode, group, []byte{1})
		require.ErrorIs(t, err, storeErr)

		err = s.DeleteSecret(uuid.New(), typeCode, group)
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("delete", func(t *testing.T) {
		provider := mockstorage.NewMockStoreProvider()
		provider.Store.ErrDelete = storeErr

		s, err := New(provider)
		require.NoError(t, err)

		id := uuid.New()
		require.NoError(t, s.SaveSecret(id, typeCode, group, []byte{1}))

		err = s.DeleteSecret(id, typeCode, group)
		require.ErrorIs(t, err, storeErr)
	})

	t.Run("unseal with another lock", func(t *testing.T) {
		provider := mem.NewProvider()

		lock1, err := hkdf.NewLock("one", sha256.New, nil)
		require.NoError(t, err)

		lock2, err := hkdf.NewLock("two", sha256.New, nil)
		require.NoError(t, err)

		s1, err := New(provider, WithSecretLock(lock1, ""))
		require.NoError(t, err)

		s2, err := New(provider, WithSecretLock(lock2, ""))
		require.NoError(t, err)

		id := uuid.New()
		require.NoError(t, s1.SaveSecret(id, typeCode, group, []byte{1}))

		_, err = s2.GetSecret(id, typeCode, group)
		require.ErrorIs(t, err, hkdf.ErrInvalidCiphertext)
	})
}
