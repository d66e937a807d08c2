/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package secretstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/secretlock/noop"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

// StoreName is the default name of the underlying storage namespace.
const StoreName = "vcsdk_secrets"

const (
	itemTypeCodeLength = 4
	accessGroupTagName = "accessGroup"
)

var logger = log.New("aries-vcsdk/secretstore")

var (
	// ErrItemNotFound is returned when no secret is stored under the requested id, type and access group.
	ErrItemNotFound = errors.New("secret not found")
	// ErrInvalidType is returned when the item type code is not exactly four characters long.
	ErrInvalidType = errors.New("item type code must be 4 characters")
	// ErrItemAlreadyInStore is returned when saving a secret whose id is already taken.
	ErrItemAlreadyInStore = errors.New("secret already in store")
)

// Store persists raw secret bytes, partitioned by access group and item type code.
type Store interface {
	GetSecret(id uuid.UUID, itemTypeCode, accessGroup string) ([]byte, error)
	SaveSecret(id uuid.UUID, itemTypeCode, accessGroup string, value []byte) error
	DeleteSecret(id uuid.UUID, itemTypeCode, accessGroup string) error
}

// ByteSealer seals secrets held in byte slices. Locks implementing it are used in place of the string based
// secretlock.Service API, so plaintext never lands in an immutable string.
type ByteSealer interface {
	SealBytes(plaintext, aad []byte) ([]byte, error)
	OpenBytes(ciphertext, aad []byte) ([]byte, error)
}

// SecretRef identifies a stored secret within an access group.
type SecretRef struct {
	ID           uuid.UUID
	ItemTypeCode string
}

// SecureStore is a Store backed by an Aries storage provider. Every value is sealed with a secret lock
// before it reaches storage. The noop lock stores values as they are.
type SecureStore struct {
	store     storage.Store
	lock      secretlock.Service
	keyURI    string
	storeName string
	mu        sync.Mutex
}

// Option configures a SecureStore.
type Option func(s *SecureStore)

// WithSecretLock sets the lock used to seal secrets. Secrets are stored unprotected when no lock is set.
func WithSecretLock(lock secretlock.Service, keyURI string) Option {
	return func(s *SecureStore) {
		s.lock = lock
		s.keyURI = keyURI
	}
}

// WithStoreName overrides the storage namespace.
func WithStoreName(name string) Option {
	return func(s *SecureStore) {
		s.storeName = name
	}
}

// New opens the secret namespace in provider.
func New(provider storage.Provider, opts ...Option) (*SecureStore, error) {
	s := &SecureStore{
		lock:      &noop.NoLock{},
		storeName: StoreName,
	}

	for _, opt := range opts {
		opt(s)
	}

	store, err := provider.OpenStore(s.storeName)
	if err != nil {
		return nil, fmt.Errorf("open secret store: %w", err)
	}

	err = provider.SetStoreConfig(s.storeName, storage.StoreConfiguration{TagNames: []string{accessGroupTagName}})
	if err != nil {
		return nil, fmt.Errorf("set secret store configuration: %w", err)
	}

	s.store = store

	return s, nil
}

// GetSecret returns a copy of the stored secret. The caller owns the returned buffer and should zero it after use.
func (s *SecureStore) GetSecret(id uuid.UUID, itemTypeCode, accessGroup string) ([]byte, error) {
	key, err := recordKey(id, itemTypeCode, accessGroup)
	if err != nil {
		return nil, err
	}

	sealed, err := s.store.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, key)
		}

		return nil, fmt.Errorf("get secret: %w", err)
	}

	return s.open(sealed, key)
}

// SaveSecret seals and stores value. The value buffer is zeroed before SaveSecret returns, whatever the outcome.
func (s *SecureStore) SaveSecret(id uuid.UUID, itemTypeCode, accessGroup string, value []byte) error {
	defer zero(value)

	key, err := recordKey(id, itemTypeCode, accessGroup)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.store.Get(key)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrItemAlreadyInStore, key)
	}

	if !errors.Is(err, storage.ErrDataNotFound) {
		return fmt.Errorf("check secret: %w", err)
	}

	sealed, err := s.seal(value, key)
	if err != nil {
		return fmt.Errorf("seal secret: %w", err)
	}

	if err = s.store.Put(key, sealed, storage.Tag{Name: accessGroupTagName, Value: partition(accessGroup)}); err != nil {
		return fmt.Errorf("save secret: %w", err)
	}

	logger.Debugf("saved secret %s", key)

	return nil
}

// DeleteSecret removes a stored secret. Deleting a missing secret returns ErrItemNotFound.
func (s *SecureStore) DeleteSecret(id uuid.UUID, itemTypeCode, accessGroup string) error {
	key, err := recordKey(id, itemTypeCode, accessGroup)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err = s.store.Get(key); err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return fmt.Errorf("%w: %s", ErrItemNotFound, key)
		}

		return fmt.Errorf("check secret: %w", err)
	}

	if err = s.store.Delete(key); err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}

	logger.Debugf("deleted secret %s", key)

	return nil
}

// ListSecrets returns the secrets stored in accessGroup.
func (s *SecureStore) ListSecrets(accessGroup string) ([]SecretRef, error) {
	itr, err := s.store.Query(accessGroupTagName + ":" + partition(accessGroup))
	if err != nil {
		return nil, fmt.Errorf("query secrets: %w", err)
	}

	defer func() {
		if errClose := itr.Close(); errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose.Error())
		}
	}()

	var refs []SecretRef

	more, err := itr.Next()
	if err != nil {
		return nil, fmt.Errorf("iterate secrets: %w", err)
	}

	for more {
		key, err := itr.Key()
		if err != nil {
			return nil, fmt.Errorf("iterate secrets: %w", err)
		}

		ref, err := parseRecordKey(key, accessGroup)
		if err != nil {
			return nil, err
		}

		refs = append(refs, ref)

		more, err = itr.Next()
		if err != nil {
			return nil, fmt.Errorf("iterate secrets: %w", err)
		}
	}

	return refs, nil
}

func (s *SecureStore) seal(value []byte, key string) ([]byte, error) {
	if _, ok := s.lock.(*noop.NoLock); ok {
		return append([]byte(nil), value...), nil
	}

	if sealer, ok := s.lock.(ByteSealer); ok {
		return sealer.SealBytes(value, []byte(key))
	}

	// the string API copies the plaintext into memory that cannot be cleared
	resp, err := s.lock.Encrypt(s.keyURI, &secretlock.EncryptRequest{
		Plaintext:                   string(value),
		AdditionalAuthenticatedData: key,
	})
	if err != nil {
		return nil, err
	}

	return []byte(resp.Ciphertext), nil
}

func (s *SecureStore) open(sealed []byte, key string) ([]byte, error) {
	if _, ok := s.lock.(*noop.NoLock); ok {
		return append([]byte(nil), sealed...), nil
	}

	if sealer, ok := s.lock.(ByteSealer); ok {
		plaintext, err := sealer.OpenBytes(sealed, []byte(key))
		if err != nil {
			return nil, fmt.Errorf("unseal secret: %w", err)
		}

		return plaintext, nil
	}

	resp, err := s.lock.Decrypt(s.keyURI, &secretlock.DecryptRequest{
		Ciphertext:                  string(sealed),
		AdditionalAuthenticatedData: key,
	})
	if err != nil {
		return nil, fmt.Errorf("unseal secret: %w", err)
	}

	return []byte(resp.Plaintext), nil
}

// partition is the tag value of an access group. Tag values must not be empty or contain ':'.
func partition(accessGroup string) string {
	return "g" + base64.RawURLEncoding.EncodeToString([]byte(accessGroup))
}

func parseRecordKey(key, accessGroup string) (SecretRef, error) {
	rest := strings.TrimPrefix(key, accessGroup+"/")

	itemTypeCode, rawID, ok := strings.Cut(rest, "/")
	if !ok || rest == key || len(itemTypeCode) != itemTypeCodeLength {
		return SecretRef{}, fmt.Errorf("unexpected secret key %q", key)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return SecretRef{}, fmt.Errorf("unexpected secret key %q: %w", key, err)
	}

	return SecretRef{ID: id, ItemTypeCode: itemTypeCode}, nil
}

func recordKey(id uuid.UUID, itemTypeCode, accessGroup string) (string, error) {
	if len(itemTypeCode) != itemTypeCodeLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, itemTypeCode)
	}

	return fmt.Sprintf("%s/%s/%s", accessGroup, itemTypeCode, id.String()), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
