/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

const (
	// NameSpace for identifier store.
	NameSpace = "vcsdk_identifiers"

	identifierTag        = "identifier"
	identifierKeyPattern = "identifier_%s_%s"
)

var logger = log.New("aries-vcsdk/store/identifier")

type provider interface {
	StorageProvider() storage.Provider
}

type keyLoader interface {
	RetrieveKeyFromStorage(id uuid.UUID) kms.CryptoSecret
}

// Store persists identifiers keyed by (alias, relying party).
type Store struct {
	store storage.Store
	keys  keyLoader

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type keyRecord struct {
	ID        uuid.UUID `json:"id"`
	KeyID     string    `json:"keyId"`
	Algorithm string    `json:"algorithm"`
}

type record struct {
	LongFormDID     string      `json:"longFormDid"`
	Alias           string      `json:"alias"`
	RelyingParty    string      `json:"relyingParty,omitempty"`
	DIDDocumentKeys []keyRecord `json:"didDocumentKeys"`
	RecoveryKey     keyRecord   `json:"recoveryKey"`
	UpdateKey       keyRecord   `json:"updateKey"`
}

// New returns a new identifier store. Key handles of loaded identifiers are rehydrated through keys.
func New(ctx provider, keys keyLoader) (*Store, error) {
	store, err := ctx.StorageProvider().OpenStore(NameSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to open identifier store: %w", err)
	}

	err = ctx.StorageProvider().SetStoreConfig(NameSpace, storage.StoreConfiguration{TagNames: []string{identifierTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store configuration: %w", err)
	}

	return &Store{
		store: store,
		keys:  keys,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Get returns the identifier stored for (alias, relyingParty), or nil when there is none.
func (s *Store) Get(alias, relyingParty string) (*identifier.Identifier, error) {
	b, err := s.store.Get(dataKey(alias, relyingParty))
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get identifier: %w", err)
	}

	return s.decode(b)
}

// Put inserts or replaces an identifier.
func (s *Store) Put(id *identifier.Identifier) error {
	if id == nil || id.Alias == "" {
		return errors.New("identifier alias is mandatory")
	}

	b, err := json.Marshal(encode(id))
	if err != nil {
		return fmt.Errorf("failed to marshal identifier: %w", err)
	}

	if err = s.store.Put(dataKey(id.Alias, id.RelyingParty), b, storage.Tag{Name: identifierTag}); err != nil {
		return fmt.Errorf("failed to put identifier: %w", err)
	}

	logger.Debugf("saved identifier %s for relying party %q", id.Alias, id.RelyingParty)

	return nil
}

// Delete removes the identifier stored for (alias, relyingParty).
func (s *Store) Delete(alias, relyingParty string) error {
	if err := s.store.Delete(dataKey(alias, relyingParty)); err != nil {
		return fmt.Errorf("failed to delete identifier: %w", err)
	}

	return nil
}

// List returns every stored identifier.
func (s *Store) List() ([]*identifier.Identifier, error) {
	itr, err := s.store.Query(identifierTag)
	if err != nil {
		return nil, fmt.Errorf("failed to query identifiers: %w", err)
	}

	defer func() {
		errClose := itr.Close()
		if errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose.Error())
		}
	}()

	var ids []*identifier.Identifier

	more, err := itr.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate identifiers: %w", err)
	}

	for more {
		b, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read identifier: %w", err)
		}

		id, err := s.decode(b)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)

		more, err = itr.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate identifiers: %w", err)
		}
	}

	return ids, nil
}

// WithLock runs fn while holding the lock of (alias, relyingParty).
func (s *Store) WithLock(alias, relyingParty string, fn func() error) error {
	key := dataKey(alias, relyingParty)

	s.mu.Lock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}

	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()

	return fn()
}

func (s *Store) decode(b []byte) (*identifier.Identifier, error) {
	var r record

	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identifier: %w", err)
	}

	id := &identifier.Identifier{
		LongFormDID:  r.LongFormDID,
		Alias:        r.Alias,
		RelyingParty: r.RelyingParty,
		RecoveryKey:  s.container(r.RecoveryKey),
		UpdateKey:    s.container(r.UpdateKey),
	}

	for _, k := range r.DIDDocumentKeys {
		id.DIDDocumentKeys = append(id.DIDDocumentKeys, s.container(k))
	}

	return id, nil
}

func (s *Store) container(k keyRecord) identifier.KeyContainer {
	return identifier.KeyContainer{
		KeyReference: s.keys.RetrieveKeyFromStorage(k.ID),
		KeyID:        k.KeyID,
		Algorithm:    k.Algorithm,
	}
}

func encode(id *identifier.Identifier) *record {
	r := &record{
		LongFormDID:  id.LongFormDID,
		Alias:        id.Alias,
		RelyingParty: id.RelyingParty,
		RecoveryKey:  keyRecordOf(id.RecoveryKey),
		UpdateKey:    keyRecordOf(id.UpdateKey),
	}

	for _, k := range id.DIDDocumentKeys {
		r.DIDDocumentKeys = append(r.DIDDocumentKeys, keyRecordOf(k))
	}

	return r
}

func keyRecordOf(k identifier.KeyContainer) keyRecord {
	r := keyRecord{KeyID: k.KeyID, Algorithm: k.Algorithm}

	if k.KeyReference != nil {
		r.ID = k.KeyReference.ID()
	}

	return r
}

func dataKey(alias, relyingParty string) string {
	return fmt.Sprintf(identifierKeyPattern, alias, relyingParty)
}
