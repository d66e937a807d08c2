/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

var logger = log.New("aries-vcsdk/did/identifier")

// Store persists identifiers keyed by (alias, relying party).
type Store interface {
	Get(alias, relyingParty string) (*Identifier, error)
	Put(id *Identifier) error
	Delete(alias, relyingParty string) error
	List() ([]*Identifier, error)
	WithLock(alias, relyingParty string, fn func() error) error
}

type identifierCreator interface {
	Create(alias, relyingParty string) (*Identifier, error)
}

type keyDeleter interface {
	DeleteKey(secret kms.CryptoSecret) error
}

// Service manages the master identifier and the pairwise identifiers derived from it.
type Service struct {
	store   Store
	creator identifierCreator
	keys    keyDeleter

	// held exclusively while the master identifier is replaced
	refresh sync.RWMutex
}

// NewService creates a Service.
func NewService(store Store, creator identifierCreator, keys keyDeleter) *Service {
	return &Service{
		store:   store,
		creator: creator,
		keys:    keys,
	}
}

// Initialize loads the master identifier, creating and saving it on first use.
func (s *Service) Initialize() (*Identifier, error) {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	var master *Identifier

	err := s.store.WithLock(MasterAlias, "", func() error {
		var err error

		master, err = s.store.Get(MasterAlias, "")
		if err != nil || master != nil {
			return err
		}

		master, err = s.createAndSave(MasterAlias, "")

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("initialize master identifier: %w", err)
	}

	return master, nil
}

// FetchMasterIdentifier returns the master identifier, or nil when none has been created.
func (s *Service) FetchMasterIdentifier() (*Identifier, error) {
	return s.FetchIdentifier(MasterAlias, "")
}

// FetchIdentifier returns the identifier stored for (alias, relyingParty), or nil when there is none.
func (s *Service) FetchIdentifier(alias, relyingParty string) (*Identifier, error) {
	s.refresh.RLock()
	defer s.refresh.RUnlock()

	return s.store.Get(alias, relyingParty)
}

// SaveIdentifier inserts or replaces id.
func (s *Service) SaveIdentifier(id *Identifier) error {
	s.refresh.RLock()
	defer s.refresh.RUnlock()

	return s.store.WithLock(id.Alias, id.RelyingParty, func() error {
		return s.store.Put(id)
	})
}

// CreateAndSaveIdentifier creates a new identifier for (alias, relyingParty) and persists it.
func (s *Service) CreateAndSaveIdentifier(alias, relyingParty string) (*Identifier, error) {
	s.refresh.RLock()
	defer s.refresh.RUnlock()

	var id *Identifier

	err := s.store.WithLock(alias, relyingParty, func() error {
		var err error

		id, err = s.createAndSave(alias, relyingParty)

		return err
	})

	return id, err
}

// FetchOrCreatePairwiseIdentifier returns the pairwise identifier of relyingParty, creating it when missing.
func (s *Service) FetchOrCreatePairwiseIdentifier(relyingParty string) (*Identifier, error) {
	if relyingParty == "" {
		return nil, errors.New("relying party is mandatory for pairwise identifiers")
	}

	s.refresh.RLock()
	defer s.refresh.RUnlock()

	var id *Identifier

	err := s.store.WithLock(MasterAlias, relyingParty, func() error {
		var err error

		id, err = s.store.Get(MasterAlias, relyingParty)
		if err != nil || id != nil {
			return err
		}

		id, err = s.createAndSave(MasterAlias, relyingParty)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("pairwise identifier: %w", err)
	}

	return id, nil
}

// AreKeysValid checks every key referenced by id is still held by the secret store.
func (s *Service) AreKeysValid(id *Identifier) error {
	for _, key := range id.Keys() {
		if key.KeyReference == nil || !key.KeyReference.IsValidKey() {
			return fmt.Errorf("%w: %s%s", ErrKeyNotFoundInKeyStore, id.LongFormDID, key.KeyID)
		}
	}

	return nil
}

// MigrateKeys moves the keys of every stored identifier from fromAccessGroup to their current access group.
// Every key is attempted; the failures are reported together.
func (s *Service) MigrateKeys(fromAccessGroup string) error {
	s.refresh.RLock()
	defer s.refresh.RUnlock()

	ids, err := s.store.List()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	var errs []error

	for _, id := range ids {
		for _, key := range id.Keys() {
			if key.KeyReference == nil {
				errs = append(errs, fmt.Errorf("key %s of %s has no reference", key.KeyID, id.Alias))

				continue
			}

			if err = key.KeyReference.MigrateKey(fromAccessGroup); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMigration, errors.Join(errs...))
	}

	logger.Infof("migrated keys of %d identifiers from access group %q", len(ids), fromAccessGroup)

	return nil
}

// RefreshIdentifiers discards the master identifier and replaces it with a new one. The old DID is lost.
func (s *Service) RefreshIdentifiers() error {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	return s.store.WithLock(MasterAlias, "", func() error {
		old, err := s.store.Get(MasterAlias, "")
		if err != nil {
			return fmt.Errorf("refresh identifiers: %w", err)
		}

		if old != nil {
			for _, key := range old.Keys() {
				if key.KeyReference == nil {
					continue
				}

				if errDel := s.keys.DeleteKey(key.KeyReference); errDel != nil {
					logger.Warnf("failed to delete key %s of discarded master identifier: %s", key.KeyID, errDel)
				}
			}
		}

		master, err := s.createAndSave(MasterAlias, "")
		if err != nil {
			return fmt.Errorf("refresh identifiers: %w", err)
		}

		logger.Warnf("master identifier replaced by %s", master.LongFormDID)

		return nil
	})
}

func (s *Service) createAndSave(alias, relyingParty string) (*Identifier, error) {
	id, err := s.creator.Create(alias, relyingParty)
	if err != nil {
		return nil, err
	}

	if err = s.store.Put(id); err != nil {
		return nil, err
	}

	return id, nil
}
