/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package kms

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
)

// Random32BytesType is the secret store item type code of 32 byte secrets.
const Random32BytesType = "r32B"

// Random32BytesSecret is a handle to a 32 byte secret, such as a secp256k1 private scalar.
type Random32BytesSecret struct {
	id          uuid.UUID
	accessGroup string
	store       secretstore.Store
}

// NewRandom32BytesSecret returns a handle for an already stored secret.
func NewRandom32BytesSecret(store secretstore.Store, id uuid.UUID, accessGroup string) *Random32BytesSecret {
	return &Random32BytesSecret{
		id:          id,
		accessGroup: accessGroup,
		store:       store,
	}
}

// ID of the secret.
func (s *Random32BytesSecret) ID() uuid.UUID {
	return s.id
}

// AccessGroup of the secret.
func (s *Random32BytesSecret) AccessGroup() string {
	return s.accessGroup
}

// IsValidKey checks the secret can be read from its access group.
func (s *Random32BytesSecret) IsValidKey() bool {
	err := s.WithUnsafeBytes(func([]byte) error { return nil })

	return err == nil
}

// MigrateKey copies the secret from fromAccessGroup into the handle's access group and removes the old entry.
// A secret already present in the handle's access group is left as is. A secret found in neither group fails
// with ErrMigration.
func (s *Random32BytesSecret) MigrateKey(fromAccessGroup string) error {
	if fromAccessGroup == s.accessGroup {
		if s.IsValidKey() {
			return nil
		}

		return fmt.Errorf("%w: %s: %w", ErrMigration, s.id, secretstore.ErrItemNotFound)
	}

	value, err := s.store.GetSecret(s.id, Random32BytesType, fromAccessGroup)
	if err != nil {
		if errors.Is(err, secretstore.ErrItemNotFound) && s.IsValidKey() {
			return nil
		}

		return fmt.Errorf("%w: %s: %w", ErrMigration, s.id, err)
	}

	// SaveSecret zeroes value on every path.
	err = s.store.SaveSecret(s.id, Random32BytesType, s.accessGroup, value)
	if err != nil && !errors.Is(err, secretstore.ErrItemAlreadyInStore) {
		return fmt.Errorf("%w: %s: %w", ErrMigration, s.id, err)
	}

	if err = s.store.DeleteSecret(s.id, Random32BytesType, fromAccessGroup); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMigration, s.id, err)
	}

	logger.Infof("migrated key %s from access group %q to %q", s.id, fromAccessGroup, s.accessGroup)

	return nil
}

// WithUnsafeBytes reads the secret and passes it to fn. The buffer is zeroed when fn returns.
func (s *Random32BytesSecret) WithUnsafeBytes(fn func(secret []byte) error) error {
	value, err := s.store.GetSecret(s.id, Random32BytesType, s.accessGroup)
	if err != nil {
		return err
	}

	defer zero(value)

	return fn(value)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
