/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package kms

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
)

var logger = log.New("aries-vcsdk/kms")

// KeyManager creates and looks up secp256k1 keys held by a secret store.
type KeyManager struct {
	store       secretstore.Store
	accessGroup string
}

// Option configures a KeyManager.
type Option func(km *KeyManager)

// WithAccessGroup sets the access group new keys are saved in and existing keys are read from.
func WithAccessGroup(accessGroup string) Option {
	return func(km *KeyManager) {
		km.accessGroup = accessGroup
	}
}

// New creates a KeyManager over store.
func New(store secretstore.Store, opts ...Option) *KeyManager {
	km := &KeyManager{store: store}

	for _, opt := range opts {
		opt(km)
	}

	return km
}

// AccessGroup keys are managed in.
func (km *KeyManager) AccessGroup() string {
	return km.accessGroup
}

// GenerateKey creates a new secp256k1 private key, persists it and returns its handle.
func (km *KeyManager) GenerateKey() (CryptoSecret, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	value := priv.Serialize()

	// value is zeroed by SaveSecret.
	wipeScalar(priv.D)

	id := uuid.New()

	if err = km.store.SaveSecret(id, Random32BytesType, km.accessGroup, value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	logger.Debugf("generated key %s", id)

	return NewRandom32BytesSecret(km.store, id, km.accessGroup), nil
}

// RetrieveKeyIfStored returns the handle of a stored key. A missing key is reported through the boolean.
func (km *KeyManager) RetrieveKeyIfStored(id uuid.UUID) (CryptoSecret, bool) {
	secret := NewRandom32BytesSecret(km.store, id, km.accessGroup)
	if !secret.IsValidKey() {
		return nil, false
	}

	return secret, true
}

// RetrieveKeyFromStorage returns a handle for id without checking the key exists.
func (km *KeyManager) RetrieveKeyFromStorage(id uuid.UUID) CryptoSecret {
	return NewRandom32BytesSecret(km.store, id, km.accessGroup)
}

// DeleteKey removes the key behind secret. Deleting a missing key is not an error.
func (km *KeyManager) DeleteKey(secret CryptoSecret) error {
	err := km.store.DeleteSecret(secret.ID(), Random32BytesType, secret.AccessGroup())
	if err != nil && !errors.Is(err, secretstore.ErrItemNotFound) {
		return fmt.Errorf("delete key %s: %w", secret.ID(), err)
	}

	return nil
}

// wipeScalar overwrites the words backing d before resetting it. SetInt64 alone only shortens the slice.
func wipeScalar(d *big.Int) {
	words := d.Bits()
	for i := range words {
		words[i] = 0
	}

	d.SetInt64(0)
}
