/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package kms

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrKeyGeneration is returned when a new key could not be created or persisted.
	ErrKeyGeneration = errors.New("key generation failed")
	// ErrMigration is returned when a key could not be moved to its current access group.
	ErrMigration = errors.New("key migration failed")
)

// CryptoSecret is an opaque handle to key material held by the secret store.
type CryptoSecret interface {
	// ID of the stored secret.
	ID() uuid.UUID
	// AccessGroup the secret is expected to live in.
	AccessGroup() string
	// IsValidKey reports whether the secret store still holds the secret.
	IsValidKey() bool
	// MigrateKey moves the secret from fromAccessGroup into AccessGroup().
	MigrateKey(fromAccessGroup string) error
}

// UnsafeSecret is the capability used by signing primitives to materialize key bytes.
// The buffer passed to fn is zeroed as soon as fn returns.
type UnsafeSecret interface {
	CryptoSecret
	WithUnsafeBytes(fn func(secret []byte) error) error
}
