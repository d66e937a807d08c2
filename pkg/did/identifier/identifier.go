/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"errors"

	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

// MasterAlias is the alias of the device's master identifier and of the pairwise identifiers derived from it.
const MasterAlias = "master"

var (
	// ErrKeyNotFoundInKeyStore is returned when a key referenced by an identifier is missing from the secret store.
	ErrKeyNotFoundInKeyStore = errors.New("key not found in key store")
	// ErrMigration is returned when one or more identifier keys could not be migrated.
	ErrMigration = errors.New("identifier key migration failed")
	// ErrNoSigningKey is returned for identifiers without DID document keys.
	ErrNoSigningKey = errors.New("identifier has no signing key")
)

// KeyContainer binds a secret handle to its DID document key id.
type KeyContainer struct {
	KeyReference kms.CryptoSecret
	KeyID        string
	Algorithm    string
}

// Identifier is a DID together with the handles of the keys that control it.
// An empty RelyingParty marks the master identifier.
type Identifier struct {
	LongFormDID     string
	Alias           string
	DIDDocumentKeys []KeyContainer
	RecoveryKey     KeyContainer
	UpdateKey       KeyContainer
	RelyingParty    string
}

// IsPairwise reports whether the identifier is scoped to a relying party.
func (i *Identifier) IsPairwise() bool {
	return i.RelyingParty != ""
}

// SigningKey returns the first DID document key.
func (i *Identifier) SigningKey() (KeyContainer, error) {
	if len(i.DIDDocumentKeys) == 0 {
		return KeyContainer{}, ErrNoSigningKey
	}

	return i.DIDDocumentKeys[0], nil
}

// SigningKeyID returns the absolute key id of the signing key, <did>#<fragment>.
func (i *Identifier) SigningKeyID() (string, error) {
	key, err := i.SigningKey()
	if err != nil {
		return "", err
	}

	return i.LongFormDID + key.KeyID, nil
}

// Keys returns every key referenced by the identifier, DID document keys first.
func (i *Identifier) Keys() []KeyContainer {
	keys := make([]KeyContainer, 0, len(i.DIDDocumentKeys)+2) //nolint:gomnd
	keys = append(keys, i.DIDDocumentKeys...)

	return append(keys, i.RecoveryKey, i.UpdateKey)
}
