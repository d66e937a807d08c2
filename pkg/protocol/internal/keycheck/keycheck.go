/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keycheck verifies an identifier's keys are usable before a response is signed with them.
package keycheck

import (
	"errors"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
)

var logger = log.New("aries-vcsdk/protocol/keycheck")

// IdentifierService is the part of the identifier service needed to check and repair keys.
type IdentifierService interface {
	AreKeysValid(id *identifier.Identifier) error
	MigrateKeys(fromAccessGroup string) error
	RefreshIdentifiers() error
}

// Check returns nil when every key of id is held by the secret store. When a key is missing the keys of all
// identifiers are migrated from the default access group and, should that fail, the identifiers are
// refreshed. The missing-key error is returned in both cases so the caller can retry with a fresh identifier.
func Check(identifiers IdentifierService, id *identifier.Identifier) error {
	err := identifiers.AreKeysValid(id)
	if err == nil {
		return nil
	}

	if !errors.Is(err, identifier.ErrKeyNotFoundInKeyStore) {
		return err
	}

	errMigrate := identifiers.MigrateKeys("")
	if errMigrate == nil {
		logger.Infof("keys of %s migrated after a missing key", id.LongFormDID)

		return err
	}

	logger.Warnf("key migration failed, refreshing identifiers: %s", errMigrate)

	if errRefresh := identifiers.RefreshIdentifiers(); errRefresh != nil {
		logger.Errorf("refresh identifiers: %s", errRefresh)
	}

	return err
}
