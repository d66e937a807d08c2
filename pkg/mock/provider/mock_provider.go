/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"github.com/hyperledger/aries-framework-go/spi/secretlock"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

// Provider mocks the storage and secret lock provider used by the stores.
type Provider struct {
	StorageProviderValue storage.Provider
	SecretLockValue      secretlock.Service
}

// StorageProvider returns the storage provider.
func (p *Provider) StorageProvider() storage.Provider {
	return p.StorageProviderValue
}

// SecretLock returns the secret lock service.
func (p *Provider) SecretLock() secretlock.Service {
	return p.SecretLockValue
}
