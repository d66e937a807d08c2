/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vctestutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
	mockprovider "github.com/hyperledger/aries-vcsdk-go/pkg/mock/provider"
	"github.com/hyperledger/aries-vcsdk-go/pkg/secretstore"
	identifierstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/identifier"
)

// Stack is an identifier service with its key manager, backed by an in-memory provider.
type Stack struct {
	Provider    storage.Provider
	KeyManager  *kms.KeyManager
	Identifiers *identifier.Service
}

// NewStack returns an identifier stack over a fresh in-memory provider.
func NewStack(t *testing.T) *Stack {
	t.Helper()

	return NewStackWithProvider(t, mem.NewProvider(), "")
}

// NewStackWithProvider returns an identifier stack over provider using accessGroup.
func NewStackWithProvider(t *testing.T, provider storage.Provider, accessGroup string) *Stack {
	t.Helper()

	secrets, err := secretstore.New(provider)
	require.NoError(t, err)

	km := kms.New(secrets, kms.WithAccessGroup(accessGroup))

	store, err := identifierstore.New(&mockprovider.Provider{StorageProviderValue: provider}, km)
	require.NoError(t, err)

	return &Stack{
		Provider:    provider,
		KeyManager:  km,
		Identifiers: identifier.NewService(store, identifier.NewCreator(km), km),
	}
}

// NewIdentifier creates an identifier that is not persisted.
func NewIdentifier(t *testing.T, relyingParty string) *identifier.Identifier {
	t.Helper()

	id, err := identifier.NewCreator(NewStack(t).KeyManager).Create(identifier.MasterAlias, relyingParty)
	require.NoError(t, err)

	return id
}

// IssueCredential returns a credential of credentialType issued by issuer to subject. A non-empty
// exchangeService is set as the credential's exchange endpoint.
func IssueCredential(t *testing.T, issuer *identifier.Identifier, subject, credentialType,
	exchangeService string) *verifiable.Credential {
	t.Helper()

	signer := secp256k1.NewSigner()

	key, err := verifiable.ResolveSigningKey(signer, issuer)
	require.NoError(t, err)

	iat, exp := verifiable.TimeConstraints(time.Now(), 3600)

	descriptor := &verifiable.CredentialDescriptor{
		Context: []string{verifiable.ContextURI},
		Type:    []string{"VerifiableCredential", credentialType},
		CredentialSubject: map[string]interface{}{
			"givenName": "Alice",
		},
	}

	if exchangeService != "" {
		descriptor.ExchangeService = &verifiable.TypedID{ID: exchangeService, Type: "PairwiseExchangeService"}
	}

	token, err := verifiable.SignClaims(signer, key, verifiable.JWTCredClaims{
		JTI:        "urn:pic:" + uuid.NewString(),
		Issuer:     issuer.LongFormDID,
		Subject:    subject,
		IssuedAt:   iat,
		Expiration: exp,
		Credential: descriptor,
	})
	require.NoError(t, err)

	compact, err := token.Serialize()
	require.NoError(t, err)

	vc, err := verifiable.ParseCredential(compact)
	require.NoError(t, err)

	return vc
}
