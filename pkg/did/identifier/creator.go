/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/tink/go/subtle/random"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/kms"
)

const (
	signingKeyPrefix  = "sign_"
	recoveryKeyID     = "#recover"
	updateKeyID       = "#update"
	keyFragmentLength = 16
)

type keyGenerator interface {
	GenerateKey() (kms.CryptoSecret, error)
}

type publicKeyDeriver interface {
	PublicJWK(secret kms.CryptoSecret, keyID string) (*jwk.ECPublicJwk, error)
}

// Creator mints new identifiers.
type Creator struct {
	keys      keyGenerator
	deriver   publicKeyDeriver
	formatter Formatter
}

// CreatorOption configures a Creator.
type CreatorOption func(c *Creator)

// WithFormatter replaces the ION long-form formatter.
func WithFormatter(f Formatter) CreatorOption {
	return func(c *Creator) {
		c.formatter = f
	}
}

// WithPublicKeyDeriver replaces the secp256k1 public key derivation.
func WithPublicKeyDeriver(d publicKeyDeriver) CreatorOption {
	return func(c *Creator) {
		c.deriver = d
	}
}

// NewCreator returns a Creator generating keys with keys.
func NewCreator(keys keyGenerator, opts ...CreatorOption) *Creator {
	c := &Creator{
		keys:      keys,
		deriver:   secp256k1.NewSigner(),
		formatter: IONFormatter{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Create generates a signing, a recovery and an update key and formats the DID they control.
// A non-empty relyingParty is bound into the DID through the signing key id.
func (c *Creator) Create(alias, relyingParty string) (*Identifier, error) {
	signing, err := c.newKey(signingKeyFragment(relyingParty))
	if err != nil {
		return nil, err
	}

	recovery, err := c.newKey(recoveryKeyID)
	if err != nil {
		return nil, err
	}

	update, err := c.newKey(updateKeyID)
	if err != nil {
		return nil, err
	}

	longForm, err := c.formatter.Format(signing.jwk, recovery.jwk, update.jwk)
	if err != nil {
		return nil, fmt.Errorf("format identifier: %w", err)
	}

	return &Identifier{
		LongFormDID:     longForm,
		Alias:           alias,
		DIDDocumentKeys: []KeyContainer{signing.container},
		RecoveryKey:     recovery.container,
		UpdateKey:       update.container,
		RelyingParty:    relyingParty,
	}, nil
}

type generatedKey struct {
	container KeyContainer
	jwk       *jwk.ECPublicJwk
}

func (c *Creator) newKey(fragment string) (*generatedKey, error) {
	secret, err := c.keys.GenerateKey()
	if err != nil {
		return nil, err
	}

	// the DID document key id is the fragment without its separator
	pub, err := c.deriver.PublicJWK(secret, fragment[1:])
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return &generatedKey{
		container: KeyContainer{
			KeyReference: secret,
			KeyID:        fragment,
			Algorithm:    secp256k1.AlgorithmES256K,
		},
		jwk: pub,
	}, nil
}

func signingKeyFragment(relyingParty string) string {
	if relyingParty == "" {
		return "#" + signingKeyPrefix + base64.RawURLEncoding.EncodeToString(random.GetRandomBytes(12))[:keyFragmentLength]
	}

	sum := sha256.Sum256([]byte(relyingParty))

	return "#" + signingKeyPrefix + base64.RawURLEncoding.EncodeToString(sum[:])[:keyFragmentLength]
}
