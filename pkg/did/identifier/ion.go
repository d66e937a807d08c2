/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/multiformats/go-multihash"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
)

const (
	// IONMethodPrefix prefixes every ION DID.
	IONMethodPrefix = "did:ion:"
	// VerificationKeyType is the DID document key type of secp256k1 keys.
	VerificationKeyType = "EcdsaSecp256k1VerificationKey2019"

	patchActionReplace = "replace"
)

// ErrFormat is returned when a long-form DID cannot be computed.
var ErrFormat = errors.New("unable to format long-form DID")

// Formatter computes the long-form DID controlled by three keys.
type Formatter interface {
	Format(signingKey, recoveryKey, updateKey *jwk.ECPublicJwk) (string, error)
}

// IONFormatter formats Sidetree ION long-form DIDs:
// did:ion:<unique suffix>:<base64url(canonical create request)>.
type IONFormatter struct{}

type ionPublicKey struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	PublicKeyJwk requiredJWK `json:"publicKeyJwk"`
	Purposes     []string    `json:"purposes"`
}

type requiredJWK struct {
	Crv string `json:"crv"`
	Kty string `json:"kty"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

type ionDocument struct {
	PublicKeys []ionPublicKey `json:"publicKeys"`
	Services   []interface{}  `json:"services"`
}

type ionPatch struct {
	Action   string      `json:"action"`
	Document ionDocument `json:"document"`
}

type ionDelta struct {
	Patches          []ionPatch `json:"patches"`
	UpdateCommitment string     `json:"updateCommitment"`
}

type ionSuffixData struct {
	DeltaHash          string `json:"deltaHash"`
	RecoveryCommitment string `json:"recoveryCommitment"`
}

type ionInitialState struct {
	Delta      ionDelta      `json:"delta"`
	SuffixData ionSuffixData `json:"suffixData"`
}

// Format returns the long-form DID whose document holds signingKey, committing to recoveryKey and updateKey.
func (IONFormatter) Format(signingKey, recoveryKey, updateKey *jwk.ECPublicJwk) (string, error) {
	if signingKey == nil || recoveryKey == nil || updateKey == nil {
		return "", fmt.Errorf("%w: missing key", ErrFormat)
	}

	updateCommitment, err := commitment(updateKey)
	if err != nil {
		return "", err
	}

	recoveryCommitment, err := commitment(recoveryKey)
	if err != nil {
		return "", err
	}

	delta := ionDelta{
		Patches: []ionPatch{{
			Action: patchActionReplace,
			Document: ionDocument{
				PublicKeys: []ionPublicKey{{
					ID:           signingKey.KeyID,
					Type:         VerificationKeyType,
					PublicKeyJwk: required(signingKey),
					Purposes:     []string{"authentication", "assertionMethod"},
				}},
				Services: []interface{}{},
			},
		}},
		UpdateCommitment: updateCommitment,
	}

	deltaHash, err := encodedHash(delta)
	if err != nil {
		return "", err
	}

	state := ionInitialState{
		Delta: delta,
		SuffixData: ionSuffixData{
			DeltaHash:          deltaHash,
			RecoveryCommitment: recoveryCommitment,
		},
	}

	suffix, err := encodedHash(state.SuffixData)
	if err != nil {
		return "", err
	}

	initialState, err := json.Canonicalize(state)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return IONMethodPrefix + suffix + ":" + base64.RawURLEncoding.EncodeToString(initialState), nil
}

func required(key *jwk.ECPublicJwk) requiredJWK {
	return requiredJWK{Crv: key.Curve, Kty: key.KeyType, X: key.X, Y: key.Y}
}

// commitment is the multihash of the SHA-256 digest of the canonical public key.
func commitment(key *jwk.ECPublicJwk) (string, error) {
	b, err := json.Canonicalize(required(key))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	reveal := sha256.Sum256(b)

	mh, err := multihash.Sum(reveal[:], multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return base64.RawURLEncoding.EncodeToString(mh), nil
}

func encodedHash(v interface{}) (string, error) {
	b, err := json.Canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	mh, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return base64.RawURLEncoding.EncodeToString(mh), nil
}
