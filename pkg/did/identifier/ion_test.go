/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identifier

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
	jsonutil "github.com/hyperledger/aries-vcsdk-go/pkg/doc/util/json"
)

func TestIONFormatter(t *testing.T) {
	signing := jwk.New([]byte{1}, []byte{2}, "sign_abc")
	recovery := jwk.New([]byte{3}, []byte{4}, "recover")
	update := jwk.New([]byte{5}, []byte{6}, "update")

	longForm, err := IONFormatter{}.Format(signing, recovery, update)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(longForm, IONMethodPrefix))

	parts := strings.Split(strings.TrimPrefix(longForm, IONMethodPrefix), ":")
	require.Len(t, parts, 2)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var state ionInitialState
	require.NoError(t, json.Unmarshal(raw, &state))

	t.Run("suffix is the hash of the suffix data", func(t *testing.T) {
		b, err := jsonutil.Canonicalize(state.SuffixData)
		require.NoError(t, err)

		mh, err := multihash.Sum(b, multihash.SHA2_256, -1)
		require.NoError(t, err)
		require.Equal(t, base64.RawURLEncoding.EncodeToString(mh), parts[0])
	})

	t.Run("delta hash and commitments", func(t *testing.T) {
		deltaHash, err := encodedHash(state.Delta)
		require.NoError(t, err)
		require.Equal(t, deltaHash, state.SuffixData.DeltaHash)

		rc, err := commitment(recovery)
		require.NoError(t, err)
		require.Equal(t, rc, state.SuffixData.RecoveryCommitment)

		uc, err := commitment(update)
		require.NoError(t, err)
		require.Equal(t, uc, state.Delta.UpdateCommitment)
		require.NotEqual(t, rc, uc)
	})

	t.Run("document holds the signing key only", func(t *testing.T) {
		require.Len(t, state.Delta.Patches, 1)

		doc := state.Delta.Patches[0].Document
		require.Len(t, doc.PublicKeys, 1)
		require.Equal(t, "sign_abc", doc.PublicKeys[0].ID)
		require.Equal(t, VerificationKeyType, doc.PublicKeys[0].Type)
		require.Equal(t, signing.X, doc.PublicKeys[0].PublicKeyJwk.X)
		require.Equal(t, signing.Y, doc.PublicKeys[0].PublicKeyJwk.Y)
	})

	t.Run("initial state is canonical", func(t *testing.T) {
		b, err := jsonutil.Canonicalize(state)
		require.NoError(t, err)
		require.Equal(t, string(b), string(raw))
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := IONFormatter{}.Format(signing, recovery, update)
		require.NoError(t, err)
		require.Equal(t, longForm, again)

		other, err := IONFormatter{}.Format(jwk.New([]byte{1}, []byte{2}, "sign_xyz"), recovery, update)
		require.NoError(t, err)
		require.NotEqual(t, longForm, other)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := IONFormatter{}.Format(signing, nil, update)
		require.ErrorIs(t, err, ErrFormat)
	})
}
