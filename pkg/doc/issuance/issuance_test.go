/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/crypto/secp256k1"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jws"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/internal/vctestutil"
)

const contractJSON = `{
  "id": "contract-1",
  "display": {"card": {"title": "Employee"}},
  "input": {
    "id": "input-1",
    "credentialIssuer": "https://issuer.example.com/issue",
    "issuer": "did:ion:issuer",
    "attestations": {
      "idTokens": [{"configuration": "https://login.example.com/.well-known/openid-configuration",
        "client_id": "client", "claims": [{"claim": "email", "required": true}]}],
      "selfIssued": {"claims": [{"claim": "name"}]},
      "presentations": [{"credentialType": "EmployeeCredential", "issuers": [{"iss": "did:ion:other"}]}]
    }
  }
}`

func TestContract(t *testing.T) {
	var c issuance.Contract
	require.NoError(t, json.Unmarshal([]byte(contractJSON), &c))

	issuer, err := c.Issuer()
	require.NoError(t, err)
	require.Equal(t, "did:ion:issuer", issuer)
	require.Equal(t, "email", c.Input.Attestations.IDTokens[0].Claims[0].Claim)
	require.Equal(t, "EmployeeCredential", c.Input.Attestations.Presentations[0].CredentialType)

	c.Input.Issuer = ""
	_, err = c.Issuer()
	require.ErrorIs(t, err, issuance.ErrMissingIssuer)

	_, err = (&issuance.Contract{}).Issuer()
	require.ErrorIs(t, err, issuance.ErrMissingIssuer)
}

func TestNewResponseContainer(t *testing.T) {
	var c issuance.Contract
	require.NoError(t, json.Unmarshal([]byte(contractJSON), &c))

	response, err := issuance.NewResponseContainer(&issuance.Request{Contract: c, ContractURI: "https://issuer.example.com/contract"})
	require.NoError(t, err)
	require.Equal(t, "https://issuer.example.com/issue", response.AudienceURL)
	require.Equal(t, "did:ion:issuer", response.AudienceDID)
	require.Equal(t, "https://issuer.example.com/contract", response.ContractURI)
	require.Equal(t, issuance.DefaultExpiryInSeconds, response.ExpiryInSeconds)

	c.Input.CredentialIssuer = ""
	_, err = issuance.NewResponseContainer(&issuance.Request{Contract: c})
	require.Error(t, err)
}

func TestResponseFormatter(t *testing.T) {
	holder := vctestutil.NewIdentifier(t, "")
	issuer := vctestutil.NewIdentifier(t, "")
	vc := vctestutil.IssueCredential(t, issuer, holder.LongFormDID, "EmployeeCredential", "")

	signer := secp256k1.NewSigner()
	formatter := issuance.NewResponseFormatter(signer)

	response := &issuance.ResponseContainer{
		ContractURI:                   "https://issuer.example.com/contract",
		ExpiryInSeconds:               60,
		AudienceURL:                   "https://issuer.example.com/issue",
		AudienceDID:                   "did:ion:issuer",
		RequestedIDTokenMap:           map[string]string{"https://login.example.com": "idtoken"},
		RequestedSelfAttestedClaimMap: map[string]string{"name": "Alice"},
		RequestedVCMap:                map[string]*verifiable.Credential{"EmployeeCredential": vc},
	}

	token, err := formatter.Format(response, holder)
	require.NoError(t, err)

	key, err := verifiable.ResolveSigningKey(signer, holder)
	require.NoError(t, err)

	thumbprint, err := key.PublicJWK.Thumbprint()
	require.NoError(t, err)

	claims := token.Content
	require.Equal(t, thumbprint, claims.PublicKeyThumbprint)
	require.Equal(t, "https://issuer.example.com/issue", claims.Audience)
	require.Equal(t, holder.LongFormDID, claims.DID)
	require.Equal(t, key.PublicJWK, claims.PublicJWK)
	require.Equal(t, "https://issuer.example.com/contract", claims.Contract)
	require.NotEmpty(t, claims.JTI)
	require.Equal(t, claims.IssuedAt+60, claims.Expiration)
	require.Equal(t, "idtoken", claims.Attestations.IDTokens["https://login.example.com"])
	require.Equal(t, "Alice", claims.Attestations.SelfIssued["name"])
	require.Equal(t, key.KeyID, token.Headers.KeyID)

	vp, err := jws.Deserialize[verifiable.JWTPresClaims](claims.Attestations.Presentations["EmployeeCredential"])
	require.NoError(t, err)
	require.Equal(t, "did:ion:issuer", vp.Content.Audience)
	require.Equal(t, []string{vc.Raw}, vp.Content.Presentation.VerifiableCredential)

	ok, err := token.Verify(secp256k1.NewVerifier(), key.PublicJWK)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("unique jti", func(t *testing.T) {
		again, err := formatter.Format(response, holder)
		require.NoError(t, err)
		require.NotEqual(t, claims.JTI, again.Content.JTI)
	})

	t.Run("no attestations", func(t *testing.T) {
		token, err := formatter.Format(&issuance.ResponseContainer{ExpiryInSeconds: 60}, holder)
		require.NoError(t, err)
		require.Nil(t, token.Content.Attestations)
	})

	t.Run("identifier without keys", func(t *testing.T) {
		noKeys := *holder
		noKeys.DIDDocumentKeys = nil

		_, err := formatter.Format(response, &noKeys)
		require.Error(t, err)
	})
}
