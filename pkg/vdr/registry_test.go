/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"github.com/hyperledger/aries-framework-go/component/models/did"
	vdrapi "github.com/hyperledger/aries-framework-go/component/vdr/api"
	vdrspi "github.com/hyperledger/aries-framework-go/spi/vdr"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
)

const testDID = "did:ion:EiA123"

type mockReader struct {
	calls int
	doc   *did.DocResolution
	err   error
}

func (m *mockReader) Read(string, ...vdrspi.DIDMethodOption) (*did.DocResolution, error) {
	m.calls++

	return m.doc, m.err
}

func testKey(t *testing.T) *jwk.ECPublicJwk {
	t.Helper()

	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)

	key, err := jwk.FromECDSA(priv.PubKey().ToECDSA(), "sign_key")
	require.NoError(t, err)

	return key
}

func testDocument(key *jwk.ECPublicJwk) string {
	return fmt.Sprintf(`{
  "@context": ["https://www.w3.org/ns/did/v1"],
  "id": %[1]q,
  "verificationMethod": [{
    "id": "%[1]s#sign_key",
    "type": "JsonWebKey2020",
    "controller": %[1]q,
    "publicKeyJwk": {"kty": "EC", "crv": "secp256k1", "x": %[2]q, "y": %[3]q}
  }],
  "service": [{
    "id": "%[1]s#linkeddomains",
    "type": "LinkedDomains",
    "serviceEndpoint": "https://issuer.example.com"
  }]
}`, testDID, key.X, key.Y)
}

func TestGetDidMethod(t *testing.T) {
	method, err := GetDidMethod("did:ion:abc:def")
	require.NoError(t, err)
	require.Equal(t, "ion", method)

	for _, invalid := range []string{"", "did:ion", "notadid:ion:abc"} {
		_, err = GetDidMethod(invalid)
		require.ErrorIs(t, err, ErrInvalidDID)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("cached", func(t *testing.T) {
		reader := &mockReader{doc: &did.DocResolution{DIDDocument: &did.Doc{ID: testDID}}}
		r := New(reader)

		for i := 0; i < 3; i++ {
			res, err := r.Resolve(testDID)
			require.NoError(t, err)
			require.Equal(t, testDID, res.DIDDocument.ID)
		}

		require.Equal(t, 1, reader.calls)
	})

	t.Run("cache disabled", func(t *testing.T) {
		reader := &mockReader{doc: &did.DocResolution{DIDDocument: &did.Doc{ID: testDID}}}
		r := New(reader, WithCache(0, time.Minute))

		_, err := r.Resolve(testDID)
		require.NoError(t, err)
		_, err = r.Resolve(testDID)
		require.NoError(t, err)

		require.Equal(t, 2, reader.calls)
	})

	t.Run("invalid DID is not read", func(t *testing.T) {
		reader := &mockReader{}

		_, err := New(reader).Resolve("invalid")
		require.ErrorIs(t, err, ErrInvalidDID)
		require.Zero(t, reader.calls)
	})

	t.Run("read error", func(t *testing.T) {
		_, err := New(&mockReader{err: errors.New("resolver down")}).Resolve(testDID)
		require.Error(t, err)
		require.Contains(t, err.Error(), "resolver down")
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := New(&mockReader{doc: &did.DocResolution{}}).Resolve(testDID)
		require.Error(t, err)
		require.Contains(t, err.Error(), "empty document")
	})
}

func TestRegistry_Discover(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1.0/identifiers/"+testDID {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.Header().Set("Content-type", "application/did+ld+json")
		_, err := w.Write([]byte(testDocument(key)))
		require.NoError(t, err)
	}))
	defer server.Close()

	r, err := NewHTTPRegistry(server.URL+"/1.0/identifiers", server.Client())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		doc, err := r.Discover(context.Background(), testDID)
		require.NoError(t, err)
		require.Equal(t, testDID, doc.ID)
		require.Len(t, doc.VerificationMethods, 1)
		require.Equal(t, key.X, doc.VerificationMethods[0].JWK.X)
		require.Equal(t, key.Y, doc.VerificationMethods[0].JWK.Y)
		require.Equal(t, "sign_key", doc.VerificationMethods[0].JWK.KeyID)
		require.Equal(t, []string{"https://issuer.example.com"}, doc.LinkedDomains)

		found, ok := doc.FindKey("#sign_key")
		require.True(t, ok)
		require.Equal(t, key.X, found.JWK.X)

		_, ok = doc.FindKey("#other")
		require.False(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.Discover(context.Background(), "did:ion:missing")
		require.ErrorIs(t, err, vdrapi.ErrNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Discover(ctx, testDID)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewDocument(t *testing.T) {
	_, err := NewDocument(nil)
	require.Error(t, err)

	doc, err := NewDocument(&did.Doc{
		ID: testDID,
		VerificationMethod: []did.VerificationMethod{{
			ID:         testDID + "#ed",
			Type:       "Ed25519VerificationKey2018",
			Controller: testDID,
			Value:      []byte{1, 2, 3},
		}},
	})
	require.NoError(t, err)
	require.Empty(t, doc.VerificationMethods)
	require.Empty(t, doc.LinkedDomains)
}

func TestLinkedDomains(t *testing.T) {
	raw := []byte(`{
  "id": "did:example:123",
  "service": [
    {"id": "#a", "type": "LinkedDomains", "serviceEndpoint": "https://a.example.com"},
    {"id": "#b", "type": ["LinkedDomains"], "serviceEndpoint": ["https://b.example.com", "https://c.example.com"]},
    {"id": "#c", "type": "LinkedDomains", "serviceEndpoint": {"origins": ["https://d.example.com"]}},
    {"id": "#d", "type": "DIDCommMessaging", "serviceEndpoint": "https://agent.example.com"}
  ]
}`)

	domains, err := LinkedDomains(raw)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
		"https://d.example.com",
	}, domains)

	domains, err = LinkedDomains([]byte(`{"id": "did:example:123"}`))
	require.NoError(t, err)
	require.Empty(t, domains)

	_, err = LinkedDomains([]byte("{"))
	require.Error(t, err)
}
