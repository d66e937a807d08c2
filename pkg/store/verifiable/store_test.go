/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable_test

import (
	"fmt"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	mockstore "github.com/hyperledger/aries-framework-go/component/storageutil/mock/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/internal/vctestutil"
	mockprovider "github.com/hyperledger/aries-vcsdk-go/pkg/mock/provider"
	. "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

func TestNew(t *testing.T) {
	t.Run("test new store", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{StorageProviderValue: mem.NewProvider()})
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("test error from open store", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{
			StorageProviderValue: &mockstore.MockStoreProvider{ErrOpenStoreHandle: fmt.Errorf("failed to open store")},
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open store")
		require.Nil(t, s)
	})

	t.Run("test error from set store config", func(t *testing.T) {
		provider := mockstore.NewMockStoreProvider()
		provider.ErrSetStoreConfig = fmt.Errorf("config error")

		_, err := New(&mockprovider.Provider{StorageProviderValue: provider})
		require.Error(t, err)
		require.Contains(t, err.Error(), "config error")
	})
}

func TestStore(t *testing.T) {
	issuer := vctestutil.NewIdentifier(t, "")
	employee := vctestutil.IssueCredential(t, issuer, "did:example:holder", "EmployeeCredential", "")
	degree := vctestutil.IssueCredential(t, issuer, "did:example:holder", "DegreeCredential", "")

	s, err := New(&mockprovider.Provider{StorageProviderValue: mem.NewProvider()})
	require.NoError(t, err)

	require.NoError(t, s.SaveCredential("employee card", employee))
	require.NoError(t, s.SaveCredential("", degree))

	t.Run("get", func(t *testing.T) {
		vc, err := s.GetCredential(employee.Claims().JTI)
		require.NoError(t, err)
		require.Equal(t, employee.Raw, vc.Raw)

		_, err = s.GetCredential("urn:pic:missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("records", func(t *testing.T) {
		records, err := s.GetCredentialRecords("")
		require.NoError(t, err)
		require.Len(t, records, 2)

		records, err = s.GetCredentialRecords("EmployeeCredential")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "employee card", records[0].Name)
		require.Equal(t, employee.Claims().JTI, records[0].ID)
		require.Equal(t, issuer.LongFormDID, records[0].Issuer)
		require.Equal(t, "did:example:holder", records[0].SubjectID)
		require.Equal(t, []string{"VerifiableCredential", "EmployeeCredential"}, records[0].Type)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.RemoveCredential(degree.Claims().JTI))

		_, err := s.GetCredential(degree.Claims().JTI)
		require.ErrorIs(t, err, ErrNotFound)

		require.ErrorIs(t, s.RemoveCredential(degree.Claims().JTI), ErrNotFound)
	})

	t.Run("credential without id", func(t *testing.T) {
		noID := *employee
		token := *employee.Token
		token.Content.JTI = ""
		noID.Token = &token

		require.ErrorIs(t, s.SaveCredential("", &noID), ErrMissingID)
	})
}

func TestStoreErrors(t *testing.T) {
	issuer := vctestutil.NewIdentifier(t, "")
	vc := vctestutil.IssueCredential(t, issuer, "did:example:holder", "EmployeeCredential", "")

	t.Run("put", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{
			StorageProviderValue: mockstore.NewCustomMockStoreProvider(&mockstore.MockStore{
				Store:  make(map[string]mockstore.DBEntry),
				ErrPut: fmt.Errorf("error put"),
			}),
		})
		require.NoError(t, err)

		err = s.SaveCredential("", vc)
		require.Error(t, err)
		require.Contains(t, err.Error(), "error put")
	})

	t.Run("get", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{
			StorageProviderValue: mockstore.NewCustomMockStoreProvider(&mockstore.MockStore{
				Store:  make(map[string]mockstore.DBEntry),
				ErrGet: fmt.Errorf("error get"),
			}),
		})
		require.NoError(t, err)

		_, err = s.GetCredential(vc.Claims().JTI)
		require.Error(t, err)
		require.Contains(t, err.Error(), "error get")
	})

	t.Run("corrupt record", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{
			StorageProviderValue: mockstore.NewCustomMockStoreProvider(&mockstore.MockStore{
				Store: map[string]mockstore.DBEntry{"urn:pic:1": {Value: []byte("{")}},
			}),
		})
		require.NoError(t, err)

		_, err = s.GetCredential("urn:pic:1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to unmarshal vc record")
	})

	t.Run("query", func(t *testing.T) {
		s, err := New(&mockprovider.Provider{
			StorageProviderValue: mockstore.NewCustomMockStoreProvider(&mockstore.MockStore{
				Store:    make(map[string]mockstore.DBEntry),
				ErrQuery: fmt.Errorf("error query"),
			}),
		})
		require.NoError(t, err)

		_, err = s.GetCredentialRecords("")
		require.Error(t, err)
		require.Contains(t, err.Error(), "error query")
	})
}
