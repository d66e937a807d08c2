/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keycheck

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
)

type mockIdentifiers struct {
	validErr     error
	migrateErr   error
	refreshErr   error
	migrations   int
	refreshes    int
	migratedFrom []string
}

func (m *mockIdentifiers) AreKeysValid(*identifier.Identifier) error {
	return m.validErr
}

func (m *mockIdentifiers) MigrateKeys(from string) error {
	m.migrations++
	m.migratedFrom = append(m.migratedFrom, from)

	return m.migrateErr
}

func (m *mockIdentifiers) RefreshIdentifiers() error {
	m.refreshes++

	return m.refreshErr
}

func TestCheck(t *testing.T) {
	id := &identifier.Identifier{LongFormDID: "did:ion:test"}
	missing := fmt.Errorf("%w: did:ion:test#sign", identifier.ErrKeyNotFoundInKeyStore)

	t.Run("valid keys", func(t *testing.T) {
		m := &mockIdentifiers{}

		require.NoError(t, Check(m, id))
		require.Zero(t, m.migrations)
		require.Zero(t, m.refreshes)
	})

	t.Run("missing key is migrated", func(t *testing.T) {
		m := &mockIdentifiers{validErr: missing}

		err := Check(m, id)
		require.ErrorIs(t, err, identifier.ErrKeyNotFoundInKeyStore)
		require.Equal(t, 1, m.migrations)
		require.Equal(t, []string{""}, m.migratedFrom)
		require.Zero(t, m.refreshes)
	})

	t.Run("failed migration refreshes identifiers", func(t *testing.T) {
		m := &mockIdentifiers{validErr: missing, migrateErr: identifier.ErrMigration}

		err := Check(m, id)
		require.ErrorIs(t, err, identifier.ErrKeyNotFoundInKeyStore)
		require.NotErrorIs(t, err, identifier.ErrMigration)
		require.Equal(t, 1, m.migrations)
		require.Equal(t, 1, m.refreshes)
	})

	t.Run("failed refresh keeps the missing key error", func(t *testing.T) {
		m := &mockIdentifiers{
			validErr:   missing,
			migrateErr: identifier.ErrMigration,
			refreshErr: errors.New("refresh failed"),
		}

		err := Check(m, id)
		require.ErrorIs(t, err, identifier.ErrKeyNotFoundInKeyStore)
		require.Equal(t, 1, m.refreshes)
	})

	t.Run("other errors are returned unchanged", func(t *testing.T) {
		other := errors.New("storage unavailable")
		m := &mockIdentifiers{validErr: other}

		require.ErrorIs(t, Check(m, id), other)
		require.Zero(t, m.migrations)
		require.Zero(t, m.refreshes)
	})
}
