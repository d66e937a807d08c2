/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/log"
	spi "github.com/hyperledger/aries-framework-go/spi/log"
	"github.com/stretchr/testify/require"
)

type mockServer struct {
	host    string
	handler http.Handler
	err     error
}

func (s *mockServer) ListenAndServe(host string, handler http.Handler, _, _ string) error {
	s.host = host
	s.handler = handler

	return s.err
}

func runStart(t *testing.T, server server, args ...string) error {
	t.Helper()

	startCmd, err := Cmd(server)
	require.NoError(t, err)

	startCmd.SetArgs(args)

	return startCmd.Execute()
}

func TestStartCmdContents(t *testing.T) {
	startCmd, err := Cmd(&mockServer{})
	require.NoError(t, err)

	require.Equal(t, "start", startCmd.Use)
	require.Equal(t, "Start an agent", startCmd.Short)

	for _, name := range []string{
		agentHostFlagName, agentTokenFlagName, databaseTypeFlagName, databaseURLFlagName,
		databaseTimeoutFlagName, agentLogLevelFlagName, agentHTTPResolverFlagName, agentAccessGroupFlagName,
		agentSecretLockFlagName, agentFetchRetriesFlagName, agentTLSCertFileFlagName, agentTLSKeyFileFlagName,
	} {
		require.NotNil(t, startCmd.Flags().Lookup(name), name)
	}
}

func TestStartAgent(t *testing.T) {
	t.Run("mem store with token", func(t *testing.T) {
		server := &mockServer{}

		require.NoError(t, runStart(t, server,
			"--"+agentHostFlagName, "localhost:8080",
			"--"+databaseTypeFlagName, databaseTypeMemOption,
			"--"+agentTokenFlagName, "secret",
			"--"+agentSecretLockFlagName, "passphrase",
			"--"+agentFetchRetriesFlagName, "2",
			"--"+agentHTTPResolverFlagName, "https://resolver.example.com/1.0/identifiers",
			"--"+agentLogLevelFlagName, "DEBUG",
		))
		require.Equal(t, "localhost:8080", server.host)

		rr := httptest.NewRecorder()
		server.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/vcsdk/identifier/master", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		req := httptest.NewRequest(http.MethodGet, "/vcsdk/identifier/master", nil)
		req.Header.Set("Authorization", "Bearer secret")

		rr = httptest.NewRecorder()
		server.handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), `"did":"did:ion:`)

		log.SetLevel("", spi.INFO)
	})

	t.Run("leveldb store", func(t *testing.T) {
		server := &mockServer{}

		require.NoError(t, runStart(t, server,
			"--"+agentHostFlagName, "localhost:8081",
			"--"+databaseTypeFlagName, databaseTypeLevelDBOption,
			"--"+databaseURLFlagName, filepath.Join(t.TempDir(), "db"),
		))
		require.NotNil(t, server.handler)
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv(agentHostEnvKey, "localhost:8082")
		t.Setenv(databaseTypeEnvKey, databaseTypeMemOption)
		t.Setenv(agentAccessGroupEnvKey, "wallet")

		server := &mockServer{}

		require.NoError(t, runStart(t, server))
		require.Equal(t, "localhost:8082", server.host)
	})

	t.Run("server failure", func(t *testing.T) {
		err := runStart(t, &mockServer{err: errors.New("address in use")},
			"--"+agentHostFlagName, "localhost:8083",
			"--"+databaseTypeFlagName, databaseTypeMemOption,
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "address in use")
	})
}

func TestStartAgentErrors(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+databaseTypeFlagName, databaseTypeMemOption)
		require.Error(t, err)
		require.Contains(t, err.Error(), agentHostEnvKey)
	})

	t.Run("empty host", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentHostFlagName, "", "--"+databaseTypeFlagName, databaseTypeMemOption)
		require.ErrorIs(t, err, errMissingHost)
	})

	t.Run("missing database type", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentHostFlagName, "localhost:8080")
		require.Error(t, err)
		require.Contains(t, err.Error(), databaseTypeEnvKey)
	})

	t.Run("unsupported database type", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentHostFlagName, "localhost:8080",
			"--"+databaseTypeFlagName, "couchdb")
		require.Error(t, err)
		require.Contains(t, err.Error(), "key database type not set to a valid type")
	})

	t.Run("invalid database timeout", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentHostFlagName, "localhost:8080",
			"--"+databaseTypeFlagName, databaseTypeMemOption, "--"+databaseTimeoutFlagName, "soon")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse db timeout")
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentLogLevelFlagName, "LOUD")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse log level")
	})

	t.Run("invalid fetch retries", func(t *testing.T) {
		err := runStart(t, &mockServer{}, "--"+agentHostFlagName, "localhost:8080",
			"--"+databaseTypeFlagName, databaseTypeMemOption, "--"+agentFetchRetriesFlagName, "-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse fetch retries")
	})
}
