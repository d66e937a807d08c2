/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storage/leveldb"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller"
	"github.com/hyperledger/aries-vcsdk-go/pkg/framework/vcsdk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/secretlock/hkdf"
)

const (
	// api host flag.
	agentHostFlagName      = "api-host"
	agentHostEnvKey        = "VCSDK_API_HOST"
	agentHostFlagShorthand = "a"
	agentHostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + agentHostEnvKey

	// api token flag.
	agentTokenFlagName      = "api-token"
	agentTokenEnvKey        = "VCSDK_API_TOKEN" // nolint:gosec
	agentTokenFlagShorthand = "t"
	agentTokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentTokenEnvKey

	databaseTypeFlagName      = "database-type"
	databaseTypeEnvKey        = "VCSDK_DATABASE_TYPE"
	databaseTypeFlagShorthand = "q"
	databaseTypeFlagUsage     = "The type of database to use for everything except key storage. " +
		"Supported options: mem, leveldb." +
		" Alternatively, this can be set with the following environment variable: " + databaseTypeEnvKey

	databaseURLFlagName      = "database-url"
	databaseURLEnvKey        = "VCSDK_DATABASE_URL"
	databaseURLFlagShorthand = "v"
	databaseURLFlagUsage     = "The path of the leveldb database. Not needed if using memstore." +
		" Alternatively, this can be set with the following environment variable: " + databaseURLEnvKey

	databaseTimeoutFlagName  = "database-timeout"
	databaseTimeoutEnvKey    = "VCSDK_DATABASE_TIMEOUT"
	databaseTimeoutDefault   = "30"
	databaseTimeoutFlagUsage = "Total time in seconds to wait until the db is available before giving up." +
		" Default: " + databaseTimeoutDefault + " seconds." +
		" Alternatively, this can be set with the following environment variable: " + databaseTimeoutEnvKey

	agentLogLevelFlagName  = "log-level"
	agentLogLevelEnvKey    = "VCSDK_LOG_LEVEL"
	agentLogLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + agentLogLevelEnvKey

	agentHTTPResolverFlagName      = "http-resolver-url"
	agentHTTPResolverEnvKey        = "VCSDK_HTTP_RESOLVER"
	agentHTTPResolverFlagShorthand = "r"
	agentHTTPResolverFlagUsage     = "HTTP binding DID resolver endpoint. Defaults to " + vcsdk.DefaultResolverURL + "." +
		" Alternatively, this can be set with the following environment variable: " + agentHTTPResolverEnvKey

	agentAccessGroupFlagName  = "access-group"
	agentAccessGroupEnvKey    = "VCSDK_ACCESS_GROUP"
	agentAccessGroupFlagUsage = "Secret store partition new keys are written to (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentAccessGroupEnvKey

	agentSecretLockFlagName  = "secret-lock-passphrase"
	agentSecretLockEnvKey    = "VCSDK_SECRET_LOCK_PASSPHRASE" // nolint:gosec
	agentSecretLockFlagUsage = "Passphrase sealing the stored keys. Keys are stored unsealed when not set." +
		" Alternatively, this can be set with the following environment variable: " + agentSecretLockEnvKey

	agentFetchRetriesFlagName  = "fetch-max-retries"
	agentFetchRetriesEnvKey    = "VCSDK_FETCH_MAX_RETRIES"
	agentFetchRetriesFlagUsage = "Retries of a fetch answered with a server error (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentFetchRetriesEnvKey

	agentTLSCertFileFlagName      = "tls-cert-file"
	agentTLSCertFileEnvKey        = "TLS_CERT_FILE"
	agentTLSCertFileFlagShorthand = ""
	agentTLSCertFileFlagUsage     = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSCertFileEnvKey

	agentTLSKeyFileFlagName      = "tls-key-file"
	agentTLSKeyFileEnvKey        = "TLS_KEY_FILE"
	agentTLSKeyFileFlagShorthand = ""
	agentTLSKeyFileFlagUsage     = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSKeyFileEnvKey

	databaseTypeMemOption     = "mem"
	databaseTypeLevelDBOption = "leveldb"

	secretLockKeyURI = "local-lock://vcsdk"
	fetchRetryDelay  = time.Second
)

var (
	errMissingHost = errors.New("host not provided")
	logger         = log.New("aries-vcsdk/agent-rest")
)

type agentParameters struct {
	server                  server
	host, token             string
	tlsCertFile, tlsKeyFile string
	httpResolver            string
	accessGroup             string
	secretLockPassphrase    string
	fetchRetries            string
	dbParam                 *dbParam
}

type dbParam struct {
	dbType  string
	url     string
	timeout uint64
}

// nolint:gochecknoglobals
var supportedStorageProviders = map[string]func(url string) (storage.Provider, error){
	databaseTypeMemOption: func(_ string) (storage.Provider, error) { // nolint:unparam
		return mem.NewProvider(), nil
	},
	databaseTypeLevelDBOption: func(path string) (storage.Provider, error) { // nolint:unparam
		return leveldb.NewProvider(path), nil
	},
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router) // nolint:gosec
}

// Cmd returns the Cobra start command.
func Cmd(server server) (*cobra.Command, error) {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd, nil
}

func createStartCMD(server server) *cobra.Command { //nolint: funlen
	return &cobra.Command{
		Use:   "start",
		Short: "Start an agent",
		Long:  `Start a vcsdk agent controller`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, agentLogLevelFlagName, agentLogLevelEnvKey, true)
			if err != nil {
				return err
			}

			err = setLogLevel(logLevel)
			if err != nil {
				return err
			}

			parameters := &agentParameters{server: server}

			parameters.host, err = getUserSetVar(cmd, agentHostFlagName, agentHostEnvKey, false)
			if err != nil {
				return err
			}

			optional := map[string]struct {
				flag, env string
				value     *string
			}{
				"token":         {agentTokenFlagName, agentTokenEnvKey, &parameters.token},
				"resolver":      {agentHTTPResolverFlagName, agentHTTPResolverEnvKey, &parameters.httpResolver},
				"access group":  {agentAccessGroupFlagName, agentAccessGroupEnvKey, &parameters.accessGroup},
				"secret lock":   {agentSecretLockFlagName, agentSecretLockEnvKey, &parameters.secretLockPassphrase},
				"fetch retries": {agentFetchRetriesFlagName, agentFetchRetriesEnvKey, &parameters.fetchRetries},
				"tls cert":      {agentTLSCertFileFlagName, agentTLSCertFileEnvKey, &parameters.tlsCertFile},
				"tls key":       {agentTLSKeyFileFlagName, agentTLSKeyFileEnvKey, &parameters.tlsKeyFile},
			}

			for _, v := range optional {
				*v.value, err = getUserSetVar(cmd, v.flag, v.env, true)
				if err != nil {
					return err
				}
			}

			parameters.dbParam, err = getDBParam(cmd)
			if err != nil {
				return err
			}

			return startAgent(parameters)
		},
	}
}

func getDBParam(cmd *cobra.Command) (*dbParam, error) {
	dbParam := &dbParam{}

	var err error

	dbParam.dbType, err = getUserSetVar(cmd, databaseTypeFlagName, databaseTypeEnvKey, false)
	if err != nil {
		return nil, err
	}

	dbParam.url, err = getUserSetVar(cmd, databaseURLFlagName, databaseURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbTimeout, err := getUserSetVar(cmd, databaseTimeoutFlagName, databaseTimeoutEnvKey, true)
	if err != nil {
		return nil, err
	}

	if dbTimeout == "" || dbTimeout == "0" {
		dbTimeout = databaseTimeoutDefault
	}

	t, err := strconv.Atoi(dbTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db timeout %s: %w", dbTimeout, err)
	}

	dbParam.timeout = uint64(t)

	return dbParam, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(agentHostFlagName, agentHostFlagShorthand, "", agentHostFlagUsage)
	startCmd.Flags().StringP(agentTokenFlagName, agentTokenFlagShorthand, "", agentTokenFlagUsage)
	startCmd.Flags().StringP(databaseTypeFlagName, databaseTypeFlagShorthand, "", databaseTypeFlagUsage)
	startCmd.Flags().StringP(databaseURLFlagName, databaseURLFlagShorthand, "", databaseURLFlagUsage)
	startCmd.Flags().StringP(databaseTimeoutFlagName, "", "", databaseTimeoutFlagUsage)
	startCmd.Flags().StringP(agentLogLevelFlagName, "", "", agentLogLevelFlagUsage)
	startCmd.Flags().StringP(agentHTTPResolverFlagName, agentHTTPResolverFlagShorthand, "",
		agentHTTPResolverFlagUsage)
	startCmd.Flags().StringP(agentAccessGroupFlagName, "", "", agentAccessGroupFlagUsage)
	startCmd.Flags().StringP(agentSecretLockFlagName, "", "", agentSecretLockFlagUsage)
	startCmd.Flags().StringP(agentFetchRetriesFlagName, "", "", agentFetchRetriesFlagUsage)
	startCmd.Flags().StringP(agentTLSCertFileFlagName, agentTLSCertFileFlagShorthand, "", agentTLSCertFileFlagUsage)
	startCmd.Flags().StringP(agentTLSKeyFileFlagName, agentTLSKeyFileFlagShorthand, "", agentTLSKeyFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

func startAgent(parameters *agentParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	sdk, err := createSDK(parameters)
	if err != nil {
		return err
	}

	router := mux.NewRouter()

	if parameters.token != "" {
		router.Use(authorizationMiddleware(parameters.token))
	}

	for _, handler := range controller.GetRESTHandlers(sdk) {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	logger.Infof("Starting vcsdk agent rest on host [%s]", parameters.host)

	handler := cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)

	err = parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		return fmt.Errorf("failed to start vcsdk agent rest on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}

func createSDK(parameters *agentParameters) (*vcsdk.SDK, error) {
	storePro, err := createStoreProvider(parameters)
	if err != nil {
		return nil, err
	}

	opts := []vcsdk.Option{
		vcsdk.WithStoreProvider(storePro),
		vcsdk.WithAccessGroup(parameters.accessGroup),
	}

	if parameters.httpResolver != "" {
		opts = append(opts, vcsdk.WithResolverURL(parameters.httpResolver))
	}

	if parameters.secretLockPassphrase != "" {
		lock, lockErr := hkdf.NewLock(parameters.secretLockPassphrase, sha256.New, nil)
		if lockErr != nil {
			return nil, fmt.Errorf("failed to create secret lock: %w", lockErr)
		}

		opts = append(opts, vcsdk.WithSecretLock(lock, secretLockKeyURI))
	}

	if parameters.fetchRetries != "" {
		retries, parseErr := strconv.ParseUint(parameters.fetchRetries, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse fetch retries %s: %w", parameters.fetchRetries, parseErr)
		}

		opts = append(opts, vcsdk.WithFetchRetry(retries, fetchRetryDelay))
	}

	sdk, err := vcsdk.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start vcsdk agent rest on port [%s], failed to initialize sdk : %w",
			parameters.host, err)
	}

	return sdk, nil
}

func createStoreProvider(parameters *agentParameters) (storage.Provider, error) {
	provider, supported := supportedStorageProviders[parameters.dbParam.dbType]
	if !supported {
		return nil, fmt.Errorf("key database type not set to a valid type." +
			" run start --help to see the available options")
	}

	var store storage.Provider

	err := backoff.RetryNotify(
		func() error {
			var openErr error
			store, openErr = provider(parameters.dbParam.url)

			return openErr
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), parameters.dbParam.timeout),
		func(retryErr error, t time.Duration) {
			logger.Warnf(
				"failed to connect to storage, will sleep for %s before trying again : %s\n",
				t, retryErr)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage at %s : %w", parameters.dbParam.url, err)
	}

	return store, nil
}
