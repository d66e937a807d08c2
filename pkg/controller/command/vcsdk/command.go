/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/issuance"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/presentation"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/internal/logutil"
	issuanceprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/issuance"
	presentationprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/presentation"
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

var logger = log.New("aries-vcsdk/command/vcsdk")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.Common)
)

const (
	// GetIssuanceRequestErrorCode for failures fetching a contract.
	GetIssuanceRequestErrorCode = command.Code(iota + command.Issuance)
	// SendIssuanceResponseErrorCode for failures answering a contract.
	SendIssuanceResponseErrorCode
	// SaveCredentialErrorCode for failures saving the issued credential.
	SaveCredentialErrorCode
)

const (
	// GetPresentationRequestErrorCode for failures fetching a presentation request.
	GetPresentationRequestErrorCode = command.Code(iota + command.Presentation)
	// SendPresentationResponseErrorCode for failures answering a presentation request.
	SendPresentationResponseErrorCode
)

// GetMasterIdentifierErrorCode for failures loading the master identifier.
const GetMasterIdentifierErrorCode = command.Code(command.Identifier)

// constants for the vcsdk controller's methods.
const (
	// command name.
	CommandName = "vcsdk"

	// command methods.
	GetIssuanceRequestCommandMethod       = "GetIssuanceRequest"
	SendIssuanceResponseCommandMethod     = "SendIssuanceResponse"
	GetPresentationRequestCommandMethod   = "GetPresentationRequest"
	SendPresentationResponseCommandMethod = "SendPresentationResponse"
	GetMasterIdentifierCommandMethod      = "GetMasterIdentifier"

	// error messages.
	errEmptyURL      = "url is mandatory"
	errEmptyURI      = "uri is mandatory"
	errEmptyResponse = "response is mandatory"

	// log constants.
	urlString = "url"

	defaultTimeout = time.Minute
)

// provider contains dependencies for the vcsdk controller command operations
// and is typically created by using vcsdk.New().
type provider interface {
	Issuance() *issuanceprotocol.Service
	Presentation() *presentationprotocol.Service
	Credentials() *vcstore.Store
	MasterIdentifier() (*identifier.Identifier, error)
}

type issuanceService interface {
	GetRequest(ctx context.Context, url string) (*issuance.Request, error)
	Send(ctx context.Context, response *issuance.ResponseContainer, isPairwise bool) (*verifiable.Credential, error)
}

type presentationService interface {
	GetRequest(ctx context.Context, uri string) (*presentation.Request, error)
	Send(ctx context.Context, response *presentation.ResponseContainer, isPairwise bool) error
}

type credentialSaver interface {
	SaveCredential(name string, vc *verifiable.Credential) error
}

// Option configures the command.
type Option func(c *Command)

// WithTimeout bounds the network round trips of a single command.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Command) {
		c.timeout = timeout
	}
}

// Command contains the issuance, presentation and identifier operations of the vcsdk controller.
type Command struct {
	issuance         issuanceService
	presentation     presentationService
	credentials      credentialSaver
	masterIdentifier func() (*identifier.Identifier, error)
	timeout          time.Duration
}

// New returns new vcsdk controller command instance.
func New(p provider, opts ...Option) *Command {
	c := &Command{
		issuance:         p.Issuance(),
		presentation:     p.Presentation(),
		credentials:      p.Credentials(),
		masterIdentifier: p.MasterIdentifier,
		timeout:          defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, GetIssuanceRequestCommandMethod, c.GetIssuanceRequest),
		cmdutil.NewCommandHandler(CommandName, SendIssuanceResponseCommandMethod, c.SendIssuanceResponse),
		cmdutil.NewCommandHandler(CommandName, GetPresentationRequestCommandMethod, c.GetPresentationRequest),
		cmdutil.NewCommandHandler(CommandName, SendPresentationResponseCommandMethod, c.SendPresentationResponse),
		cmdutil.NewCommandHandler(CommandName, GetMasterIdentifierCommandMethod, c.GetMasterIdentifier),
	}
}

// GetIssuanceRequest fetches and validates the contract of an issuer.
func (c *Command) GetIssuanceRequest(rw io.Writer, req io.Reader) command.Error {
	var request GetIssuanceRequestArgs

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, GetIssuanceRequestCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.URL == "" {
		logutil.LogDebug(logger, CommandName, GetIssuanceRequestCommandMethod, errEmptyURL)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyURL))
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result, err := c.issuance.GetRequest(ctx, request.URL)
	if err != nil {
		logutil.LogError(logger, CommandName, GetIssuanceRequestCommandMethod, "get request: "+err.Error(),
			logutil.CreateKeyValueString(urlString, request.URL))

		return command.NewExecuteError(GetIssuanceRequestErrorCode, fmt.Errorf("get issuance request: %w", err))
	}

	command.WriteNillableResponse(rw, &IssuanceRequestResult{Request: result}, logger)

	logutil.LogDebug(logger, CommandName, GetIssuanceRequestCommandMethod, "success",
		logutil.CreateKeyValueString(urlString, request.URL))

	return nil
}

// SendIssuanceResponse sends a response to an issuer and returns the issued credential, saving it
// when a name is given.
func (c *Command) SendIssuanceResponse(rw io.Writer, req io.Reader) command.Error {
	var request SendIssuanceResponseArgs

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, SendIssuanceResponseCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.Response == nil {
		logutil.LogDebug(logger, CommandName, SendIssuanceResponseCommandMethod, errEmptyResponse)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyResponse))
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	vc, err := c.issuance.Send(ctx, request.Response, request.Pairwise)
	if err != nil {
		logutil.LogError(logger, CommandName, SendIssuanceResponseCommandMethod, "send response: "+err.Error(),
			logutil.CreateKeyValueString(urlString, request.Response.AudienceURL))

		return command.NewExecuteError(SendIssuanceResponseErrorCode, fmt.Errorf("send issuance response: %w", err))
	}

	if request.Name != "" {
		if err = c.credentials.SaveCredential(request.Name, vc); err != nil {
			logutil.LogError(logger, CommandName, SendIssuanceResponseCommandMethod, "save vc: "+err.Error())

			return command.NewExecuteError(SaveCredentialErrorCode, fmt.Errorf("save vc: %w", err))
		}
	}

	command.WriteNillableResponse(rw, &CredentialResult{Credential: vc}, logger)

	logutil.LogDebug(logger, CommandName, SendIssuanceResponseCommandMethod, "success",
		logutil.CreateKeyValueString(urlString, request.Response.AudienceURL))

	return nil
}

// GetPresentationRequest fetches a presentation request and verifies its signature.
func (c *Command) GetPresentationRequest(rw io.Writer, req io.Reader) command.Error {
	var request GetPresentationRequestArgs

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, GetPresentationRequestCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.URI == "" {
		logutil.LogDebug(logger, CommandName, GetPresentationRequestCommandMethod, errEmptyURI)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyURI))
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result, err := c.presentation.GetRequest(ctx, request.URI)
	if err != nil {
		logutil.LogError(logger, CommandName, GetPresentationRequestCommandMethod, "get request: "+err.Error(),
			logutil.CreateKeyValueString(urlString, request.URI))

		if isMalformedURI(err) {
			return command.NewValidationError(GetPresentationRequestErrorCode, err)
		}

		return command.NewExecuteError(GetPresentationRequestErrorCode, fmt.Errorf("get presentation request: %w", err))
	}

	command.WriteNillableResponse(rw, &PresentationRequestResult{Request: result}, logger)

	logutil.LogDebug(logger, CommandName, GetPresentationRequestCommandMethod, "success",
		logutil.CreateKeyValueString(urlString, request.URI))

	return nil
}

// SendPresentationResponse presents the requested credentials to a verifier.
func (c *Command) SendPresentationResponse(rw io.Writer, req io.Reader) command.Error {
	var request SendPresentationResponseArgs

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, SendPresentationResponseCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.Response == nil {
		logutil.LogDebug(logger, CommandName, SendPresentationResponseCommandMethod, errEmptyResponse)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyResponse))
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err = c.presentation.Send(ctx, request.Response, request.Pairwise)
	if err != nil {
		logutil.LogError(logger, CommandName, SendPresentationResponseCommandMethod, "send response: "+err.Error(),
			logutil.CreateKeyValueString(urlString, request.Response.AudienceURL))

		return command.NewExecuteError(SendPresentationResponseErrorCode,
			fmt.Errorf("send presentation response: %w", err))
	}

	command.WriteNillableResponse(rw, nil, logger)

	logutil.LogDebug(logger, CommandName, SendPresentationResponseCommandMethod, "success",
		logutil.CreateKeyValueString(urlString, request.Response.AudienceURL))

	return nil
}

// GetMasterIdentifier returns the DID and key ids of the master identifier.
func (c *Command) GetMasterIdentifier(rw io.Writer, _ io.Reader) command.Error {
	id, err := c.masterIdentifier()
	if err != nil {
		logutil.LogError(logger, CommandName, GetMasterIdentifierCommandMethod, "fetch identifier: "+err.Error())

		return command.NewExecuteError(GetMasterIdentifierErrorCode, fmt.Errorf("fetch master identifier: %w", err))
	}

	result := &IdentifierResult{DID: id.LongFormDID, Alias: id.Alias, RelyingParty: id.RelyingParty}

	for _, key := range id.DIDDocumentKeys {
		result.KeyIDs = append(result.KeyIDs, key.KeyID)
	}

	command.WriteNillableResponse(rw, result, logger)

	logutil.LogDebug(logger, CommandName, GetMasterIdentifierCommandMethod, "success")

	return nil
}

func isMalformedURI(err error) bool {
	for _, target := range []error{
		presentationprotocol.ErrInputStringNotURI,
		presentationprotocol.ErrNoQueryParametersOnURI,
		presentationprotocol.ErrNoRequestURIQueryParameter,
		presentationprotocol.ErrNoValueForRequestURIQueryParameter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
