/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/internal/logutil"
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

var logger = log.New("aries-vcsdk/command/verifiable")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.Credential)

	// SaveCredentialErrorCode for save vc error.
	SaveCredentialErrorCode

	// GetCredentialErrorCode for get vc error.
	GetCredentialErrorCode

	// GetCredentialsErrorCode for get credential records.
	GetCredentialsErrorCode

	// RemoveCredentialErrorCode for remove vc error.
	RemoveCredentialErrorCode
)

// constants for the Verifiable controller's methods.
const (
	// command name.
	CommandName = "verifiable"

	// command methods.
	SaveCredentialCommandMethod   = "SaveCredential"
	GetCredentialCommandMethod    = "GetCredential"
	GetCredentialsCommandMethod   = "GetCredentials"
	RemoveCredentialCommandMethod = "RemoveCredentialByID"

	// error messages.
	errEmptyCredentialName = "credential name is mandatory"
	errEmptyCredentialID   = "credential id is mandatory"

	// log constants.
	vcID = "vcID"
)

type provider interface {
	Credentials() *vcstore.Store
}

type credentialStore interface {
	SaveCredential(name string, vc *verifiable.Credential) error
	GetCredential(id string) (*verifiable.Credential, error)
	GetCredentialRecords(credentialType string) ([]*vcstore.Record, error)
	RemoveCredential(id string) error
}

// Command contains command operations provided by verifiable credential controller.
type Command struct {
	verifiableStore credentialStore
}

// New returns new verifiable credential controller command instance.
func New(p provider) *Command {
	return &Command{verifiableStore: p.Credentials()}
}

// GetHandlers returns list of all commands supported by this controller command.
func (o *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, SaveCredentialCommandMethod, o.SaveCredential),
		cmdutil.NewCommandHandler(CommandName, GetCredentialCommandMethod, o.GetCredential),
		cmdutil.NewCommandHandler(CommandName, GetCredentialsCommandMethod, o.GetCredentials),
		cmdutil.NewCommandHandler(CommandName, RemoveCredentialCommandMethod, o.RemoveCredential),
	}
}

// SaveCredential saves the verifiable credential to the store.
func (o *Command) SaveCredential(rw io.Writer, req io.Reader) command.Error {
	request := &CredentialExt{}

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, SaveCredentialCommandMethod, "request decode : "+err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.Name == "" {
		logutil.LogDebug(logger, CommandName, SaveCredentialCommandMethod, errEmptyCredentialName)
		return command.NewValidationError(SaveCredentialErrorCode, errors.New(errEmptyCredentialName))
	}

	vc, err := verifiable.ParseCredential(request.VerifiableCredential)
	if err != nil {
		logutil.LogError(logger, CommandName, SaveCredentialCommandMethod, "parse vc : "+err.Error())

		return command.NewValidationError(SaveCredentialErrorCode, fmt.Errorf("parse vc : %w", err))
	}

	err = o.verifiableStore.SaveCredential(request.Name, vc)
	if err != nil {
		logutil.LogError(logger, CommandName, SaveCredentialCommandMethod, "save vc : "+err.Error())

		return command.NewExecuteError(SaveCredentialErrorCode, fmt.Errorf("save vc : %w", err))
	}

	command.WriteNillableResponse(rw, nil, logger)

	logutil.LogDebug(logger, CommandName, SaveCredentialCommandMethod, "success")

	return nil
}

// GetCredential retrieves the verifiable credential from the store.
func (o *Command) GetCredential(rw io.Writer, req io.Reader) command.Error {
	var request IDArg

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, GetCredentialCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.ID == "" {
		logutil.LogDebug(logger, CommandName, GetCredentialCommandMethod, errEmptyCredentialID)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyCredentialID))
	}

	vc, err := o.verifiableStore.GetCredential(request.ID)
	if err != nil {
		logutil.LogError(logger, CommandName, GetCredentialCommandMethod, "get vc : "+err.Error(),
			logutil.CreateKeyValueString(vcID, request.ID))

		return command.NewValidationError(GetCredentialErrorCode, fmt.Errorf("get vc : %w", err))
	}

	command.WriteNillableResponse(rw, &Credential{VerifiableCredential: vc.Raw}, logger)

	logutil.LogDebug(logger, CommandName, GetCredentialCommandMethod, "success",
		logutil.CreateKeyValueString(vcID, request.ID))

	return nil
}

// GetCredentials returns the records of the stored credentials, optionally filtered by type.
func (o *Command) GetCredentials(rw io.Writer, req io.Reader) command.Error {
	var request TypeArg

	if err := json.NewDecoder(req).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		logutil.LogInfo(logger, CommandName, GetCredentialsCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	records, err := o.verifiableStore.GetCredentialRecords(request.Type)
	if err != nil {
		logutil.LogError(logger, CommandName, GetCredentialsCommandMethod, "get credential records : "+err.Error())

		return command.NewExecuteError(GetCredentialsErrorCode, fmt.Errorf("get credential records : %w", err))
	}

	command.WriteNillableResponse(rw, &CredentialRecordResult{Result: records}, logger)

	logutil.LogDebug(logger, CommandName, GetCredentialsCommandMethod, "success")

	return nil
}

// RemoveCredential removes a verifiable credential from the store.
func (o *Command) RemoveCredential(rw io.Writer, req io.Reader) command.Error {
	var request IDArg

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, RemoveCredentialCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.ID == "" {
		logutil.LogDebug(logger, CommandName, RemoveCredentialCommandMethod, errEmptyCredentialID)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyCredentialID))
	}

	err = o.verifiableStore.RemoveCredential(request.ID)
	if err != nil {
		logutil.LogError(logger, CommandName, RemoveCredentialCommandMethod, "remove vc : "+err.Error(),
			logutil.CreateKeyValueString(vcID, request.ID))

		return command.NewExecuteError(RemoveCredentialErrorCode, fmt.Errorf("remove vc : %w", err))
	}

	command.WriteNillableResponse(rw, nil, logger)

	logutil.LogDebug(logger, CommandName, RemoveCredentialCommandMethod, "success",
		logutil.CreateKeyValueString(vcID, request.ID))

	return nil
}
