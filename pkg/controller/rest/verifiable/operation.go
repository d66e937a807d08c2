/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/rest"
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

const (
	verifiableOperationID    = "/verifiable"
	verifiableCredentialPath = verifiableOperationID + "/credential"
	saveCredentialPath       = verifiableCredentialPath
	getCredentialPath        = verifiableCredentialPath + "/{id}"
	removeCredentialPath     = verifiableCredentialPath + "/remove/{id}"
	getCredentialsPath       = verifiableOperationID + "/credentials"
)

type provider interface {
	Credentials() *vcstore.Store
}

// Operation contains the credential store operations provided by controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  *verifiable.Command
}

// New returns new credential store operations rest client instance.
func New(p provider) *Operation {
	o := &Operation{command: verifiable.New(p)}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

// registerHandler register handlers to be exposed from this protocol service as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(saveCredentialPath, http.MethodPost, o.SaveCredential),
		cmdutil.NewHTTPHandler(getCredentialPath, http.MethodGet, o.GetCredential),
		cmdutil.NewHTTPHandler(getCredentialsPath, http.MethodGet, o.GetCredentials),
		cmdutil.NewHTTPHandler(removeCredentialPath, http.MethodPost, o.RemoveCredential),
	}
}

// SaveCredential swagger:route POST /verifiable/credential verifiable saveCredentialReq
//
// Saves the verifiable credential.
//
// Responses:
//    default: genericError
func (o *Operation) SaveCredential(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SaveCredential, rw, req.Body)
}

// GetCredential swagger:route GET /verifiable/credential/{id} verifiable getCredentialReq
//
// Retrieves the verifiable credential.
//
// Responses:
//    default: genericError
//        200: credentialRes
func (o *Operation) GetCredential(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetCredential, rw, bytes.NewBufferString(fmt.Sprintf(`{"id":%q}`, mux.Vars(req)["id"])))
}

// GetCredentials swagger:route GET /verifiable/credentials verifiable getCredentialsReq
//
// Retrieves the credential records, optionally filtered with the type query parameter.
//
// Responses:
//    default: genericError
//        200: credentialRecordResult
func (o *Operation) GetCredentials(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetCredentials, rw,
		bytes.NewBufferString(fmt.Sprintf(`{"type":%q}`, req.URL.Query().Get("type"))))
}

// RemoveCredential swagger:route POST /verifiable/credential/remove/{id} verifiable removeCredentialReq
//
// Removes the verifiable credential.
//
// Responses:
//    default: genericError
func (o *Operation) RemoveCredential(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.RemoveCredential, rw, bytes.NewBufferString(fmt.Sprintf(`{"id":%q}`, mux.Vars(req)["id"])))
}
