/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcsdk

import (
	"io"
	"net/http"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/vcsdk"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/rest"
	"github.com/hyperledger/aries-vcsdk-go/pkg/did/identifier"
	issuanceprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/issuance"
	presentationprotocol "github.com/hyperledger/aries-vcsdk-go/pkg/protocol/presentation"
	vcstore "github.com/hyperledger/aries-vcsdk-go/pkg/store/verifiable"
)

// constants for vcsdk operations.
const (
	OperationID              = "/vcsdk"
	IssuanceRequestPath      = OperationID + "/issuance/request"
	IssuanceResponsePath     = OperationID + "/issuance/response"
	PresentationRequestPath  = OperationID + "/presentation/request"
	PresentationResponsePath = OperationID + "/presentation/response"
	MasterIdentifierPath     = OperationID + "/identifier/master"
)

// provider contains dependencies for the vcsdk command and is typically created by using vcsdk.New().
type provider interface {
	Issuance() *issuanceprotocol.Service
	Presentation() *presentationprotocol.Service
	Credentials() *vcstore.Store
	MasterIdentifier() (*identifier.Identifier, error)
}

type vcsdkCommand interface {
	GetIssuanceRequest(rw io.Writer, req io.Reader) command.Error
	SendIssuanceResponse(rw io.Writer, req io.Reader) command.Error
	GetPresentationRequest(rw io.Writer, req io.Reader) command.Error
	SendPresentationResponse(rw io.Writer, req io.Reader) command.Error
	GetMasterIdentifier(rw io.Writer, req io.Reader) command.Error
}

// Operation contains the issuance and presentation operations provided by controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  vcsdkCommand
}

// New returns new vcsdk operations rest client instance.
func New(p provider, opts ...vcsdk.Option) *Operation {
	o := &Operation{command: vcsdk.New(p, opts...)}
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
		cmdutil.NewHTTPHandler(IssuanceRequestPath, http.MethodPost, o.GetIssuanceRequest),
		cmdutil.NewHTTPHandler(IssuanceResponsePath, http.MethodPost, o.SendIssuanceResponse),
		cmdutil.NewHTTPHandler(PresentationRequestPath, http.MethodPost, o.GetPresentationRequest),
		cmdutil.NewHTTPHandler(PresentationResponsePath, http.MethodPost, o.SendPresentationResponse),
		cmdutil.NewHTTPHandler(MasterIdentifierPath, http.MethodGet, o.GetMasterIdentifier),
	}
}

// GetIssuanceRequest swagger:route POST /vcsdk/issuance/request vcsdk getIssuanceRequestReq
//
// Fetches the contract of an issuer and checks the issuer's linked domain.
//
// Responses:
//    default: genericError
//        200: issuanceRequestRes
func (o *Operation) GetIssuanceRequest(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetIssuanceRequest, rw, req.Body)
}

// SendIssuanceResponse swagger:route POST /vcsdk/issuance/response vcsdk sendIssuanceResponseReq
//
// Answers a contract and returns the issued credential.
//
// Responses:
//    default: genericError
//        200: credentialRes
func (o *Operation) SendIssuanceResponse(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SendIssuanceResponse, rw, req.Body)
}

// GetPresentationRequest swagger:route POST /vcsdk/presentation/request vcsdk getPresentationRequestReq
//
// Fetches a presentation request and verifies the signature of the verifier.
//
// Responses:
//    default: genericError
//        200: presentationRequestRes
func (o *Operation) GetPresentationRequest(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetPresentationRequest, rw, req.Body)
}

// SendPresentationResponse swagger:route POST /vcsdk/presentation/response vcsdk sendPresentationResponseReq
//
// Presents the requested credentials to the verifier.
//
// Responses:
//    default: genericError
func (o *Operation) SendPresentationResponse(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SendPresentationResponse, rw, req.Body)
}

// GetMasterIdentifier swagger:route GET /vcsdk/identifier/master vcsdk getMasterIdentifier
//
// Returns the master identifier of the wallet.
//
// Responses:
//    default: genericError
//        200: identifierRes
func (o *Operation) GetMasterIdentifier(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetMasterIdentifier, rw, req.Body)
}
