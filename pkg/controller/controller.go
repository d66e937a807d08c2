/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"time"

	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/command"
	vcsdkcmd "github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/vcsdk"
	verifiablecmd "github.com/hyperledger/aries-vcsdk-go/pkg/controller/command/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/controller/rest"
	vcsdkrest "github.com/hyperledger/aries-vcsdk-go/pkg/controller/rest/vcsdk"
	verifiablerest "github.com/hyperledger/aries-vcsdk-go/pkg/controller/rest/verifiable"
	"github.com/hyperledger/aries-vcsdk-go/pkg/framework/vcsdk"
)

type allOpts struct {
	timeout time.Duration
}

// Opt represents a controller option.
type Opt func(opts *allOpts)

// WithTimeout bounds the network round trips of a single controller call.
func WithTimeout(timeout time.Duration) Opt {
	return func(opts *allOpts) {
		opts.timeout = timeout
	}
}

func (o *allOpts) commandOptions() []vcsdkcmd.Option {
	if o.timeout == 0 {
		return nil
	}

	return []vcsdkcmd.Option{vcsdkcmd.WithTimeout(o.timeout)}
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(sdk *vcsdk.SDK, opts ...Opt) []rest.Handler {
	restAPIOpts := &allOpts{}
	// Apply options
	for _, opt := range opts {
		opt(restAPIOpts)
	}

	vcsdkOp := vcsdkrest.New(sdk, restAPIOpts.commandOptions()...)
	verifiableOp := verifiablerest.New(sdk)

	var allHandlers []rest.Handler
	allHandlers = append(allHandlers, vcsdkOp.GetRESTHandlers()...)
	allHandlers = append(allHandlers, verifiableOp.GetRESTHandlers()...)

	return allHandlers
}

// GetCommandHandlers returns all command handlers provided by controller.
func GetCommandHandlers(sdk *vcsdk.SDK, opts ...Opt) []command.Handler {
	cmdOpts := &allOpts{}
	// Apply options
	for _, opt := range opts {
		opt(cmdOpts)
	}

	vcsdkCmd := vcsdkcmd.New(sdk, cmdOpts.commandOptions()...)
	verifiableCmd := verifiablecmd.New(sdk)

	var allHandlers []command.Handler
	allHandlers = append(allHandlers, vcsdkCmd.GetHandlers()...)
	allHandlers = append(allHandlers, verifiableCmd.GetHandlers()...)

	return allHandlers
}
