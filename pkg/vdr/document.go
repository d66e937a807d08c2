/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/models/did"
	"github.com/mitchellh/mapstructure"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/jose/jwk"
)

// LinkedDomainsServiceType is the DID document service type listing the domains a DID is linked to.
const LinkedDomainsServiceType = "LinkedDomains"

// PublicKey is a secp256k1 verification method of a DID document.
type PublicKey struct {
	ID         string
	Type       string
	Controller string
	JWK        *jwk.ECPublicJwk
}

// Document is the subset of a DID document used to validate signed requests.
type Document struct {
	ID                  string
	VerificationMethods []PublicKey
	LinkedDomains       []string
}

// NewDocument extracts the secp256k1 JWK verification methods and linked domains of doc.
// Verification methods of other key types are skipped.
func NewDocument(doc *did.Doc) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("missing DID document")
	}

	d := &Document{ID: doc.ID}

	for i := range doc.VerificationMethod {
		vm := doc.VerificationMethod[i]

		key := vm.JSONWebKey()
		if key == nil {
			logger.Debugf("skipping verification method %s without JWK", vm.ID)

			continue
		}

		pub, ok := key.Key.(*ecdsa.PublicKey)
		if !ok || !strings.EqualFold(key.Crv, jwk.CurveSecp256k1) {
			logger.Debugf("skipping verification method %s: not a secp256k1 key", vm.ID)

			continue
		}

		converted, err := jwk.FromECDSA(pub, fragment(vm.ID))
		if err != nil {
			return nil, fmt.Errorf("verification method %s: %w", vm.ID, err)
		}

		d.VerificationMethods = append(d.VerificationMethods, PublicKey{
			ID:         vm.ID,
			Type:       vm.Type,
			Controller: vm.Controller,
			JWK:        converted,
		})
	}

	raw, err := doc.JSONBytes()
	if err != nil {
		return nil, fmt.Errorf("marshal DID document: %w", err)
	}

	d.LinkedDomains, err = LinkedDomains(raw)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// FindKey returns the verification method whose id or fragment is keyID.
func (d *Document) FindKey(keyID string) (*PublicKey, bool) {
	for i := range d.VerificationMethods {
		vm := &d.VerificationMethods[i]

		if vm.ID == keyID || fragment(vm.ID) == fragment(keyID) {
			return vm, true
		}
	}

	return nil, false
}

type rawService struct {
	Type            interface{} `mapstructure:"type"`
	ServiceEndpoint interface{} `mapstructure:"serviceEndpoint"`
}

type originsEndpoint struct {
	Origins []string `mapstructure:"origins"`
}

// LinkedDomains returns the origins listed by the LinkedDomains services of a DID document in JSON form.
func LinkedDomains(rawDoc []byte) ([]string, error) {
	var doc struct {
		Service []map[string]interface{} `json:"service"`
	}

	if err := json.Unmarshal(rawDoc, &doc); err != nil {
		return nil, fmt.Errorf("parse DID document services: %w", err)
	}

	var domains []string

	for _, s := range doc.Service {
		var svc rawService

		if err := mapstructure.Decode(s, &svc); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}

		if !hasType(svc.Type, LinkedDomainsServiceType) {
			continue
		}

		origins, err := endpointOrigins(svc.ServiceEndpoint)
		if err != nil {
			return nil, err
		}

		domains = append(domains, origins...)
	}

	return domains, nil
}

func endpointOrigins(endpoint interface{}) ([]string, error) {
	switch e := endpoint.(type) {
	case string:
		return []string{e}, nil
	case []interface{}:
		var origins []string

		for _, item := range e {
			o, err := endpointOrigins(item)
			if err != nil {
				return nil, err
			}

			origins = append(origins, o...)
		}

		return origins, nil
	case map[string]interface{}:
		var o originsEndpoint

		if err := mapstructure.Decode(e, &o); err != nil {
			return nil, fmt.Errorf("decode linked domains endpoint: %w", err)
		}

		return o.Origins, nil
	default:
		return nil, nil
	}
}

func hasType(t interface{}, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}

	return false
}

func fragment(keyID string) string {
	if i := strings.Index(keyID, "#"); i >= 0 {
		return keyID[i+1:]
	}

	return keyID
}
