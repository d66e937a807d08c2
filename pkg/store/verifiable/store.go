/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-vcsdk-go/pkg/doc/verifiable"
)

const (
	// NameSpace for vc store.
	NameSpace = "vcsdk_verifiable"

	credentialTag = "credential"
)

var logger = log.New("aries-vcsdk/store/verifiable")

var (
	// ErrNotFound signals that no credential is stored under the given id.
	ErrNotFound = errors.New("credential not found")
	// ErrMissingID is returned for credentials without a jti.
	ErrMissingID = errors.New("credential has no id")
)

type provider interface {
	StorageProvider() storage.Provider
}

// Store stores the credentials issued to the holder.
type Store struct {
	store storage.Store
}

type record struct {
	Record
	VC string `json:"vc"`
}

// New returns a new vc store.
func New(ctx provider) (*Store, error) {
	store, err := ctx.StorageProvider().OpenStore(NameSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to open vc store: %w", err)
	}

	err = ctx.StorageProvider().SetStoreConfig(NameSpace, storage.StoreConfiguration{TagNames: []string{credentialTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store configuration: %w", err)
	}

	return &Store{store: store}, nil
}

// SaveCredential stores vc under its jti with an optional display name.
func (s *Store) SaveCredential(name string, vc *verifiable.Credential) error {
	claims := vc.Claims()
	if claims.JTI == "" {
		return ErrMissingID
	}

	b, err := json.Marshal(&record{
		Record: Record{
			Name:      name,
			ID:        claims.JTI,
			Context:   claims.Credential.Context,
			Type:      claims.Credential.Type,
			SubjectID: claims.Subject,
			Issuer:    claims.Issuer,
		},
		VC: vc.Raw,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal vc: %w", err)
	}

	if err = s.store.Put(claims.JTI, b, storage.Tag{Name: credentialTag}); err != nil {
		return fmt.Errorf("failed to put vc: %w", err)
	}

	logger.Debugf("saved credential %s", claims.JTI)

	return nil
}

// GetCredential returns the credential stored under id.
func (s *Store) GetCredential(id string) (*verifiable.Credential, error) {
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}

	vc, err := verifiable.ParseCredential(r.VC)
	if err != nil {
		return nil, fmt.Errorf("new credential failed: %w", err)
	}

	return vc, nil
}

// RemoveCredential deletes the credential stored under id.
func (s *Store) RemoveCredential(id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}

	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("failed to delete vc: %w", err)
	}

	return nil
}

// GetCredentialRecords returns the records of the stored credentials. A non-empty credentialType keeps only
// credentials of that type.
func (s *Store) GetCredentialRecords(credentialType string) ([]*Record, error) {
	itr, err := s.store.Query(credentialTag)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}

	defer func() {
		errClose := itr.Close()
		if errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose.Error())
		}
	}()

	var records []*Record

	more, err := itr.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}

	for more {
		b, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read credential: %w", err)
		}

		var r record

		if err = json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vc record: %w", err)
		}

		if credentialType == "" || slices.Contains(r.Type, credentialType) {
			rec := r.Record
			records = append(records, &rec)
		}

		more, err = itr.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate credentials: %w", err)
		}
	}

	return records, nil
}

func (s *Store) get(id string) (*record, error) {
	b, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get vc: %w", err)
	}

	var r record

	if err = json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vc record: %w", err)
	}

	return &r, nil
}
