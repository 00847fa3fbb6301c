package nftregistry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
)

// ErrAssetAlreadyMinted is returned when minting an asset reference that
// already exists.
var ErrAssetAlreadyMinted = errors.New("asset is already minted")

// service is an in-process implementation of the NftRegistry port. It
// plays the role of the external ownership ledger the protocol trades
// against: it resolves holders, answers approval checks and moves custody
// atomically under a single lock.
type service struct {
	locker    *sync.RWMutex
	owners    map[string]string
	approvals map[string]bool
}

// NewService returns an empty in-process NFT registry.
func NewService() ports.NftRegistry {
	return &service{
		locker:    &sync.RWMutex{},
		owners:    make(map[string]string),
		approvals: make(map[string]bool),
	}
}

func (s *service) OwnerOf(
	_ context.Context, asset domain.AssetRef,
) (string, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	owner, ok := s.owners[asset.Key()]
	if !ok {
		return "", domain.ErrUnknownAsset
	}
	return owner, nil
}

func (s *service) IsApprovedFor(
	_ context.Context, owner, operator string, _ domain.AssetRef,
) (bool, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	if strings.EqualFold(owner, operator) {
		return true, nil
	}
	return s.approvals[approvalKey(owner, operator)], nil
}

func (s *service) TransferAll(
	_ context.Context, transfers []ports.Transfer,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	// Validate the whole batch before applying anything, so either all
	// custody moves happen or none does.
	for _, transfer := range transfers {
		owner, ok := s.owners[transfer.Asset.Key()]
		if !ok {
			return domain.ErrUnknownAsset
		}
		if owner != transfer.From {
			return fmt.Errorf(
				"%w: %s is not held by %s",
				domain.ErrNotHolder, transfer.Asset, transfer.From,
			)
		}
	}

	for _, transfer := range transfers {
		s.owners[transfer.Asset.Key()] = transfer.To
	}
	return nil
}

func (s *service) Mint(
	_ context.Context, owner string, asset domain.AssetRef,
) error {
	if err := domain.ValidateAccount(owner); err != nil {
		return err
	}
	if err := asset.Validate(); err != nil {
		return err
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	if _, ok := s.owners[asset.Key()]; ok {
		return ErrAssetAlreadyMinted
	}
	s.owners[asset.Key()] = owner
	return nil
}

func (s *service) SetApprovalForAll(
	_ context.Context, owner, operator string, approved bool,
) error {
	if err := domain.ValidateAccount(owner); err != nil {
		return err
	}
	if err := domain.ValidateAccount(operator); err != nil {
		return err
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	key := approvalKey(owner, operator)
	if !approved {
		delete(s.approvals, key)
		return nil
	}
	s.approvals[key] = true
	return nil
}

func approvalKey(owner, operator string) string {
	return strings.ToLower(owner) + "/" + strings.ToLower(operator)
}
