package ports

import (
	"context"

	"github.com/barter-network/barterd/internal/core/domain"
)

// Transfer describes one custody move of a single asset.
type Transfer struct {
	From  string
	To    string
	Asset domain.AssetRef
}

// NftRegistry abstracts the ledger of token ownership the protocol trades
// against. It resolves asset references to their current holder, answers
// transfer-approval checks and moves custody. Resolution is side-effect
// free and is consulted again at deposit time, never trusted from
// proposal time.
type NftRegistry interface {
	// OwnerOf returns the current holder of the asset, or
	// domain.ErrUnknownAsset if the collection/token pair cannot be
	// resolved.
	OwnerOf(ctx context.Context, asset domain.AssetRef) (string, error)
	// IsApprovedFor returns whether the operator is allowed to transfer
	// the owner's asset.
	IsApprovedFor(
		ctx context.Context, owner, operator string, asset domain.AssetRef,
	) (bool, error)
	// TransferAll applies all the given custody moves or none of them.
	TransferAll(ctx context.Context, transfers []Transfer) error
	// Mint registers a new asset under the given owner.
	Mint(ctx context.Context, owner string, asset domain.AssetRef) error
	// SetApprovalForAll grants or revokes the operator's permission to
	// transfer any of the owner's assets.
	SetApprovalForAll(
		ctx context.Context, owner, operator string, approved bool,
	) error
}
