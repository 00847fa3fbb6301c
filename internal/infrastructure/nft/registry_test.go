package nftregistry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
	nftregistry "github.com/barter-network/barterd/internal/infrastructure/nft"
)

func TestMintAndOwnerOf(t *testing.T) {
	ctx := context.Background()
	registry := nftregistry.NewService()
	owner := randomAccount()
	asset := randomAsset()

	require.NoError(t, registry.Mint(ctx, owner, asset))

	got, err := registry.OwnerOf(ctx, asset)
	require.NoError(t, err)
	require.Equal(t, owner, got)

	require.ErrorIs(
		t, registry.Mint(ctx, randomAccount(), asset),
		nftregistry.ErrAssetAlreadyMinted,
	)

	_, err = registry.OwnerOf(ctx, randomAsset())
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestApprovals(t *testing.T) {
	ctx := context.Background()
	registry := nftregistry.NewService()
	owner, operator := randomAccount(), randomAccount()
	asset := randomAsset()
	require.NoError(t, registry.Mint(ctx, owner, asset))

	// owners are always approved for their own assets
	approved, err := registry.IsApprovedFor(ctx, owner, owner, asset)
	require.NoError(t, err)
	require.True(t, approved)

	approved, err = registry.IsApprovedFor(ctx, owner, operator, asset)
	require.NoError(t, err)
	require.False(t, approved)

	require.NoError(t, registry.SetApprovalForAll(ctx, owner, operator, true))
	approved, err = registry.IsApprovedFor(ctx, owner, operator, asset)
	require.NoError(t, err)
	require.True(t, approved)

	require.NoError(t, registry.SetApprovalForAll(ctx, owner, operator, false))
	approved, err = registry.IsApprovedFor(ctx, owner, operator, asset)
	require.NoError(t, err)
	require.False(t, approved)

	require.ErrorIs(
		t, registry.SetApprovalForAll(ctx, "bad", operator, true),
		domain.ErrInvalidAccount,
	)
}

func TestTransferAll(t *testing.T) {
	ctx := context.Background()
	registry := nftregistry.NewService()
	alice, bob := randomAccount(), randomAccount()
	first, second := randomAsset(), randomAsset()
	require.NoError(t, registry.Mint(ctx, alice, first))
	require.NoError(t, registry.Mint(ctx, alice, second))

	require.NoError(t, registry.TransferAll(ctx, []ports.Transfer{
		{From: alice, To: bob, Asset: first},
		{From: alice, To: bob, Asset: second},
	}))

	for _, asset := range []domain.AssetRef{first, second} {
		owner, err := registry.OwnerOf(ctx, asset)
		require.NoError(t, err)
		require.Equal(t, bob, owner)
	}
}

func TestFailingTransferAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	registry := nftregistry.NewService()
	alice, bob := randomAccount(), randomAccount()
	owned, foreign := randomAsset(), randomAsset()
	require.NoError(t, registry.Mint(ctx, alice, owned))
	require.NoError(t, registry.Mint(ctx, bob, foreign))

	err := registry.TransferAll(ctx, []ports.Transfer{
		{From: alice, To: bob, Asset: owned},
		{From: alice, To: bob, Asset: foreign},
	})
	require.ErrorIs(t, err, domain.ErrNotHolder)

	// the valid move of the batch must not have been applied
	owner, err := registry.OwnerOf(ctx, owned)
	require.NoError(t, err)
	require.Equal(t, alice, owner)

	err = registry.TransferAll(ctx, []ports.Transfer{
		{From: alice, To: bob, Asset: randomAsset()},
	})
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func randomAccount() string {
	return "0x" + randstr.Hex(20)
}

var tokenSeq uint64

func randomAsset() domain.AssetRef {
	tokenSeq++
	return domain.AssetRef{
		Collection: "0x" + randstr.Hex(20),
		TokenID:    tokenSeq,
	}
}
