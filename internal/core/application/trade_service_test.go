package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
	nftregistry "github.com/barter-network/barterd/internal/infrastructure/nft"
	"github.com/barter-network/barterd/internal/infrastructure/storage/db/inmemory"
)

const (
	testFeePerNFT uint64 = 100
	testNow       int64  = 1_700_000_000
	testExpiry    int64  = testNow + 3600
)

type testHarness struct {
	svc         *tradeService
	repoManager ports.RepoManager
	registry    ports.NftRegistry
	now         int64

	proposer  string
	recipient string
	offered   []domain.AssetRef
	requested []domain.AssetRef
}

// newTestHarness wires a service on top of the in-memory stores with a
// controllable clock, two funded accounts and escrow approvals in place.
func newTestHarness(t *testing.T) *testHarness {
	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registry := nftregistry.NewService()

	h := &testHarness{
		repoManager: repoManager,
		registry:    registry,
		now:         testNow,
		proposer:    randomAccount(),
		recipient:   randomAccount(),
		offered:     []domain.AssetRef{randomAsset(), randomAsset()},
		requested:   []domain.AssetRef{randomAsset()},
	}

	for _, asset := range h.offered {
		require.NoError(t, registry.Mint(ctx, h.proposer, asset))
	}
	for _, asset := range h.requested {
		require.NoError(t, registry.Mint(ctx, h.recipient, asset))
	}
	require.NoError(
		t, registry.SetApprovalForAll(ctx, h.proposer, EscrowAccount, true),
	)
	require.NoError(
		t, registry.SetApprovalForAll(ctx, h.recipient, EscrowAccount, true),
	)

	svc := NewTradeService(repoManager, registry, nil, testFeePerNFT).(*tradeService)
	svc.nowFn = func() int64 { return h.now }
	h.svc = svc
	return h
}

func (h *testHarness) fee() uint64 {
	return testFeePerNFT * uint64(len(h.offered)+len(h.requested))
}

func (h *testHarness) propose(t *testing.T) uint64 {
	tradeID, err := h.svc.ProposeTrade(
		context.Background(),
		h.proposer, h.recipient, h.offered, h.requested,
		testExpiry, h.fee(),
	)
	require.NoError(t, err)
	require.Greater(t, tradeID, uint64(0))
	return tradeID
}

func (h *testHarness) storedTrade(t *testing.T, tradeID uint64) *domain.Trade {
	trade, err := h.repoManager.TradeRepository().GetTrade(
		context.Background(), tradeID,
	)
	require.NoError(t, err)
	return trade
}

func (h *testHarness) ownerOf(t *testing.T, asset domain.AssetRef) string {
	owner, err := h.registry.OwnerOf(context.Background(), asset)
	require.NoError(t, err)
	return owner
}

func (h *testHarness) requireReserved(
	t *testing.T, asset domain.AssetRef, tradeID uint64,
) {
	reservedBy, ok, err := h.repoManager.ReservationRepository().GetReservation(
		context.Background(), asset,
	)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tradeID, reservedBy)
}

func (h *testHarness) requireReleased(t *testing.T, asset domain.AssetRef) {
	_, ok, err := h.repoManager.ReservationRepository().GetReservation(
		context.Background(), asset,
	)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProposeTrade(t *testing.T) {
	h := newTestHarness(t)

	tradeID := h.propose(t)

	trade := h.storedTrade(t, tradeID)
	require.Equal(t, domain.TradeStatusActive, trade.Status)
	require.Equal(t, h.fee(), trade.FeePaid)
	for _, asset := range trade.AllAssets() {
		h.requireReserved(t, asset, tradeID)
	}
}

func TestFailingProposeTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient_fee", func(t *testing.T) {
		h := newTestHarness(t)
		_, err := h.svc.ProposeTrade(
			ctx, h.proposer, h.recipient, h.offered, h.requested,
			testExpiry, h.fee()-1,
		)
		require.ErrorIs(t, err, domain.ErrInsufficientFeePaid)

		// nothing must have been stored or reserved
		trades, err := h.repoManager.TradeRepository().GetAllTrades(ctx)
		require.NoError(t, err)
		require.Empty(t, trades)
		h.requireReleased(t, h.offered[0])
	})

	t.Run("overpaid_fee", func(t *testing.T) {
		h := newTestHarness(t)
		_, err := h.svc.ProposeTrade(
			ctx, h.proposer, h.recipient, h.offered, h.requested,
			testExpiry, h.fee()+1,
		)
		require.ErrorIs(t, err, domain.ErrFeeMismatch)
	})

	t.Run("asset_already_committed", func(t *testing.T) {
		h := newTestHarness(t)
		h.propose(t)

		other := randomAccount()
		_, err := h.svc.ProposeTrade(
			ctx, h.recipient, other,
			[]domain.AssetRef{h.requested[0]},
			[]domain.AssetRef{randomAsset()},
			testExpiry, testFeePerNFT*2,
		)
		require.ErrorIs(t, err, domain.ErrAssetReserved)
	})

	t.Run("invalid_expiry", func(t *testing.T) {
		h := newTestHarness(t)
		_, err := h.svc.ProposeTrade(
			ctx, h.proposer, h.recipient, h.offered, h.requested,
			testNow, h.fee(),
		)
		require.ErrorIs(t, err, domain.ErrInvalidExpiryTime)
	})
}

func TestTradeRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t)

	tradeID := h.propose(t)
	require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
	require.Equal(
		t, domain.TradeStatusAccepted, h.storedTrade(t, tradeID).Status,
	)

	require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))
	for _, asset := range h.offered {
		require.Equal(t, EscrowAccount, h.ownerOf(t, asset))
	}
	require.True(t, h.storedTrade(t, tradeID).ProposerDeposited)

	require.NoError(t, h.svc.DepositNFTs(ctx, h.recipient, tradeID))

	trade := h.storedTrade(t, tradeID)
	require.Equal(t, domain.TradeStatusExecuted, trade.Status)
	require.True(t, trade.BothDeposited())
	require.False(t, trade.FeeRefunded)

	// ownership swapped and reservations cleared
	for _, asset := range h.offered {
		require.Equal(t, h.recipient, h.ownerOf(t, asset))
	}
	for _, asset := range h.requested {
		require.Equal(t, h.proposer, h.ownerOf(t, asset))
	}
	for _, asset := range trade.AllAssets() {
		h.requireReleased(t, asset)
	}
}

func TestDepositIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t)

	tradeID := h.propose(t)
	require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
	require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))
	require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))

	trade := h.storedTrade(t, tradeID)
	require.Equal(t, domain.TradeStatusAccepted, trade.Status)
	for _, asset := range h.offered {
		require.Equal(t, EscrowAccount, h.ownerOf(t, asset))
	}
}

func TestFailingDepositNFTs(t *testing.T) {
	ctx := context.Background()

	t.Run("before_acceptance", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		err := h.svc.DepositNFTs(ctx, h.proposer, tradeID)
		require.ErrorIs(t, err, domain.ErrTradeNotAccepted)
	})

	t.Run("caller_no_longer_holder", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))

		// ownership changed behind the protocol's back
		require.NoError(t, h.registry.TransferAll(ctx, []ports.Transfer{
			{From: h.proposer, To: randomAccount(), Asset: h.offered[0]},
		}))

		err := h.svc.DepositNFTs(ctx, h.proposer, tradeID)
		require.ErrorIs(t, err, domain.ErrNotHolder)
		require.False(t, h.storedTrade(t, tradeID).ProposerDeposited)
	})

	t.Run("approval_revoked", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
		require.NoError(t, h.registry.SetApprovalForAll(
			ctx, h.proposer, EscrowAccount, false,
		))

		err := h.svc.DepositNFTs(ctx, h.proposer, tradeID)
		require.ErrorIs(t, err, domain.ErrNotApproved)
	})

	t.Run("stranger", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))

		err := h.svc.DepositNFTs(ctx, randomAccount(), tradeID)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown_trade", func(t *testing.T) {
		h := newTestHarness(t)
		err := h.svc.DepositNFTs(ctx, h.proposer, 42)
		require.ErrorIs(t, err, domain.ErrTradeNotFound)
	})
}

func TestCancelTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("active_trade", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)

		require.NoError(t, h.svc.CancelTrade(ctx, h.proposer, tradeID))

		trade := h.storedTrade(t, tradeID)
		require.Equal(t, domain.TradeStatusCancelled, trade.Status)
		require.True(t, trade.FeeRefunded)
		for _, asset := range trade.AllAssets() {
			h.requireReleased(t, asset)
		}
	})

	t.Run("after_partial_deposit", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
		require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))

		require.NoError(t, h.svc.CancelTrade(ctx, h.recipient, tradeID))

		// escrowed assets go back to the depositor
		for _, asset := range h.offered {
			require.Equal(t, h.proposer, h.ownerOf(t, asset))
		}
		require.Equal(
			t, domain.TradeStatusCancelled, h.storedTrade(t, tradeID).Status,
		)
	})

	t.Run("by_stranger", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		err := h.svc.CancelTrade(ctx, randomAccount(), tradeID)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("already_executed", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
		require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))
		require.NoError(t, h.svc.DepositNFTs(ctx, h.recipient, tradeID))

		err := h.svc.CancelTrade(ctx, h.proposer, tradeID)
		require.ErrorIs(t, err, domain.ErrTradeNotCancellable)
	})
}

func TestCreateCounterOffer(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t)

	originalID := h.propose(t)

	// The counter re-commits the original's assets with one requested asset
	// dropped, plus a fresh one minted to the original proposer.
	extra := randomAsset()
	require.NoError(t, h.registry.Mint(ctx, h.proposer, extra))
	counterOffered := h.requested
	counterRequested := append([]domain.AssetRef{extra}, h.offered...)
	counterFee := testFeePerNFT * uint64(len(counterOffered)+len(counterRequested))

	counterID, err := h.svc.CreateCounterOffer(
		ctx, h.recipient, originalID,
		counterOffered, counterRequested,
		testExpiry+100, counterFee,
	)
	require.NoError(t, err)
	require.Greater(t, counterID, originalID)

	original := h.storedTrade(t, originalID)
	require.Equal(t, domain.TradeStatusCounterOffered, original.Status)
	require.Equal(t, counterID, original.SupersededBy)
	require.True(t, original.FeeRefunded)

	counter := h.storedTrade(t, counterID)
	require.Equal(t, domain.TradeStatusActive, counter.Status)
	require.Equal(t, h.recipient, counter.Proposer)
	require.Equal(t, h.proposer, counter.Recipient)
	require.Zero(t, counter.SupersededBy)

	// reservations moved from the original to the counter-offer
	for _, asset := range counter.AllAssets() {
		h.requireReserved(t, asset, counterID)
	}

	supersededBy, err := h.svc.GetCounterOffer(ctx, originalID)
	require.NoError(t, err)
	require.Equal(t, counterID, supersededBy)
}

func TestFailingCreateCounterOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("by_proposer", func(t *testing.T) {
		h := newTestHarness(t)
		originalID := h.propose(t)
		_, err := h.svc.CreateCounterOffer(
			ctx, h.proposer, originalID, h.requested, h.offered,
			testExpiry, h.fee(),
		)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("after_acceptance", func(t *testing.T) {
		h := newTestHarness(t)
		originalID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, originalID))
		_, err := h.svc.CreateCounterOffer(
			ctx, h.recipient, originalID, h.requested, h.offered,
			testExpiry, h.fee(),
		)
		require.ErrorIs(t, err, domain.ErrTradeNotActive)
	})

	t.Run("asset_committed_elsewhere", func(t *testing.T) {
		h := newTestHarness(t)
		originalID := h.propose(t)

		// a second unrelated trade holding the asset the counter wants
		third, fourth := randomAccount(), randomAccount()
		blocked := randomAsset()
		require.NoError(t, h.registry.Mint(ctx, third, blocked))
		_, err := h.svc.ProposeTrade(
			ctx, third, fourth,
			[]domain.AssetRef{blocked}, []domain.AssetRef{randomAsset()},
			testExpiry, testFeePerNFT*2,
		)
		require.NoError(t, err)

		_, err = h.svc.CreateCounterOffer(
			ctx, h.recipient, originalID,
			h.requested, []domain.AssetRef{blocked},
			testExpiry, testFeePerNFT*2,
		)
		require.ErrorIs(t, err, domain.ErrAssetReserved)

		// the failed counter must not have touched the original
		original := h.storedTrade(t, originalID)
		require.Equal(t, domain.TradeStatusActive, original.Status)
		for _, asset := range original.AllAssets() {
			h.requireReserved(t, asset, originalID)
		}
	})
}

func TestLazyExpiration(t *testing.T) {
	ctx := context.Background()

	t.Run("accept_at_expiration_time", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)

		h.now = testExpiry
		err := h.svc.AcceptTrade(ctx, h.recipient, tradeID)
		require.ErrorIs(t, err, domain.ErrTradeExpired)

		// expiry is written through and the reservations are gone
		trade := h.storedTrade(t, tradeID)
		require.Equal(t, domain.TradeStatusExpired, trade.Status)
		require.True(t, trade.FeeRefunded)
		for _, asset := range trade.AllAssets() {
			h.requireReleased(t, asset)
		}
	})

	t.Run("escrow_refunded_on_expiry", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)
		require.NoError(t, h.svc.AcceptTrade(ctx, h.recipient, tradeID))
		require.NoError(t, h.svc.DepositNFTs(ctx, h.proposer, tradeID))

		h.now = testExpiry + 10
		err := h.svc.DepositNFTs(ctx, h.recipient, tradeID)
		require.ErrorIs(t, err, domain.ErrTradeExpired)

		for _, asset := range h.offered {
			require.Equal(t, h.proposer, h.ownerOf(t, asset))
		}
		require.Equal(
			t, domain.TradeStatusExpired, h.storedTrade(t, tradeID).Status,
		)
	})

	t.Run("queries_report_expired_without_writing", func(t *testing.T) {
		h := newTestHarness(t)
		tradeID := h.propose(t)

		h.now = testExpiry
		info, err := h.svc.GetTrade(ctx, tradeID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusExpired.String(), info.Status)

		// the stored status is untouched by reads
		require.Equal(
			t, domain.TradeStatusActive, h.storedTrade(t, tradeID).Status,
		)
	})
}

func TestGetUserActiveTrades(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t)

	activeID := h.propose(t)

	// a second trade, then cancelled
	third := randomAccount()
	cancelledAsset := randomAsset()
	require.NoError(t, h.registry.Mint(ctx, h.proposer, cancelledAsset))
	cancelledID, err := h.svc.ProposeTrade(
		ctx, h.proposer, third,
		[]domain.AssetRef{cancelledAsset}, []domain.AssetRef{randomAsset()},
		testExpiry, testFeePerNFT*2,
	)
	require.NoError(t, err)
	require.NoError(t, h.svc.CancelTrade(ctx, h.proposer, cancelledID))

	tradeIDs, err := h.svc.GetUserActiveTrades(ctx, h.proposer)
	require.NoError(t, err)
	require.Equal(t, []uint64{activeID}, tradeIDs)

	tradeIDs, err = h.svc.GetUserActiveTrades(ctx, h.recipient)
	require.NoError(t, err)
	require.Equal(t, []uint64{activeID}, tradeIDs)

	// expired trades disappear from the listing
	h.now = testExpiry
	tradeIDs, err = h.svc.GetUserActiveTrades(ctx, h.proposer)
	require.NoError(t, err)
	require.Empty(t, tradeIDs)

	_, err = h.svc.GetUserActiveTrades(ctx, "not-an-account")
	require.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestListTrades(t *testing.T) {
	ctx := context.Background()
	h := newTestHarness(t)

	tradeID := h.propose(t)

	infos, err := h.svc.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, tradeID, infos[0].ID)
	require.Equal(t, domain.TradeStatusActive.String(), infos[0].Status)
	require.Len(t, infos[0].OfferedAssets, len(h.offered))
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
