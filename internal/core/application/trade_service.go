package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
)

// TradeService is the trade lifecycle engine. It enforces the legal state
// transitions, keeps the deposit bookkeeping and the asset reservation
// index, and performs the atomic swap once both parties escrowed their
// assets.
type TradeService interface {
	ProposeTrade(
		ctx context.Context,
		proposer, recipient string,
		offered, requested []domain.AssetRef,
		expirationTime int64, feePaid uint64,
	) (uint64, error)
	AcceptTrade(ctx context.Context, caller string, tradeID uint64) error
	CreateCounterOffer(
		ctx context.Context,
		caller string, originalTradeID uint64,
		offered, requested []domain.AssetRef,
		expirationTime int64, feePaid uint64,
	) (uint64, error)
	DepositNFTs(ctx context.Context, caller string, tradeID uint64) error
	CancelTrade(ctx context.Context, caller string, tradeID uint64) error

	GetTrade(ctx context.Context, tradeID uint64) (*TradeInfo, error)
	GetUserActiveTrades(ctx context.Context, account string) ([]uint64, error)
	GetCounterOffer(ctx context.Context, tradeID uint64) (uint64, error)
	ListTrades(ctx context.Context) ([]TradeInfo, error)
	FeePerNFT() uint64
}

type tradeService struct {
	repoManager ports.RepoManager
	registry    ports.NftRegistry
	pubsub      ports.PubSub
	feeCalc     FeeCalculator

	// mtx serializes every mutating operation. The reservation index and
	// the ledger are always touched within the same locked step, which
	// gives the single-writer guarantee the protocol relies on. Queries
	// read repository snapshots and never take this lock.
	mtx sync.Mutex

	nowFn func() int64
}

func NewTradeService(
	repoManager ports.RepoManager,
	registry ports.NftRegistry,
	pubsub ports.PubSub,
	feePerNFT uint64,
) TradeService {
	return &tradeService{
		repoManager: repoManager,
		registry:    registry,
		pubsub:      pubsub,
		feeCalc:     NewFeeCalculator(feePerNFT),
		nowFn:       func() int64 { return time.Now().Unix() },
	}
}

func (s *tradeService) FeePerNFT() uint64 {
	return s.feeCalc.PerItemRate()
}

func (s *tradeService) ProposeTrade(
	ctx context.Context,
	proposer, recipient string,
	offered, requested []domain.AssetRef,
	expirationTime int64, feePaid uint64,
) (uint64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.nowFn()
	trade, err := domain.NewTrade(
		proposer, recipient, offered, requested, expirationTime, feePaid, now,
	)
	if err != nil {
		return 0, err
	}

	if err := s.feeCalc.CheckPayment(
		feePaid, len(offered), len(requested),
	); err != nil {
		return 0, err
	}

	if err := s.checkNoReservationConflict(ctx, trade.AllAssets(), 0); err != nil {
		return 0, err
	}

	tradeID, err := s.repoManager.TradeRepository().AddTrade(ctx, trade)
	if err != nil {
		log.WithError(err).Error("propose trade: failed to store trade")
		return 0, ErrServiceUnavailable
	}
	if err := s.repoManager.ReservationRepository().ReserveAssets(
		ctx, trade.AllAssets(), tradeID,
	); err != nil {
		log.WithError(err).Error("propose trade: failed to reserve assets")
		return 0, ErrServiceUnavailable
	}

	log.WithFields(log.Fields{
		"trade_id":  tradeID,
		"proposer":  proposer,
		"recipient": recipient,
	}).Info("trade proposed")

	s.publish(TopicTradeProposed, tradeEvent{
		TradeID: tradeID, Proposer: proposer, Recipient: recipient,
	})
	return tradeID, nil
}

func (s *tradeService) AcceptTrade(
	ctx context.Context, caller string, tradeID uint64,
) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if err := s.expireIfNeeded(ctx, trade); err != nil {
		return err
	}

	now := s.nowFn()
	if err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Accept(caller, now); err != nil {
				return nil, err
			}
			return t, nil
		},
	); err != nil {
		return err
	}

	log.WithField("trade_id", tradeID).Info("trade accepted")
	s.publish(TopicTradeAccepted, tradeEvent{TradeID: tradeID})
	return nil
}

func (s *tradeService) CreateCounterOffer(
	ctx context.Context,
	caller string, originalTradeID uint64,
	offered, requested []domain.AssetRef,
	expirationTime int64, feePaid uint64,
) (uint64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tradeRepo := s.repoManager.TradeRepository()
	original, err := tradeRepo.GetTrade(ctx, originalTradeID)
	if err != nil {
		return 0, err
	}
	if err := s.expireIfNeeded(ctx, original); err != nil {
		return 0, err
	}

	now := s.nowFn()

	// Dry-run of the supersede transition on a copy, so validation fully
	// precedes any mutation.
	dryRun := *original
	if err := dryRun.CounterOffer(caller, 0, now); err != nil {
		return 0, err
	}

	// The counter-offer swaps roles: the original recipient proposes back
	// to the original proposer.
	counter, err := domain.NewTrade(
		caller, original.Proposer, offered, requested,
		expirationTime, feePaid, now,
	)
	if err != nil {
		return 0, err
	}
	if err := s.feeCalc.CheckPayment(
		feePaid, len(offered), len(requested),
	); err != nil {
		return 0, err
	}

	// The original's reservations are released within this same step, so
	// its assets may be re-committed by the counter-offer.
	if err := s.checkNoReservationConflict(
		ctx, counter.AllAssets(), originalTradeID,
	); err != nil {
		return 0, err
	}

	counterID, err := tradeRepo.AddTrade(ctx, counter)
	if err != nil {
		log.WithError(err).Error("counter offer: failed to store trade")
		return 0, ErrServiceUnavailable
	}

	reservationRepo := s.repoManager.ReservationRepository()
	if err := reservationRepo.ReleaseAssets(
		ctx, original.AllAssets(),
	); err != nil {
		log.WithError(err).Error("counter offer: failed to release assets")
		return 0, ErrServiceUnavailable
	}
	if err := reservationRepo.ReserveAssets(
		ctx, counter.AllAssets(), counterID,
	); err != nil {
		log.WithError(err).Error("counter offer: failed to reserve assets")
		return 0, ErrServiceUnavailable
	}

	if err := tradeRepo.UpdateTrade(
		ctx, originalTradeID, func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.CounterOffer(caller, counterID, now); err != nil {
				return nil, err
			}
			return t, nil
		},
	); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"trade_id":   counterID,
		"supersedes": originalTradeID,
		"fee_refund": original.FeePaid,
		"fee_payer":  original.Proposer,
	}).Info("counter offer created")

	s.publish(TopicTradeCounterOffered, tradeEvent{
		TradeID:         counterID,
		SupersededTrade: originalTradeID,
	})
	return counterID, nil
}

func (s *tradeService) DepositNFTs(
	ctx context.Context, caller string, tradeID uint64,
) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if err := s.expireIfNeeded(ctx, trade); err != nil {
		return err
	}

	now := s.nowFn()

	dryRun := *trade
	changed, err := dryRun.MarkDeposited(caller, now)
	if err != nil {
		return err
	}
	if !changed {
		// Repeated deposit from the same party: nothing to move.
		return nil
	}

	// Re-validate holder identity and transfer approval at the moment of
	// deposit. Ownership may have changed since proposal time.
	assets := trade.DepositAssetsFor(caller)
	escrowMoves := make([]ports.Transfer, 0, len(assets))
	for _, asset := range assets {
		owner, err := s.registry.OwnerOf(ctx, asset)
		if err != nil {
			return err
		}
		if owner != caller {
			return domain.ErrNotHolder
		}
		approved, err := s.registry.IsApprovedFor(ctx, caller, EscrowAccount, asset)
		if err != nil {
			return err
		}
		if !approved {
			return domain.ErrNotApproved
		}
		escrowMoves = append(escrowMoves, ports.Transfer{
			From: caller, To: EscrowAccount, Asset: asset,
		})
	}

	if err := s.registry.TransferAll(ctx, escrowMoves); err != nil {
		return err
	}

	executing := dryRun.BothDeposited()
	if executing {
		// Atomic swap: the escrowed sets move to the opposite parties in a
		// single all-or-nothing batch.
		swapMoves := make([]ports.Transfer, 0, len(trade.AllAssets()))
		for _, asset := range trade.OfferedAssets {
			swapMoves = append(swapMoves, ports.Transfer{
				From: EscrowAccount, To: trade.Recipient, Asset: asset,
			})
		}
		for _, asset := range trade.RequestedAssets {
			swapMoves = append(swapMoves, ports.Transfer{
				From: EscrowAccount, To: trade.Proposer, Asset: asset,
			})
		}
		if err := s.registry.TransferAll(ctx, swapMoves); err != nil {
			log.WithError(err).Error("deposit: failed to execute swap")
			return ErrServiceUnavailable
		}
	}

	if err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
			if _, err := t.MarkDeposited(caller, now); err != nil {
				return nil, err
			}
			if t.BothDeposited() {
				if err := t.Execute(); err != nil {
					return nil, err
				}
			}
			return t, nil
		},
	); err != nil {
		return err
	}

	if executing {
		if err := s.repoManager.ReservationRepository().ReleaseAssets(
			ctx, trade.AllAssets(),
		); err != nil {
			log.WithError(err).Error("deposit: failed to release assets")
			return ErrServiceUnavailable
		}
		log.WithField("trade_id", tradeID).Info("trade executed")
		s.publish(TopicTradeExecuted, tradeEvent{TradeID: tradeID})
		return nil
	}

	log.WithFields(log.Fields{
		"trade_id":  tradeID,
		"depositor": caller,
	}).Info("assets deposited")
	s.publish(TopicTradeDeposited, tradeEvent{TradeID: tradeID, Depositor: caller})
	return nil
}

func (s *tradeService) CancelTrade(
	ctx context.Context, caller string, tradeID uint64,
) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if err := s.expireIfNeeded(ctx, trade); err != nil {
		return err
	}

	now := s.nowFn()

	dryRun := *trade
	if err := dryRun.Cancel(caller, now); err != nil {
		return err
	}

	if err := s.refundEscrowed(ctx, trade); err != nil {
		log.WithError(err).Error("cancel: failed to refund escrowed assets")
		return ErrServiceUnavailable
	}

	if err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Cancel(caller, now); err != nil {
				return nil, err
			}
			return t, nil
		},
	); err != nil {
		return err
	}

	if err := s.repoManager.ReservationRepository().ReleaseAssets(
		ctx, trade.AllAssets(),
	); err != nil {
		log.WithError(err).Error("cancel: failed to release assets")
		return ErrServiceUnavailable
	}

	log.WithFields(log.Fields{
		"trade_id":   tradeID,
		"fee_refund": trade.FeePaid,
		"fee_payer":  trade.Proposer,
	}).Info("trade cancelled")
	s.publish(TopicTradeCancelled, tradeEvent{TradeID: tradeID})
	return nil
}

func (s *tradeService) GetTrade(
	ctx context.Context, tradeID uint64,
) (*TradeInfo, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	info := tradeInfo(trade, s.nowFn())
	return &info, nil
}

func (s *tradeService) GetUserActiveTrades(
	ctx context.Context, account string,
) ([]uint64, error) {
	if err := domain.ValidateAccount(account); err != nil {
		return nil, err
	}

	trades, err := s.repoManager.TradeRepository().GetTradesForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	tradeIDs := make([]uint64, 0, len(trades))
	for _, trade := range trades {
		if trade.EffectiveStatus(now).IsDepositable() {
			tradeIDs = append(tradeIDs, trade.ID)
		}
	}
	return tradeIDs, nil
}

func (s *tradeService) GetCounterOffer(
	ctx context.Context, tradeID uint64,
) (uint64, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeID)
	if err != nil {
		return 0, err
	}
	return trade.SupersededBy, nil
}

func (s *tradeService) ListTrades(ctx context.Context) ([]TradeInfo, error) {
	trades, err := s.repoManager.TradeRepository().GetAllTrades(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	infos := make([]TradeInfo, 0, len(trades))
	for _, trade := range trades {
		infos = append(infos, tradeInfo(trade, now))
	}
	return infos, nil
}

// checkNoReservationConflict fails with ErrAssetReserved if any of the
// given assets is bound to a trade other than ignoreTradeID.
func (s *tradeService) checkNoReservationConflict(
	ctx context.Context, assets []domain.AssetRef, ignoreTradeID uint64,
) error {
	reservationRepo := s.repoManager.ReservationRepository()
	for _, asset := range assets {
		reservedBy, ok, err := reservationRepo.GetReservation(ctx, asset)
		if err != nil {
			log.WithError(err).Error("failed to read reservation index")
			return ErrServiceUnavailable
		}
		if ok && (ignoreTradeID == 0 || reservedBy != ignoreTradeID) {
			return domain.ErrAssetReserved
		}
	}
	return nil
}

// expireIfNeeded evaluates lazy expiration at the top of every mutating
// operation. A trade past its expiration time is written through to the
// Expired terminal status, its escrowed assets are refunded and its
// reservations released, then ErrTradeExpired is reported to the caller.
func (s *tradeService) expireIfNeeded(
	ctx context.Context, trade *domain.Trade,
) error {
	now := s.nowFn()
	if !trade.IsExpired(now) {
		return nil
	}

	wasDepositable := trade.Status.IsDepositable()

	if err := s.refundEscrowed(ctx, trade); err != nil {
		log.WithError(err).Error("expire: failed to refund escrowed assets")
		return ErrServiceUnavailable
	}

	if err := s.repoManager.TradeRepository().UpdateTrade(
		ctx, trade.ID, func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Expire(now); err != nil {
				return nil, err
			}
			return t, nil
		},
	); err != nil {
		return err
	}

	if wasDepositable {
		if err := s.repoManager.ReservationRepository().ReleaseAssets(
			ctx, trade.AllAssets(),
		); err != nil {
			log.WithError(err).Error("expire: failed to release assets")
			return ErrServiceUnavailable
		}
	}

	log.WithFields(log.Fields{
		"trade_id":   trade.ID,
		"fee_refund": trade.FeePaid,
		"fee_payer":  trade.Proposer,
	}).Info("trade expired")
	s.publish(TopicTradeExpired, tradeEvent{TradeID: trade.ID})

	return domain.ErrTradeExpired
}

// refundEscrowed returns any already escrowed assets to their depositor.
func (s *tradeService) refundEscrowed(
	ctx context.Context, trade *domain.Trade,
) error {
	moves := make([]ports.Transfer, 0)
	if trade.ProposerDeposited {
		for _, asset := range trade.OfferedAssets {
			moves = append(moves, ports.Transfer{
				From: EscrowAccount, To: trade.Proposer, Asset: asset,
			})
		}
	}
	if trade.RecipientDeposited {
		for _, asset := range trade.RequestedAssets {
			moves = append(moves, ports.Transfer{
				From: EscrowAccount, To: trade.Recipient, Asset: asset,
			})
		}
	}
	if len(moves) == 0 {
		return nil
	}
	return s.registry.TransferAll(ctx, moves)
}

type tradeEvent struct {
	EventID         string `json:"event_id"`
	TradeID         uint64 `json:"trade_id"`
	SupersededTrade uint64 `json:"superseded_trade,omitempty"`
	Proposer        string `json:"proposer,omitempty"`
	Recipient       string `json:"recipient,omitempty"`
	Depositor       string `json:"depositor,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

func (s *tradeService) publish(topic string, event tradeEvent) {
	if s.pubsub == nil {
		return
	}

	event.EventID = uuid.New().String()
	event.Timestamp = s.nowFn()
	message, _ := json.Marshal(event)
	if err := s.pubsub.Publish(topic, string(message)); err != nil {
		log.WithError(err).Warnf("failed to publish %s event", topic)
	}
}
