package dbbadger

import (
	"context"
	"errors"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/barter-network/barterd/internal/core/domain"
)

const tradeSequenceKey = "trade_sequence"

// tradeSequence persists the monotonically increasing trade id counter,
// so ids are never reused across restarts.
type tradeSequence struct {
	Last uint64
}

type tradeRepositoryImpl struct {
	db *DbManager
	// seqLocker guards the read-increment-write of the id counter.
	seqLocker sync.Mutex
}

// NewTradeRepositoryImpl returns a badger TradeRepository implementation.
func NewTradeRepositoryImpl(db *DbManager) domain.TradeRepository {
	return &tradeRepositoryImpl{db: db}
}

func (r *tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) (uint64, error) {
	tradeID, err := r.nextTradeID()
	if err != nil {
		return 0, err
	}

	trade.ID = tradeID
	if err := r.db.Store.Insert(tradeID, *trade); err != nil {
		return 0, err
	}
	return tradeID, nil
}

func (r *tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID uint64,
) (*domain.Trade, error) {
	var trade domain.Trade
	if err := r.db.Store.Get(tradeID, &trade); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepositoryImpl) GetAllTrades(
	_ context.Context,
) ([]*domain.Trade, error) {
	var trades []domain.Trade
	query := &badgerhold.Query{}
	if err := r.db.Store.Find(&trades, query.SortBy("ID")); err != nil {
		return nil, err
	}

	allTrades := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		allTrades = append(allTrades, &trades[i])
	}
	return allTrades, nil
}

func (r *tradeRepositoryImpl) GetTradesForAccount(
	_ context.Context, account string,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("Proposer").Eq(account).
		Or(badgerhold.Where("Recipient").Eq(account)).
		SortBy("ID")

	var trades []domain.Trade
	if err := r.db.Store.Find(&trades, query); err != nil {
		return nil, err
	}

	accountTrades := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		accountTrades = append(accountTrades, &trades[i])
	}
	return accountTrades, nil
}

func (r *tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	tradeID uint64,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	currentTrade, err := r.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}

	updatedTrade, err := updateFn(currentTrade)
	if err != nil {
		return err
	}

	return r.db.Store.Update(tradeID, *updatedTrade)
}

func (r *tradeRepositoryImpl) nextTradeID() (uint64, error) {
	r.seqLocker.Lock()
	defer r.seqLocker.Unlock()

	var seq tradeSequence
	if err := r.db.Store.Get(tradeSequenceKey, &seq); err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			return 0, err
		}
	}

	seq.Last++
	if err := r.db.Store.Upsert(tradeSequenceKey, seq); err != nil {
		return 0, err
	}
	return seq.Last, nil
}
