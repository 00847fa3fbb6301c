package inmemory

import (
	"context"
	"sync"

	"github.com/barter-network/barterd/internal/core/domain"
)

type tradeInmemoryStore struct {
	trades          map[uint64]domain.Trade
	tradesByAccount map[string][]uint64
	nextTradeID     uint64
	locker          *sync.Mutex
}

type tradeRepositoryImpl struct {
	store *tradeInmemoryStore
}

// NewTradeRepositoryImpl returns a new inmemory TradeRepository
// implementation.
func NewTradeRepositoryImpl(store *tradeInmemoryStore) domain.TradeRepository {
	return &tradeRepositoryImpl{store}
}

func (r tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.nextTradeID++
	tradeID := r.store.nextTradeID
	trade.ID = tradeID

	r.store.trades[tradeID] = *trade
	r.addTradeByAccount(trade.Proposer, tradeID)
	r.addTradeByAccount(trade.Recipient, tradeID)

	return tradeID, nil
}

func (r tradeRepositoryImpl) GetTrade(
	_ context.Context, tradeID uint64,
) (*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getTrade(tradeID)
}

func (r tradeRepositoryImpl) GetAllTrades(
	_ context.Context,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	allTrades := make([]*domain.Trade, 0, len(r.store.trades))
	for tradeID := uint64(1); tradeID <= r.store.nextTradeID; tradeID++ {
		if trade, ok := r.store.trades[tradeID]; ok {
			t := trade
			allTrades = append(allTrades, &t)
		}
	}
	return allTrades, nil
}

func (r tradeRepositoryImpl) GetTradesForAccount(
	_ context.Context, account string,
) ([]*domain.Trade, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	tradeIDs := r.store.tradesByAccount[account]
	trades := make([]*domain.Trade, 0, len(tradeIDs))
	for _, tradeID := range tradeIDs {
		trade := r.store.trades[tradeID]
		t := trade
		trades = append(trades, &t)
	}
	return trades, nil
}

func (r tradeRepositoryImpl) UpdateTrade(
	_ context.Context,
	tradeID uint64,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentTrade, err := r.getTrade(tradeID)
	if err != nil {
		return err
	}

	updatedTrade, err := updateFn(currentTrade)
	if err != nil {
		return err
	}

	r.store.trades[tradeID] = *updatedTrade
	return nil
}

func (r tradeRepositoryImpl) getTrade(tradeID uint64) (*domain.Trade, error) {
	trade, ok := r.store.trades[tradeID]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	return &trade, nil
}

func (r tradeRepositoryImpl) addTradeByAccount(account string, tradeID uint64) {
	tradeIDs, ok := r.store.tradesByAccount[account]
	if !ok {
		r.store.tradesByAccount[account] = []uint64{tradeID}
		return
	}

	if !contain(tradeIDs, tradeID) {
		r.store.tradesByAccount[account] = append(
			r.store.tradesByAccount[account],
			tradeID,
		)
	}
}

func contain(list []uint64, id uint64) bool {
	for _, l := range list {
		if id == l {
			return true
		}
	}
	return false
}
