package domain

import "context"

// TradeRepository is the abstraction for any kind of database intended to
// persist trades. It is the source of truth for trade state.
type TradeRepository interface {
	// AddTrade inserts a new trade and assigns it the next monotonically
	// increasing id. Ids start from 1 and are never reused.
	AddTrade(ctx context.Context, trade *Trade) (uint64, error)
	// GetTrade returns the trade with the given id, or ErrTradeNotFound.
	GetTrade(ctx context.Context, tradeID uint64) (*Trade, error)
	// GetAllTrades returns all the trades stored in the repository sorted
	// by id.
	GetAllTrades(ctx context.Context) ([]*Trade, error)
	// GetTradesForAccount returns all trades in which the account takes
	// part as proposer or recipient, in insertion order and without
	// duplicates.
	GetTradesForAccount(ctx context.Context, account string) ([]*Trade, error)
	// UpdateTrade allows to commit multiple changes to the same trade in a
	// transactional way.
	UpdateTrade(
		ctx context.Context,
		tradeID uint64,
		updateFn func(t *Trade) (*Trade, error),
	) error
}
