package domain

import "context"

// ReservationRepository persists the global asset reservation index
// mapping an asset reference to the trade currently committing it. The
// index is owned exclusively by the trade lifecycle engine and is mutated
// only within the same atomic step as the ledger write, so that no asset
// can be collateral of two depositable trades at the same time.
type ReservationRepository interface {
	// ReserveAssets binds every given asset to the trade. It fails with
	// ErrAssetReserved without reserving anything if any asset is already
	// bound to another trade.
	ReserveAssets(ctx context.Context, assets []AssetRef, tradeID uint64) error
	// ReleaseAssets removes the reservations of the given assets. Missing
	// entries are ignored.
	ReleaseAssets(ctx context.Context, assets []AssetRef) error
	// GetReservation returns the id of the trade reserving the asset, if
	// any.
	GetReservation(ctx context.Context, asset AssetRef) (uint64, bool, error)
}
