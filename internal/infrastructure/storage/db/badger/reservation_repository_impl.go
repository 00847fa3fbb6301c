package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/barter-network/barterd/internal/core/domain"
)

// reservation binds an asset reference to the trade committing it.
type reservation struct {
	AssetKey string
	TradeID  uint64
}

type reservationRepositoryImpl struct {
	db *DbManager
}

// NewReservationRepositoryImpl returns a badger ReservationRepository
// implementation.
func NewReservationRepositoryImpl(db *DbManager) domain.ReservationRepository {
	return &reservationRepositoryImpl{db}
}

func (r *reservationRepositoryImpl) ReserveAssets(
	ctx context.Context, assets []domain.AssetRef, tradeID uint64,
) error {
	for _, asset := range assets {
		reservedBy, ok, err := r.GetReservation(ctx, asset)
		if err != nil {
			return err
		}
		if ok && reservedBy != tradeID {
			return domain.ErrAssetReserved
		}
	}

	for _, asset := range assets {
		entry := reservation{AssetKey: asset.Key(), TradeID: tradeID}
		if err := r.db.Store.Upsert(asset.Key(), entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *reservationRepositoryImpl) ReleaseAssets(
	_ context.Context, assets []domain.AssetRef,
) error {
	for _, asset := range assets {
		err := r.db.Store.Delete(asset.Key(), reservation{})
		if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (r *reservationRepositoryImpl) GetReservation(
	_ context.Context, asset domain.AssetRef,
) (uint64, bool, error) {
	var entry reservation
	if err := r.db.Store.Get(asset.Key(), &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return entry.TradeID, true, nil
}
