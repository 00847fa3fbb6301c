package inmemory

import (
	"context"
	"sync"

	"github.com/barter-network/barterd/internal/core/domain"
)

type reservationInmemoryStore struct {
	reservations map[string]uint64
	locker       *sync.Mutex
}

type reservationRepositoryImpl struct {
	store *reservationInmemoryStore
}

// NewReservationRepositoryImpl returns a new inmemory
// ReservationRepository implementation.
func NewReservationRepositoryImpl(
	store *reservationInmemoryStore,
) domain.ReservationRepository {
	return &reservationRepositoryImpl{store}
}

func (r reservationRepositoryImpl) ReserveAssets(
	_ context.Context, assets []domain.AssetRef, tradeID uint64,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, asset := range assets {
		if reservedBy, ok := r.store.reservations[asset.Key()]; ok &&
			reservedBy != tradeID {
			return domain.ErrAssetReserved
		}
	}
	for _, asset := range assets {
		r.store.reservations[asset.Key()] = tradeID
	}
	return nil
}

func (r reservationRepositoryImpl) ReleaseAssets(
	_ context.Context, assets []domain.AssetRef,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, asset := range assets {
		delete(r.store.reservations, asset.Key())
	}
	return nil
}

func (r reservationRepositoryImpl) GetReservation(
	_ context.Context, asset domain.AssetRef,
) (uint64, bool, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	tradeID, ok := r.store.reservations[asset.Key()]
	return tradeID, ok, nil
}
