package inmemory

import (
	"sync"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
)

type repoManager struct {
	tradeRepository       domain.TradeRepository
	reservationRepository domain.ReservationRepository
}

// NewRepoManager returns an in-memory implementation of the RepoManager
// interface. Nothing survives a restart, it is meant for tests and for
// running the daemon without a datadir.
func NewRepoManager() ports.RepoManager {
	tradeStore := &tradeInmemoryStore{
		trades:          make(map[uint64]domain.Trade),
		tradesByAccount: make(map[string][]uint64),
		locker:          &sync.Mutex{},
	}
	reservationStore := &reservationInmemoryStore{
		reservations: make(map[string]uint64),
		locker:       &sync.Mutex{},
	}

	return &repoManager{
		tradeRepository:       NewTradeRepositoryImpl(tradeStore),
		reservationRepository: NewReservationRepositoryImpl(reservationStore),
	}
}

func (m *repoManager) TradeRepository() domain.TradeRepository {
	return m.tradeRepository
}

func (m *repoManager) ReservationRepository() domain.ReservationRepository {
	return m.reservationRepository
}

func (m *repoManager) Close() {}
