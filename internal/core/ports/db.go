package ports

import (
	"github.com/barter-network/barterd/internal/core/domain"
)

// RepoManager gives access to all the repositories of the daemon and
// manages the underlying storage.
type RepoManager interface {
	TradeRepository() domain.TradeRepository
	ReservationRepository() domain.ReservationRepository

	Close()
}
