package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
)

// DbManager holds all the badgerhold stores in a single data structure.
type DbManager struct {
	Store       *badgerhold.Store
	PubSubStore *badgerhold.Store
}

// NewDbManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. It creates a
// dedicated directory for trades and pubsub subscriptions.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	tradeDb, err := createDb(filepath.Join(baseDbDir, "trades"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening trades db: %w", err)
	}

	pubsubDb, err := createDb(filepath.Join(baseDbDir, "pubsub"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}

	return &DbManager{
		Store:       tradeDb,
		PubSubStore: pubsubDb,
	}, nil
}

type repoManager struct {
	db                    *DbManager
	tradeRepository       domain.TradeRepository
	reservationRepository domain.ReservationRepository
}

// NewRepoManager returns a badger implementation of the RepoManager
// interface on top of an open DbManager.
func NewRepoManager(db *DbManager) ports.RepoManager {
	return &repoManager{
		db:                    db,
		tradeRepository:       NewTradeRepositoryImpl(db),
		reservationRepository: NewReservationRepositoryImpl(db),
	}
}

func (m *repoManager) TradeRepository() domain.TradeRepository {
	return m.tradeRepository
}

func (m *repoManager) ReservationRepository() domain.ReservationRepository {
	return m.reservationRepository
}

func (m *repoManager) Close() {
	m.db.Store.Close()
	m.db.PubSubStore.Close()
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (db *badgerhold.Store, err error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err = badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})

	return
}
