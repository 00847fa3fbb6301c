package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/barter-network/barterd/internal/config"
	"github.com/barter-network/barterd/internal/core/application"
	"github.com/barter-network/barterd/internal/core/ports"
	nftregistry "github.com/barter-network/barterd/internal/infrastructure/nft"
	webhookpubsub "github.com/barter-network/barterd/internal/infrastructure/pubsub/webhook"
	dbbadger "github.com/barter-network/barterd/internal/infrastructure/storage/db/badger"
	"github.com/barter-network/barterd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/barter-network/barterd/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, pubsub, err := openStores()
	if err != nil {
		log.WithError(err).Fatal("failed to open datastore")
	}
	defer repoManager.Close()

	feePerNFT, err := config.GetFeePerNFT()
	if err != nil {
		log.WithError(err).Fatal("invalid fee configuration")
	}

	registry := nftregistry.NewService()
	tradeSvc := application.NewTradeService(
		repoManager, registry, pubsub, feePerNFT,
	)

	addr := fmt.Sprintf(":%d", config.GetInt(config.ListenPortKey))
	server := &http.Server{
		Addr:    addr,
		Handler: httpinterface.NewHandler(tradeSvc, registry, pubsub),
	}

	log.Infof("trade interface is listening on %s", addr)
	log.Infof("fee per NFT is %d base units", feePerNFT)

	eg := &errgroup.Group{}
	eg.Go(func() error {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down the daemon")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("error while shutting down the http server")
	}
	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			log.WithError(err).Warn("error while closing the pubsub service")
		}
	}
	if err := eg.Wait(); err != nil {
		log.WithError(err).Error("http server exited with error")
	}

	log.Info("exiting")
}

// openStores returns the configured storage backend. The webhook pubsub
// service is only available with the badger backend since subscriptions
// are persisted in a dedicated badgerhold store.
func openStores() (ports.RepoManager, ports.PubSub, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		log.Warn("using in-memory datastore, state is lost on restart")
		return inmemory.NewRepoManager(), nil, nil
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	dbManager, err := dbbadger.NewDbManager(dbDir, nil)
	if err != nil {
		return nil, nil, err
	}
	repoManager := dbbadger.NewRepoManager(dbManager)

	pubsub, err := webhookpubsub.NewWebhookPubSubService(dbManager.PubSubStore)
	if err != nil {
		repoManager.Close()
		return nil, nil, err
	}

	return repoManager, pubsub, nil
}
