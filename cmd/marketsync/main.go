package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/api"
	"github.com/wyzinc/marketsync/internal/cache"
	"github.com/wyzinc/marketsync/internal/classify"
	"github.com/wyzinc/marketsync/internal/config"
	"github.com/wyzinc/marketsync/internal/listings"
	"github.com/wyzinc/marketsync/internal/marketplace"
	"github.com/wyzinc/marketsync/internal/match"
	"github.com/wyzinc/marketsync/internal/reconcile"
	"github.com/wyzinc/marketsync/internal/resolve"
	"github.com/wyzinc/marketsync/internal/scheduler"
	"github.com/wyzinc/marketsync/internal/supplier"
	"github.com/wyzinc/marketsync/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := util.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting marketsync")

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	if closeStore != nil {
		defer closeStore()
	}

	searcher, offers := buildMarketplace(cfg, logger)

	snapshot := listings.NewSnapshot()
	if cfg.InventoryReportPath != "" {
		snapshot, err = listings.LoadFile(cfg.InventoryReportPath)
		if err != nil {
			logger.Fatal("inventory snapshot load failed",
				zap.String("path", cfg.InventoryReportPath), zap.Error(err))
		}
		logger.Info("inventory snapshot loaded", zap.Int("listings", snapshot.Len()))
	}

	source, err := buildSource(cfg)
	if err != nil {
		logger.Fatal("supplier source init failed", zap.Error(err))
	}

	resolver := resolve.New(searcher, match.NewScorer(), store,
		resolve.Config{MaxCandidates: cfg.MaxCandidates}, logger)
	reconciler := reconcile.New(snapshot, offers, cfg.SellerID)

	blocklist := classify.BlocklistFromConfig(cfg.BrandBlocklist)
	classifier := classify.New(resolver, reconciler, blocklist, logger)
	service := classify.NewService(source, classifier, resolver, store, cfg.ReportPath, logger)

	router := api.NewRouter(api.NewHandler(service, logger), logger)
	srv := api.NewServer(cfg.ListenAddr, router, cfg.ReadTimeout, cfg.WriteTimeout)

	var sched *scheduler.Scheduler
	if cfg.CronSpec != "" {
		sched = scheduler.New(service, logger)
		if _, err := sched.Schedule(cfg.CronSpec); err != nil {
			logger.Fatal("invalid cron spec", zap.String("spec", cfg.CronSpec), zap.Error(err))
		}
		sched.Start()
		logger.Info("batch schedule active", zap.String("spec", cfg.CronSpec))
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}

	logger.Info("stopped")
}

// buildStore selects the resolution cache backend
func buildStore(cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "file":
		fs, err := cache.NewFileStore(cfg.CacheFilePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case "redis":
		rs, err := cache.NewRedisStore(context.Background(),
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	case "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// buildMarketplace returns the live client when a token is configured
// and the deterministic simulator otherwise
func buildMarketplace(cfg *config.Config, logger *zap.Logger) (marketplace.CatalogSearcher, marketplace.OfferFetcher) {
	client := marketplace.NewClient(marketplace.Config{
		BaseURL:        cfg.MarketplaceBaseURL,
		Token:          cfg.MarketplaceToken,
		MarketplaceID:  cfg.MarketplaceID,
		SellerID:       cfg.SellerID,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	if client != nil {
		return client, client
	}

	logger.Warn("no marketplace token configured, using simulator")
	sim := marketplace.NewSimulator()
	return sim, sim
}

// buildSource picks the supplier feed: a local file when configured,
// otherwise the portal scraper
func buildSource(cfg *config.Config) (classify.Source, error) {
	if cfg.SupplierFeedPath != "" {
		return &supplier.FileSource{Path: cfg.SupplierFeedPath}, nil
	}
	if cfg.SupplierPortalURL != "" {
		return &supplier.PortalSource{Client: supplier.NewPortalClient(cfg.SupplierPortalURL)}, nil
	}
	return nil, errors.New("no supplier source configured, set SUPPLIER_FEED_PATH or SUPPLIER_PORTAL_URL")
}
