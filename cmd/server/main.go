// Command server is the stitcher's composition root: it loads
// configuration, wires the session manager, ad provider and HTTP
// client, starts the background sweeper, and serves the HTTP API
// until a termination signal arrives.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamops/stitcher/internal/ad"
	"github.com/streamops/stitcher/internal/api"
	"github.com/streamops/stitcher/internal/cache"
	"github.com/streamops/stitcher/internal/config"
	"github.com/streamops/stitcher/internal/httpclient"
	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/metrics"
	"github.com/streamops/stitcher/internal/session"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const sweepInterval = 60 * time.Second

func main() {
	logLevel := flag.String("L", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.NewLogger(*logLevel)
	log.Infof("starting stitcher %s", version)

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("configuration error: %v", err)
		os.Exit(1)
	}
	log.Infof("loaded configuration: mode=%s provider=%s store=%s", cfg.StitchingMode, cfg.AdProviderType, cfg.SessionStore)

	counters := &metrics.Counters{}
	client := httpclient.New(log)

	sessions, err := newSessionManager(cfg, log)
	if err != nil {
		log.Errorf("failed to initialize session store: %v", err)
		os.Exit(1)
	}

	provider := newAdProvider(cfg, client, counters, log)

	byteCache := cache.New(log, 10*time.Second)
	byteCache.Start()

	router := api.New(api.Deps{
		Config:     cfg,
		Logger:     log,
		HTTPClient: client,
		Sessions:   sessions,
		AdProvider: provider,
		Metrics:    counters,
		ByteCache:  byteCache,
		StartedAt:  time.Now(),
		Version:    version,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, sessions, counters, log)

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Infof("shutting down")

	stopSweep()
	byteCache.Stop()
	sessions.Stop()
	if stoppable, ok := provider.(interface{ Stop() }); ok {
		stoppable.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
		os.Exit(1)
	}
	log.Infof("shutdown complete")
}

func newSessionManager(cfg *config.Config, log logger.Logger) (session.Manager, error) {
	if cfg.SessionStore == config.SessionStoreRemote {
		return session.NewRedisManager(cfg.RemoteStoreURL, cfg.SessionTTL, log)
	}
	return session.NewMemoryManager(cfg.SessionTTL, log), nil
}

func newAdProvider(cfg *config.Config, client *httpclient.Client, counters *metrics.Counters, log logger.Logger) ad.Provider {
	var slate *ad.SlateProvider
	if cfg.SlateURL != "" {
		slate = ad.NewSlateProvider(cfg.SlateURL, cfg.SlateSegmentDuration, 10)
	}

	switch cfg.AdProviderType {
	case config.ProviderVAST:
		return ad.NewVastProvider(cfg.VastEndpoint, client, slate, counters, cfg.SessionTTL, log)
	default:
		return ad.NewStaticProvider(cfg.AdSourceURL, cfg.AdSegmentDuration, 10)
	}
}

// runSweeper runs the background maintenance task from spec §4.12/§5:
// evict expired sessions every sweepInterval and increment the
// session_evicted counter when a sweep lowered the session count.
// /health reads active_sessions live from the session manager. The
// ad-provider's own resolved-creative cache sweeps on its own internal
// ticker once started.
func runSweeper(ctx context.Context, sessions session.Manager, counters *metrics.Counters, log logger.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before, _ := sessions.SessionCount(ctx)
			if err := sessions.CleanupExpired(ctx); err != nil {
				log.Warnf("session sweep failed: %v", err)
				continue
			}
			after, _ := sessions.SessionCount(ctx)
			if before > after {
				counters.Inc("session_evicted")
			}
		}
	}
}
