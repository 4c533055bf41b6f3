// Command hansard ingests parliamentary proceedings and reconciles speaker names.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	rediscache "github.com/custodia-labs/hansard-cli/internal/adapters/driven/cache/redis"
	candidatefile "github.com/custodia-labs/hansard-cli/internal/adapters/driven/candidates/file"
	configfile "github.com/custodia-labs/hansard-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/hansard-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/hansard-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/hansard-cli/internal/connectors/hansard"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/core/services"
	"github.com/custodia-labs/hansard-cli/internal/logger"
	"github.com/custodia-labs/hansard-cli/internal/metrics"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// homeEnv overrides the configuration directory (default ~/.hansard).
const homeEnv = "HANSARD_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		m        = metrics.New()
		textfile string
		closers  []func() error
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	cli.SetVersion(version)
	cli.SetServiceFactory(func(context.Context) (cli.Services, error) {
		cfg, err := configfile.Load(os.Getenv(homeEnv))
		if err != nil {
			return cli.Services{}, fmt.Errorf("loading config: %w", err)
		}
		textfile = cfg.Metrics.Textfile

		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return cli.Services{}, fmt.Errorf("opening store: %w", err)
		}
		closers = append(closers, store.Close)

		candidatesPath := cfg.Reconcile.CandidatesFile
		if candidatesPath == "" {
			candidatesPath = filepath.Join(filepath.Dir(store.Path()), candidatefile.DefaultFileName)
		}
		candidates, err := candidatefile.NewCandidateStore(candidatesPath)
		if err != nil {
			return cli.Services{}, fmt.Errorf("opening candidate store: %w", err)
		}

		var sittingCache driven.SittingDateCache = store.SittingDateCache()
		if redisCfg := cfg.Storage.Redis; redisCfg.Addr != "" {
			shared := rediscache.NewSittingDateCache(rediscache.Options{
				Addr:     redisCfg.Addr,
				Password: redisCfg.Password,
				DB:       redisCfg.DB,
			})
			closers = append(closers, shared.Close)
			sittingCache = shared
		}

		client := hansard.NewClient(
			hansard.WithRetryDelay(time.Duration(cfg.Upstream.RetryDelay)),
			hansard.WithRateLimit(cfg.RateLimit()),
			hansard.WithObserver(m),
		)
		upstream := hansard.NewUpstream(client, cfg.HansardConfig())

		registry := store.MemberRegistry()
		sitting := services.NewSittingDateResolver(upstream, sittingCache)
		members := services.NewMemberResolver(registry)

		ingest := m.InstrumentIngest(
			services.NewIngestor(sitting, upstream, members, store.ProceedingStore(), cfg.PipelineSettings()))
		reconcile := m.InstrumentReconcile(
			services.NewReconciler(registry, upstream, candidates, cfg.ReconcilerSettings()))

		var serveMetrics func(context.Context) error
		if addr := cfg.Metrics.ListenAddr; addr != "" {
			serveMetrics = func(ctx context.Context) error { return m.Serve(ctx, addr) }
		}

		return cli.Services{
			Ingest:        ingest,
			Reconcile:     reconcile,
			Sitting:       sitting,
			Watch:         services.NewWatcher(ingest, reconcile),
			WatchSchedule: cfg.Watch.Schedule,
			MetricsServer: serveMetrics,
		}, nil
	})

	err := cli.Execute(ctx)

	if textfile != "" {
		if werr := m.WriteTextfile(textfile); werr != nil {
			logger.Warn("%v", werr)
		}
	}
	return err
}
