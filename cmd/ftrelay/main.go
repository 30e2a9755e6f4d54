// Command ftrelay runs the NEAR fungible-token transfer relay: an HTTP
// admission/query server backed by a batching worker that signs and
// submits transfers with a pool of access keys.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nearft/relay/internal/api"
	"github.com/nearft/relay/internal/audit"
	"github.com/nearft/relay/internal/bootstrap"
	"github.com/nearft/relay/internal/config"
	"github.com/nearft/relay/internal/ingress"
	"github.com/nearft/relay/internal/logging"
	"github.com/nearft/relay/internal/metrics"
	"github.com/nearft/relay/internal/model"
	"github.com/nearft/relay/internal/near"
	"github.com/nearft/relay/internal/near/rpc"
	"github.com/nearft/relay/internal/store"
	"github.com/nearft/relay/internal/worker"
)

func main() {
	settingsPath := flag.String("settings", "Settings.toml", "path to the relay's TOML settings file")
	dev := flag.Bool("dev", false, "enable development-mode logging")
	flag.Parse()

	log, err := logging.New(logging.Options{Development: *dev})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(*settingsPath, log); err != nil {
		log.Fatalw("relay exited with error", "error", err)
	}
}

func run(settingsPath string, log *zap.SugaredLogger) error {
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	st, err := newStore(cfg)
	if err != nil {
		return err
	}

	rpcClient, err := rpc.NewHTTPClient(cfg.File.Near.RPCURLs, log)
	if err != nil {
		return err
	}
	defer rpcClient.Close()

	submitter := near.NewSubmitter(rpcClient, cfg.File.Near.MasterAccountID, cfg.File.Near.ContractID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, _, err := bootstrap.ProvisionPool(ctx, submitter, cfg.MasterSeedPhrase, cfg.File.Near.NumPoolKeys, log)
	if err != nil {
		return err
	}
	m.KeyPoolSize.Set(float64(pool.Len()))

	auditLog, err := audit.NewLogger("data/batch-audit.ndjson")
	if err != nil {
		return err
	}

	queue := make(chan model.QueueItem, cfg.File.Queue.Capacity)

	ing := ingress.New(st, queue, cfg.File.Near.MasterAccountID, log, m)

	w := worker.New(queue, st, pool, submitter, auditLog, m, log, worker.Config{
		MaxBatchSize:  cfg.File.Batch.MaxSize,
		RecvTimeout:   time.Duration(cfg.File.Batch.RecvTimeoutMillis) * time.Millisecond,
		MaxConcurrent: int64(cfg.File.Batch.MaxConcurrent),
	})

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorw("worker stopped unexpectedly", "error", err)
		}
	}()

	a := api.New(st, pool, log)
	router := api.NewRouter(a, ing.Handler(), reg)

	srv := &http.Server{Addr: cfg.File.Server.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infow("relay listening", "addr", cfg.File.Server.Addr, "pool_size", pool.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newStore(cfg *config.Settings) (store.Store, error) {
	if cfg.RedisURL == "" {
		return store.NewMemory(), nil
	}
	return store.NewRedis(cfg.RedisURL)
}
