package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rally-dfs/rly-rewards-sub000/internal/balance"
	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum"
	ethrpc "github.com/rally-dfs/rly-rewards-sub000/internal/chain/ethereum/rpc"
	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/ratelimit"
	"github.com/rally-dfs/rly-rewards-sub000/internal/chain/solana"
	solrpc "github.com/rally-dfs/rly-rewards-sub000/internal/chain/solana/rpc"
	"github.com/rally-dfs/rly-rewards-sub000/internal/config"
	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
	"github.com/rally-dfs/rly-rewards-sub000/internal/eventsource"
	"github.com/rally-dfs/rly-rewards-sub000/internal/store/postgres"
	redisstore "github.com/rally-dfs/rly-rewards-sub000/internal/store/redis"
	"github.com/rally-dfs/rly-rewards-sub000/internal/syncer"
	"github.com/rally-dfs/rly-rewards-sub000/internal/tracing"
)

const usage = `usage: rewards-sync <command> [flags]

commands:
  sync-accounts   discover active accounts and record daily balances
  sync-balances   re-resolve daily balances for known accounts
  seed-tokens     upsert tracked tokens from a YAML seed file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "rewards-sync", cfg.Tracing.OTLPEndpoint, cfg.Tracing.Insecure)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()

	db, err := postgres.New(postgres.Config{
		URL:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations("internal/store/postgres/migrations"); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	startMetricsServer(ctx, cfg.Server.MetricsPort, logger)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "sync-accounts":
		err = runSyncAccounts(ctx, cfg, db, logger, args)
	case "sync-balances":
		err = runSyncBalances(ctx, cfg, db, logger, args)
	case "seed-tokens":
		err = runSeedTokens(ctx, db, logger, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
	logger.Info("command completed", "command", command)
}

func runSyncAccounts(ctx context.Context, cfg *config.Config, db *postgres.DB, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sync-accounts", flag.ExitOnError)
	endDateFlag := fs.String("end-date", model.FormatDay(time.Now().UTC().AddDate(0, 0, -1)), "last day to sync (YYYY-MM-DD)")
	forceFlag := fs.Bool("force", false, "sync only end-date, ignoring the watermark")
	mintFlag := fs.String("mint", "", "sync a single tracked token by id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	endDate, err := model.ParseDay(*endDateFlag)
	if err != nil {
		return err
	}

	var tokenID *uuid.UUID
	if *mintFlag != "" {
		id, err := uuid.Parse(*mintFlag)
		if err != nil {
			return fmt.Errorf("parse -mint: %w", err)
		}
		tokenID = &id
	}

	orchestrator, cleanup, err := buildOrchestrator(cfg, db, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return orchestrator.SyncAccountsForEndDate(ctx, endDate, *forceFlag, tokenID)
}

func runSyncBalances(ctx context.Context, cfg *config.Config, db *postgres.DB, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sync-balances", flag.ExitOnError)
	fromFlag := fs.String("from", "", "earliest day to resolve (YYYY-MM-DD)")
	toFlag := fs.String("to", "", "latest day to resolve (YYYY-MM-DD)")
	tokensFlag := fs.String("tokens", "", "comma-separated tracked token ids (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fromFlag == "" || *toFlag == "" {
		return fmt.Errorf("-from and -to are required")
	}

	earliest, err := model.ParseDay(*fromFlag)
	if err != nil {
		return err
	}
	latest, err := model.ParseDay(*toFlag)
	if err != nil {
		return err
	}

	var tokenIDs []uuid.UUID
	if *tokensFlag != "" {
		for _, raw := range strings.Split(*tokensFlag, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("parse -tokens entry %q: %w", raw, err)
			}
			tokenIDs = append(tokenIDs, id)
		}
	}

	orchestrator, cleanup, err := buildOrchestrator(cfg, db, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return orchestrator.SyncBalancesForDateRange(ctx, earliest, latest, tokenIDs)
}

func runSeedTokens(ctx context.Context, db *postgres.DB, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("seed-tokens", flag.ExitOnError)
	fileFlag := fs.String("file", "tokens.yaml", "path to the token seed file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seeds, err := config.LoadTokenSeeds(*fileFlag)
	if err != nil {
		return err
	}

	repo := postgres.NewTrackedTokenRepo(db)
	for _, seed := range seeds {
		chain, err := model.ParseChain(seed.Chain)
		if err != nil {
			return err
		}
		id, err := repo.Upsert(ctx, &model.TrackedToken{
			Chain:       chain,
			MintAddress: seed.Mint,
			Decimals:    seed.Decimals,
			DisplayName: seed.DisplayName,
		})
		if err != nil {
			return fmt.Errorf("seed token %s/%s: %w", seed.Chain, seed.Mint, err)
		}
		logger.Info("token seeded", "chain", seed.Chain, "mint", seed.Mint, "id", id)
	}
	return nil
}

// buildOrchestrator wires the event source, chain clients, resolvers, and
// repositories into a ready-to-run orchestrator. The returned cleanup closes
// the optional redis locker.
func buildOrchestrator(cfg *config.Config, db *postgres.DB, logger *slog.Logger) (*syncer.Orchestrator, func(), error) {
	esClient := eventsource.NewClient(cfg.EventSource.URL, cfg.EventSource.APIKey, cfg.EventSource.Timeout, logger)
	pager := eventsource.NewPager(cfg.EventSource.PageLimit, cfg.EventSource.MaxOffset, cfg.EventSource.PageDelay, logger)
	source := eventsource.NewService(esClient, pager)

	solClient := solrpc.NewClient(cfg.Solana.RPCURL, cfg.Solana.FallbackRPCURL, logger)
	solFetcher := solana.NewFetcher(solClient, cfg.Sync.TxBatchSize, logger)

	var ethLimiter *ratelimit.Limiter
	if cfg.Ethereum.RateLimitPerSecond > 0 {
		ethLimiter = ratelimit.NewLimiter(cfg.Ethereum.RateLimitPerSecond, 1, "ethereum")
	}
	ethClient := ethrpc.NewClient(cfg.Ethereum.RPCURL, ethLimiter, logger)
	ethFetcher := ethereum.NewFetcher(ethClient, cfg.Ethereum.MaxConcurrentCalls, logger)

	var locker syncer.Locker
	cleanup := func() {}
	if cfg.Redis.URL != "" {
		redisLocker, err := redisstore.NewLocker(cfg.Redis.URL, cfg.Redis.LockTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		locker = redisLocker
		cleanup = func() {
			if err := redisLocker.Close(); err != nil {
				logger.Warn("redis close error", "error", err)
			}
		}
	}

	orchestrator := syncer.NewOrchestrator(syncer.Deps{
		Runner:       db,
		Tokens:       postgres.NewTrackedTokenRepo(db),
		Accounts:     postgres.NewTokenAccountRepo(db, cfg.Sync.ChunkSize),
		Snapshots:    postgres.NewBalanceSnapshotRepo(db, cfg.Sync.ChunkSize),
		Changes:      postgres.NewBalanceChangeRepo(db, cfg.Sync.ChunkSize),
		Transactions: postgres.NewAccountTransactionRepo(db, cfg.Sync.ChunkSize),
		Discoverers: map[model.Chain]syncer.Discoverer{
			model.ChainSolana:   syncer.NewSolanaDiscoverer(source, solFetcher, cfg.Sync.BalanceRetryLimit, logger),
			model.ChainEthereum: syncer.NewEthereumDiscoverer(source, ethFetcher, logger),
		},
		Resolvers: map[model.Chain]balance.Resolver{
			model.ChainSolana:   balance.NewSolanaResolver(source, solFetcher, cfg.Sync.BalanceRetryLimit, logger),
			model.ChainEthereum: balance.NewEthereumResolver(source, ethFetcher, logger),
		},
		Locker: locker,
		Logger: logger,
	})
	return orchestrator, cleanup, nil
}

func startMetricsServer(ctx context.Context, port int, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server shutdown error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Warn("metrics server error", "error", err)
		}
	}()
}
