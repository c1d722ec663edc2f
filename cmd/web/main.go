// cmd/web/main.go
//
// CraftFlow storefront – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load layered configuration (.env → conf/global.yaml → CRAFTFLOW_*).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Resolve `vault:` secret references when a Vault address is set.
//
//  5. Open the domain-map control DB and log verified-domain count.
//
//  6. Connect the Redis session-identity store.
//
//  7. Build the shared backend API client and the lazy store-config cache.
//
//  8. Assemble the gateway (resolver → enrichment → security → routes),
//     mount Prometheus /metrics beside it, and serve with hard timeouts
//     and graceful shutdown.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftflow/storefront/internal/api"
	"github.com/craftflow/storefront/internal/config"
	"github.com/craftflow/storefront/internal/database"
	"github.com/craftflow/storefront/internal/domainmap"
	"github.com/craftflow/storefront/internal/gateway"
	"github.com/craftflow/storefront/internal/logger"
	"github.com/craftflow/storefront/internal/requestinfo"
	"github.com/craftflow/storefront/internal/resolver"
	"github.com/craftflow/storefront/internal/server"
	"github.com/craftflow/storefront/internal/session"
	"github.com/craftflow/storefront/internal/store"
	"github.com/craftflow/storefront/internal/vault"
)

const serverEnvPath = "/usr/local/etc/craftflow/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	//
	// ── 2.  Secrets ─────────────────────────────────────────────────────
	//
	var vcli *vault.Client
	if os.Getenv("VAULT_ADDR") != "" {
		vcli, err = vault.New(ctx, zlog.Infof)
		if err != nil {
			zlog.Fatalw("vault connect", "err", err)
		}
	}
	if err := config.ResolveSecrets(ctx, cfg, vcli); err != nil {
		zlog.Fatalw("resolve secrets", "err", err)
	}

	//
	// ── 3.  Domain-map control DB ───────────────────────────────────────
	//
	dsn := strings.ReplaceAll(cfg.Database.DomainMapDSN, "${password}", cfg.Database.Password)
	zlog.Infow("connecting to domain-map DB")
	db, err := database.Open(ctx, dsn)
	if err != nil {
		zlog.Fatalw("connect domain-map DB", "err", err)
	}
	defer db.Close()

	repo := domainmap.NewRepository(db)
	if recs, err := repo.AllVerified(ctx); err == nil {
		// Early sanity check, mirrors what the resolver will see.
		zlog.Infow("domain map online", "verified_domains", len(recs))
	} else {
		zlog.Warnw("domain map preflight failed", "err", err)
	}
	mapper := domainmap.NewCache(repo, domainmap.DefaultTTL)

	//
	// ── 4.  Session store ───────────────────────────────────────────────
	//
	sessions, err := session.NewRedis(ctx, session.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatalw("connect session redis", "err", err)
	}

	//
	// ── 5.  Backend client and store-config cache ───────────────────────
	//
	opts := []api.Option{}
	if cfg.API.TimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	}
	if cfg.API.Token != "" {
		token := cfg.API.Token
		opts = append(opts, api.WithToken(func() string { return token }))
	}
	backend := api.New(cfg.API.BaseURL, opts...)

	stores := store.New(store.NewAPILoader(backend), store.IdleTTL, store.MaxEntries)
	defer stores.Close()

	// Optional GeoLite2 enrichment; UA parsing works without it.
	if geoPath := os.Getenv("CRAFTFLOW_GEOIP_DB"); geoPath != "" {
		if err := requestinfo.InitGeo(geoPath); err != nil {
			zlog.Warnw("geoip disabled", "path", geoPath, "err", err)
		}
	}

	//
	// ── 6.  Gateway and metrics ─────────────────────────────────────────
	//
	gw := gateway.New(gateway.Options{
		Resolver: resolver.Config{
			MainDomain:      cfg.Platform.MainDomain,
			PreviewSuffix:   cfg.Platform.PreviewSuffix,
			StorePathPrefix: cfg.Platform.StorePathPrefix,
			Mapper:          mapper,
		},
		Stores:     stores,
		Sessions:   sessions,
		Backend:    backend,
		BaseURL:    cfg.API.BaseURL,
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", gw.Handler())

	//
	// ── 7.  Serve with graceful shutdown ────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, mux)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	zlog.Infow("listening", "addr", cfg.HTTP.ListenAddr, "main_domain", cfg.Platform.MainDomain)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zlog.Fatalw("http server", "err", err)
	case sig := <-sigCh:
		zlog.Infow("shutting down", "signal", sig.String())
		if err := server.Shutdown(srv); err != nil {
			zlog.Errorw("shutdown", "err", err)
		}
	}
}
