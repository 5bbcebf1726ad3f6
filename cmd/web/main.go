// cmd/web/main.go
//
// SEO edge – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Console bootstrap logger, then config (conf/.env → conf/global.yaml →
//     SEO_* env).
//
//  2. Vault: only when a config secret is a `vault:` reference.
//
//  3. File logger (tees to console when running in a TTY).
//
//  4. Content store: MySQL through sqlx, or YAML fixtures in memory.
//
//  5. Resolution cache (in-process LRU, optional Redis tier), hostname
//     matcher, and the resolution engine.
//
//  6. Renderer and human strategy, then the chi router with every enabled
//     component (edge, preview, debug) mounted.
//
//  7. Serve until SIGINT/SIGTERM, drain, and close the store and Redis.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/config"
	"github.com/yanizio/seoedge/internal/database"
	"github.com/yanizio/seoedge/internal/hostmatch"
	"github.com/yanizio/seoedge/internal/logger"
	"github.com/yanizio/seoedge/internal/render"
	"github.com/yanizio/seoedge/internal/requestinfo"
	"github.com/yanizio/seoedge/internal/rescache"
	"github.com/yanizio/seoedge/internal/resolve"
	"github.com/yanizio/seoedge/internal/server"
	"github.com/yanizio/seoedge/internal/store"
	"github.com/yanizio/seoedge/internal/store/memstore"
	"github.com/yanizio/seoedge/internal/store/sqlstore"
	"github.com/yanizio/seoedge/internal/vault"

	_ "github.com/yanizio/seoedge/components/debug"
	_ "github.com/yanizio/seoedge/components/edge"
	_ "github.com/yanizio/seoedge/components/preview"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := run(); err != nil {
		zap.S().Errorw("fatal", "err", err)
		_ = zap.L().Sync()
		log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	logger.Bootstrap()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	//
	// ── 2.  Secrets ─────────────────────────────────────────────────────
	//
	if err := resolveSecrets(ctx, cfg); err != nil {
		return err
	}

	//
	// ── 3.  File logger ─────────────────────────────────────────────────
	//
	logOut, err := logger.New(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Tee: runningInTTY()})
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = logOut.Sync() }()

	if err := requestinfo.InitGeo(rooted(cfg, cfg.Geo.DBPath)); err != nil {
		logOut.Warnw("geolocation disabled", "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 4.  Content store ───────────────────────────────────────────────
	//
	var resources []server.Resource
	health := map[string]server.Pinger{}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	resources = append(resources, server.Resource{Name: "store", Close: closeStore})
	health["store"] = st

	//
	// ── 5.  Cache, matcher, engine ──────────────────────────────────────
	//
	cacheOpts := rescache.Options{TTL: cfg.Cache.TTL, MaxEntries: cfg.Cache.MaxEntries}
	if cfg.Cache.TTL > 0 && cfg.Cache.RedisAddr != "" {
		rd, err := rescache.NewRedis(ctx, rescache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			// The shared tier is an optimisation; run without it.
			logOut.Warnw("redis cache tier disabled", "err", err)
		} else {
			cacheOpts.Remote = rd
			health["redis"] = rd
			resources = append(resources, server.Resource{Name: "redis", Close: func(context.Context) error { return rd.Close() }})
		}
	}

	matcher := hostmatch.New(cfg.Platform.Domain, cfg.Platform.ReservedSubdomains, cfg.Platform.ExtraHosts)
	engine := resolve.New(st, matcher, resolve.Options{
		Timeout:          cfg.SEO.ResolveTimeout,
		ProbeConcurrency: cfg.SEO.ProbeConcurrency,
		Cache:            rescache.New[resolve.Result](cacheOpts),
	})

	//
	// ── 6.  Rendering and routes ────────────────────────────────────────
	//
	human, err := render.NewHuman(render.HumanOptions{
		Mode:      cfg.SEO.HumanMode,
		AppOrigin: cfg.SEO.AppOrigin,
		StaticDir: rooted(cfg, cfg.SEO.StaticDir),
	})
	if err != nil {
		return err
	}

	handler := server.Router(server.RouterOptions{
		Deps: component.Deps{
			Engine:   engine,
			Renderer: render.New(cfg.SEO.CacheMaxAge),
			Human:    human,
			Config:   cfg,
		},
		Health:    health,
		KnownHost: knownHost(matcher, st),
		RequestInfo: requestinfo.Options{
			ForceParam:  cfg.SEO.ForceParam,
			ForceHeader: cfg.SEO.ForceHeader,
		},
	})

	//
	// ── 7.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, handler)
	return server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout, resources...)
}

// resolveSecrets replaces `vault:` references in place.  Vault is only
// contacted when at least one reference exists.
func resolveSecrets(ctx context.Context, cfg *config.Config) error {
	secrets := []*string{&cfg.Database.Password, &cfg.Cache.RedisPassword}

	need := false
	for _, s := range secrets {
		need = need || vault.IsRef(*s)
	}
	if !need {
		return nil
	}

	cli, err := vault.New(ctx)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	for _, s := range secrets {
		v, err := cli.Resolve(ctx, *s)
		if err != nil {
			return fmt.Errorf("resolve secret: %w", err)
		}
		*s = v
	}
	return nil
}

// openStore selects the content store by database.driver.  The returned
// func closes it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(context.Context) error, error) {
	switch cfg.Database.Driver {
	case "memory":
		ms, err := memstore.Load(rooted(cfg, cfg.Database.FixturesPath))
		if err != nil {
			return nil, nil, err
		}
		zap.S().Infow("content store online", "driver", "memory", "fixtures", cfg.Database.FixturesPath)
		return ms, func(context.Context) error { return nil }, nil
	default:
		dsn, err := database.DSN(cfg.Database.DSN, cfg.Database.Password)
		if err != nil {
			return nil, nil, err
		}
		opts := database.DefaultOptions
		if cfg.Database.MaxOpenConns > 0 {
			opts.MaxOpenConns = cfg.Database.MaxOpenConns
		}
		if cfg.Database.MaxIdleConns > 0 {
			opts.MaxIdleConns = cfg.Database.MaxIdleConns
		}
		db, err := database.OpenWithOptions(ctx, dsn, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect content DB: %w", err)
		}
		zap.S().Infow("content store online", "driver", "mysql")
		return sqlstore.New(db), func(context.Context) error { return db.Close() }, nil
	}
}

// knownHost decides which plain-HTTP hosts ForceHTTPS upgrades: the
// platform family plus any verified custom domain.
func knownHost(m *hostmatch.Matcher, st store.Store) func(string) bool {
	return func(host string) bool {
		if m.IsPlatformHost(host) {
			return true
		}
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		ds, err := st.FindVerifiedDomains(ctx, resolve.Candidates(host))
		return err == nil && len(ds) > 0
	}
}

// rooted joins a relative path onto the config root.
func rooted(cfg *config.Config, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.Paths.Root, p)
}
