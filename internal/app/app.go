package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/binance"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/cache"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/coingecko"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/db"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/infra/leaderboard"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
	repopg "github.com/NastyaGoryachaya/crypto-market-service/internal/repository/postgres"
	reposqlite "github.com/NastyaGoryachaya/crypto-market-service/internal/repository/sqlite"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/scheduler"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/digest"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/favorites"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/history"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/listing"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/movers"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/service/search"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/transport/bot"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/transport/httptransport"
)

// Services - все компоненты с опубликованными списками
type Services struct {
	Listing   listing.Service
	Movers    movers.Service
	Search    search.Service
	History   history.Service
	Favorites favorites.Service // nil без хранилища
}

// NewServices - собирает сервисы поверх провайдеров; store и searchCache могут быть nil
func NewServices(cfg config.Config, log *slog.Logger, store favorites.Store, searchCache search.CandidateCache) Services {
	exec := retry.NewExecutor(retry.Policy{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay}, log)

	gecko := coingecko.NewClient(cfg.CoinGecko)
	board := leaderboard.NewScraper(cfg.CoinGecko.LeaderboardURL, cfg.CoinGecko.UserAgent, cfg.CoinGecko.Timeout, log)
	bars := binance.NewClient(cfg.Binance)

	svc := Services{
		Listing: listing.NewService(gecko, exec, log.With(slog.String("component", "listing"))),
		Movers:  movers.NewService(board, gecko, exec, log.With(slog.String("component", "movers"))),
		History: history.NewService(bars, exec, log.With(slog.String("component", "history"))),
	}
	svc.Search = search.NewService(gecko, searchCache, exec, log.With(slog.String("component", "search")))
	if store != nil {
		svc.Favorites = favorites.NewService(store, gecko, exec, log.With(slog.String("component", "favorites")))
	}
	return svc
}

type App struct {
	cfg config.Config
	log *slog.Logger

	pool   *pgxpool.Pool
	sqlite *reposqlite.FavoritesStore
	cache  *cache.SearchCache

	e    *echo.Echo
	serv *http.Server

	svc     Services
	updater *scheduler.Scheduler
	bot     *bot.Bot
	digests *scheduler.Scheduler // рассылка сводки, только вместе с ботом
}

func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	store, subs, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	var searchCache search.CandidateCache
	if cfg.Redis.Enabled {
		app.cache = cache.NewSearchCache(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := app.cache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, search cache disabled", slog.String("error", err.Error()))
			_ = app.cache.Close()
			app.cache = nil
		} else {
			searchCache = app.cache
		}
	}

	app.svc = NewServices(cfg, log, store, searchCache)

	e := echo.New()
	e.HideBanner = true
	app.e = e

	h := httptransport.NewHandler(log, httptransport.Services{
		Listing:   app.svc.Listing,
		Movers:    app.svc.Movers,
		Search:    app.svc.Search,
		History:   app.svc.History,
		Favorites: app.svc.Favorites,
	}, clock.NewRealClock(), cfg.Server.RequestTimeout)
	h.RegisterRoutes(e)

	app.serv = &http.Server{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      e,
	}

	if cfg.Scheduler.Enabled {
		app.updater = scheduler.NewScheduler(app.jobs(), cfg.Scheduler.Interval, log)
	}

	if cfg.Telegram.Enabled {
		var fav bot.Favorites
		if app.svc.Favorites != nil {
			fav = app.svc.Favorites
		}
		botApp, err := bot.New(cfg.Telegram, app.svc.Listing, app.svc.Movers, app.svc.Search, fav, cfg.Server.RequestTimeout, log)
		if err != nil {
			log.Error("telegram init failed", slog.String("error", err.Error()))
			app.Close()
			return nil, err
		}
		app.bot = botApp

		d := digest.NewService(subs, app.svc.Movers, botApp, cfg.Telegram.TopSize, log.With(slog.String("component", "digest")))
		botApp.AttachDigest(d)
		app.digests = scheduler.NewScheduler([]scheduler.Job{{
			Name: "digest",
			Run: func(ctx context.Context) error {
				_, err := d.DispatchDue(ctx)
				return err
			},
		}}, cfg.Telegram.DigestCheck, log)
	}

	log.Info("app initialized",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("search_cache", searchCache != nil),
		slog.Bool("scheduler", app.updater != nil),
		slog.Bool("bot_attached", app.bot != nil),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

// openStore - избранное и подписки на сводку живут в одном хранилище
func (a *App) openStore(ctx context.Context) (favorites.Store, digest.Store, error) {
	switch a.cfg.Storage.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, &a.cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		a.pool = pool
		repo := repopg.NewFavoritesRepo(pool, a.log)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate favorites: %w", err)
		}
		subs := repopg.NewSubscriptionRepo(pool)
		if err := subs.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate subscriptions: %w", err)
		}
		return repo, subs, nil
	case "sqlite":
		s, err := reposqlite.Open(a.cfg.Storage.SQLitePath, a.log)
		if err != nil {
			return nil, nil, err
		}
		a.sqlite = s
		return s, s.Subscriptions(), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}

// jobs - периодическое обновление лидеров и первой страницы рейтинга
func (a *App) jobs() []scheduler.Job {
	return []scheduler.Job{
		{Name: "movers", Run: a.svc.Movers.Refresh},
		{Name: "listing", Run: a.svc.Listing.Reset},
	}
}

// Run - работает до отмены ctx или ошибки одного из компонентов
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
		if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.svc.Favorites != nil {
		g.Go(func() error {
			return a.svc.Favorites.Observe(gctx)
		})
	}

	if a.updater != nil {
		g.Go(func() error {
			a.updater.Start(gctx)
			return nil
		})
	} else {
		// без планировщика данные загружаются один раз при старте
		g.Go(func() error {
			for _, job := range a.jobs() {
				if err := job.Run(gctx); err != nil {
					a.log.Warn("initial load failed", slog.String("job", job.Name), slog.String("error", err.Error()))
				}
			}
			return nil
		})
	}

	if a.bot != nil {
		g.Go(func() error {
			a.log.Info("starting bot")
			a.bot.Start(gctx)
			return nil
		})
		g.Go(func() error {
			a.digests.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	a.Close()
	a.log.Info("application stopped")
	return err
}

func (a *App) shutdown() error {
	shCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.e.Shutdown(shCtx); err != nil {
		a.log.Error("http shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close - освобождает хранилища и кэш
func (a *App) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
		a.cache = nil
	}
	if a.sqlite != nil {
		_ = a.sqlite.Close()
		a.sqlite = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
