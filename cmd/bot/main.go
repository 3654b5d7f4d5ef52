package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	apievents "github.com/meower-media/reactions/pkg/api/events"
	"github.com/meower-media/reactions/pkg/api/rest"
	v0_rest "github.com/meower-media/reactions/pkg/api/rest/v0"
	"github.com/meower-media/reactions/pkg/bot"
	"github.com/meower-media/reactions/pkg/config"
	"github.com/meower-media/reactions/pkg/db"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/meowid"
	"github.com/meower-media/reactions/pkg/networks"
	"github.com/meower-media/reactions/pkg/rdb"
	"github.com/meower-media/reactions/pkg/reactions"
	"github.com/meower-media/reactions/pkg/telegram"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags
	flags, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		return err
	}

	// Init logger
	level := slog.LevelInfo
	if flags.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(flags.EnvFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	set, err := cfg.EmojiSet()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Init Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: cfg.SentryDSN,
	}); err != nil {
		return err
	}
	defer sentry.Flush(time.Second * 5)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MeowID
	ids, err := meowid.NewGenerator(cfg.NodeId)
	if err != nil {
		return err
	}

	// Init store
	store, err := openStore(ctx, cfg, ids)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	// Init Redis
	var emitter bot.Emitter
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		redisClient, err = rdb.Connect(ctx, cfg.RedisURI)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		emitter = events.NewPublisher(redisClient)
	}

	// Init bot
	tb, err := telegram.New(cfg.BotToken, cfg.PollTimeout, logger)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	b := bot.New(bot.Deps{
		Set:       set,
		Store:     store,
		Transport: telegram.NewTransport(tb),
		Emitter:   emitter,
		Logger:    logger,
		Admins:    cfg.AdminIds,
	})
	telegram.Register(tb, b)

	allowlist, err := networks.NewAllowlist(cfg.AllowedNetworks)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	fail := func(what string, err error) {
		logger.Error(what+" stopped", "error", err)
		sentry.CaptureException(err)
		stop()
	}

	// Serve REST API
	if cfg.HTTPAddress != "" {
		srv := &http.Server{
			Addr: cfg.HTTPAddress,
			Handler: rest.Router(&v0_rest.Handlers{
				Store:     store,
				Set:       set,
				Allowlist: allowlist,
				Logger:    logger,
			}, cfg.RealIPHeader),
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			logger.Info("serving REST API", "addr", cfg.HTTPAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fail("REST API", err)
			}
		}()
		go func() {
			defer wg.Done()
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Serve events
	if cfg.EventsAddress != "" {
		es := apievents.NewServer(allowlist, logger)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := es.Subscribe(ctx, redisClient); err != nil {
				fail("events subscription", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := es.Serve(ctx, cfg.EventsAddress); err != nil {
				fail("events server", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		logger.Info("stopping")
		tb.Stop()
	}()

	logger.Info("bot started",
		"bot", tb.Me.Username,
		"store", cfg.StoreDriver,
		"emojis", set.Len(),
		"admins", len(cfg.AdminIds),
		"events", emitter != nil,
	)
	tb.Start()

	b.Shutdown()
	wg.Wait()
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, ids *meowid.Generator) (reactions.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return reactions.NewMongoStore(db.Reactions(database), ids), nil
	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return reactions.NewSQLStore(conn, ids), nil
	}
}
