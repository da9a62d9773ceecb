package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/you/storefront/internal/cache"
	"github.com/you/storefront/internal/config"
	"github.com/you/storefront/internal/events"
	"github.com/you/storefront/internal/httpapi"
	"github.com/you/storefront/internal/shop"
	"github.com/you/storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)
	log.Info().Msg("starting storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbLog := log.With().Str("component", "store").Logger()
	db, err := store.New(ctx, cfg.PostgresDSN, store.Options{MaxConns: cfg.DBMaxConns, Logger: &dbLog})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBQueryTimeout)
	if err := db.Ping(pingCtx); err != nil {
		log.Error().Err(err).Msg("database not reachable yet")
	} else {
		log.Info().Msg("database connected")
	}
	cancel()

	var publisher shop.OrderPublisher
	if cfg.KafkaBroker != "" {
		p := events.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
	} else {
		log.Warn().Msg("KAFKA_BROKER not set, order events disabled")
	}

	assocCache := cache.New[[]store.Association]("storefront", cfg.CacheTTL, cfg.CacheLimit)
	associations := shop.NewAssociations(db, assocCache, cfg.DBQueryTimeout)

	// fill the association cache before serving
	warmCtx, cancel := context.WithTimeout(ctx, cfg.DBQueryTimeout)
	if n, err := associations.Warm(warmCtx); err != nil {
		log.Error().Err(err).Msg("failed to warm association cache")
	} else {
		log.Info().Int("loaded", n).Msg("cache warmup")
	}
	cancel()

	handler := httpapi.NewHandler(httpapi.Deps{
		Orders:       shop.NewOrders(db, publisher),
		Catalog:      shop.NewCatalog(db),
		Associations: associations,
		Users:        shop.NewUsers(db),
		DB:           db,
		BodyLimit:    cfg.BodyLimit,
		QueryTimeout: cfg.DBQueryTimeout,
		Logger:       log.Logger,
	})
	srv := httpapi.Start(cfg.HTTPAddr, handler)

	var builderDone <-chan struct{}
	if cfg.Associations && cfg.KafkaBroker != "" {
		builderDone = events.StartAssociationBuilder(ctx, cfg.KafkaBroker, cfg.KafkaTopic, db)
		log.Info().Str("topic", cfg.KafkaTopic).Msg("association builder started")
	} else if cfg.Associations {
		log.Warn().Msg("ASSOCIATIONS_CONSUMER needs KAFKA_BROKER, builder not started")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if builderDone != nil {
		<-builderDone
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
