package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/polyphrases/polyphrases/internal/auth"
	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/database"
	"github.com/polyphrases/polyphrases/internal/email"
	"github.com/polyphrases/polyphrases/internal/imagegen"
	"github.com/polyphrases/polyphrases/internal/imagestore"
	"github.com/polyphrases/polyphrases/internal/logger"
	"github.com/polyphrases/polyphrases/internal/newsletter"
	"github.com/polyphrases/polyphrases/internal/repository"
	"github.com/polyphrases/polyphrases/internal/service"
)

// app holds the process-wide dependencies shared by every command
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.Postgres
	rdb *database.Redis

	phrases     *repository.PhraseRepository
	subscribers *repository.SubscriberRepository
}

// bootstrap loads configuration and connects to PostgreSQL. A database
// that cannot be reached is fatal.
func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log := logger.New(level, cfg.Log.Format)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Debug().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("connected to PostgreSQL")

	return &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		phrases:     repository.NewPhraseRepository(db),
		subscribers: repository.NewSubscriberRepository(db),
	}, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	_ = a.db.Close()
}

// locker connects to Redis when it is configured. A nil Locker disables
// the run lock.
func (a *app) locker() (service.Locker, error) {
	if !a.cfg.Redis.Enabled() {
		return nil, nil
	}
	if a.rdb == nil {
		rdb, err := database.NewRedis(a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.rdb = rdb
		a.log.Debug().Str("addr", a.cfg.Redis.Addr()).Msg("connected to Redis")
	}
	return a.rdb, nil
}

// dispatchFactory validates the dispatch settings and returns a
// constructor producing one service per run, each with its own run id
func (a *app) dispatchFactory(ctx context.Context) (func() *service.DispatchService, error) {
	if err := a.cfg.ValidateDispatch(); err != nil {
		return nil, err
	}

	sender, err := email.NewSender(ctx, a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create email sender: %w", err)
	}
	tokens, err := auth.NewTokenService(a.cfg.Token)
	if err != nil {
		return nil, err
	}
	images, err := imagestore.New(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}
	locker, err := a.locker()
	if err != nil {
		return nil, err
	}

	return func() *service.DispatchService {
		return service.NewDispatchService(
			a.phrases, a.subscribers, sender, tokens, images, locker,
			a.cfg, a.log.WithRunID(uuid.NewString()), newsletter.NewRand(),
		)
	}, nil
}

// illustrationFactory is the image job counterpart of dispatchFactory
func (a *app) illustrationFactory(ctx context.Context) (func() *service.IllustrationService, error) {
	if err := a.cfg.ValidateIllustrate(); err != nil {
		return nil, err
	}

	generator, err := imagegen.New(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image generator: %w", err)
	}
	store, err := imagestore.New(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}

	return func() *service.IllustrationService {
		return service.NewIllustrationService(a.phrases, generator, store, a.cfg, a.log.WithRunID(uuid.NewString()))
	}, nil
}
