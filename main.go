package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/comicguess/internal/cache"
	"github.com/robalobadob/comicguess/internal/comick"
	"github.com/robalobadob/comicguess/internal/config"
	"github.com/robalobadob/comicguess/internal/db"
	"github.com/robalobadob/comicguess/internal/game"
	"github.com/robalobadob/comicguess/internal/httpserver"
	"github.com/robalobadob/comicguess/internal/store"
	"github.com/robalobadob/comicguess/internal/titles"
)

// warmPages is how many catalog pages feed the title pool at startup.
const warmPages = 5

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()

	cc := cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, closeRedis, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using memory cache")
		} else {
			cc = rc
			defer func() { _ = closeRedis() }()
		}
	}

	client, err := comick.NewClient(cfg.ComickBaseURL, cfg.UpstreamTimeout,
		comick.WithLimiter(rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst)),
		comick.WithCache(cc, cfg.CacheTTL),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create catalog client")
	}

	pool, err := titles.Seed(cfg.TitlesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("seed title pool")
	}
	go titles.Warm(ctx, client, pool, warmPages, cfg.PageSize)

	finder := game.NewFinder(client, pool)
	finder.PageSize = cfg.PageSize

	rounds := store.NewMemoryStore()
	go pruneRounds(ctx, rounds, cfg.RoundTTL)

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		DB:       conn,
		Rounds:   rounds,
		Upstream: client,
		Finder:   finder,
		Pool:     pool,
	})
	log.Info().Str("port", cfg.Port).Str("catalog", cfg.ComickBaseURL).Msg("starting comicguess server")
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}

// pruneRounds drops rounds older than ttl until ctx ends.
func pruneRounds(ctx context.Context, rounds store.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := rounds.Prune(ctx, now.Add(-ttl)); n > 0 {
				log.Debug().Int("pruned", n).Msg("stale rounds dropped")
			}
		}
	}
}
