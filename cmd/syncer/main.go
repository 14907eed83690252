package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotelconnect/internal/adapters/observability"
	"hotelconnect/internal/adapters/yieldplanet"
	"hotelconnect/internal/app"
	"hotelconnect/internal/shared"
	mysqlrepo "hotelconnect/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.YPBase).
		Int("workers", cfg.Workers).
		Int("horizon_days", cfg.SyncDays).
		Msg("syncer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := yieldplanet.New(cfg.YPBase, cfg.YPKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize YieldPlanet client")
	}
	svc := app.NewSyncService(client, repo, cfg.SyncDays)

	ids, err := repo.ListPropertyIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list property ids failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(propertyID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.SyncProperty(ctx, propertyID); err != nil {
				log.Warn().Str("id", propertyID).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("id", propertyID).Msg("sync ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("availability sync completed")
}
