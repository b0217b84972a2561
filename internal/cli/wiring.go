package cli

import (
	"context"
	"fmt"

	membus "dino-park/internal/adapters/bus/memory"
	redisbus "dino-park/internal/adapters/bus/redis"
	"dino-park/internal/adapters/storage/memory"
	"dino-park/internal/adapters/storage/postgres"
	"dino-park/internal/adapters/storage/sqlite"
	"dino-park/internal/domain/park"
	"dino-park/internal/platform/config"
	"dino-park/internal/platform/logger"
	"dino-park/internal/ports/bus"
)

// stores agrupa los repos y cómo cerrarlos.
type stores struct {
	dinos park.DinoRepository
	grid  park.GridRepository
	close func() error
}

func openStores(cfg config.Config, log logger.Logger) (stores, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.DBFile)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("store opened", logger.Fields{"store": cfg.Store, "path": cfg.DBFile})
		dinos, grid := sqlite.NewRepos(db)
		return stores{dinos: dinos, grid: grid, close: db.Close}, nil

	case config.StorePostgres:
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return stores{}, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info("store opened", logger.Fields{"store": cfg.Store})
		dinos, grid := postgres.NewRepos(db)
		return stores{dinos: dinos, grid: grid, close: db.Close}, nil

	default:
		log.Info("store opened", logger.Fields{"store": config.StoreMemory})
		return stores{
			dinos: memory.NewDinoRepo(),
			grid:  memory.NewGridRepo(),
			close: func() error { return nil },
		}, nil
	}
}

func openBus(ctx context.Context, cfg config.Config, log logger.Logger) (bus.Bus, error) {
	if cfg.Bus == config.BusRedis {
		b, err := redisbus.Open(ctx, redisbus.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return nil, err
		}
		log.Info("bus opened", logger.Fields{"bus": cfg.Bus, "addr": cfg.RedisAddr()})
		return b, nil
	}
	log.Info("bus opened", logger.Fields{"bus": config.BusMemory})
	return membus.New(log, membus.DefaultBuffer), nil
}

// initGrid siembra las 416 celdas si el store está vacío.
func initGrid(ctx context.Context, st stores, log logger.Logger) error {
	created, err := park.NewService(st.dinos, st.grid).InitGrid(ctx)
	if err != nil {
		return fmt.Errorf("init grid: %w", err)
	}
	if created {
		log.Info("grid initialized", logger.Fields{"cells": len(park.GridLocations())})
	}
	return nil
}
