package main

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/atlas/ingest/internal/config"
	"github.com/stwalsh4118/atlas/ingest/internal/database"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
)

// app bundles the pieces every database-touching command needs.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.Database
}

// newApp loads configuration, builds the logger, and connects to the
// database. Commands that never touch the database use newAppWithoutDB.
func newApp(ctx context.Context) (*app, error) {
	a, err := newAppWithoutDB()
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgresPool(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	a.log.Info("Connected to database", map[string]interface{}{
		"host": a.cfg.Database.Host,
		"name": a.cfg.Database.Name,
	})
	return a, nil
}

func newAppWithoutDB() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &app{
		cfg: cfg,
		log: logger.New(cfg.Server.Env),
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
