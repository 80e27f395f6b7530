package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tgienger/pm/internal/config"
	"github.com/tgienger/pm/internal/db"
	"github.com/tgienger/pm/internal/logging"
	"github.com/tgienger/pm/internal/store"
)

// env is everything a command needs to work with the persisted state
type env struct {
	cfg    *config.Config
	db     *db.DB
	store  *store.Store
	log    zerolog.Logger
	logOut io.Closer
}

// openEnv loads config, opens the data file and restores the store. With
// logToFile set, an unconfigured log file defaults to the data directory so
// log lines stay out of the terminal UI.
func openEnv(opts *rootOptions, logToFile bool) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = db.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve data path: %w", err)
		}
	}
	if logToFile && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.DBPath), "pm.log")
	}

	log, logOut, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logOut.Close()
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	log.Debug().Str("path", cfg.DBPath).Msg("data file opened")

	st := store.New(database, store.WithLogger(log), store.WithKey(cfg.StorageKey))
	return &env{cfg: cfg, db: database, store: st, log: log, logOut: logOut}, nil
}

// Close flushes the store, then releases the data file and log output
func (e *env) Close() error {
	return errors.Join(
		e.store.Close(),
		e.db.Close(),
		e.logOut.Close(),
	)
}
