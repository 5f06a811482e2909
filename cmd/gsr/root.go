package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gsr-report/internal/catalog"
	"gsr-report/internal/config"
	"gsr-report/internal/logging"
	"gsr-report/internal/mapstore"
	"gsr-report/internal/repository"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	cat    *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gsr",
		Short: "Grand Superintendent Report engine",
		Long: `gsr infers which models of a membership database play the Candidate,
Lodge, Working and Candidate/Working roles, keeps that mapping in a JSON file,
and builds per-candidate progress reports with narrative summaries.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "gsr.yaml", "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInferCmd(a),
		newMappingCmd(a),
		newReportCmd(a),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// database opens the configured SQLite database once per invocation.
func (a *app) database() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	if a.cfg.DatabasePath == "" {
		return nil, errors.New("database_path is not configured")
	}

	db, err := repository.OpenDB(a.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	a.db = db

	return db, nil
}

// catalog reads the schema catalog from the configured file, or else
// introspects the database.
func (a *app) catalog(ctx context.Context) (*catalog.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}

	var (
		cat *catalog.Catalog
		err error
	)

	if a.cfg.CatalogPath != "" {
		a.logger.Debug("loading catalog file", zap.String("path", a.cfg.CatalogPath))
		cat, err = catalog.LoadFile(a.cfg.CatalogPath)
	} else {
		var db *sql.DB
		if db, err = a.database(); err != nil {
			return nil, err
		}

		a.logger.Debug("introspecting database schema", zap.String("path", a.cfg.DatabasePath))
		cat, err = catalog.FromSQLite(ctx, db)
	}

	if err != nil {
		return nil, err
	}

	a.cat = cat

	return cat, nil
}

func (a *app) store() *mapstore.Store {
	return mapstore.New(
		mapstore.CatalogFunc(a.catalog),
		mapstore.FilePersister{Path: a.cfg.MappingPath},
		mapstore.WithLogger(a.logger.Named("mapstore")),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
