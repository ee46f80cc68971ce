package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"marketswarm/internal/config"
	"marketswarm/internal/finance"
	"marketswarm/internal/logger"
	"marketswarm/internal/storage"
)

const usage = `usage: swarm <command> [flags]

commands:
  run     play the dataset, then write snapshots (and share them when configured)
  import  copy a dataset JSON file into the sqlite store
  fetch   build a dataset JSON file from Yahoo daily bars
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "run":
		err = runCmd(ctx, cfg, log, args)
	case "import":
		err = importCmd(cfg, log, args)
	case "fetch":
		err = fetchCmd(ctx, cfg, log, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("failed")
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, log zerolog.Logger) (*storage.Store, func(), error) {
	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		return nil, nil, err
	}
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Debug().Str("path", cfg.DBPath).Msg("db: opened sqlite")
	return storage.NewStore(db), func() { db.Close() }, nil
}

// loadDataset reads the JSON dataset when a path is configured and the
// sqlite store otherwise.
func loadDataset(cfg *config.Config, log zerolog.Logger, path string) (finance.Dataset, error) {
	if path != "" {
		return finance.LoadJSON(path)
	}
	store, closeDB, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeDB()
	ds, err := store.LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.DBPath, err)
	}
	if err := finance.Validate(ds); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.DBPath, err)
	}
	return ds, nil
}

func importCmd(cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := fs.String("data", cfg.DatasetPath, "dataset JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("import: -data or DATASET_PATH is required")
	}
	ds, err := finance.LoadJSON(*path)
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := store.SaveDataset(ds); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.Info().Int("companies", len(ds)).Int("periods", ds.ChartLen()).Str("db", cfg.DBPath).Msg("imported")
	return nil
}

func fetchCmd(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	metaPath := fs.String("meta", "", "JSON list of companies (ticker, company, sector, marketcap, ...) without charts")
	rangeParam := fs.String("range", "1y", "Yahoo range, e.g. 6mo, 1y, 5y")
	out := fs.String("out", cfg.DatasetPath, "output dataset JSON file")
	save := fs.Bool("db", false, "also store the dataset in sqlite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *metaPath == "" || *out == "" {
		return errors.New("fetch: -meta and -out are required")
	}

	raw, err := os.ReadFile(*metaPath)
	if err != nil {
		return err
	}
	var meta []finance.Company
	if err := json.Unmarshal(raw, &meta); err != nil {
		return fmt.Errorf("%s: %w", *metaPath, err)
	}

	ds, err := finance.NewFetcher(cfg.YahooBaseURL, log).BuildDataset(ctx, meta, *rangeParam)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := finance.WriteJSON(f, ds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("out", *out).Int("companies", len(ds)).Int("periods", ds.ChartLen()).Msg("dataset written")

	if *save {
		store, closeDB, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()
		return store.SaveDataset(ds)
	}
	return nil
}
