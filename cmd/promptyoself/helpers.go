package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli"
	_ "modernc.org/sqlite"

	"promptyoself/internal/config"
	"promptyoself/internal/letta"
	"promptyoself/internal/store"
)

// printJSON writes the command result to stdout. Everything else (logs,
// diagnostics) goes to stderr so the output stays machine-readable.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail reports a structured error on stdout and makes the process exit 1.
func fail(err error) error {
	printJSON(map[string]string{"error": err.Error()})
	return cli.NewExitError("", 1)
}

func openRepo(cfg *config.Config) (store.Repository, *sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite single writer

	if err := store.EnsureSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store.NewSQLiteRepo(db), db, nil
}

func newGateway(cfg *config.Config) (*letta.Client, error) {
	if cfg.LettaAPIKey == "" {
		return nil, fmt.Errorf("LETTA_API_KEY environment variable not set")
	}
	return letta.NewClient(cfg.LettaBaseURL, cfg.LettaAPIKey), nil
}
