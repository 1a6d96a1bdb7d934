package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/repository/memory"
	"github.com/the-ledger/ledger/pkg/repository/sqlite"
	"github.com/urfave/cli/v3"
)

// Database selects the asset store backend. The default is a SQLite
// file next to the process; an empty path switches to the in-memory
// store, which loses data on restart.
type Database struct {
	path string
}

func (x *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "SQLite database path (empty for in-memory store)",
			Category:    "Database",
			Value:       "ledger.db",
			Sources:     cli.EnvVars("LEDGER_DB_PATH"),
			Destination: &x.path,
		},
	}
}

func (x Database) LogValue() slog.Value {
	backend := "sqlite"
	if x.path == "" {
		backend = "memory"
	}
	return slog.GroupValue(
		slog.String("backend", backend),
		slog.String("path", x.path),
	)
}

func (x *Database) Configure(ctx context.Context) (interfaces.Repository, error) {
	if x.path == "" {
		return memory.New(), nil
	}

	repo, err := sqlite.New(ctx, x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", x.path))
	}
	return repo, nil
}
