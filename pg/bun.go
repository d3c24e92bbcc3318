// Package pg connects the service to PostgreSQL through pgx and bun, classifies
// PostgreSQL errors and creates tables from bun models.
package pg

import (
	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/medalists/pg/hooks"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"
)

// NewBunDB creates a new Bun database connection with the provided configuration.
func NewBunDB(cfg Config) (*bun.DB, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	sqldb := stdlib.OpenDBFromPool(pool)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	applyHooks(bunDB, cfg)

	return bunDB, nil
}

// applyHooks adds the query logging hook, active only in debug mode, and the
// OpenTelemetry hook.
func applyHooks(db *bun.DB, cfg Config) {
	db.AddQueryHook(
		hooks.NewDebugHook(
			hooks.WithEnabled(cfg.Debug),
			hooks.WithVerbose(true),
			hooks.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
		),
	)

	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))
}
