// Package pgtest provides bun databases for tests.
package pgtest

import (
	"os"
	"testing"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/medalists/pg"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	// DSNEnv names the environment variable holding the DSN of a disposable test database.
	DSNEnv = "MEDALISTS_TEST_PG_DSN"
	// CIEnv is set by CI runners. Under CI a missing DSNEnv fails database tests
	// instead of skipping them.
	CIEnv = "CI"
)

// Offline returns a bun database that never connects. It is only good for
// rendering queries with String().
func Offline(t *testing.T) *bun.DB {
	t.Helper()

	return open(t, "postgres://offline@localhost:1/offline")
}

// LookupDSN reads DSNEnv through getenv. It returns an empty DSN when tests
// needing a database should be skipped, and an error when CIEnv is set but
// DSNEnv is not.
func LookupDSN(getenv func(string) string) (string, error) {
	dsn := getenv(DSNEnv)
	if dsn == "" && getenv(CIEnv) != "" {
		return "", errx.New(
			DSNEnv+" must be set when "+CIEnv+" is set",
			errx.WithDetails(errx.D{"hint": "run `make test-integration`"}),
		)
	}
	return dsn, nil
}

// Connect returns a bun database connected to the database named by DSNEnv.
// The test is skipped in -short mode and when no DSN is configured outside CI.
func Connect(t *testing.T) *bun.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("database tests are skipped in -short mode")
	}

	dsn, err := LookupDSN(os.Getenv)
	require.NoError(t, err)
	if dsn == "" {
		t.Skipf("%s is not set", DSNEnv)
	}

	db := open(t, dsn)
	require.NoError(t, db.PingContext(t.Context()))
	return db
}

// Reset drops the given tables and creates them again.
func Reset(t *testing.T, db bun.IDB, tables ...pg.TableDef) {
	t.Helper()

	for i := len(tables) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().Model(tables[i].Model).IfExists().Cascade().Exec(t.Context())
		require.NoError(t, err)
	}
	require.NoError(t, pg.CreateTables(t.Context(), db, tables...))
}

func open(t *testing.T, dsn string) *bun.DB {
	t.Helper()

	cfg, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)

	db := bun.NewDB(stdlib.OpenDB(*cfg), pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	return db
}
