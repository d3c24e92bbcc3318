package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

// TableDef describes a table created from a bun model.
type TableDef struct {
	// Model is a typed nil pointer to the model, e.g. (*model.Team)(nil).
	Model any
	// ForeignKeys are appended as FOREIGN KEY clauses,
	// e.g. `("team_id") REFERENCES "teams" ("id")`.
	ForeignKeys []string
}

// CreateTables creates the given tables in order unless they already exist.
// Referenced tables must come before the tables referencing them.
func CreateTables(ctx context.Context, idb bun.IDB, tables ...TableDef) error {
	for _, t := range tables {
		q := idb.NewCreateTable().Model(t.Model).IfNotExists()
		for _, fk := range t.ForeignKeys {
			q = q.ForeignKey(fk)
		}

		_, err := q.Exec(ctx)
		if err != nil {
			return errx.Wrap(err, errx.WithDetails(GetPgErrorDetails(err, q)))
		}
	}
	return nil
}
