package repogen

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/pg"
	"github.com/uptrace/bun"
)

const (
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeRelatedEntityInUse     = "RELATED_ENTITY_IN_USE"
	CodeIntegrityViolation     = "INTEGRITY_VIOLATION"
	codeIncorrectRowsAffection = "INCORRECT_ROWS_AFFECTION"
)

var _ Repo[struct{}, Payload] = (*PgRepo[struct{}, Payload])(nil)

// PgRepo provides CRUD operations for entity E on PostgreSQL using bun ORM.
// It never owns a session: every method runs on the bun.IDB it is given.
type PgRepo[E any, I Input] struct {
	schema *Schema[E]

	// conflictCodes maps PostgreSQL constraint names to error codes.
	// E.g. map["athletes_name_key"] = "ATHLETE_ALREADY_EXISTS"
	conflictCodes map[string]string
}

func NewPgRepo[E any, I Input](schema *Schema[E], conflictCodes map[string]string) *PgRepo[E, I] {
	if conflictCodes == nil {
		conflictCodes = map[string]string{}
	}
	return &PgRepo[E, I]{
		schema:        schema,
		conflictCodes: conflictCodes,
	}
}

// Schema returns the schema the repository is bound to.
func (r *PgRepo[E, I]) Schema() *Schema[E] {
	return r.schema
}

func (r *PgRepo[E, I]) Create(ctx context.Context, idb bun.IDB, in I) (*E, error) {
	p, err := Resolve(ctx, idb, r.schema, in.Fields())
	if err != nil {
		return nil, errx.Wrap(err)
	}

	entity, err := r.schema.Build(p)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	q := idb.NewInsert().Model(entity).Returning("*")
	_, err = q.Exec(ctx)
	if err != nil {
		return nil, r.storeError(err, q, "creating")
	}

	return r.reload(ctx, idb, entity)
}

func (r *PgRepo[E, I]) Get(ctx context.Context, idb bun.IDB, id int64) (*E, error) {
	entity := new(E)
	q := idb.NewSelect().Model(entity).
		Where("?.? = ?", bun.Ident(r.schema.Alias()), bun.Ident("id"), id)
	for _, rel := range r.schema.eager {
		q = q.Relation(rel)
	}

	err := q.Scan(ctx)
	if pg.IsNotFound(err) {
		return nil, nil //nolint:nilnil // absence is not an error at this level
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return entity, nil
}

func (r *PgRepo[E, I]) Update(ctx context.Context, idb bun.IDB, entity *E, in Input) (*E, error) {
	p, err := Resolve(ctx, idb, r.schema, in.Fields())
	if err != nil {
		return nil, errx.Wrap(err)
	}

	columns, err := r.schema.Assign(entity, p)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if len(columns) > 0 {
		if _, ok := any(entity).(pg.Timestamped); ok {
			columns = append(columns, pg.UpdatedAtColumn)
		}
		q := idb.NewUpdate().Model(entity).Column(columns...).WherePK()
		_, err = q.Exec(ctx)
		if err != nil {
			return nil, r.storeError(err, q, "updating")
		}
	}

	return r.reload(ctx, idb, entity)
}

func (r *PgRepo[E, I]) Delete(ctx context.Context, idb bun.IDB, id int64) (*E, error) {
	entity, err := r.Get(ctx, idb, id)
	if err != nil || entity == nil {
		return nil, err
	}

	q := idb.NewDelete().Model(entity).WherePK()
	_, err = q.Exec(ctx)
	if err != nil {
		return nil, r.storeError(err, q, "deleting")
	}

	return entity, nil
}

func (r *PgRepo[E, I]) List(ctx context.Context, idb bun.IDB, lq ListQuery) ([]E, error) {
	entities := make([]E, 0)
	q, err := r.listQuery(idb.NewSelect().Model(&entities), lq)
	if err != nil {
		return nil, err
	}

	err = q.Scan(ctx)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return entities, nil
}

// ListSQL renders the query List would run without executing it.
func (r *PgRepo[E, I]) ListSQL(idb bun.IDB, lq ListQuery) (string, error) {
	q, err := r.listQuery(idb.NewSelect().Model(new(E)), lq)
	if err != nil {
		return "", err
	}
	return q.String(), nil
}

func (r *PgRepo[E, I]) listQuery(q *bun.SelectQuery, lq ListQuery) (*bun.SelectQuery, error) {
	for _, rel := range r.schema.eager {
		q = q.Relation(rel)
	}
	return lq.apply(q, r.schema, r.schema.eager)
}

// reload fetches entity again together with its eager relations.
func (r *PgRepo[E, I]) reload(ctx context.Context, idb bun.IDB, entity *E) (*E, error) {
	id := r.schema.ID(entity)
	fresh, err := r.Get(ctx, idb, id)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, errx.New(
			fmt.Sprintf("%s with id %d disappeared while writing", r.schema.Name(), id),
			errx.WithCode(codeIncorrectRowsAffection),
		)
	}
	return fresh, nil
}

// ConflictCode returns the error code reported for an integrity violation.
// Known constraints get their own code. Unknown unique and foreign key
// violations fall back to ALREADY_EXISTS and RELATED_ENTITY_IN_USE, anything
// else to INTEGRITY_VIOLATION.
func (r *PgRepo[E, I]) ConflictCode(err error) string {
	if code, exists := r.conflictCodes[pg.ConstraintName(err)]; exists {
		return code
	}

	switch {
	case pg.IsConflict(err):
		return CodeAlreadyExists
	case pg.IsForeignKeyViolation(err):
		return CodeRelatedEntityInUse
	default:
		return CodeIntegrityViolation
	}
}

// storeError converts integrity violations into conflict errors.
func (r *PgRepo[E, I]) storeError(err error, q fmt.Stringer, action string) error {
	if !pg.IsIntegrityViolation(err) {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	code := r.ConflictCode(err)

	return errx.New(
		fmt.Sprintf("conflict while %s %s", action, r.schema.Name()),
		errx.WithType(errx.T_Conflict),
		errx.WithCode(code),
		errx.WithDetails(pg.GetPgErrorDetails(err, q)),
	)
}
