// Package crudtest provides in-memory stand-ins for the transaction runner and
// repositories used by crud services, for handler tests without a database.
package crudtest

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"sync"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/uptrace/bun"
)

// Tx runs functions with a zero bun.Tx and counts the calls.
type Tx struct {
	mu    sync.Mutex
	calls int
}

// RunInTx implements crud.TxRunner.
func (t *Tx) RunInTx(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx, bun.Tx{})
}

// Calls returns the number of transactions run.
func (t *Tx) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Resolver replaces nested references in a payload by entities, like
// repogen.Resolve does against the database.
type Resolver func(p repogen.Payload) (repogen.Payload, error)

// MemRepo keeps entities of one schema in memory. List ignores filters and
// returns every row in insertion order; the last query is kept for assertions.
type MemRepo[E any, I repogen.Input] struct {
	mu      sync.Mutex
	schema  *repogen.Schema[E]
	setID   func(*E, int64)
	resolve Resolver
	unique  func(*E) string
	rows    map[int64]*E
	nextID  int64

	LastQuery repogen.ListQuery
	// Err, when set, is returned by every operation.
	Err error
}

var _ repogen.Repo[struct{}, repogen.Payload] = (*MemRepo[struct{}, repogen.Payload])(nil)

// NewMemRepo creates an empty repository. resolve may be nil when the schema
// has no reference fields.
func NewMemRepo[E any, I repogen.Input](schema *repogen.Schema[E], setID func(*E, int64), resolve Resolver) *MemRepo[E, I] {
	if resolve == nil {
		resolve = func(p repogen.Payload) (repogen.Payload, error) { return p, nil }
	}
	return &MemRepo[E, I]{
		schema:  schema,
		setID:   setID,
		resolve: resolve,
		rows:    make(map[int64]*E),
		nextID:  1,
	}
}

// Unique makes Create reject entities whose key equals the key of a stored one,
// the way a unique constraint does.
func (r *MemRepo[E, I]) Unique(key func(*E) string) *MemRepo[E, I] {
	r.unique = key
	return r
}

func (r *MemRepo[E, I]) Create(_ context.Context, _ bun.IDB, in I) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	p, err := r.resolve(in.Fields())
	if err != nil {
		return nil, err
	}

	e, err := r.schema.Build(p)
	if err != nil {
		return nil, err
	}

	if r.unique != nil {
		for _, row := range r.rows {
			if r.unique(row) == r.unique(e) {
				return nil, errx.New(
					r.schema.Name()+" already exists",
					errx.WithType(errx.T_Conflict),
					errx.WithCode(repogen.CodeAlreadyExists),
				)
			}
		}
	}

	r.setID(e, r.nextID)
	r.rows[r.nextID] = e
	r.nextID++
	return e, nil
}

func (r *MemRepo[E, I]) Get(_ context.Context, _ bun.IDB, id int64) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.rows[id], nil
}

func (r *MemRepo[E, I]) Update(_ context.Context, _ bun.IDB, entity *E, in repogen.Input) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	p, err := r.resolve(in.Fields())
	if err != nil {
		return nil, err
	}
	if _, err = r.schema.Assign(entity, p); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *MemRepo[E, I]) Delete(_ context.Context, _ bun.IDB, id int64) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	e := r.rows[id]
	delete(r.rows, id)
	return e, nil
}

func (r *MemRepo[E, I]) List(_ context.Context, _ bun.IDB, q repogen.ListQuery) ([]E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.LastQuery = q
	if r.Err != nil {
		return nil, r.Err
	}

	out := make([]E, 0, len(r.rows))
	for id := int64(1); id < r.nextID; id++ {
		if e, ok := r.rows[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

// Ref resolves the reference field name against the rows of repo. A row
// matches when every natural key equals the row's field of the same name.
func Ref[T any, TI repogen.Input](name string, repo *MemRepo[T, TI]) Resolver {
	return func(p repogen.Payload) (repogen.Payload, error) {
		keys, ok := p[name].(repogen.Payload)
		if !ok {
			return p, nil
		}

		repo.mu.Lock()
		defer repo.mu.Unlock()

		for id := int64(1); id < repo.nextID; id++ {
			row, ok := repo.rows[id]
			if !ok || !matches(repo.schema.Snapshot(row), keys) {
				continue
			}
			out := maps.Clone(p)
			out[name] = row
			return out, nil
		}

		return nil, errx.New(
			repo.schema.Name()+" referenced by "+name+" not found",
			errx.WithType(errx.T_Validation),
			errx.WithCode(repogen.CodeRelatedEntityNotFound),
			errx.WithFields(errx.M{name: "Referenced entity does not exist"}),
		)
	}
}

func matches(snapshot, keys repogen.Payload) bool {
	for k, v := range keys {
		if fmt.Sprint(snapshot[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// Resolvers applies rs in order.
func Resolvers(rs ...Resolver) Resolver {
	return func(p repogen.Payload) (repogen.Payload, error) {
		var err error
		for _, r := range rs {
			if p, err = r(p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
}
