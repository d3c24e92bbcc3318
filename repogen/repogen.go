// Package repogen provides a generic repository over bun models.
//
// A repository is bound to one entity type through a Schema, an explicit table of
// field accessors built once at startup. The schema tells the repository which
// payload fields are plain columns and which ones are references to other entities
// that must be resolved by natural key before the entity is built or updated.
// List queries are composed from filter descriptors that may target joined
// relations of the bound entity.
package repogen

import (
	"context"

	"github.com/uptrace/bun"
)

// Payload maps field names to values. A value of a reference field may itself be
// a Payload holding the natural key of an existing related entity.
type Payload map[string]any

// Fields implements Input so raw partial mappings can be passed to Update.
func (p Payload) Fields() Payload {
	return p
}

// clone returns a shallow copy of the payload.
func (p Payload) clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Input is implemented by every input shape accepted by a repository.
// Fields returns only the fields that were explicitly set.
type Input interface {
	Fields() Payload
}

// Table describes a relational table that filters can target.
type Table interface {
	// Name returns the human readable entity name, e.g. "Athlete".
	Name() string
	// TableName returns the SQL table name.
	TableName() string
	// Alias returns the SQL alias of the table in queries built for its own model.
	Alias() string
	// Column returns the column name of the given field.
	Column(field string) (string, bool)
}

// Repo defines the operations every generic repository provides for entity E
// created from input shape I. The session is supplied per call.
type Repo[E any, I Input] interface {
	// Create resolves references in the input, builds and persists a new entity
	// and returns it fully materialized.
	Create(ctx context.Context, idb bun.IDB, in I) (*E, error)
	// Get returns the entity with the given id, or nil when it does not exist.
	Get(ctx context.Context, idb bun.IDB, id int64) (*E, error)
	// Update overwrites the fields present in the input and returns the updated entity.
	Update(ctx context.Context, idb bun.IDB, entity *E, in Input) (*E, error)
	// Delete removes the entity with the given id and returns its last state,
	// or nil when it does not exist.
	Delete(ctx context.Context, idb bun.IDB, id int64) (*E, error)
	// List returns entities matching the query.
	List(ctx context.Context, idb bun.IDB, q ListQuery) ([]E, error)
}
