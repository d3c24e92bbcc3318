package repogen

import (
	"context"
	"encoding"
	"fmt"
	"math"
	"slices"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/pg"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/uptrace/bun"
)

const (
	CodeInvalidFieldValue     = "INVALID_FIELD_VALUE"
	CodeUnknownReferenceKey   = "UNKNOWN_REFERENCE_KEY"
	CodeRelatedEntityNotFound = "RELATED_ENTITY_NOT_FOUND"
)

// Field describes how one payload field maps onto entity E.
type Field[E any] struct {
	// Name is the payload key of the field.
	Name string
	// Column is the SQL column written when the field changes.
	Column string

	get func(e *E) any
	set func(e *E, v any) error
	ref *reference
}

// IsReference reports whether the field holds a reference to another entity.
func (f Field[E]) IsReference() bool {
	return f.ref != nil
}

// Get returns the current value of the field on e.
func (f Field[E]) Get(e *E) any {
	return f.get(e)
}

// Set assigns v to the field on e.
func (f Field[E]) Set(e *E, v any) error {
	err := f.set(e, v)
	if err != nil {
		return errx.New(
			fmt.Sprintf("invalid value for field %s: %v", f.Name, err),
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidFieldValue),
			errx.WithFields(errx.M{f.Name: err.Error()}),
		)
	}
	return nil
}

// reference points a field at the schema of the related entity.
type reference struct {
	target Table
	lookup func(ctx context.Context, idb bun.IDB, keys Payload) (any, error)
}

// Column builds a plain column field. ptr returns the address of the field on e.
//
// The setter accepts values of type V directly and converts numbers, strings and
// nil into V when V is a string, integer, float, pointer to one of those, or a
// type implementing encoding.TextUnmarshaler.
func Column[E, V any](name, column string, ptr func(e *E) *V) Field[E] {
	return Field[E]{
		Name:   name,
		Column: column,
		get:    func(e *E) any { return *ptr(e) },
		set:    func(e *E, v any) error { return assign(ptr(e), v) },
	}
}

// BelongsTo builds a reference field to entity R described by target.
// rel returns the address of the relation on e and fk the address of its foreign key.
func BelongsTo[E, R any](
	name string,
	column string,
	target *Schema[R],
	rel func(e *E) **R,
	fk func(e *E) *int64,
) Field[E] {
	return Field[E]{
		Name:   name,
		Column: column,
		get:    func(e *E) any { return *rel(e) },
		set: func(e *E, v any) error {
			related, ok := v.(*R)
			if !ok || related == nil {
				return fmt.Errorf("expected a resolved %s, got %T", target.Name(), v)
			}
			*rel(e) = related
			*fk(e) = target.id(related)
			return nil
		},
		ref: &reference{
			target: target,
			lookup: func(ctx context.Context, idb bun.IDB, keys Payload) (any, error) {
				found, err := target.findBy(ctx, idb, keys)
				if err != nil || found == nil {
					return nil, err
				}
				return found, nil
			},
		},
	}
}

// Schema is the field accessor table of entity E.
type Schema[E any] struct {
	name  string
	table string
	alias string

	id       func(e *E) int64
	fields   []Field[E]
	index    map[string]int
	eager    []string
	validate func(e *E) error
}

// NewSchema creates the schema of entity E. alias must match the alias declared
// in the bun model tag.
func NewSchema[E any](name, table, alias string, id func(e *E) int64, fields ...Field[E]) *Schema[E] {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, exists := index[f.Name]; exists {
			panic(fmt.Sprintf("repogen: duplicate field %q in schema %s", f.Name, name))
		}
		index[f.Name] = i
	}

	return &Schema[E]{
		name:   name,
		table:  table,
		alias:  alias,
		id:     id,
		fields: fields,
		index:  index,
	}
}

// WithEager sets bun relations loaded together with the entity on every read.
func (s *Schema[E]) WithEager(relations ...string) *Schema[E] {
	s.eager = relations
	return s
}

// WithValidator sets a check run on the entity after its fields were set and
// before it is persisted.
func (s *Schema[E]) WithValidator(fn func(e *E) error) *Schema[E] {
	s.validate = fn
	return s
}

func (s *Schema[E]) Name() string      { return s.name }
func (s *Schema[E]) TableName() string { return s.table }
func (s *Schema[E]) Alias() string     { return s.alias }

// Column returns the column name of the named field.
func (s *Schema[E]) Column(field string) (string, bool) {
	f, ok := s.Field(field)
	if !ok {
		return "", false
	}
	return f.Column, true
}

// Field returns the named field.
func (s *Schema[E]) Field(name string) (Field[E], bool) {
	i, ok := s.index[name]
	if !ok {
		return Field[E]{}, false
	}
	return s.fields[i], true
}

// Fields returns all fields in declaration order.
func (s *Schema[E]) Fields() []Field[E] {
	return slices.Clone(s.fields)
}

// ID returns the identifier of e.
func (s *Schema[E]) ID(e *E) int64 {
	return s.id(e)
}

// Snapshot returns the current values of all fields of e.
func (s *Schema[E]) Snapshot(e *E) Payload {
	out := make(Payload, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = f.Get(e)
	}
	return out
}

// Build constructs a new entity from a resolved payload. Keys that are not
// fields of the schema are ignored.
func (s *Schema[E]) Build(p Payload) (*E, error) {
	e := new(E)
	for _, f := range s.fields {
		v, ok := p[f.Name]
		if !ok {
			continue
		}
		if err := f.Set(e, v); err != nil {
			return nil, err
		}
	}

	if err := s.check(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Assign overwrites every field present both in the snapshot of e and in p and
// returns the columns that were written. Other fields are left untouched.
func (s *Schema[E]) Assign(e *E, p Payload) ([]string, error) {
	snapshot := s.Snapshot(e)

	columns := make([]string, 0, len(p))
	for _, f := range s.fields {
		if _, ok := snapshot[f.Name]; !ok {
			continue
		}
		v, ok := p[f.Name]
		if !ok {
			continue
		}
		if err := f.Set(e, v); err != nil {
			return nil, err
		}
		columns = append(columns, f.Column)
	}

	if err := s.check(e); err != nil {
		return nil, err
	}
	return lo.Uniq(columns), nil
}

func (s *Schema[E]) check(e *E) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(e)
}

// findBy returns the first entity (by id) whose columns equal all given keys,
// or nil when there is none.
func (s *Schema[E]) findBy(ctx context.Context, idb bun.IDB, keys Payload) (*E, error) {
	if len(keys) == 0 {
		return nil, errx.New(
			fmt.Sprintf("empty reference to %s", s.name),
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeUnknownReferenceKey),
		)
	}

	names := lo.Keys(keys)
	slices.Sort(names)

	columns := make([]string, len(names))
	for i, name := range names {
		column, ok := s.Column(name)
		if !ok {
			return nil, errx.New(
				fmt.Sprintf("%s has no field %s to look up by", s.name, name),
				errx.WithType(errx.T_Validation),
				errx.WithCode(CodeUnknownReferenceKey),
				errx.WithFields(errx.M{name: "Unknown field"}),
			)
		}
		columns[i] = column
	}

	entity := new(E)
	q := idb.NewSelect().Model(entity)
	for i, name := range names {
		q = q.Where("?.? = ?", bun.Ident(s.alias), bun.Ident(columns[i]), keys[name])
	}
	q = q.OrderExpr("?.? ASC", bun.Ident(s.alias), bun.Ident("id")).Limit(1)

	err := q.Scan(ctx)
	if pg.IsNotFound(err) {
		return nil, nil //nolint:nilnil // absence is reported by the caller
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return entity, nil
}

// assign converts v into the type of dst and stores it.
func assign[V any](dst *V, v any) error {
	if typed, ok := v.(V); ok {
		*dst = typed
		return nil
	}

	if v == nil {
		var zero V
		*dst = zero
		return nil
	}

	var err error
	switch d := any(dst).(type) {
	case *string:
		*d, err = cast.ToStringE(v)
	case *int:
		*d, err = ToInt(v)
	case *int64:
		*d, err = wholeNumber(v, cast.ToInt64E)
	case *float64:
		*d, err = cast.ToFloat64E(v)
	case **int:
		var n int
		if n, err = ToInt(v); err == nil {
			*d = &n
		}
	case **float64:
		var f float64
		if f, err = cast.ToFloat64E(v); err == nil {
			*d = &f
		}
	case encoding.TextUnmarshaler:
		var s string
		s, err = cast.ToStringE(v)
		if err == nil {
			err = d.UnmarshalText([]byte(s))
		}
	default:
		err = fmt.Errorf("unsupported value of type %T", v)
	}

	return err
}

// ToInt converts v to int like cast.ToIntE but fails on a fractional number
// such as 180.5 instead of truncating it.
func ToInt(v any) (int, error) {
	return wholeNumber(v, cast.ToIntE)
}

// wholeNumber converts v with conv, rejecting floats with a fractional part.
func wholeNumber[N int | int64](v any, conv func(any) (N, error)) (N, error) {
	switch v.(type) {
	case float64, float32, string:
		if f, err := cast.ToFloat64E(v); err == nil && f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
	}
	return conv(v)
}
