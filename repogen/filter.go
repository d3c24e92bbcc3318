package repogen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/sorter"
	"github.com/uptrace/bun"
)

const (
	CodeFilterNotJoined     = "FILTER_NOT_JOINED"
	CodeUnknownFilterColumn = "UNKNOWN_FILTER_COLUMN"
	CodeUnknownComparison   = "UNKNOWN_COMPARISON"

	// DefaultLimit is used when a list query does not set a positive limit.
	DefaultLimit = 50
)

// Comparison is the predicate applied by a filter.
type Comparison string

const (
	// Equal matches rows whose column equals the value.
	Equal Comparison = "equal"
	// ILike matches rows whose column contains the value, ignoring case.
	// Whitespace is removed from both the value and the column before matching.
	ILike Comparison = "ilike"
)

// Relation names a belongs-to relation of a bound entity that list queries can join.
type Relation struct {
	// Name is the bun relation name declared on the model, e.g. "Team".
	Name string
	// Alias is the SQL alias bun gives the joined table, e.g. "team".
	Alias string
	// Table describes the joined entity.
	Table Table
}

// NewRelation creates a relation named name to the entity described by table.
// Nested names such as "Athlete.HomeTeam" get the alias "athlete__home_team",
// the one bun gives the joined table.
func NewRelation(name string, table Table) *Relation {
	segments := strings.Split(name, ".")
	for i, segment := range segments {
		segments[i] = underscore(segment)
	}

	return &Relation{
		Name:  name,
		Alias: strings.Join(segments, "__"),
		Table: table,
	}
}

// underscore converts a Go field name to snake_case the same way bun names
// columns and relation aliases: "HomeTeam" becomes "home_team", "NOC" stays "noc".
func underscore(s string) string {
	out := make([]byte, 0, len(s)+5)
	for i := range len(s) {
		c := s[i]
		if !isUpper(c) {
			out = append(out, c)
			continue
		}
		if i > 0 && i+1 < len(s) && (isLower(s[i-1]) || isLower(s[i+1])) {
			out = append(out, '_')
		}
		out = append(out, c+'a'-'A')
	}
	return string(out)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// Filter is a single predicate of a list query.
type Filter struct {
	// Column is the field name on the targeted entity.
	Column string
	Value  any
	// Comparison defaults to Equal.
	Comparison Comparison
	// Entity is the joined relation the column belongs to; nil targets the bound entity.
	Entity *Relation
}

// ListQuery describes a list request.
type ListQuery struct {
	// Joins are applied in order. A relation must be joined before it can be filtered on.
	Joins []*Relation
	// Filters are combined with AND in order.
	Filters []Filter
	// Order overrides the default ordering by primary key.
	Order sorter.SortOpts
	Skip  int
	Limit int
}

// apply builds the query for the entity described by bound on top of q.
func (lq ListQuery) apply(q *bun.SelectQuery, bound Table, eager []string) (*bun.SelectQuery, error) {
	joined := make(map[string]bool, len(lq.Joins))
	for _, rel := range lq.Joins {
		if joined[rel.Name] {
			continue
		}
		joined[rel.Name] = true
		if slices.Contains(eager, rel.Name) {
			continue
		}
		q = q.Relation(rel.Name)
	}

	for _, f := range lq.Filters {
		alias, table := bound.Alias(), bound
		if f.Entity != nil {
			if !joined[f.Entity.Name] {
				return nil, errx.New(
					fmt.Sprintf("filter on %s requires joining %s", f.Column, f.Entity.Name),
					errx.WithType(errx.T_Validation),
					errx.WithCode(CodeFilterNotJoined),
					errx.WithFields(errx.M{f.Column: "Relation " + f.Entity.Name + " is not joined"}),
				)
			}
			alias, table = f.Entity.Alias, f.Entity.Table
		}

		column, ok := table.Column(f.Column)
		if !ok {
			return nil, errx.New(
				fmt.Sprintf("%s has no column %s to filter on", table.Name(), f.Column),
				errx.WithType(errx.T_Validation),
				errx.WithCode(CodeUnknownFilterColumn),
				errx.WithFields(errx.M{f.Column: "Unknown field"}),
			)
		}

		switch f.Comparison {
		case Equal, "":
			q = q.Where("?.? = ?", bun.Ident(alias), bun.Ident(column), f.Value)
		case ILike:
			q = q.Where(`regexp_replace(?.?, '[[:space:]]', '', 'g') ILIKE ?`, bun.Ident(alias), bun.Ident(column), likePattern(f.Value))
		default:
			return nil, errx.New(
				fmt.Sprintf("unknown comparison %q", f.Comparison),
				errx.WithType(errx.T_Validation),
				errx.WithCode(CodeUnknownComparison),
				errx.WithFields(errx.M{f.Column: "Unknown comparison"}),
			)
		}
	}

	for _, o := range lq.Order {
		column, ok := bound.Column(o.F)
		if !ok {
			column = o.F
		}
		dir := "ASC"
		if o.D == sorter.Desc {
			dir = "DESC"
		}
		q = q.OrderExpr("?.? "+dir, bun.Ident(bound.Alias()), bun.Ident(column))
	}
	q = q.OrderExpr("?.? ASC", bun.Ident(bound.Alias()), bun.Ident("id"))

	limit := lq.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	skip := max(lq.Skip, 0)

	return q.Offset(skip).Limit(limit), nil
}

func likePattern(v any) string {
	s := strings.Join(strings.Fields(fmt.Sprint(v)), "")
	return "%" + s + "%"
}
