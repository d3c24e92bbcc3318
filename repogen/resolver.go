package repogen

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

// Resolve replaces every reference field of p whose value is a natural-key
// mapping with the already persisted entity matching all of its keys.
//
// The input payload is not modified. Fields that are not references, references
// holding anything other than a mapping, and keys unknown to the schema are copied
// as they are. No related entity is ever created: a mapping that matches nothing
// yields a RELATED_ENTITY_NOT_FOUND validation error.
func Resolve[E any](ctx context.Context, idb bun.IDB, s *Schema[E], p Payload) (Payload, error) {
	out := p.clone()

	for _, f := range s.fields {
		if !f.IsReference() {
			continue
		}

		v, ok := p[f.Name]
		if !ok {
			continue
		}

		keys, ok := asPayload(v)
		if !ok {
			continue
		}

		related, err := f.ref.lookup(ctx, idb, keys)
		if err != nil {
			return nil, errx.Wrap(err)
		}

		if related == nil {
			return nil, errx.New(
				fmt.Sprintf("%s referenced by %s.%s not found", f.ref.target.Name(), s.name, f.Name),
				errx.WithType(errx.T_Validation),
				errx.WithCode(CodeRelatedEntityNotFound),
				errx.WithFields(errx.M{f.Name: "Referenced entity does not exist"}),
				errx.WithDetails(errx.D{"reference": map[string]any(keys)}),
			)
		}

		out[f.Name] = related
	}

	return out, nil
}

// asPayload reports whether v is a nested natural-key mapping.
func asPayload(v any) (Payload, bool) {
	switch m := v.(type) {
	case Payload:
		return m, true
	case map[string]any:
		return Payload(m), true
	default:
		return nil, false
	}
}
