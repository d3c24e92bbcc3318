package pg

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Timestamped is implemented by models embedding Timestamps.
type Timestamped interface {
	timestamped()
}

// Timestamps provides common timestamp fields that can be embedded in bun models.
// Partial updates must include UpdatedAtColumn in their column list.
type Timestamps struct {
	// CreatedAt stores the timestamp when the record was created.
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	// UpdatedAt stores the timestamp when the record was last updated.
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// UpdatedAtColumn is the column refreshed on every update.
const UpdatedAtColumn = "updated_at"

func (*Timestamps) timestamped() {}

var _ bun.BeforeAppendModelHook = (*Timestamps)(nil)

// BeforeAppendModel stamps inserts and updates.
func (m *Timestamps) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		m.CreatedAt = now
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = time.Now()
	}
	return nil
}
