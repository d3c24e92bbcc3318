// Package pagination holds the offset pagination parameters of list requests.
package pagination

const (
	// DefaultLimit is used when a request does not set a limit.
	DefaultLimit = 50
	// MaxLimit caps the number of results of one page.
	MaxLimit = 1000
)

// Params is embedded in list requests: skip the first Skip rows, then return
// at most Limit rows.
type Params struct {
	Skip  int `query:"skip" json:"skip,omitempty" validate:"gte=0"`
	Limit int `query:"limit" json:"limit,omitempty" validate:"gte=0,lte=1000"`
}

// Normalize returns the effective skip and limit: negative skips become 0,
// a zero or negative limit becomes DefaultLimit and larger limits are capped.
func (p Params) Normalize() (int, int) {
	skip := max(p.Skip, 0)

	limit := p.Limit
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return skip, limit
}
