// Package sorter parses sort strings such as "name:asc,height:desc" into
// ordered sort options.
package sorter

import (
	"slices"
	"strings"

	"github.com/code19m/errx"
)

// CodeInvalidSort is returned by Parse for malformed or disallowed sort strings.
const CodeInvalidSort = "INVALID_SORT"

type (
	// SortOpts is an ordered list of sort options.
	SortOpts []Opt

	// SortDirection is asc or desc.
	SortDirection string
)

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Opt is a single sort option.
type Opt struct {
	F string        // F is the field to sort by.
	D SortDirection // D is the sorting direction.
}

// Make creates SortOpts from the given options.
func Make(sortOptions ...Opt) SortOpts {
	return sortOptions
}

// MakeFromStr parses sortString leniently: malformed pairs, unknown directions
// and fields outside allowedFields are dropped.
func MakeFromStr(sortString string, allowedFields ...string) SortOpts {
	var options SortOpts
	for pair := range strings.SplitSeq(sortString, ",") {
		opt, ok := parseOpt(pair)
		if !ok || !slices.Contains(allowedFields, opt.F) {
			continue
		}
		options = append(options, opt)
	}
	return options
}

// Parse parses sortString strictly. Any malformed pair or field outside
// allowedFields is a validation error.
func Parse(sortString string, allowedFields ...string) (SortOpts, error) {
	if strings.TrimSpace(sortString) == "" {
		return nil, nil
	}

	var options SortOpts
	for pair := range strings.SplitSeq(sortString, ",") {
		opt, ok := parseOpt(pair)
		if !ok || !slices.Contains(allowedFields, opt.F) {
			return nil, errx.New(
				"invalid sort option: "+strings.TrimSpace(pair),
				errx.WithType(errx.T_Validation),
				errx.WithCode(CodeInvalidSort),
				errx.WithFields(errx.M{
					"sort": "Must be a comma separated list of field:asc|desc; allowed fields: " +
						strings.Join(allowedFields, ", "),
				}),
			)
		}
		options = append(options, opt)
	}
	return options, nil
}

func parseOpt(pair string) (Opt, bool) {
	field, direction, found := strings.Cut(pair, ":")
	if !found {
		return Opt{}, false
	}

	field = strings.TrimSpace(field)
	d := SortDirection(strings.ToLower(strings.TrimSpace(direction)))
	if field == "" || (d != Asc && d != Desc) {
		return Opt{}, false
	}

	return Opt{F: field, D: d}, true
}
