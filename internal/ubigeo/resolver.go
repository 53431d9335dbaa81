// Package ubigeo resolves free-text "department, province, district"
// descriptions to 6-digit Peruvian ubigeo codes.
package ubigeo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/grte-converter/internal/types"
)

// DefaultCode is Lima, Lima, Lima. It is returned both for missing and for
// unmatched descriptions.
const DefaultCode = "150101"

// Resolver looks codes up in a geo-code table by exact, case-insensitive
// match of the trimmed description. It is read-only after construction.
type Resolver struct {
	entries []entry
}

type entry struct {
	key  string
	code string
}

// NewResolver normalizes the table once. Rows missing a code or description
// never match.
func NewResolver(table []types.GeoRow) *Resolver {
	r := &Resolver{entries: make([]entry, 0, len(table))}
	for _, g := range table {
		if g.Code == nil || g.Description == nil {
			continue
		}
		r.entries = append(r.entries, entry{key: normalize(*g.Description), code: *g.Code})
	}
	return r
}

// Resolve returns the code of the first entry whose description equals text,
// ignoring case and surrounding blanks, or DefaultCode.
func (r *Resolver) Resolve(text *string) string {
	if text == nil {
		return DefaultCode
	}
	key := normalize(*text)
	for _, e := range r.entries {
		if e.key == key {
			return e.code
		}
	}
	return DefaultCode
}

// Len returns the number of resolvable entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// Resolve is a one-shot lookup against an unprepared table.
func Resolve(text *string, table []types.GeoRow) string {
	return NewResolver(table).Resolve(text)
}

func normalize(s string) string {
	// Casers keep state; one per call.
	return cases.Lower(language.Spanish).String(strings.TrimSpace(s))
}
