// Package query builds the query parameters used to list the keys of a namespace.
//
// Key listing accepts a single SQL LIKE style pattern. Filter describes which
// pattern to send: a prefix, suffix or substring match (user data is escaped so
// that % and _ match literally) or a raw pattern that is passed through as is.
package query

import (
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

// --------------------------------------------------------------------------
// Filter
// --------------------------------------------------------------------------

// Kind is the kind of a Filter
type Kind uint8

const (
	KindNone Kind = iota
	KindStartsWith
	KindEndsWith
	KindContains
	KindLike
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindStartsWith:
		return "starts-with"
	case KindEndsWith:
		return "ends-with"
	case KindContains:
		return "contains"
	case KindLike:
		return "like"
	default:
		return "unknown"
	}
}

// Filter selects the keys returned by a listing. The zero value matches all keys.
type Filter struct {
	kind  Kind
	value string
}

// None matches all keys
func None() Filter { return Filter{} }

// StartsWith matches keys with the given prefix
func StartsWith(prefix string) Filter { return Filter{kind: KindStartsWith, value: prefix} }

// EndsWith matches keys with the given suffix
func EndsWith(suffix string) Filter { return Filter{kind: KindEndsWith, value: suffix} }

// Contains matches keys containing the given substring
func Contains(substr string) Filter { return Filter{kind: KindContains, value: substr} }

// Like matches keys against a raw LIKE pattern. The pattern is not escaped.
func Like(pattern string) Filter { return Filter{kind: KindLike, value: pattern} }

// Kind returns the kind of the filter
func (f Filter) Kind() Kind { return f.kind }

// Pattern returns the LIKE pattern for the filter, ok is false for None
func (f Filter) Pattern() (pattern string, ok bool) {
	switch f.kind {
	case KindStartsWith:
		return EscapeLike(f.value) + "%", true
	case KindEndsWith:
		return "%" + EscapeLike(f.value), true
	case KindContains:
		return "%" + EscapeLike(f.value) + "%", true
	case KindLike:
		return f.value, true
	default:
		return "", false
	}
}

// String returns a readable representation of the filter
func (f Filter) String() string {
	if f.kind == KindNone {
		return f.kind.String()
	}
	return f.kind.String() + "(" + f.value + ")"
}

// EscapeLike escapes the LIKE wildcards % and _ with a backslash
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`%`, `\%`, `_`, `\_`)

// Options is the keyword form of a filter where any combination may be set.
type Options struct {
	StartsWith *string
	EndsWith   *string
	Contains   *string
	Like       *string
}

// FromOptions converts o into a Filter. If more than one field is set the
// first one in the order StartsWith, EndsWith, Contains, Like wins.
func FromOptions(o Options) Filter {
	switch {
	case o.StartsWith != nil:
		return StartsWith(*o.StartsWith)
	case o.EndsWith != nil:
		return EndsWith(*o.EndsWith)
	case o.Contains != nil:
		return Contains(*o.Contains)
	case o.Like != nil:
		return Like(*o.Like)
	default:
		return None()
	}
}

// --------------------------------------------------------------------------
// Query
// --------------------------------------------------------------------------

// Query holds all parameters of a key listing
type Query struct {
	Filter Filter
	// Offset skips the first keys of the listing, nil means no offset
	Offset *int
}

// WithOffset returns a copy of q with the given offset
func (q Query) WithOffset(offset int) Query {
	q.Offset = &offset
	return q
}

// params is the wire form of a Query
type params struct {
	Like   *string `schema:"like,omitempty"`
	Offset *int    `schema:"offset,omitempty"`
}

var encoder = schema.NewEncoder()

// Params returns the URL query parameters for q. "like" is only present when a
// filter is active and "offset" only when an offset is set.
func (q Query) Params() (url.Values, error) {
	p := params{Offset: q.Offset}
	if pattern, ok := q.Filter.Pattern(); ok {
		p.Like = &pattern
	}

	values := url.Values{}
	if err := encoder.Encode(p, values); err != nil {
		return nil, err
	}
	return values, nil
}

// Build returns the query parameters for the keyword form of a listing
func Build(startsWith, endsWith, contains, like *string, offset *int) (url.Values, error) {
	q := Query{
		Filter: FromOptions(Options{StartsWith: startsWith, EndsWith: endsWith, Contains: contains, Like: like}),
		Offset: offset,
	}
	return q.Params()
}
