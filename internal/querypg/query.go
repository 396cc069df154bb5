package querypg

import (
	"strconv"
	"strings"
)

// Query accumulates a parameterized Postgres statement: SQL text, bind
// parameters in `$1..$n` order, and a cacheability flag.
//
// A Query starts out cacheable. Fragments whose emitted shape depends on
// run-time inputs (not just on bound values) call MarkUncacheable so a
// prepared plan for one input is never reused for another.
type Query struct {
	sql       strings.Builder
	params    []any
	cacheable bool
}

// New creates an empty Query.
func New() *Query {
	return &Query{cacheable: true}
}

// Fragment is a piece of SQL that knows how to append itself to a Query.
// Fragments are total over valid inputs: appending never fails.
type Fragment interface {
	AppendTo(q *Query)
}

// PushSQL appends raw SQL text verbatim.
func (q *Query) PushSQL(s string) {
	q.sql.WriteString(s)
}

// PushIdent appends a quoted identifier. Embedded double quotes are
// doubled per SQL quoting rules.
func (q *Query) PushIdent(name string) {
	q.sql.WriteByte('"')
	q.sql.WriteString(strings.ReplaceAll(name, `"`, `""`))
	q.sql.WriteByte('"')
}

// PushParam registers v as the next bind parameter and appends its
// placeholder. Values are never interpolated into the SQL text.
func (q *Query) PushParam(v any) {
	q.params = append(q.params, v)
	q.sql.WriteByte('$')
	q.sql.WriteString(strconv.Itoa(len(q.params)))
}

// MarkUncacheable records that the finished statement must not be reused
// from a prepared-statement cache keyed on anything less than its full
// SQL text.
func (q *Query) MarkUncacheable() {
	q.cacheable = false
}

// SQL returns the statement text assembled so far.
func (q *Query) SQL() string {
	return q.sql.String()
}

// Params returns the bind parameters in placeholder order.
func (q *Query) Params() []any {
	return q.params
}

// Cacheable reports whether the statement is safe to reuse as a cached
// prepared plan.
func (q *Query) Cacheable() bool {
	return q.cacheable
}
