// internal/record/query.go
//
// Per-call query scope builder.
//
// Context
// -------
// Where, OrderBy, and Limit accumulate scope fragments that the next mapper
// call consumes.  The previous backend stored these fragments on the entity
// itself and never cleared them, so scopes leaked into unrelated queries.
// Here the scope is a standalone value, built fresh per call and passed to
// exactly one mapper operation; nothing persists between queries.
//
// Column names and operators are checked against the table descriptor at
// apply time.  Only values are ever parameter-bound; a name that fails the
// allowlist aborts the query with a *ValidationError instead of reaching
// the SQL string.
//
// Notes
// -----
//   - Built on Masterminds/squirrel with MySQL ? placeholders.
//   - A nil *Query is valid everywhere and means "no scope".
package record

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// operators whitelists the comparison operators a scope may use.
var operators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
	"LIKE": {}, "NOT LIKE": {},
}

type whereClause struct {
	column   string
	operator string
	value    any
}

type orderClause struct {
	column    string
	direction string
}

// Query is an accumulated scope: predicates, ordering, and a row cap.
type Query struct {
	wheres []whereClause
	orders []orderClause
	limit  uint64
}

// NewQuery returns an empty scope.
func NewQuery() *Query { return &Query{} }

// Where appends a predicate.  Returns the query for chaining.
func (q *Query) Where(column, operator string, value any) *Query {
	q.wheres = append(q.wheres, whereClause{column, strings.ToUpper(strings.TrimSpace(operator)), value})
	return q
}

// OrderBy appends an ordering clause.  Direction is ASC or DESC.
func (q *Query) OrderBy(column, direction string) *Query {
	q.orders = append(q.orders, orderClause{column, strings.ToUpper(strings.TrimSpace(direction))})
	return q
}

// Limit caps the number of rows returned.
func (q *Query) Limit(n uint64) *Query {
	q.limit = n
	return q
}

/*──────────────────────────── application ─────────────────────────────────*/

// apply validates the scope against t and folds it into b.  A nil receiver
// is a no-op.
func (q *Query) apply(t Table, b sq.SelectBuilder) (sq.SelectBuilder, error) {
	if q == nil {
		return b, nil
	}
	for _, w := range q.wheres {
		if !t.HasColumn(w.column) {
			return b, &ValidationError{Table: t.Name, Columns: []string{w.column}, Reason: "unknown scope column"}
		}
		if _, ok := operators[w.operator]; !ok {
			return b, &ValidationError{Table: t.Name, Columns: []string{w.column}, Reason: "unsupported operator " + w.operator}
		}
		b = b.Where(sq.Expr(fmt.Sprintf("%s %s ?", w.column, w.operator), w.value))
	}
	for _, o := range q.orders {
		if !t.HasColumn(o.column) {
			return b, &ValidationError{Table: t.Name, Columns: []string{o.column}, Reason: "unknown order column"}
		}
		if o.direction != "ASC" && o.direction != "DESC" {
			return b, &ValidationError{Table: t.Name, Columns: []string{o.column}, Reason: "bad order direction " + o.direction}
		}
		b = b.OrderBy(o.column + " " + o.direction)
	}
	if q.limit > 0 {
		b = b.Limit(q.limit)
	}
	return b, nil
}

// applyWheres folds only the predicates into b, for COUNT statements that
// must see the same filter as the data query.
func (q *Query) applyWheres(t Table, b sq.SelectBuilder) (sq.SelectBuilder, error) {
	if q == nil {
		return b, nil
	}
	trimmed := &Query{wheres: q.wheres}
	return trimmed.apply(t, b)
}
