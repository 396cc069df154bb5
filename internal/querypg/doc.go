// Package querypg compiles temporal predicates into parameterized
// Postgres SQL.
//
// The central piece is ContainsClause, which turns "this row's validity
// range contains block B" into a WHERE fragment. The fragment always
// carries the point-containment test
//
//	block_range @> $n
//
// which is correct on its own and is accelerated by the GiST exclusion
// index on entity tables. For real (non-sentinel) blocks it additionally
// emits a logically redundant pair of scalar comparisons
//
//	and coalesce(upper(block_range), 2147483647) > $n
//	and lower(block_range) <= $n
//
// whose only purpose is to let the BRIN index over the raw range bounds
// prune block ranges, so the planner can pick whichever index is cheaper.
// A Config flag (derived once at startup from the environment) can switch
// the redundant pair off if it ever degrades planning in a deployment;
// results are identical either way.
//
// Fragments append into a Query builder that tracks SQL text, bind
// parameters, and whether the finished statement is safe to reuse from a
// prepared-statement cache. Clauses whose shape depends on run-time
// inputs mark the query uncacheable.
package querypg
