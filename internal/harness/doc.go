// Package harness executes YAML-defined versioning scenarios against an
// in-memory model of an entity table.
//
// A scenario writes entity versions at increasing blocks, then queries
// the table as of various blocks and states which version (if any) each
// query must see. The model applies exactly the interval semantics the
// store's SQL encodes: a write clamps the current version's range to end
// at the write block and opens the next as [block, ∞); a query matches
// the version whose range contains the target block.
//
// Every query is additionally evaluated with the redundant BRIN-helper
// comparisons conjoined, and the harness fails if that ever changes the
// outcome. This keeps the "the expanded clause is purely an index hint"
// property executable without a database.
package harness
