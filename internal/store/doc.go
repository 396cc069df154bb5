// Package store persists block-versioned entities in Postgres.
//
// Entity tables are created from compiled entity specs (see compiler).
// A versioned entity accumulates one row per version; each row's
// block_range records the half-open interval of blocks for which that
// version was the entity's state. Writing a new version is a single
// transaction that clamps the current version's range to end at the
// write block and inserts the next version as [block, ∞). Reads "as of"
// a block filter with the containment predicate compiled by querypg.
//
// Unversioned entities are updated in place and carry the [-1, ∞) marker
// range, so the same read path sees them at every block.
//
// The block coordinate for a versioned write always comes from a history
// event via history.BlockNumber. Resolution failures abort the batch
// before anything is written; there is no degraded-coordinate path.
package store
