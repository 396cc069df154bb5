// Package blockrange provides the validity-interval value type used to
// encode when an entity version holds, expressed over block numbers
// rather than wall-clock time.
//
// Every versioned row carries a half-open range [lower, upper) of block
// numbers. A version that has not been superseded has an unbounded upper
// end; a later write closes it by clamping the upper bound to the block
// at which the next version begins. Records that are not versioned at all
// carry the reserved lower bound BlockUnversioned (-1) so they test as
// valid for every block.
//
// This package contains value types and constants only. Query generation
// against the range column lives in querypg; block-coordinate resolution
// from history contexts lives in history.
package blockrange
