package store

import (
	"context"
	"fmt"

	"github.com/roach88/asof/internal/blockrange"
	"github.com/roach88/asof/internal/ir"
	"github.com/roach88/asof/internal/querypg"
)

// RevertTo undoes every versioned write at or after the given block for
// one entity type, in a single transaction:
//
//  1. versions born at or after the block are deleted;
//  2. versions that were clamped at or after it are reopened to [lower, ∞),
//     making them current again.
//
// Together these restore the table to the state it had just before the
// block was processed. Unversioned entities are untouched: they carry no
// history to revert.
func (s *Store) RevertTo(ctx context.Context, spec *ir.EntitySpec, block blockrange.BlockNumber) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("revert to block %d: begin tx: %w", block, err)
	}
	defer tx.Rollback() // No-op if committed

	del := buildRevertDelete(spec.TableName(), block)
	if _, err := tx.ExecContext(ctx, del.SQL(), del.Params()...); err != nil {
		return fmt.Errorf("revert to block %d: delete: %w", block, err)
	}

	reopen := buildRevertReopen(spec.TableName(), block)
	if _, err := tx.ExecContext(ctx, reopen.SQL(), reopen.Params()...); err != nil {
		return fmt.Errorf("revert to block %d: reopen: %w", block, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("revert to block %d: commit: %w", block, err)
	}

	return nil
}

// buildRevertDelete deletes versions whose validity began at or after
// the revert block.
func buildRevertDelete(table string, block blockrange.BlockNumber) *querypg.Query {
	q := querypg.New()
	q.PushSQL("delete from ")
	q.PushIdent(table)
	q.PushSQL(" where lower(block_range) >= ")
	q.PushParam(block)
	return q
}

// buildRevertReopen reopens versions that were closed at or after the
// revert block. The coalesce keeps still-open ranges out of the match;
// they compare as the sentinel, which only the (impossible) revert at
// the sentinel would reach.
func buildRevertReopen(table string, block blockrange.BlockNumber) *querypg.Query {
	q := querypg.New()
	q.PushSQL("update ")
	q.PushIdent(table)
	q.PushSQL(" set block_range = int4range(lower(block_range), null) where coalesce(upper(")
	q.PushSQL(blockrange.BlockRangeColumn)
	q.PushSQL("), 2147483647) >= ")
	q.PushParam(block)
	q.PushSQL(" and upper(")
	q.PushSQL(blockrange.BlockRangeColumn)
	q.PushSQL(") is not null")
	return q
}
