package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/asof/internal/blockrange"
	"github.com/roach88/asof/internal/history"
	"github.com/roach88/asof/internal/ir"
	"github.com/roach88/asof/internal/querypg"
)

// Batch groups the versioned writes performed at a single block into one
// transaction. All writes in a batch share the block coordinate resolved
// from the history event that opened it; either every write commits or
// none does.
type Batch struct {
	// ID identifies the batch in diagnostics.
	ID uuid.UUID

	// Block is the coordinate every version written by this batch
	// becomes valid from.
	Block blockrange.BlockNumber

	deployment string
	tx         *sql.Tx
}

// BeginBatch resolves the block coordinate from the history event and
// opens a transaction for writes at that block.
//
// Resolution failures (missing context, out-of-domain coordinate) abort
// here, before any state is touched: a versioned write without a valid
// coordinate must never reach the tables.
func (s *Store) BeginBatch(ctx context.Context, ev *history.Event) (*Batch, error) {
	block, err := history.BlockNumber(ev)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}

	return &Batch{
		ID:         uuid.New(),
		Block:      block,
		deployment: ev.Deployment,
		tx:         tx,
	}, nil
}

// InsertVersion writes the next version of an entity: the current
// version's range is clamped to end at the batch block, then the new
// version is inserted as [block, ∞).
//
// When no current version exists the clamp is a no-op and the insert
// creates the entity's first version. Values must contain exactly the
// spec's declared columns.
func (b *Batch) InsertVersion(ctx context.Context, spec *ir.EntitySpec, id string, values map[string]any) error {
	clamp := buildClampCurrent(spec.TableName(), b.Block, id)
	if _, err := b.tx.ExecContext(ctx, clamp.SQL(), clamp.Params()...); err != nil {
		return fmt.Errorf("insert version (batch %s): clamp current: %w", b.ID, err)
	}

	insert, err := buildInsertVersion(spec, id, values, blockrange.From(b.Block))
	if err != nil {
		return fmt.Errorf("insert version (batch %s): %w", b.ID, err)
	}
	if _, err := b.tx.ExecContext(ctx, insert.SQL(), insert.Params()...); err != nil {
		return fmt.Errorf("insert version (batch %s): insert: %w", b.ID, err)
	}

	return nil
}

// Delete ends an entity's validity at the batch block without writing a
// successor version: the current version's range is clamped and nothing
// replaces it, so as-of reads at later blocks see the entity as absent.
func (b *Batch) Delete(ctx context.Context, spec *ir.EntitySpec, id string) error {
	clamp := buildClampCurrent(spec.TableName(), b.Block, id)
	if _, err := b.tx.ExecContext(ctx, clamp.SQL(), clamp.Params()...); err != nil {
		return fmt.Errorf("delete (batch %s): %w", b.ID, err)
	}
	return nil
}

// Commit records the batch's block as the deployment's latest and
// commits the transaction.
func (b *Batch) Commit(ctx context.Context) error {
	if b.deployment != "" {
		_, err := b.tx.ExecContext(ctx, `
			insert into asof_deployments (id, latest_block) values ($1, $2)
			on conflict (id) do update set latest_block = excluded.latest_block
		`, b.deployment, b.Block)
		if err != nil {
			return fmt.Errorf("commit batch %s: record deployment block: %w", b.ID, err)
		}
	}

	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch %s: %w", b.ID, err)
	}
	return nil
}

// Rollback abandons the batch. No-op if already committed.
func (b *Batch) Rollback() error {
	return b.tx.Rollback()
}

// UpsertUnversioned writes an entity that does not participate in
// temporal versioning: the row is created with the [-1, ∞) marker range
// or updated in place. Deliberately takes no history event; callers that
// hold one should be using a Batch instead.
func (s *Store) UpsertUnversioned(ctx context.Context, spec *ir.EntitySpec, id string, values map[string]any) error {
	q, err := buildUpsertUnversioned(spec, id, values)
	if err != nil {
		return fmt.Errorf("upsert unversioned: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, q.SQL(), q.Params()...); err != nil {
		return fmt.Errorf("upsert unversioned: %w", err)
	}
	return nil
}

// buildClampCurrent builds
//
//	update "t" set block_range = int4range(lower(block_range), $1)
//	    where id = $2 and block_range @> 2147483647
//
// closing the current version at the given block. The sentinel
// containment test finds the current version through the exclusion
// index; the supersession invariant (next version's lower bound equals
// the closed version's upper bound) holds because both sides use the
// same batch block.
func buildClampCurrent(table string, block blockrange.BlockNumber, id string) *querypg.Query {
	q := querypg.New()
	q.PushSQL("update ")
	q.PushIdent(table)
	q.PushSQL(" set block_range = int4range(lower(block_range), ")
	q.PushParam(block)
	q.PushSQL(") where id = ")
	q.PushParam(id)
	q.PushSQL(" and ")
	q.PushSQL(blockrange.BlockRangeCurrent)
	return q
}

// buildInsertVersion builds the insert for one entity version. Columns
// are emitted in spec order; the range literal is bound and cast to
// int4range.
func buildInsertVersion(spec *ir.EntitySpec, id string, values map[string]any, r blockrange.BlockRange) (*querypg.Query, error) {
	q := querypg.New()
	q.PushSQL("insert into ")
	q.PushIdent(spec.TableName())
	q.PushSQL(" (id")
	for _, col := range spec.Columns {
		q.PushSQL(", ")
		q.PushIdent(ir.SQLName(col.Name))
	}
	q.PushSQL(", block_range) values (")
	q.PushParam(id)
	for _, col := range spec.Columns {
		v, ok := values[col.Name]
		if !ok {
			return nil, fmt.Errorf("missing value for column %s", col.Name)
		}
		q.PushSQL(", ")
		q.PushParam(v)
	}
	q.PushSQL(", ")
	q.PushParam(r)
	q.PushSQL("::int4range)")
	return q, nil
}

// buildUpsertUnversioned builds the in-place upsert for an unversioned
// entity.
func buildUpsertUnversioned(spec *ir.EntitySpec, id string, values map[string]any) (*querypg.Query, error) {
	q := querypg.New()
	q.PushSQL("insert into ")
	q.PushIdent(spec.TableName())
	q.PushSQL(" (id")
	for _, col := range spec.Columns {
		q.PushSQL(", ")
		q.PushIdent(ir.SQLName(col.Name))
	}
	q.PushSQL(", block_range) values (")
	q.PushParam(id)
	for _, col := range spec.Columns {
		v, ok := values[col.Name]
		if !ok {
			return nil, fmt.Errorf("missing value for column %s", col.Name)
		}
		q.PushSQL(", ")
		q.PushParam(v)
	}
	q.PushSQL(", ")
	q.PushParam(blockrange.Unversioned())
	q.PushSQL("::int4range) on conflict (id) do update set ")
	for i, col := range spec.Columns {
		if i > 0 {
			q.PushSQL(", ")
		}
		name := ir.SQLName(col.Name)
		q.PushIdent(name)
		q.PushSQL(" = excluded.")
		q.PushIdent(name)
	}
	return q, nil
}
