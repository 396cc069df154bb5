package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/asof/internal/blockrange"
	"github.com/roach88/asof/internal/ir"
	"github.com/roach88/asof/internal/querypg"
)

// ErrNotFound is returned by point reads when no version of the entity
// is valid at the requested block.
var ErrNotFound = errors.New("entity not found")

// FindAt returns the state of one entity as of the given block: the
// declared column values of the version whose validity range contains
// it. Returns ErrNotFound when no version does.
//
// Passing blockrange.BlockNumberMax disables temporal filtering in the
// sense that it selects the current version (metadata-style lookup).
func (s *Store) FindAt(ctx context.Context, cfg querypg.Config, spec *ir.EntitySpec, id string, block blockrange.BlockNumber) (map[string]any, error) {
	q := buildFindAt(cfg, spec.TableName(), id, block)

	var doc string
	err := s.db.QueryRowContext(ctx, q.SQL(), q.Params()...).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find at block %d: %w", block, err)
	}

	return decodeRow(doc)
}

// FindCurrent returns the entity's current state without temporal
// filtering, using the sentinel containment test.
func (s *Store) FindCurrent(ctx context.Context, spec *ir.EntitySpec, id string) (map[string]any, error) {
	q := buildFindCurrent(spec.TableName(), id)

	var doc string
	err := s.db.QueryRowContext(ctx, q.SQL(), q.Params()...).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find current: %w", err)
	}

	return decodeRow(doc)
}

// FindAllAt returns the state of every entity of the spec's type as of
// the given block, keyed by entity id. Ordered iteration is not needed
// by callers; the map gives each id's single valid version.
func (s *Store) FindAllAt(ctx context.Context, cfg querypg.Config, spec *ir.EntitySpec, block blockrange.BlockNumber) (map[string]map[string]any, error) {
	q := buildFindAllAt(cfg, spec.TableName(), block)

	rows, err := s.db.QueryContext(ctx, q.SQL(), q.Params()...)
	if err != nil {
		return nil, fmt.Errorf("find all at block %d: %w", block, err)
	}
	defer rows.Close()

	result := make(map[string]map[string]any)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("find all at block %d: scan: %w", block, err)
		}
		values, err := decodeRow(doc)
		if err != nil {
			return nil, fmt.Errorf("find all at block %d: %w", block, err)
		}
		result[id] = values
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find all at block %d: %w", block, err)
	}

	return result, nil
}

// buildFindAt builds
//
//	select to_jsonb(c) from "t" c where c.id = $1 and <contains clause>
//
// The contains clause carries the containment test plus, for real
// blocks, the BRIN-helper comparisons.
func buildFindAt(cfg querypg.Config, table, id string, block blockrange.BlockNumber) *querypg.Query {
	q := querypg.New()
	q.PushSQL("select to_jsonb(c) from ")
	q.PushIdent(table)
	q.PushSQL(" c where c.id = ")
	q.PushParam(id)
	q.PushSQL(" and ")
	querypg.NewContainsClause(cfg, "c.", block).AppendTo(q)
	return q
}

// buildFindCurrent builds the current-version point read. The statement
// shape is fixed, so it stays cacheable.
func buildFindCurrent(table, id string) *querypg.Query {
	q := querypg.New()
	q.PushSQL("select to_jsonb(c) from ")
	q.PushIdent(table)
	q.PushSQL(" c where c.id = ")
	q.PushParam(id)
	q.PushSQL(" and c.")
	q.PushSQL(blockrange.BlockRangeCurrent)
	return q
}

// buildFindAllAt builds the as-of scan over a whole entity table,
// ordered by id for deterministic row processing.
func buildFindAllAt(cfg querypg.Config, table string, block blockrange.BlockNumber) *querypg.Query {
	q := querypg.New()
	q.PushSQL("select c.id, to_jsonb(c) from ")
	q.PushIdent(table)
	q.PushSQL(" c where ")
	querypg.NewContainsClause(cfg, "c.", block).AppendTo(q)
	q.PushSQL(" order by c.id")
	return q
}

// decodeRow unmarshals a to_jsonb row document and strips the storage
// bookkeeping columns, leaving id and the declared columns.
func decodeRow(doc string) (map[string]any, error) {
	var values map[string]any
	if err := json.Unmarshal([]byte(doc), &values); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	delete(values, "vid")
	delete(values, blockrange.BlockRangeColumn)
	return values, nil
}
