// Package compiler turns CUE entity specs into ir.EntitySpec values and
// generates the DDL for their tables.
//
// An entity spec looks like:
//
//	entity: Account: {
//		versioned: true
//		columns: {
//			owner:   "text"
//			balance: "numeric"
//		}
//	}
//
// The compiler uses the CUE SDK's Go API directly (not a CLI subprocess).
package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/asof/internal/ir"
)

// CompileEntity parses a CUE value into an EntitySpec. The value should
// be the entity struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: Account: { ... }`)
//	spec, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Account")))
func CompileEntity(v cue.Value) (*ir.EntitySpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.EntitySpec{Versioned: true}

	// Entity name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}
	if spec.Name == "" {
		return nil, &CompileError{
			Field:   "entity",
			Message: "entity name is required",
			Pos:     v.Pos(),
		}
	}

	// versioned is optional; defaults to true.
	versionedVal := v.LookupPath(cue.ParsePath("versioned"))
	if versionedVal.Exists() {
		versioned, err := versionedVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Versioned = versioned
	}

	// columns is required and must be non-empty.
	columns, err := parseColumns(v)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, &CompileError{
			Field:   "columns",
			Message: "at least one column is required",
			Pos:     v.Pos(),
		}
	}
	spec.Columns = columns

	return spec, nil
}

// CompileEntities parses every entity under the top-level `entity` struct
// of a CUE value, in deterministic (name) order.
func CompileEntities(v cue.Value) ([]ir.EntitySpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("entity"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "entity",
			Message: "no entity declarations found",
			Pos:     v.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.EntitySpec
	for iter.Next() {
		spec, err := CompileEntity(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

// parseColumns reads the columns struct into ColumnSpecs sorted by name.
func parseColumns(v cue.Value) ([]ir.ColumnSpec, error) {
	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return nil, &CompileError{
			Field:   "columns",
			Message: "columns is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := columnsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var columns []ir.ColumnSpec
	for iter.Next() {
		name := iter.Selector().String()
		typeStr, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		colType := ir.ColumnType(typeStr)
		if !colType.Valid() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("columns.%s", name),
				Message: fmt.Sprintf("unsupported column type %q", typeStr),
				Pos:     iter.Value().Pos(),
			}
		}

		columns = append(columns, ir.ColumnSpec{Name: name, Type: colType})
	}

	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })
	return columns, nil
}

// CompileError reports a structural problem in an entity spec, with CUE
// source position when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
