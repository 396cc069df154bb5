package ir

// EntitySpec describes one entity type and the table it is stored in.
//
// Every entity table carries, besides the declared columns:
//   - vid: a bigserial surrogate key ordering versions by write order
//   - id: the entity's identifier, shared across its versions
//   - block_range: the validity interval of the row
//
// Versioned entities accumulate one row per version, distinguished by
// block_range; unversioned entities keep a single row with the marker
// range [-1,∞) and are updated in place.
type EntitySpec struct {
	// Name is the entity name as declared in the spec source.
	Name string

	// Versioned selects between versioned and in-place storage.
	// Defaults to true when the spec does not say.
	Versioned bool

	// Columns are the declared columns in deterministic (name) order.
	Columns []ColumnSpec
}

// ColumnSpec describes one declared column.
type ColumnSpec struct {
	// Name is the column name as declared; SQLName derives the
	// identifier actually used in DDL and queries.
	Name string

	// Type is the column's SQL type.
	Type ColumnType
}

// ColumnType is the SQL type of a declared column, restricted to the
// types the store knows how to bind and scan.
type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnInt     ColumnType = "int8"
	ColumnNumeric ColumnType = "numeric"
	ColumnBool    ColumnType = "boolean"
	ColumnBytes   ColumnType = "bytea"
)

// Valid reports whether t is one of the supported column types.
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnText, ColumnInt, ColumnNumeric, ColumnBool, ColumnBytes:
		return true
	}
	return false
}

// TableName returns the SQL identifier for the entity's table.
func (e *EntitySpec) TableName() string {
	return SQLName(e.Name)
}
