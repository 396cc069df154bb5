package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/asof/internal/ir"
)

// GenerateDDL returns the DDL for one entity table.
//
// Versioned tables get:
//   - a GiST exclusion constraint over (id, block_range). It guarantees
//     at most one version of an entity per block and doubles as the index
//     that accelerates the `block_range @> $block` containment test
//     (requires the btree_gist extension, installed by the store's meta
//     schema).
//   - a BRIN index over the scalar projections of the range plus vid,
//     which is what the redundant clause emitted by querypg gives the
//     planner a chance to use.
//
// Unversioned tables keep one row per entity (unique id) whose
// block_range defaults to the [-1,∞) marker; they need neither index
// since their rows match every block.
func GenerateDDL(spec *ir.EntitySpec) string {
	table := spec.TableName()

	var b strings.Builder
	fmt.Fprintf(&b, "create table %q (\n", table)
	b.WriteString("    vid bigserial primary key,\n")
	b.WriteString("    id text not null,\n")
	for _, col := range spec.Columns {
		fmt.Fprintf(&b, "    %q %s not null,\n", ir.SQLName(col.Name), col.Type)
	}

	if spec.Versioned {
		b.WriteString("    block_range int4range not null,\n")
		fmt.Fprintf(&b, "    constraint %q exclude using gist (id with =, block_range with &&)\n",
			table+"_id_block_range_excl")
		b.WriteString(");\n")
		fmt.Fprintf(&b, "create index %q on %q using brin (lower(block_range), coalesce(upper(block_range), 2147483647), vid);\n",
			"brin_"+table, table)
	} else {
		b.WriteString("    block_range int4range not null default '[-1,)'::int4range,\n")
		fmt.Fprintf(&b, "    constraint %q unique (id)\n", table+"_id_uq")
		b.WriteString(");\n")
	}

	return b.String()
}

// GenerateAllDDL concatenates the DDL for every spec, separated by blank
// lines, in the order given (CompileEntities already sorts by name).
func GenerateAllDDL(specs []ir.EntitySpec) string {
	parts := make([]string, 0, len(specs))
	for i := range specs {
		parts = append(parts, GenerateDDL(&specs[i]))
	}
	return strings.Join(parts, "\n")
}
