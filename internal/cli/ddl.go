package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/asof/internal/compiler"
)

// DDLResult is the JSON payload for the ddl command.
type DDLResult struct {
	Entities []string `json:"entities"`
	DDL      string   `json:"ddl"`
}

// NewDDLCommand creates the ddl command.
func NewDDLCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "ddl <specs-path>",
		Short: "Generate table DDL from entity specs",
		Long: `Generate the Postgres DDL for every entity in the given specs.

Versioned entities get a GiST exclusion constraint over (id, block_range)
and a BRIN index over the range's scalar projections; unversioned entities
get a plain unique id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(rootOpts, args[0], outPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write DDL to a file instead of stdout")

	return cmd
}

func runDDL(opts *RootOptions, specsPath, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadEntitySpecs(specsPath)
	if err != nil {
		return outputValidateFailure(formatter, err)
	}

	names := make([]string, 0, len(loadResult.Entities))
	for _, e := range loadResult.Entities {
		formatter.VerboseLog("Generating DDL for entity: %s", e.Name)
		names = append(names, e.Name)
	}

	ddl := compiler.GenerateAllDDL(loadResult.Entities)

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(ddl), 0o644); err != nil {
			_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("writing %s: %v", outPath, err), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("writing %s: %v", outPath, err))
		}
		formatter.VerboseLog("Wrote DDL to %s", outPath)
		if formatter.Format == "json" {
			return formatter.Success(DDLResult{Entities: names, DDL: ddl})
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote DDL for %d entity spec(s) to %s\n", len(names), outPath)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(DDLResult{Entities: names, DDL: ddl})
	}

	fmt.Fprint(formatter.Writer, ddl)
	return nil
}
