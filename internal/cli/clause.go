package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/asof/internal/blockrange"
	"github.com/roach88/asof/internal/querypg"
)

// ClauseResult is the JSON payload for the clause command.
type ClauseResult struct {
	SQL       string `json:"sql"`
	Params    []any  `json:"params"`
	Cacheable bool   `json:"cacheable"`
}

// NewClauseCommand creates the clause command, which prints the compiled
// containment predicate for a block. Useful when debugging planner
// behavior: it shows exactly what the store appends to its reads,
// including whether the BRIN-helper comparisons are present.
func NewClauseCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		block       int32
		prefix      string
		disableBRIN bool
	)

	cmd := &cobra.Command{
		Use:   "clause",
		Short: "Print the compiled containment clause for a block",
		Long: `Print the SQL predicate compiled for an as-of read at the given block.

The predicate honors the ` + querypg.DisableBRINEnv + ` environment
variable; --disable-brin forces the same behavior regardless of the
environment.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClause(rootOpts, block, prefix, disableBRIN, cmd)
		},
	}

	cmd.Flags().Int32Var(&block, "block", 0, "target block number")
	cmd.Flags().StringVar(&prefix, "prefix", "", `table alias prefix, e.g. "c."`)
	cmd.Flags().BoolVar(&disableBRIN, "disable-brin", false, "omit the BRIN-helper comparisons")
	_ = cmd.MarkFlagRequired("block")

	return cmd
}

func runClause(opts *RootOptions, block int32, prefix string, disableBRIN bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if block < 0 {
		_ = formatter.Error(ErrCodeGeneric, "block must be non-negative", nil)
		return NewExitError(ExitCommandError, "block must be non-negative")
	}

	cfg := querypg.ConfigFromEnv()
	if disableBRIN {
		cfg.DisableBRINRange = true
	}
	if cfg.DisableBRINRange {
		formatter.VerboseLog("BRIN-helper comparisons disabled")
	}

	q := querypg.New()
	querypg.NewContainsClause(cfg, prefix, blockrange.BlockNumber(block)).AppendTo(q)

	if formatter.Format == "json" {
		return formatter.Success(ClauseResult{
			SQL:       q.SQL(),
			Params:    q.Params(),
			Cacheable: q.Cacheable(),
		})
	}

	fmt.Fprintf(formatter.Writer, "sql: %s\n", q.SQL())
	fmt.Fprintf(formatter.Writer, "params: %v\n", q.Params())
	fmt.Fprintf(formatter.Writer, "cacheable: %v\n", q.Cacheable())
	return nil
}
