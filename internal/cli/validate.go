package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Entities []string          `json:"entities,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one problem found in an entity spec.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-path>",
		Short: "Validate entity specs without generating DDL",
		Long: `Validate CUE entity specs without generating DDL.

The path may be a single .cue file or a directory of them. Checks syntax,
required fields, and column types.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadEntitySpecs(specsPath)
	if err != nil {
		return outputValidateFailure(formatter, err)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsPath)

	names := make([]string, 0, len(loadResult.Entities))
	for _, e := range loadResult.Entities {
		formatter.VerboseLog("Validated entity: %s", e.Name)
		names = append(names, e.Name)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Entities: names})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d entity spec(s) valid\n", len(names))
	return nil
}

// outputValidateFailure reports a load or validation error with the
// matching exit code: infrastructure problems (missing paths, unreadable
// directories) exit 2, bad specs exit 1.
func outputValidateFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			issue.Line = loadErr.Pos.Line()
		}
		_ = formatter.Error(loadErr.Code, loadErr.Message, ValidationResult{Valid: false, Errors: []ValidationIssue{issue}})
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		fmt.Fprintf(formatter.Writer, "  %s\n", loadErr.Error())
	}

	code := ExitFailure
	switch loadErr.Code {
	case ErrCodeNotFound, ErrCodeScanError, ErrCodeNoFiles:
		code = ExitCommandError
	}
	return NewExitError(code, loadErr.Error())
}
