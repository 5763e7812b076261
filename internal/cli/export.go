package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql/engine/codec"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	File   string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Compile a query to a binary record",
		Long: `Parse a single query, derive its execution metadata, and write the
checksummed binary record to the output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "query.nrql", "output record path")

	return cmd
}

func runExport(opts *ExportOptions, args []string, cmd *cobra.Command) error {
	source, err := readSource(opts.File, args)
	if err != nil {
		return err
	}

	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	program, diags := parseSource(source, opts.RootOptions)
	formatter.Diagnostics(diags.Format())
	if diags.HasError {
		return NewExitError(ExitDataErr, "source contains syntax errors")
	}
	if len(program.Statements) != 1 {
		return NewExitError(ExitUsage,
			fmt.Sprintf("export takes exactly one statement, got %d", len(program.Statements)))
	}

	node := program.Statements[0]
	meta := codec.DeriveMetadata(node)
	data, err := codec.Encode(node, &meta)
	if err != nil {
		return WrapExitError(ExitSoftware, "encoding record", err)
	}

	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return WrapExitError(ExitIOErr, fmt.Sprintf("writing %s", opts.Output), err)
	}

	slog.Debug("record written", "path", opts.Output, "bytes", len(data),
		"engine", meta.Engine.String(), "hints", meta.Hints.String())
	fmt.Fprintf(formatter.Writer, "wrote %d bytes to %s\n", len(data), opts.Output)
	return nil
}
