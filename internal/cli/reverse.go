package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql/engine/reverse"
)

// ReverseOptions holds flags for the reverse command.
type ReverseOptions struct {
	*RootOptions
	File string
}

// NewReverseCommand creates the reverse command.
func NewReverseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReverseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reverse [sql]",
		Short: "Translate a SQL statement into an NSQL syntax tree",
		Long: `Parse a SQL statement (MySQL dialect) and convert it into the
equivalent NSQL tree: SELECT becomes ASK, INSERT/UPDATE/DELETE/CREATE
TABLE become TELL actions. The tree prints in the selected format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReverse(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the SQL from a file (- for stdin)")

	return cmd
}

func runReverse(opts *ReverseOptions, args []string, cmd *cobra.Command) error {
	sql, err := readSource(opts.File, args)
	if err != nil {
		return err
	}

	node, err := reverse.FromSQL(sql)
	if err != nil {
		return WrapExitError(ExitDataErr, "converting SQL", err)
	}
	slog.Debug("converted SQL statement", "kind", node.Kind().String())

	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
	return emitTree(formatter, node)
}
