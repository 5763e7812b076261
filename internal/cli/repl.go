package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql/engine/codec"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/engine/report"
)

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query prompt",
		Long: `Read queries line by line, printing the syntax tree and derived
execution metadata for each. The parser state resets between lines, so
an error in one query never hides the next.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(rootOpts, cmd)
		},
	}
	return cmd
}

func runRepl(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintln(formatter.Writer, "nsql interactive prompt; type exit to leave")

	for {
		fmt.Fprint(formatter.Writer, "nsql> ")
		if !in.Scan() {
			fmt.Fprintln(formatter.Writer)
			return in.Err()
		}
		line := in.Text()
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		diags := &report.Context{}
		p := parser.New(lexer.New(line), diags, parser.RecoverReset)
		node := p.ParseQuery()

		if node != nil {
			if err := emitTree(formatter, node); err != nil {
				return err
			}
			if !diags.HasError {
				meta := codec.DeriveMetadata(node)
				fmt.Fprintf(formatter.Writer, "engine=%s hints=%s priority=%d rows=%d timeout=%dms\n",
					meta.Engine.String(), meta.Hints.String(), meta.Priority,
					meta.EstimatedRows, meta.TimeoutMS)
			}
		}
		formatter.Diagnostics(diags.Format())
	}
}
