package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/engine/render"
	"github.com/nsql-lang/nsql/engine/report"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	File string
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse [query]",
		Short: "Parse a query and print its syntax tree",
		Long: `Parse one or more statements and print the resulting syntax tree in
the chosen format. Diagnostics go to stderr; the exit code reports
whether the source parsed cleanly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file (- for stdin)")

	return cmd
}

func runParse(opts *ParseOptions, args []string, cmd *cobra.Command) error {
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
	slog.Debug("parsed source", "statements", len(program.Statements), "errors", diags.ErrorCount)

	if err := emitTree(formatter, program); err != nil {
		return err
	}
	formatter.Diagnostics(diags.Format())

	if diags.HasError {
		return NewExitError(ExitDataErr, "source contains syntax errors")
	}
	return nil
}

// parseSource runs the parser with the policy selected by the root
// flags.
func parseSource(source string, opts *RootOptions) (*ast.Program, *report.Context) {
	policy := parser.RecoverStatement
	if opts.Recover == "reset" {
		policy = parser.RecoverReset
	}
	diags := &report.Context{}
	p := parser.New(lexer.New(source), diags, policy)
	return p.ParseProgram(), diags
}

// emitTree renders a node in the formatter's format.
func emitTree(f *Formatter, node ast.Node) error {
	switch f.Format {
	case "json":
		doc, err := render.JSON(node, true)
		if err != nil {
			return WrapExitError(ExitSoftware, "rendering JSON", err)
		}
		f.Emit(doc)
	case "dot":
		f.Emit(render.DOT(node))
	default:
		f.Emit(render.Text(node))
	}
	return nil
}
