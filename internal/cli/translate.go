package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql"
	"github.com/nsql-lang/nsql/engine/validator"
	"github.com/nsql-lang/nsql/mapping"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	File     string
	Engine   string
	Validate bool
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate [query]",
		Short: "Translate a query for a target database engine",
		Long: `Parse a single query and render it for the chosen engine: SQL text
with placeholder arguments for relational targets, or a collection,
filter and projection plan for document targets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "auto", "target engine (auto|relational|document)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate the translated statement with the target dialect parser")

	return cmd
}

func runTranslate(opts *TranslateOptions, args []string, cmd *cobra.Command) error {
	source, err := readSource(opts.File, args)
	if err != nil {
		return err
	}

	engine, ok := mapping.ParseEngine(opts.Engine)
	if !ok {
		return NewExitError(ExitUsage,
			fmt.Sprintf("invalid engine %q: must be auto, relational or document", opts.Engine))
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
			fmt.Sprintf("translate takes exactly one statement, got %d", len(program.Statements)))
	}

	result, err := nsql.Translate(program.Statements[0], engine)
	if err != nil {
		return WrapExitError(ExitDataErr, "translating query", err)
	}
	slog.Debug("translated query", "engine", result.Engine.String())

	switch result.Engine {
	case mapping.EngineRelational:
		if formatter.Format == "json" {
			if err := formatter.EmitJSON(result.SQL); err != nil {
				return WrapExitError(ExitSoftware, "encoding statement", err)
			}
		} else {
			fmt.Fprintln(formatter.Writer, result.SQL.SQL)
			for i, arg := range result.SQL.Args {
				fmt.Fprintf(formatter.Writer, "  $%d = %v\n", i+1, arg)
			}
		}
		if opts.Validate {
			if err := validator.ValidatePostgreSQL(result.SQL.SQL); err != nil {
				return WrapExitError(ExitDataErr, "translated SQL failed validation", err)
			}
			fmt.Fprintln(formatter.ErrWriter, "validation: ok")
		}
	case mapping.EngineDocument:
		if err := formatter.EmitJSON(result.Mongo); err != nil {
			return WrapExitError(ExitSoftware, "encoding plan", err)
		}
	}
	return nil
}
