// Package cli implements the nsql command line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "dot"
	Recover string // "statement" | "reset"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "dot"}

// NewRootCommand creates the root command for the nsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nsql",
		Short: "NSQL - natural language queries for relational and document stores",
		Long: `NSQL parses English-like queries (ASK, TELL, FIND, SHOW, GET) into a
syntax tree, derives execution metadata, and encodes both into a
portable checksummed binary record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitUsage,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Recover != "statement" && opts.Recover != "reset" {
				return NewExitError(ExitUsage,
					fmt.Sprintf("invalid recovery policy %q: must be statement or reset", opts.Recover))
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|dot)")
	cmd.PersistentFlags().StringVar(&opts.Recover, "recover", "statement", "error recovery policy (statement|reset)")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewTokensCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewReverseCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nsql: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// readSource resolves a command's query input: an explicit --file path,
// "-" for stdin, or the joined positional arguments as query text.
func readSource(file string, args []string) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", WrapExitError(ExitIOErr, "reading stdin", err)
		}
		return string(data), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", WrapExitError(ExitIOErr, fmt.Sprintf("reading %s", file), err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", NewExitError(ExitUsage, "no query given: pass query text or --file")
	}
	source := args[0]
	for _, a := range args[1:] {
		source += " " + a
	}
	return source, nil
}
